package main

import "github.com/lukman83/kidkazz-storefront/cmd"

func main() {
	cmd.Execute()
}
