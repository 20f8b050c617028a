package cmd

import (
	"fmt"

	mcpserver "github.com/lukman83/kidkazz-storefront/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := initPlatforms(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting KidKazz MCP server on stdio...")

	catalog, _ := cmd.Flags().GetString("catalog")
	if err := mcpserver.Serve(catalog); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
