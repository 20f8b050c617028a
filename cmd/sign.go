package cmd

import (
	"fmt"
	"strings"

	"github.com/lukman83/kidkazz-storefront/config"
	"github.com/lukman83/kidkazz-storefront/internal/aliexpress"
	"github.com/spf13/cobra"
)

var signCmd = &cobra.Command{
	Use:   "sign key=value...",
	Short: "Print the request signature for a parameter set",
	Long: `Print the request signature for a parameter set, signed with
$AE_APP_SECRET. Useful to debug "IncompleteSignature" errors against a
request captured elsewhere.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSign,
}

func init() {
	signCmd.Flags().Bool("query", false, "Print the full signed query string instead")
	rootCmd.AddCommand(signCmd)
}

func runSign(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(cfg.AppSecret) == "" {
		return &config.MissingEnvError{Names: []string{config.EnvAppSecret}}
	}

	params, err := parseParams(args)
	if err != nil {
		return err
	}
	sign := aliexpress.Sign(params, cfg.AppSecret)

	if query, _ := cmd.Flags().GetBool("query"); query {
		vals := params.Values()
		vals.Set("sign", sign)
		fmt.Fprintln(cmd.OutOrStdout(), vals.Encode())
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), sign)
	return nil
}

// parseParams reads "key=value" arguments. The value may be empty or
// contain "=".
func parseParams(args []string) (aliexpress.Params, error) {
	params := make(aliexpress.Params, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q: want key=value", arg)
		}
		params[k] = v
	}
	return params, nil
}
