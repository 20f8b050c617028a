package cmd

import (
	"context"
	"fmt"

	"github.com/lukman83/kidkazz-storefront/internal/models"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
	"github.com/lukman83/kidkazz-storefront/internal/ui"
	"github.com/spf13/cobra"
)

var detailCmd = &cobra.Command{
	Use:   "detail [product-id]",
	Short: "Show one product with its SKUs",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetail,
}

func init() {
	detailCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(detailCmd)
}

func runDetail(cmd *cobra.Command, args []string) error {
	if err := initPlatforms(); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")

	catalog, err := catalogFor(cmd)
	if err != nil {
		return err
	}

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Fetching product %s...", args[0]))
	ctx := platform.WithProgress(context.Background(), spin.Update)
	product, err := catalog.ProductDetail(ctx, platform.DetailOpts{ProductID: args[0]})
	spin.Stop()
	if err != nil {
		return fmt.Errorf("detail failed: %w", err)
	}

	if format != "table" {
		return writeJSON(cmd.OutOrStdout(), product)
	}
	printProductsTable(cmd.OutOrStdout(), []models.Product{*product})
	printSKUs(cmd.OutOrStdout(), product.SKUs)
	return nil
}
