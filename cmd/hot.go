package cmd

import (
	"context"
	"fmt"

	"github.com/lukman83/kidkazz-storefront/internal/models"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
	"github.com/lukman83/kidkazz-storefront/internal/ui"
	"github.com/spf13/cobra"
)

var hotCmd = &cobra.Command{
	Use:   "hot",
	Short: "List hot products",
	Long: `List hot products.

--shape full keeps every upstream field in upstream order. --shape records
and --shape encoded return the shuffled projection used by the storefront
carousels, decoded or as "~"-delimited strings.`,
	RunE: runHot,
}

func init() {
	hotCmd.Flags().Int("page", 1, "Page number")
	hotCmd.Flags().Int("page-size", 50, "Products per page (max 50)")
	hotCmd.Flags().Int64("category", 0, "Category id filter")
	hotCmd.Flags().String("sort", "", "Sort: SALE_PRICE_ASC, SALE_PRICE_DESC, LAST_VOLUME_ASC, LAST_VOLUME_DESC")
	hotCmd.Flags().Float64("min-price", 0, "Minimum sale price (default 5)")
	hotCmd.Flags().String("shape", "full", "Result shape: full, records, encoded")
	hotCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(hotCmd)
}

func runHot(cmd *cobra.Command, args []string) error {
	shape, _ := cmd.Flags().GetString("shape")
	switch shape {
	case "full", "records", "encoded":
	default:
		return fmt.Errorf("unknown shape %q (want full, records or encoded)", shape)
	}

	if err := initPlatforms(); err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	category, _ := cmd.Flags().GetInt64("category")
	sort, _ := cmd.Flags().GetString("sort")
	minPrice, _ := cmd.Flags().GetFloat64("min-price")
	format, _ := cmd.Flags().GetString("format")

	catalog, err := catalogFor(cmd)
	if err != nil {
		return err
	}

	opts := platform.HotOpts{
		CategoryID:   category,
		Page:         page,
		PageSize:     pageSize,
		Sort:         sort,
		MinSalePrice: minPrice,
	}

	spin := ui.NewSpinner()
	spin.Start("Fetching hot products...")
	ctx := platform.WithProgress(context.Background(), spin.Update)

	var products []models.Product
	var result any
	switch shape {
	case "records":
		products, err = catalog.HotProductRecords(ctx, opts)
		result = products
	case "encoded":
		var records []string
		records, err = catalog.EncodedHotProducts(ctx, opts)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("hot products failed: %w", err)
		}
		for _, r := range records {
			fmt.Fprintln(cmd.OutOrStdout(), r)
		}
		return nil
	default:
		var p *models.ProductPage
		p, err = catalog.HotProducts(ctx, opts)
		if p != nil {
			products, result = p.Products, p
		}
	}
	spin.Stop()
	if err != nil {
		return fmt.Errorf("hot products failed: %w", err)
	}

	return output(cmd, format, result, products)
}
