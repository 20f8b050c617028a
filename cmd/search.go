package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/lukman83/kidkazz-storefront/internal/models"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
	"github.com/lukman83/kidkazz-storefront/internal/ui"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords]",
	Short: "Search products by keyword",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("page", 1, "First page number")
	searchCmd.Flags().Int("pages", 1, "Number of consecutive pages to fetch")
	searchCmd.Flags().Int("page-size", 50, "Products per page (max 50)")
	searchCmd.Flags().Int64("category", 0, "Category id filter")
	searchCmd.Flags().String("sort", "", "Sort: SALE_PRICE_ASC, SALE_PRICE_DESC, LAST_VOLUME_ASC, LAST_VOLUME_DESC")
	searchCmd.Flags().Float64("min-price", 0, "Minimum sale price (default 5)")
	searchCmd.Flags().Float64("max-price", 0, "Maximum sale price")
	searchCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := initPlatforms(); err != nil {
		return err
	}

	keywords := strings.Join(args, " ")
	page, _ := cmd.Flags().GetInt("page")
	pages, _ := cmd.Flags().GetInt("pages")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	category, _ := cmd.Flags().GetInt64("category")
	sort, _ := cmd.Flags().GetString("sort")
	minPrice, _ := cmd.Flags().GetFloat64("min-price")
	maxPrice, _ := cmd.Flags().GetFloat64("max-price")
	format, _ := cmd.Flags().GetString("format")

	catalog, err := catalogFor(cmd)
	if err != nil {
		return err
	}

	opts := platform.SearchOpts{
		Keywords:     keywords,
		CategoryID:   category,
		Page:         page,
		PageSize:     pageSize,
		Sort:         sort,
		MinSalePrice: minPrice,
		MaxSalePrice: maxPrice,
	}

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Searching '%s'...", keywords))
	ctx := platform.WithProgress(context.Background(), spin.Update)

	var products []models.Product
	var result any
	if pages > 1 {
		products, err = catalog.SearchPages(ctx, opts, pages)
		result = products
	} else {
		var p *models.ProductPage
		p, err = catalog.Search(ctx, opts)
		if p != nil {
			products, result = p.Products, p
		}
	}
	spin.Stop()
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return output(cmd, format, result, products)
}
