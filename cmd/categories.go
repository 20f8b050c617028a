package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/lukman83/kidkazz-storefront/internal/models"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
	"github.com/lukman83/kidkazz-storefront/internal/ui"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	if err := initPlatforms(); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")

	catalog, err := catalogFor(cmd)
	if err != nil {
		return err
	}

	spin := ui.NewSpinner()
	spin.Start("Fetching categories...")
	ctx := platform.WithProgress(context.Background(), spin.Update)
	categories, err := catalog.Categories(ctx)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("categories failed: %w", err)
	}

	if format != "table" {
		return writeJSON(cmd.OutOrStdout(), categories)
	}
	if len(categories) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No categories found.")
		return nil
	}
	printCategoryTree(cmd.OutOrStdout(), categories)
	return nil
}

// categoryTree groups second-level categories under their parents, both
// sorted by name. Children whose parent is not listed become roots.
func categoryTree(categories []models.Category) (roots []models.Category, children map[int64][]models.Category) {
	ids := make(map[int64]bool, len(categories))
	for _, c := range categories {
		ids[c.ID] = true
	}

	children = make(map[int64][]models.Category)
	for _, c := range categories {
		if c.ParentID != 0 && ids[c.ParentID] {
			children[c.ParentID] = append(children[c.ParentID], c)
			continue
		}
		roots = append(roots, c)
	}

	byName := func(list []models.Category) {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	byName(roots)
	for _, list := range children {
		byName(list)
	}
	return roots, children
}
