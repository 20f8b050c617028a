package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lukman83/kidkazz-storefront/internal/models"
	"github.com/spf13/cobra"
)

// output prints result as JSON, or products as a table when format is
// "table".
func output(cmd *cobra.Command, format string, result any, products []models.Product) error {
	w := cmd.OutOrStdout()
	switch format {
	case "table":
		if len(products) == 0 {
			fmt.Fprintln(w, "No products found.")
			return nil
		}
		printProductsTable(w, products)
		return nil
	case "json", "":
		return writeJSON(w, result)
	default:
		return fmt.Errorf("unknown format %q (want json or table)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printProductsTable prints products in a human-friendly card layout.
func printProductsTable(w io.Writer, products []models.Product) {
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, " %d. %s\n", i+1, truncate(p.Title, 90))

		// Price line with optional original price and discount
		priceLine := "    Price: " + formatPrice(p.SalePrice, p.Currency)
		if d := p.DisplayDiscount(); d != "" && p.OriginalPrice != "" && p.OriginalPrice != p.SalePrice {
			priceLine += fmt.Sprintf("  (was %s, -%s)", formatPrice(p.OriginalPrice, p.Currency), strings.TrimPrefix(d, "-"))
		}
		if p.Shop.Name != "" {
			priceLine += "  |  Shop: " + p.Shop.Name
		}
		fmt.Fprintln(w, priceLine)

		meta := []string{"Rating: " + formatStars(p.EvaluateRate)}
		if p.Volume > 0 {
			meta = append(meta, fmt.Sprintf("Sold: %d", p.Volume))
		}
		fmt.Fprintf(w, "    %s\n", strings.Join(meta, "  |  "))

		if crumb := formatBreadcrumb(p.FirstLevelCategory, p.SecondLevelCategory); crumb != "" {
			fmt.Fprintf(w, "    Category: %s\n", crumb)
		}
		if p.PromotionLink != "" {
			fmt.Fprintf(w, "    %s\n", p.PromotionLink)
		} else if p.ID != "" {
			fmt.Fprintf(w, "    ID: %s\n", p.ID)
		}
	}
}

func printSKUs(w io.Writer, skus []models.SKU) {
	if len(skus) == 0 {
		return
	}
	fmt.Fprintf(w, "\n    Variants (%d):\n", len(skus))
	for _, s := range skus {
		props := make([]string, 0, len(s.Properties))
		for _, p := range s.Properties {
			props = append(props, p.Name+": "+p.Value)
		}
		label := strings.Join(props, ", ")
		if label == "" {
			label = s.ID
		}
		fmt.Fprintf(w, "     - %-40s %10s  (%d in stock)\n", truncate(label, 40), s.Price, s.AvailableQuantity)
	}
}

func printCategoryTree(w io.Writer, categories []models.Category) {
	roots, children := categoryTree(categories)
	for _, r := range roots {
		fmt.Fprintf(w, " %-10d %s\n", r.ID, r.Name)
		for _, c := range children[r.ID] {
			fmt.Fprintf(w, "   %-10d  └ %s\n", c.ID, c.Name)
		}
	}
}

// formatPrice prefixes the amount with its currency, "59.00" → "USD 59.00".
func formatPrice(amount, currency string) string {
	if amount == "" {
		return "-"
	}
	if currency == "" {
		return amount
	}
	return currency + " " + amount
}

// formatStars renders an evaluation rate as "★ 4.8 (96.5%)", or "n/a" when
// the rate holds no number.
func formatStars(rate string) string {
	stars, ok := models.RateStars(rate)
	if !ok {
		return "n/a"
	}
	s := fmt.Sprintf("★ %.1f", stars)
	if strings.Contains(rate, "%") {
		s += " (" + rate + ")"
	}
	return s
}

// formatBreadcrumb joins the category names, "Electronics > Earphones".
func formatBreadcrumb(first, second models.Category) string {
	var parts []string
	for _, c := range []models.Category{first, second} {
		if c.Name != "" {
			parts = append(parts, c.Name)
		}
	}
	return strings.Join(parts, " > ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
