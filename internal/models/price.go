package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountPercent returns round((1 - sale/original) * 100) for two decimal
// price strings, e.g. "59.00" and "99.00" give 40.
func DiscountPercent(salePrice, originalPrice string) (int, error) {
	sale, err := decimal.NewFromString(salePrice)
	if err != nil {
		return 0, fmt.Errorf("parse sale price %q: %w", salePrice, err)
	}
	original, err := decimal.NewFromString(originalPrice)
	if err != nil {
		return 0, fmt.Errorf("parse original price %q: %w", originalPrice, err)
	}
	if !original.IsPositive() {
		return 0, fmt.Errorf("original price must be positive, got %s", originalPrice)
	}

	pct := decimal.NewFromInt(1).Sub(sale.DivRound(original, 8)).Mul(hundred).Round(0)
	return int(pct.IntPart()), nil
}

// DisplayDiscount is the discount label shown next to a product. The
// upstream label wins; otherwise it is computed from the two prices.
func (p Product) DisplayDiscount() string {
	if p.Discount != "" {
		return p.Discount
	}
	pct, err := DiscountPercent(p.SalePrice, p.OriginalPrice)
	if err != nil || pct <= 0 {
		return ""
	}
	return fmt.Sprintf("%d%%", pct)
}
