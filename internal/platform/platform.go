package platform

import (
	"context"
	"errors"

	"github.com/lukman83/kidkazz-storefront/internal/models"
)

var (
	// ErrNotFound means a well-formed lookup matched nothing.
	ErrNotFound = errors.New("product not found")

	// ErrInvalidArgument is returned before any network call when a
	// required argument is missing.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Locale selects the currency, language and ship-to country prices and
// titles are rendered for. Empty fields fall back to catalog defaults.
type Locale struct {
	Currency string
	Language string
	Country  string
}

type SearchOpts struct {
	Keywords     string
	CategoryID   int64
	Page         int
	PageSize     int
	Sort         string
	MinSalePrice float64
	MaxSalePrice float64
	Locale       Locale
}

type HotOpts struct {
	CategoryID   int64
	Page         int
	PageSize     int
	Sort         string
	MinSalePrice float64
	Locale       Locale
}

type DetailOpts struct {
	ProductID string
	Locale    Locale
}

// Catalog is a product source the storefront renders from.
//
// HotProducts returns the full upstream shape. HotProductRecords and
// EncodedHotProducts return the shuffled record projection, decoded and
// encoded respectively; their order differs on every call.
type Catalog interface {
	Search(ctx context.Context, opts SearchOpts) (*models.ProductPage, error)
	SearchPages(ctx context.Context, opts SearchOpts, pages int) ([]models.Product, error)
	HotProducts(ctx context.Context, opts HotOpts) (*models.ProductPage, error)
	HotProductRecords(ctx context.Context, opts HotOpts) ([]models.Product, error)
	EncodedHotProducts(ctx context.Context, opts HotOpts) ([]string, error)
	Categories(ctx context.Context) ([]models.Category, error)
	ProductDetail(ctx context.Context, opts DetailOpts) (*models.Product, error)
}
