package aliexpress

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/lukman83/kidkazz-storefront/internal/models"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
	"golang.org/x/sync/errgroup"
)

// Catalog implements platform.Catalog on top of the affiliate API.
type Catalog struct {
	client        *Client
	maxConcurrent int

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewCatalog wraps client. A nil rng seeds a fresh generator; tests pass a
// seeded one to make the shuffled listings reproducible.
func NewCatalog(client *Client, maxConcurrent int, rng *rand.Rand) *Catalog {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Catalog{client: client, maxConcurrent: maxConcurrent, rng: rng}
}

var _ platform.Catalog = (*Catalog)(nil)

func (c *Catalog) Search(ctx context.Context, opts platform.SearchOpts) (*models.ProductPage, error) {
	platform.ReportProgress(ctx, fmt.Sprintf("Searching %q (page %d)...", opts.Keywords, max(opts.Page, 1)))
	return c.client.QueryProducts(ctx, opts)
}

// SearchPages fetches pages consecutive pages starting at opts.Page (or 1)
// concurrently and concatenates them in page order.
func (c *Catalog) SearchPages(ctx context.Context, opts platform.SearchOpts, pages int) ([]models.Product, error) {
	if pages <= 0 {
		pages = 1
	}
	first := max(opts.Page, 1)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)

	results := make([][]models.Product, pages)
	for i := 0; i < pages; i++ {
		g.Go(func() error {
			pageOpts := opts
			pageOpts.Page = first + i
			page, err := c.client.QueryProducts(ctx, pageOpts)
			if err != nil {
				return fmt.Errorf("page %d: %w", pageOpts.Page, err)
			}
			platform.ReportProgress(ctx, fmt.Sprintf("Fetched page %d (%d/%d, %d products)", pageOpts.Page, i+1, pages, len(page.Products)))
			results[i] = page.Products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return flatten(results), nil
}

// HotProducts returns hot products in the full shape, in upstream order.
func (c *Catalog) HotProducts(ctx context.Context, opts platform.HotOpts) (*models.ProductPage, error) {
	platform.ReportProgress(ctx, "Fetching hot products...")
	return c.client.DownloadHotProducts(ctx, opts)
}

// EncodedHotProducts returns hot products as shuffled records.
func (c *Catalog) EncodedHotProducts(ctx context.Context, opts platform.HotOpts) ([]string, error) {
	page, err := c.HotProducts(ctx, opts)
	if err != nil {
		return nil, err
	}
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return EncodeRecords(page.Products, c.rng), nil
}

// HotProductRecords returns hot products in the record projection: shop
// links, promotion link and SKUs are dropped, order is shuffled.
func (c *Catalog) HotProductRecords(ctx context.Context, opts platform.HotOpts) ([]models.Product, error) {
	records, err := c.EncodedHotProducts(ctx, opts)
	if err != nil {
		return nil, err
	}
	return DecodeRecords(records), nil
}

func (c *Catalog) Categories(ctx context.Context) ([]models.Category, error) {
	platform.ReportProgress(ctx, "Fetching categories...")
	return c.client.GetCategories(ctx)
}

func (c *Catalog) ProductDetail(ctx context.Context, opts platform.DetailOpts) (*models.Product, error) {
	platform.ReportProgress(ctx, fmt.Sprintf("Fetching product %s...", opts.ProductID))
	return c.client.GetProductDetail(ctx, opts)
}

func flatten(results [][]models.Product) []models.Product {
	var out []models.Product
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}
