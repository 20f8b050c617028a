package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lukman83/kidkazz-storefront/internal/platform"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// tools resolves the catalog by name on every call so a catalog
// registered after startup is picked up.
type tools struct {
	catalog string
}

func registerTools(s *server.MCPServer, catalogName string) {
	t := &tools{catalog: catalogName}

	// search_products
	searchTool := mcp.NewTool("search_products",
		mcp.WithDescription("Search affiliate products by keyword"),
		mcp.WithString("keywords",
			mcp.Required(),
			mcp.Description("Search keywords"),
		),
		mcp.WithNumber("category_id",
			mcp.Description("Category filter (default: all)"),
		),
		mcp.WithNumber("page",
			mcp.Description("First page number (default: 1)"),
		),
		mcp.WithNumber("pages",
			mcp.Description("Number of consecutive pages to fetch (default: 1)"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Products per page, max 50 (default: 50)"),
		),
		mcp.WithString("sort",
			mcp.Description("Sort order"),
			mcp.Enum("SALE_PRICE_ASC", "SALE_PRICE_DESC", "LAST_VOLUME_ASC", "LAST_VOLUME_DESC"),
		),
		mcp.WithNumber("min_sale_price",
			mcp.Description("Minimum sale price (default: 5)"),
		),
		mcp.WithNumber("max_sale_price",
			mcp.Description("Maximum sale price"),
		),
		mcp.WithString("currency",
			mcp.Description("Target currency, e.g. USD"),
		),
		mcp.WithString("language",
			mcp.Description("Target language, e.g. EN"),
		),
		mcp.WithString("country",
			mcp.Description("Ship-to country, e.g. US"),
		),
	)
	s.AddTool(searchTool, t.handleSearchProducts)

	// get_hot_products
	hotTool := mcp.NewTool("get_hot_products",
		mcp.WithDescription("List hot products. shape=full keeps every upstream field; records and encoded return a shuffled projection."),
		mcp.WithNumber("category_id",
			mcp.Description("Category filter (default: all)"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (default: 1)"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Products per page, max 50 (default: 50)"),
		),
		mcp.WithString("shape",
			mcp.Description("Response shape (default: full)"),
			mcp.Enum("full", "records", "encoded"),
		),
		mcp.WithString("currency",
			mcp.Description("Target currency, e.g. USD"),
		),
		mcp.WithString("language",
			mcp.Description("Target language, e.g. EN"),
		),
		mcp.WithString("country",
			mcp.Description("Ship-to country, e.g. US"),
		),
	)
	s.AddTool(hotTool, t.handleGetHotProducts)

	// list_categories
	categoriesTool := mcp.NewTool("list_categories",
		mcp.WithDescription("List product categories"),
	)
	s.AddTool(categoriesTool, t.handleListCategories)

	// product_detail
	detailTool := mcp.NewTool("product_detail",
		mcp.WithDescription("Get full product details by product id"),
		mcp.WithString("product_id",
			mcp.Required(),
			mcp.Description("Product id"),
		),
		mcp.WithString("currency",
			mcp.Description("Target currency, e.g. USD"),
		),
		mcp.WithString("language",
			mcp.Description("Target language, e.g. EN"),
		),
		mcp.WithString("country",
			mcp.Description("Destination country, e.g. US"),
		),
	)
	s.AddTool(detailTool, t.handleProductDetail)
}

func localeArgs(request mcp.CallToolRequest) platform.Locale {
	return platform.Locale{
		Currency: strings.ToUpper(request.GetString("currency", "")),
		Language: strings.ToUpper(request.GetString("language", "")),
		Country:  strings.ToUpper(request.GetString("country", "")),
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (t *tools) handleSearchProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keywords := strings.TrimSpace(request.GetString("keywords", ""))
	if keywords == "" {
		return mcp.NewToolResultError("keywords is required"), nil
	}

	catalog, err := platform.Get(t.catalog)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog error: %v", err)), nil
	}

	opts := platform.SearchOpts{
		Keywords:     keywords,
		CategoryID:   int64(request.GetInt("category_id", 0)),
		Page:         request.GetInt("page", 1),
		PageSize:     request.GetInt("page_size", 0),
		Sort:         request.GetString("sort", ""),
		MinSalePrice: request.GetFloat("min_sale_price", 0),
		MaxSalePrice: request.GetFloat("max_sale_price", 0),
		Locale:       localeArgs(request),
	}

	if pages := request.GetInt("pages", 1); pages > 1 {
		products, err := catalog.SearchPages(ctx, opts, pages)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
		}
		return jsonResult(products)
	}

	page, err := catalog.Search(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
	}
	return jsonResult(page)
}

func (t *tools) handleGetHotProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog, err := platform.Get(t.catalog)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog error: %v", err)), nil
	}

	opts := platform.HotOpts{
		CategoryID: int64(request.GetInt("category_id", 0)),
		Page:       request.GetInt("page", 1),
		PageSize:   request.GetInt("page_size", 0),
		Locale:     localeArgs(request),
	}

	switch shape := request.GetString("shape", "full"); shape {
	case "full":
		page, err := catalog.HotProducts(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("hot products error: %v", err)), nil
		}
		return jsonResult(page)
	case "records":
		products, err := catalog.HotProductRecords(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("hot products error: %v", err)), nil
		}
		return jsonResult(products)
	case "encoded":
		records, err := catalog.EncodedHotProducts(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("hot products error: %v", err)), nil
		}
		return mcp.NewToolResultText(strings.Join(records, "\n")), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown shape %q", shape)), nil
	}
}

func (t *tools) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog, err := platform.Get(t.catalog)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog error: %v", err)), nil
	}

	categories, err := catalog.Categories(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("categories error: %v", err)), nil
	}
	return jsonResult(categories)
}

func (t *tools) handleProductDetail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	productID := strings.TrimSpace(request.GetString("product_id", ""))
	if productID == "" {
		return mcp.NewToolResultError("product_id is required"), nil
	}

	catalog, err := platform.Get(t.catalog)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog error: %v", err)), nil
	}

	product, err := catalog.ProductDetail(ctx, platform.DetailOpts{
		ProductID: productID,
		Locale:    localeArgs(request),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("detail error: %v", err)), nil
	}
	return jsonResult(product)
}
