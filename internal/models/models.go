package models

// Product is the single product shape used across the storefront.
//
// Products come from two paths: the full upstream payload (every field,
// including shop links, promotion link and SKUs) and the record projection
// decoded from the "~"-delimited encoding, which only fills the fields the
// encoding carries. Field names are identical in both. EvaluateRate is the
// positive-feedback percentage as reported upstream ("96.5%"); Stars is the
// same figure on a 0-5 scale.
type Product struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	MainImageURL   string   `json:"main_image_url,omitempty"`
	SmallImageURLs []string `json:"small_image_urls,omitempty"`
	VideoURL       string   `json:"video_url,omitempty"`
	SalePrice      string   `json:"sale_price"`
	OriginalPrice  string   `json:"original_price,omitempty"`
	Discount       string   `json:"discount,omitempty"`
	Currency       string   `json:"currency,omitempty"`
	Volume         int      `json:"volume"`
	Shop           Shop     `json:"shop"`

	FirstLevelCategory  Category `json:"first_level_category"`
	SecondLevelCategory Category `json:"second_level_category"`

	SKUID         string  `json:"sku_id,omitempty"`
	EvaluateRate  string  `json:"evaluate_rate,omitempty"`
	Stars         float64 `json:"stars"`
	PromotionLink string  `json:"promotion_link,omitempty"`
	SKUs          []SKU   `json:"skus,omitempty"`
}

type Shop struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id,omitempty"`
}

// SKU is one purchasable variant of a product.
type SKU struct {
	ID                string        `json:"id"`
	Price             string        `json:"price"`
	AvailableQuantity int           `json:"available_quantity"`
	Properties        []SKUProperty `json:"properties,omitempty"`
}

type SKUProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products     []Product `json:"products"`
	TotalRecords int       `json:"total_records"`
	PageNo       int       `json:"page_no"`
	PageSize     int       `json:"page_size"`
}
