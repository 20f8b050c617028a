package aliexpress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lukman83/kidkazz-storefront/internal/models"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
)

var (
	// ErrNotFound is returned when a well-formed response lists no product
	// for a detail lookup.
	ErrNotFound = platform.ErrNotFound

	// ErrMalformedEnvelope is returned when a 2xx body lacks the
	// {method}_response.resp_result.result path.
	ErrMalformedEnvelope = errors.New("malformed response envelope")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("affiliate API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("affiliate API returned status %d: %s", e.StatusCode, e.Body)
}

// APIError is the remote's error_response, e.g. for an invalid signature.
type APIError struct {
	Code       string
	Message    string
	SubCode    string
	SubMessage string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("affiliate API error %s: %s", e.Code, e.Message)
	if e.SubCode != "" || e.SubMessage != "" {
		msg += fmt.Sprintf(" (%s: %s)", e.SubCode, e.SubMessage)
	}
	return msg
}

func (e *APIError) UnmarshalJSON(data []byte) error {
	var raw struct {
		Code       flexString `json:"code"`
		Message    string     `json:"msg"`
		SubCode    flexString `json:"sub_code"`
		SubMessage string     `json:"sub_msg"`
		RequestID  string     `json:"request_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = APIError{
		Code:       string(raw.Code),
		Message:    raw.Message,
		SubCode:    string(raw.SubCode),
		SubMessage: raw.SubMessage,
		RequestID:  raw.RequestID,
	}
	return nil
}

// responseKey maps "aliexpress.affiliate.product.query" to
// "aliexpress_affiliate_product_query_response".
func responseKey(method string) string {
	return strings.ReplaceAll(method, ".", "_") + "_response"
}

type respResult struct {
	RespCode int             `json:"resp_code"`
	RespMsg  string          `json:"resp_msg"`
	Result   json.RawMessage `json:"result"`
}

// unwrapEnvelope returns the result object of a successful call.
func unwrapEnvelope(method string, body []byte) (json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	if raw, ok := top["error_response"]; ok {
		apiErr := &APIError{}
		if err := json.Unmarshal(raw, apiErr); err != nil {
			return nil, fmt.Errorf("%w: error_response: %v", ErrMalformedEnvelope, err)
		}
		return nil, apiErr
	}

	key := responseKey(method)
	raw, ok := top[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedEnvelope, key)
	}

	var wrapper struct {
		RespResult *respResult `json:"resp_result"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEnvelope, key, err)
	}
	if wrapper.RespResult == nil {
		return nil, fmt.Errorf("%w: missing %s.resp_result", ErrMalformedEnvelope, key)
	}

	rr := wrapper.RespResult
	if len(rr.Result) == 0 || bytes.Equal(rr.Result, []byte("null")) {
		return nil, fmt.Errorf("%w: missing %s.resp_result.result (resp_code %d: %s)",
			ErrMalformedEnvelope, key, rr.RespCode, rr.RespMsg)
	}
	return rr.Result, nil
}

// flexString accepts a JSON string or number; the API is inconsistent
// about ids and prices.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexInt accepts a JSON number or a numeric string; anything else is 0.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	n, err := strconv.ParseInt(string(s), 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// stringList accepts {"string": [...]} as well as a bare array.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '[' {
		var s []string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = s
		return nil
	}
	var wrapped struct {
		String []string `json:"string"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*l = wrapped.String
	return nil
}

type apiProduct struct {
	ProductID               flexString `json:"product_id"`
	ProductTitle            string     `json:"product_title"`
	ProductMainImageURL     string     `json:"product_main_image_url"`
	ProductSmallImageURLs   stringList `json:"product_small_image_urls"`
	ProductVideoURL         string     `json:"product_video_url"`
	SalePrice               flexString `json:"sale_price"`
	OriginalPrice           flexString `json:"original_price"`
	SalePriceCurrency       string     `json:"sale_price_currency"`
	TargetSalePrice         flexString `json:"target_sale_price"`
	TargetOriginalPrice     flexString `json:"target_original_price"`
	TargetSalePriceCurrency string     `json:"target_sale_price_currency"`
	Discount                string     `json:"discount"`
	LastestVolume           flexInt    `json:"lastest_volume"`
	ShopID                  flexString `json:"shop_id"`
	ShopName                string     `json:"shop_name"`
	ShopURL                 string     `json:"shop_url"`
	FirstLevelCategoryID    flexInt    `json:"first_level_category_id"`
	FirstLevelCategoryName  string     `json:"first_level_category_name"`
	SecondLevelCategoryID   flexInt    `json:"second_level_category_id"`
	SecondLevelCategoryName string     `json:"second_level_category_name"`
	SKUID                   flexString `json:"sku_id"`
	EvaluateRate            string     `json:"evaluate_rate"`
	PromotionLink           string     `json:"promotion_link"`
	SKUInfos                struct {
		SKUInfo []apiSKU `json:"product_sku_info"`
	} `json:"product_sku_infos"`
}

type apiSKU struct {
	SKUID             flexString `json:"sku_id"`
	SKUPrice          flexString `json:"sku_price"`
	SKUAvailableStock flexInt    `json:"sku_available_stock"`
	SKUProperties     struct {
		SKUProperty []struct {
			PropertyName  string `json:"property_name"`
			PropertyValue string `json:"property_value"`
		} `json:"sku_property"`
	} `json:"sku_properties"`
}

type productListResult struct {
	CurrentPageNo      int `json:"current_page_no"`
	CurrentRecordCount int `json:"current_record_count"`
	TotalRecordCount   int `json:"total_record_count"`
	Products           struct {
		Product []apiProduct `json:"product"`
	} `json:"products"`
}

type categoryResult struct {
	TotalResultCount int `json:"total_result_count"`
	Categories       struct {
		Category []struct {
			CategoryID       flexInt `json:"category_id"`
			CategoryName     string  `json:"category_name"`
			ParentCategoryID flexInt `json:"parent_category_id"`
		} `json:"category"`
	} `json:"categories"`
}

// toProduct reshapes the full upstream product. Target (locale-converted)
// prices win over base prices only when both are present, so the sale and
// original price always share one currency.
func (ap apiProduct) toProduct() models.Product {
	salePrice, originalPrice, currency := string(ap.SalePrice), string(ap.OriginalPrice), ap.SalePriceCurrency
	if ap.TargetSalePrice != "" && ap.TargetOriginalPrice != "" {
		salePrice, originalPrice = string(ap.TargetSalePrice), string(ap.TargetOriginalPrice)
		currency = ap.TargetSalePriceCurrency
	}

	p := models.Product{
		ID:             string(ap.ProductID),
		Title:          ap.ProductTitle,
		MainImageURL:   ap.ProductMainImageURL,
		SmallImageURLs: []string(ap.ProductSmallImageURLs),
		VideoURL:       ap.ProductVideoURL,
		SalePrice:      salePrice,
		OriginalPrice:  originalPrice,
		Discount:       ap.Discount,
		Currency:       currency,
		Volume:         int(ap.LastestVolume),
		Shop: models.Shop{
			ID:   string(ap.ShopID),
			Name: ap.ShopName,
			URL:  ap.ShopURL,
		},
		FirstLevelCategory: models.Category{
			ID:   int64(ap.FirstLevelCategoryID),
			Name: ap.FirstLevelCategoryName,
		},
		SecondLevelCategory: models.Category{
			ID:       int64(ap.SecondLevelCategoryID),
			Name:     ap.SecondLevelCategoryName,
			ParentID: int64(ap.FirstLevelCategoryID),
		},
		SKUID:         string(ap.SKUID),
		EvaluateRate:  ap.EvaluateRate,
		Stars:         models.StarsFromRate(ap.EvaluateRate),
		PromotionLink: ap.PromotionLink,
	}

	for _, s := range ap.SKUInfos.SKUInfo {
		sku := models.SKU{
			ID:                string(s.SKUID),
			Price:             string(s.SKUPrice),
			AvailableQuantity: int(s.SKUAvailableStock),
		}
		for _, prop := range s.SKUProperties.SKUProperty {
			sku.Properties = append(sku.Properties, models.SKUProperty{
				Name:  prop.PropertyName,
				Value: prop.PropertyValue,
			})
		}
		p.SKUs = append(p.SKUs, sku)
	}
	return p
}

func decodeProductPage(result json.RawMessage, pageSize int) (*models.ProductPage, error) {
	var r productListResult
	if err := json.Unmarshal(result, &r); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	page := &models.ProductPage{
		Products:     make([]models.Product, 0, len(r.Products.Product)),
		TotalRecords: r.TotalRecordCount,
		PageNo:       r.CurrentPageNo,
		PageSize:     pageSize,
	}
	for _, ap := range r.Products.Product {
		page.Products = append(page.Products, ap.toProduct())
	}
	return page, nil
}

func decodeCategories(result json.RawMessage) ([]models.Category, error) {
	var r categoryResult
	if err := json.Unmarshal(result, &r); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	cats := make([]models.Category, 0, len(r.Categories.Category))
	for _, c := range r.Categories.Category {
		cats = append(cats, models.Category{
			ID:       int64(c.CategoryID),
			Name:     c.CategoryName,
			ParentID: int64(c.ParentCategoryID),
		})
	}
	return cats, nil
}
