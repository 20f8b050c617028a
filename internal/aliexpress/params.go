package aliexpress

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lukman83/kidkazz-storefront/internal/platform"
)

// Protocol constants sent with every call.
const (
	APIVersion      = "2.0"
	ResponseFormat  = "json"
	SignMethod      = "md5"
	PartnerID       = "top-sdk-go-20240101"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Remote method names.
const (
	MethodProductQuery       = "aliexpress.affiliate.product.query"
	MethodHotProductDownload = "aliexpress.affiliate.hotproduct.download"
	MethodCategoryGet        = "aliexpress.affiliate.category.get"
	MethodProductDetail      = "aliexpress.affiliate.productdetail.get"
)

// Defaults applied to fields the caller leaves at their zero value.
const (
	DefaultMinSalePrice = 5
	DefaultCategoryID   = 0
	DefaultPageSize     = 50
	DefaultPage         = 1
	DefaultSort         = "LAST_VOLUME_DESC"
	DefaultCurrency     = "USD"
	DefaultLanguage     = "EN"
	DefaultCountry      = "US"
)

// Credentials identify the affiliate account. Secret only feeds the
// signature and is never sent.
type Credentials struct {
	AppKey       string
	Secret       string
	AppSignature string
	TrackingID   string
}

func (c Credentials) validate() error {
	var errs []error
	if c.AppKey == "" {
		errs = append(errs, errors.New("app key is empty"))
	}
	if c.Secret == "" {
		errs = append(errs, errors.New("app secret is empty"))
	}
	if c.AppSignature == "" {
		errs = append(errs, errors.New("app signature is empty"))
	}
	if c.TrackingID == "" {
		errs = append(errs, errors.New("tracking id is empty"))
	}
	return errors.Join(errs...)
}

// ParamBuilder assembles the unsigned parameter bag for each operation.
type ParamBuilder struct {
	creds  Credentials
	locale platform.Locale
	now    func() time.Time
}

// NewParamBuilder returns a builder using locale for fields the caller
// omits. A nil now uses time.Now.
func NewParamBuilder(creds Credentials, locale platform.Locale, now func() time.Time) *ParamBuilder {
	if locale.Currency == "" {
		locale.Currency = DefaultCurrency
	}
	if locale.Language == "" {
		locale.Language = DefaultLanguage
	}
	if locale.Country == "" {
		locale.Country = DefaultCountry
	}
	if now == nil {
		now = time.Now
	}
	return &ParamBuilder{creds: creds, locale: locale, now: now}
}

func (b *ParamBuilder) common(method string) Params {
	return Params{
		"method":        method,
		"app_key":       b.creds.AppKey,
		"app_signature": b.creds.AppSignature,
		"tracking_id":   b.creds.TrackingID,
		"v":             APIVersion,
		"format":        ResponseFormat,
		"sign_method":   SignMethod,
		"partner_id":    PartnerID,
		"timestamp":     b.now().UTC().Format(TimestampLayout),
	}
}

func (b *ParamBuilder) localeOf(l platform.Locale) platform.Locale {
	if l.Currency == "" {
		l.Currency = b.locale.Currency
	}
	if l.Language == "" {
		l.Language = b.locale.Language
	}
	if l.Country == "" {
		l.Country = b.locale.Country
	}
	return l
}

// ProductQuery builds a keyword search.
func (b *ParamBuilder) ProductQuery(opts platform.SearchOpts) Params {
	p := b.common(MethodProductQuery)
	b.listing(p, opts.CategoryID, opts.Page, opts.PageSize, opts.Sort, opts.MinSalePrice, opts.Locale)
	if opts.Keywords != "" {
		p["keywords"] = opts.Keywords
	}
	if opts.MaxSalePrice > 0 {
		p["max_sale_price"] = opts.MaxSalePrice
	}
	return p
}

// HotProductDownload builds a hot-product listing.
func (b *ParamBuilder) HotProductDownload(opts platform.HotOpts) Params {
	p := b.common(MethodHotProductDownload)
	b.listing(p, opts.CategoryID, opts.Page, opts.PageSize, opts.Sort, opts.MinSalePrice, opts.Locale)
	return p
}

// CategoryGet builds the category list call.
func (b *ParamBuilder) CategoryGet() Params {
	return b.common(MethodCategoryGet)
}

// ProductDetail builds a detail lookup for one product id.
func (b *ParamBuilder) ProductDetail(opts platform.DetailOpts) Params {
	p := b.common(MethodProductDetail)
	l := b.localeOf(opts.Locale)
	p["product_ids"] = opts.ProductID
	p["target_currency"] = l.Currency
	p["target_language"] = l.Language
	p["country"] = l.Country
	return p
}

// listing fills the paging, sort, price floor, category and locale fields
// shared by the listing operations. Category 0 means unfiltered and is not
// sent.
func (b *ParamBuilder) listing(p Params, categoryID int64, page, pageSize int, sort string, minPrice float64, locale platform.Locale) {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if sort == "" {
		sort = DefaultSort
	}
	if minPrice <= 0 {
		minPrice = DefaultMinSalePrice
	}
	if categoryID != DefaultCategoryID {
		p["category_ids"] = strconv.FormatInt(categoryID, 10)
	}
	l := b.localeOf(locale)

	p["page_no"] = page
	p["page_size"] = pageSize
	p["sort"] = sort
	p["min_sale_price"] = minPrice
	p["target_currency"] = l.Currency
	p["target_language"] = l.Language
	p["ship_to_country"] = l.Country
}

func methodOf(p Params) (string, error) {
	m, ok := p["method"].(string)
	if !ok || m == "" {
		return "", fmt.Errorf("parameter bag has no method")
	}
	return m, nil
}
