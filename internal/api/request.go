package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
)

// Shapes a hot-product listing can be returned in.
const (
	ShapeFull    = "full"
	ShapeRecords = "records"
	ShapeEncoded = "encoded"
)

const maxBodyBytes = 1 << 20

// LocaleFields select the currency, language and country of a response.
type LocaleFields struct {
	TargetCurrency string `json:"target_currency" validate:"omitempty,len=3,alpha"`
	TargetLanguage string `json:"target_language" validate:"omitempty,min=2,max=5"`
	Country        string `json:"country" validate:"omitempty,len=2,alpha"`
}

func (l LocaleFields) locale() platform.Locale {
	return platform.Locale{
		Currency: strings.ToUpper(l.TargetCurrency),
		Language: strings.ToUpper(l.TargetLanguage),
		Country:  strings.ToUpper(l.Country),
	}
}

// ListingFields are the paging and filter fields shared by listings.
type ListingFields struct {
	CategoryID   int64   `json:"category_id" validate:"gte=0"`
	PageNo       int     `json:"page_no" validate:"gte=0"`
	PageSize     int     `json:"page_size" validate:"gte=0,lte=50"`
	Sort         string  `json:"sort" validate:"omitempty,oneof=SALE_PRICE_ASC SALE_PRICE_DESC LAST_VOLUME_ASC LAST_VOLUME_DESC"`
	MinSalePrice float64 `json:"min_sale_price" validate:"gte=0"`
}

// HotProductsRequest is the query or JSON body of /api/hot-products.
type HotProductsRequest struct {
	ListingFields
	LocaleFields
	Shape string `json:"shape" validate:"omitempty,oneof=full records encoded"`
}

func (r HotProductsRequest) opts() platform.HotOpts {
	return platform.HotOpts{
		CategoryID:   r.CategoryID,
		Page:         r.PageNo,
		PageSize:     r.PageSize,
		Sort:         r.Sort,
		MinSalePrice: r.MinSalePrice,
		Locale:       r.locale(),
	}
}

// SearchRequest is the query or JSON body of /api/products/search. Either
// keywords or a category is required.
type SearchRequest struct {
	ListingFields
	LocaleFields
	Keywords     string  `json:"keywords" validate:"required_without=CategoryID,max=256"`
	MaxSalePrice float64 `json:"max_sale_price" validate:"gte=0"`
}

func (r SearchRequest) opts() platform.SearchOpts {
	return platform.SearchOpts{
		Keywords:     strings.TrimSpace(r.Keywords),
		CategoryID:   r.CategoryID,
		Page:         r.PageNo,
		PageSize:     r.PageSize,
		Sort:         r.Sort,
		MinSalePrice: r.MinSalePrice,
		MaxSalePrice: r.MaxSalePrice,
		Locale:       r.locale(),
	}
}

// DetailRequest is the query of /api/products/detail.
type DetailRequest struct {
	LocaleFields
	ProductID string `json:"product_id" validate:"required,numeric"`
}

// AnnouncementRequest is the JSON body of POST /api/announcement.
type AnnouncementRequest struct {
	Text string `json:"text" validate:"max=2000"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind fills dst from the JSON body on POST and from the query string
// otherwise, then validates it.
func (s *Server) bind(r *http.Request, dst any) error {
	if r.Method == http.MethodPost {
		if err := decodeJSONBody(r, dst); err != nil {
			return err
		}
	} else if err := s.decodeQuery(r.URL.Query(), dst); err != nil {
		return err
	}
	return s.validate.Struct(dst)
}

func decodeJSONBody(r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return badRequest("content type must be application/json")
		}
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest("decode body: %v", err)
	}
	return nil
}

// newQueryDecoder reads query parameters by the same json names the
// bodies use.
func newQueryDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName("json")
	return d
}

// decodeQuery fills dst from q. Blank values are dropped so they leave
// the field at its zero value.
func (s *Server) decodeQuery(q url.Values, dst any) error {
	values := make(url.Values, len(q))
	for k, vs := range q {
		if v := strings.TrimSpace(vs[0]); v != "" {
			values.Set(k, v)
		}
	}
	if err := s.query.Decode(dst, values); err != nil {
		var decErrs form.DecodeErrors
		if !errors.As(err, &decErrs) {
			return badRequest("decode query: %v", err)
		}
		fields := make([]string, 0, len(decErrs))
		for name := range decErrs {
			fields = append(fields, name)
		}
		slices.Sort(fields)
		return badRequest("malformed %s", strings.Join(fields, ", "))
	}
	return nil
}
