package aliexpress

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/lukman83/kidkazz-storefront/internal/models"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productListBody = `{
  "aliexpress_affiliate_hotproduct_download_response": {
    "resp_result": {
      "resp_code": 200,
      "resp_msg": "success",
      "result": {
        "current_page_no": 1,
        "current_record_count": 2,
        "total_record_count": 2,
        "products": {
          "product": [
            {
              "product_id": 1005006170839511,
              "product_title": "Wireless Earbuds",
              "product_main_image_url": "https://ae01.alicdn.com/main.jpg",
              "product_small_image_urls": {"string": ["https://ae01.alicdn.com/a.jpg"]},
              "sale_price": "59.00",
              "original_price": "99.00",
              "sale_price_currency": "USD",
              "lastest_volume": 1234,
              "shop_id": 12000,
              "shop_name": "Acme Store",
              "shop_url": "https://acme.aliexpress.com",
              "first_level_category_id": 44,
              "first_level_category_name": "Consumer Electronics",
              "second_level_category_id": "63705",
              "second_level_category_name": "Earphones",
              "sku_id": "12000036",
              "evaluate_rate": "96.5%",
              "promotion_link": "https://s.click.aliexpress.com/e/x"
            },
            {
              "product_id": "2",
              "product_title": "Desk Lamp",
              "target_sale_price": "20.00",
              "target_original_price": "25.00",
              "target_sale_price_currency": "EUR",
              "sale_price": "21.00",
              "original_price": "26.00",
              "discount": "20%",
              "lastest_volume": "88",
              "evaluate_rate": "90%"
            }
          ]
        }
      }
    }
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(testCreds, ClientOptions{
		Endpoint:   srv.URL,
		HTTPClient: srv.Client(),
		Now:        fixedClock,
	})
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsMissingCredentials(t *testing.T) {
	_, err := NewClient(Credentials{AppKey: "k"}, ClientOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "affiliate credentials")

	_, err = NewClient(testCreds, ClientOptions{Endpoint: "not a url"})
	assert.Error(t, err)
}

func TestCallSendsSignedGET(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		got = r.URL.Query()
		_, _ = w.Write([]byte(productListBody))
	})

	page, err := c.DownloadHotProducts(context.Background(), platform.HotOpts{})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)

	require.NotNil(t, got)
	assert.Equal(t, MethodHotProductDownload, got.Get("method"))
	assert.False(t, got.Has("app_secret"))
	for k, vs := range got {
		for _, v := range vs {
			assert.NotEqual(t, testCreds.Secret, v, "secret sent in %s", k)
		}
	}

	// The sign the server received must match one recomputed from the
	// other query parameters.
	sent := got.Get("sign")
	unsigned := Params{}
	for k := range got {
		if k != "sign" {
			unsigned[k] = got.Get(k)
		}
	}
	assert.Equal(t, Sign(unsigned, testCreds.Secret), sent)
}

func TestDownloadHotProductsReshapes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(productListBody))
	})

	page, err := c.DownloadHotProducts(context.Background(), platform.HotOpts{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalRecords)
	assert.Equal(t, 1, page.PageNo)
	assert.Equal(t, 10, page.PageSize)

	first := page.Products[0]
	assert.Equal(t, "1005006170839511", first.ID)
	assert.Equal(t, 1234, first.Volume)
	assert.Equal(t, []string{"https://ae01.alicdn.com/a.jpg"}, first.SmallImageURLs)
	assert.Equal(t, models.Shop{ID: "12000", Name: "Acme Store", URL: "https://acme.aliexpress.com"}, first.Shop)
	assert.Equal(t, int64(63705), first.SecondLevelCategory.ID)
	assert.Equal(t, int64(44), first.SecondLevelCategory.ParentID)
	assert.Equal(t, "https://s.click.aliexpress.com/e/x", first.PromotionLink)
	assert.InDelta(t, 4.8, first.Stars, 1e-9)
	assert.Equal(t, "USD", first.Currency)
	assert.Equal(t, "40%", first.DisplayDiscount())

	second := page.Products[1]
	assert.Equal(t, "20.00", second.SalePrice, "target price wins")
	assert.Equal(t, "25.00", second.OriginalPrice)
	assert.Equal(t, "EUR", second.Currency)
	assert.Equal(t, 88, second.Volume)
	assert.Equal(t, "20%", second.DisplayDiscount())
}

func TestCallNon2xx(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	})

	_, err := c.GetCategories(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "gateway down", statusErr.Body)
}

func TestCallErrorResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error_response":{"code":"IncompleteSignature","msg":"The request signature does not conform to platform standards","request_id":"abc"}}`))
	})

	_, err := c.GetCategories(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "IncompleteSignature", apiErr.Code)
	assert.Equal(t, "abc", apiErr.RequestID)
}

func TestCallMalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>`},
		{"wrong key", `{"other_response":{}}`},
		{"no resp_result", `{"aliexpress_affiliate_category_get_response":{}}`},
		{"no result", `{"aliexpress_affiliate_category_get_response":{"resp_result":{"resp_code":402,"resp_msg":"bad"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.GetCategories(context.Background())
			assert.ErrorIs(t, err, ErrMalformedEnvelope)
		})
	}
}

func TestGetCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, MethodCategoryGet, r.URL.Query().Get("method"))
		_, _ = w.Write([]byte(`{"aliexpress_affiliate_category_get_response":{"resp_result":{"resp_code":200,"result":{
			"total_result_count":2,
			"categories":{"category":[
				{"category_id":3,"category_name":"Apparel"},
				{"category_id":"200000345","category_name":"Dresses","parent_category_id":3}
			]}}}}}`))
	})

	cats, err := c.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Category{
		{ID: 3, Name: "Apparel"},
		{ID: 200000345, Name: "Dresses", ParentID: 3},
	}, cats)
}

const emptyQueryBody = `{"aliexpress_affiliate_product_query_response":{"resp_result":{"resp_code":200,"result":{"current_record_count":0,"total_record_count":0}}}}`

func TestQueryProductsEmptyIsEmptyPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nothing matches", r.URL.Query().Get("keywords"))
		_, _ = w.Write([]byte(emptyQueryBody))
	})

	page, err := c.QueryProducts(context.Background(), platform.SearchOpts{Keywords: "nothing matches"})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.NotNil(t, page.Products)
}

func TestGetProductDetail(t *testing.T) {
	body := `{"aliexpress_affiliate_productdetail_get_response":{"resp_result":{"resp_code":200,"result":{"current_record_count":1,"products":{"product":[{
		"product_id":"1005001","product_title":"Mug","sale_price":"5.00","original_price":"10.00",
		"product_sku_infos":{"product_sku_info":[{"sku_id":"9","sku_price":"5.00","sku_available_stock":12,
			"sku_properties":{"sku_property":[{"property_name":"Color","property_value":"Red"}]}}]}}]}}}}}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1005001", q.Get("product_ids"))
		assert.Equal(t, "US", q.Get("country"))
		_, _ = w.Write([]byte(body))
	})

	p, err := c.GetProductDetail(context.Background(), platform.DetailOpts{ProductID: " 1005001 "})
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Title)
	assert.Equal(t, "50%", p.DisplayDiscount())
	require.Len(t, p.SKUs, 1)
	assert.Equal(t, models.SKU{
		ID: "9", Price: "5.00", AvailableQuantity: 12,
		Properties: []models.SKUProperty{{Name: "Color", Value: "Red"}},
	}, p.SKUs[0])
}

func TestGetProductDetailKeepsBasePricesWithoutTargetOriginal(t *testing.T) {
	body := `{"aliexpress_affiliate_productdetail_get_response":{"resp_result":{"resp_code":200,"result":{"current_record_count":1,"products":{"product":[{
		"product_id":"1005001","product_title":"Wireless Earbuds",
		"sale_price":"59.00","original_price":"99.00","sale_price_currency":"USD",
		"target_sale_price":"8500","target_sale_price_currency":"JPY"}]}}}}}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	p, err := c.GetProductDetail(context.Background(), platform.DetailOpts{ProductID: "1005001"})
	require.NoError(t, err)
	assert.Equal(t, "59.00", p.SalePrice)
	assert.Equal(t, "99.00", p.OriginalPrice)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "40%", p.DisplayDiscount())
}

func TestGetProductDetailNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"aliexpress_affiliate_productdetail_get_response":{"resp_result":{"resp_code":200,"result":{"current_record_count":0}}}}`))
	})

	_, err := c.GetProductDetail(context.Background(), platform.DetailOpts{ProductID: "404"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProductDetailRequiresID(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := c.GetProductDetail(context.Background(), platform.DetailOpts{ProductID: "  "})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, calls.Load(), "no request may be sent")
}

func TestCallHonorsContextCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(emptyQueryBody))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.QueryProducts(ctx, platform.SearchOpts{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCatalogHotProductRecords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(productListBody))
	})
	cat := NewCatalog(c, 2, rand.New(rand.NewPCG(1, 2)))

	records, err := cat.HotProductRecords(context.Background(), platform.HotOpts{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	byID := map[string]models.Product{}
	for _, p := range records {
		byID[p.ID] = p
	}
	earbuds := byID["1005006170839511"]
	assert.Equal(t, "Acme Store", earbuds.Shop.Name)
	assert.Empty(t, earbuds.Shop.URL, "record projection drops shop url")
	assert.Empty(t, earbuds.PromotionLink)
	assert.InDelta(t, 4.8, earbuds.Stars, 1e-9)
	assert.Equal(t, "Desk Lamp", byID["2"].Title)
}

func TestCatalogSearchPagesKeepsPageOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		pageNo := r.URL.Query().Get("page_no")
		_, _ = w.Write([]byte(`{"aliexpress_affiliate_product_query_response":{"resp_result":{"result":{
			"current_page_no":` + pageNo + `,"products":{"product":[{"product_id":"p` + pageNo + `"}]}}}}}`))
	})
	cat := NewCatalog(c, 3, nil)

	products, err := cat.SearchPages(context.Background(), platform.SearchOpts{Keywords: "x"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(products))
}

func TestCatalogSearchPagesStartsAtRequestedPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		pageNo := r.URL.Query().Get("page_no")
		_, _ = w.Write([]byte(`{"aliexpress_affiliate_product_query_response":{"resp_result":{"result":{
			"current_page_no":` + pageNo + `,"products":{"product":[{"product_id":"p` + pageNo + `"}]}}}}}`))
	})
	cat := NewCatalog(c, 2, nil)

	products, err := cat.SearchPages(context.Background(), platform.SearchOpts{Keywords: "x", Page: 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"p5", "p6"}, ids(products))
}

func TestCatalogSearchPagesFailsFast(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page_no") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(emptyQueryBody))
	})
	cat := NewCatalog(c, 1, nil)

	_, err := cat.SearchPages(context.Background(), platform.SearchOpts{}, 3)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Contains(t, err.Error(), "page 2")
}
