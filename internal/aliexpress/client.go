package aliexpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lukman83/kidkazz-storefront/internal/httputil"
	"github.com/lukman83/kidkazz-storefront/internal/metrics"
	"github.com/lukman83/kidkazz-storefront/internal/models"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
)

// DefaultEndpoint is the affiliate API gateway.
const DefaultEndpoint = "https://api-sg.aliexpress.com/sync"

// ErrInvalidArgument is returned before any network call when a required
// argument is missing.
var ErrInvalidArgument = platform.ErrInvalidArgument

// maxErrorBody caps how much of a failed response is kept in StatusError.
const maxErrorBody = 512

// ClientOptions tunes a Client. Zero values pick defaults.
type ClientOptions struct {
	Endpoint   string
	HTTPClient *http.Client
	Locale     platform.Locale
	MaxRetries int
	Logger     *slog.Logger
	Now        func() time.Time
}

// Client issues signed calls to the affiliate API. It holds no per-call
// state and is safe for concurrent use.
type Client struct {
	endpoint   string
	secret     string
	httpClient *http.Client
	params     *ParamBuilder
	maxRetries int
	log        *slog.Logger
}

// NewClient validates creds and returns a client. Empty credentials are
// rejected here rather than producing signatures the remote refuses.
func NewClient(creds Credentials, opts ClientOptions) (*Client, error) {
	if err := creds.validate(); err != nil {
		return nil, fmt.Errorf("affiliate credentials: %w", err)
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("affiliate endpoint %q: %w", endpoint, err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = httputil.NewHTTPClient(nil, 0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   endpoint,
		secret:     creds.Secret,
		httpClient: httpClient,
		params:     NewParamBuilder(creds, opts.Locale, opts.Now),
		maxRetries: opts.MaxRetries,
		log:        logger.With("component", "aliexpress"),
	}, nil
}

// Call signs params, sends them as a GET query and returns the
// {method}_response.resp_result.result object.
func (c *Client) Call(ctx context.Context, params Params) (json.RawMessage, error) {
	method, err := methodOf(params)
	if err != nil {
		return nil, err
	}

	signed := params.clone()
	signed["sign"] = Sign(params, c.secret)

	reqURL := c.endpoint + "?" + signed.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	for k, v := range httputil.APIHeaders() {
		req.Header[k] = v
	}

	start := time.Now()
	result, outcome, err := c.do(req, method)
	elapsed := time.Since(start)
	metrics.RecordUpstreamCall(method, outcome, elapsed)

	if err != nil {
		c.log.WarnContext(ctx, "affiliate call failed", "method", method, "outcome", outcome, "duration", elapsed, "err", err)
		return nil, err
	}
	c.log.DebugContext(ctx, "affiliate call", "method", method, "duration", elapsed)
	return result, nil
}

func (c *Client) do(req *http.Request, method string) (json.RawMessage, string, error) {
	resp, err := httputil.DoWithRetry(c.httpClient, req, c.maxRetries)
	if err != nil {
		return nil, metrics.OutcomeTransport, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, metrics.OutcomeTransport, fmt.Errorf("%s: read body: %w", method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, metrics.OutcomeStatus, &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}

	result, err := unwrapEnvelope(method, body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, metrics.OutcomeAPIError, err
		}
		return nil, metrics.OutcomeEnvelope, err
	}
	return result, metrics.OutcomeOK, nil
}

// QueryProducts runs a keyword search and returns the full product shape.
// An empty result is an empty page, not an error.
func (c *Client) QueryProducts(ctx context.Context, opts platform.SearchOpts) (*models.ProductPage, error) {
	params := c.params.ProductQuery(opts)
	result, err := c.Call(ctx, params)
	if err != nil {
		return nil, err
	}
	return decodeProductPage(result, params["page_size"].(int))
}

// DownloadHotProducts lists hot products in the full product shape.
func (c *Client) DownloadHotProducts(ctx context.Context, opts platform.HotOpts) (*models.ProductPage, error) {
	params := c.params.HotProductDownload(opts)
	result, err := c.Call(ctx, params)
	if err != nil {
		return nil, err
	}
	return decodeProductPage(result, params["page_size"].(int))
}

// GetCategories returns the flat category list.
func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	result, err := c.Call(ctx, c.params.CategoryGet())
	if err != nil {
		return nil, err
	}
	return decodeCategories(result)
}

// GetProductDetail returns one product in the full shape, or ErrNotFound
// when the remote lists none.
func (c *Client) GetProductDetail(ctx context.Context, opts platform.DetailOpts) (*models.Product, error) {
	opts.ProductID = strings.TrimSpace(opts.ProductID)
	if opts.ProductID == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrInvalidArgument)
	}
	result, err := c.Call(ctx, c.params.ProductDetail(opts))
	if err != nil {
		return nil, err
	}
	page, err := decodeProductPage(result, 1)
	if err != nil {
		return nil, err
	}
	if len(page.Products) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, opts.ProductID)
	}
	return &page.Products[0], nil
}
