// Package api is the local REST surface the storefront pages fetch from.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/lukman83/kidkazz-storefront/internal/announcement"
	"github.com/lukman83/kidkazz-storefront/internal/metrics"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
)

// Options configures a Server. Zero values pick defaults.
type Options struct {
	// Catalog is the registered catalog name; empty uses the default.
	Catalog string
	// Announcements backs /api/announcement. Nil leaves the routes out.
	Announcements *announcement.Store
	// MCP is mounted at /mcp when set.
	MCP    http.Handler
	Logger *slog.Logger
}

type Server struct {
	catalogName   string
	announcements *announcement.Store
	mcp           http.Handler
	validate      *validator.Validate
	query         *form.Decoder
	log           *slog.Logger
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		catalogName:   opts.Catalog,
		announcements: opts.Announcements,
		mcp:           opts.MCP,
		validate:      newValidator(),
		query:         newQueryDecoder(),
		log:           logger.With("component", "api"),
	}
}

// Handler returns the routed handler with request ids, logging, metrics
// and panic recovery applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "GET /healthz", s.handleHealth)
	s.route(mux, "GET /api/categories", s.handleCategories)
	s.route(mux, "GET /api/hot-products", s.handleHotProducts)
	s.route(mux, "POST /api/hot-products", s.handleHotProducts)
	s.route(mux, "GET /api/products/search", s.handleSearch)
	s.route(mux, "POST /api/products/search", s.handleSearch)
	s.route(mux, "GET /api/products/detail", s.handleDetail)
	s.route(mux, "GET /api/home", s.handleHome)
	if s.announcements != nil {
		s.route(mux, "GET /api/announcement", s.handleGetAnnouncement)
		s.route(mux, "POST /api/announcement", s.handlePostAnnouncement)
	}

	mux.Handle("GET /metrics", metrics.Handler())
	if s.mcp != nil {
		mux.Handle("/mcp", s.mcp)
	}

	return withRequestID(mux)
}

func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, withObservability(s.log, pattern, withRecover(s.log, h)))
}

func (s *Server) catalog() (platform.Catalog, error) {
	return platform.Get(s.catalogName)
}
