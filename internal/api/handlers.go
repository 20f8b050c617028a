package api

import (
	"net/http"

	"github.com/lukman83/kidkazz-storefront/internal/models"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
	"golang.org/x/sync/errgroup"
)

type CategoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

// RecordsResponse carries the shuffled record projection of a listing.
type RecordsResponse struct {
	Products []models.Product `json:"products"`
}

// EncodedResponse carries the shuffled "~"-delimited records.
type EncodedResponse struct {
	Records []string `json:"records"`
}

type HomeResponse struct {
	Categories  []models.Category `json:"categories"`
	HotProducts []models.Product  `json:"hot_products"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cat, err := s.catalog()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cats, err := cat.Categories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: cats})
}

// handleHotProducts answers in the shape the caller asks for: the full
// upstream page, the record projection, or the encoded records.
func (s *Server) handleHotProducts(w http.ResponseWriter, r *http.Request) {
	var req HotProductsRequest
	if err := s.bind(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	cat, err := s.catalog()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	switch req.Shape {
	case ShapeRecords:
		products, err := cat.HotProductRecords(ctx, req.opts())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, RecordsResponse{Products: products})
	case ShapeEncoded:
		records, err := cat.EncodedHotProducts(ctx, req.opts())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, EncodedResponse{Records: records})
	default:
		page, err := cat.HotProducts(ctx, req.opts())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := s.bind(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	cat, err := s.catalog()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := cat.Search(r.Context(), req.opts())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	var req DetailRequest
	if err := s.bind(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	cat, err := s.catalog()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	product, err := cat.ProductDetail(r.Context(), platform.DetailOpts{
		ProductID: req.ProductID,
		Locale:    req.locale(),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// handleHome fetches categories and hot products concurrently. Either
// failing fails the whole response.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	var req HotProductsRequest
	if err := s.bind(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	cat, err := s.catalog()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var resp HomeResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		cats, err := cat.Categories(ctx)
		resp.Categories = cats
		return err
	})
	g.Go(func() error {
		products, err := cat.HotProductRecords(ctx, req.opts())
		resp.HotProducts = products
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAnnouncement(w http.ResponseWriter, r *http.Request) {
	a, err := s.announcements.Get()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handlePostAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req AnnouncementRequest
	if err := s.bind(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.announcements.Set(req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.InfoContext(r.Context(), "announcement updated", "length", len(req.Text))
	writeJSON(w, http.StatusOK, a)
}
