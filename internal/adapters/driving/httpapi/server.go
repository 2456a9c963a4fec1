// Package httpapi exposes the search engine over HTTP for the site's
// client-side search page. It is a thin mapping layer: query string in,
// JSON AggregationResult out.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driving"
	"github.com/zwanski-tech/sitesearch/internal/logger"
)

// Server serves the search HTTP API.
type Server struct {
	search   driving.SearchService
	registry driving.SourceRegistry
	router   *mux.Router
}

// NewServer creates the HTTP API server.
func NewServer(search driving.SearchService, registry driving.SourceRegistry) *Server {
	s := &Server{
		search:   search,
		registry: registry,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/v1/search", s.handleSearch).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/sources", s.handleSources).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// searchResponse is the wire shape of an aggregation result.
type searchResponse struct {
	Query         string                    `json:"query"`
	Items         []searchItem              `json:"items"`
	FacetCounts   map[domain.SourceType]int `json:"facet_counts"`
	FailedSources []domain.SourceType       `json:"failed_sources,omitempty"`
	Total         int                       `json:"total"`
	Page          int                       `json:"page"`
	PageSize      int                       `json:"page_size"`
	Warning       string                    `json:"warning,omitempty"`
}

type searchItem struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Score       float64 `json:"score"`
	PublishedAt string  `json:"published_at,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleSearch maps GET /v1/search?q=&type=&page=&pageSize= onto the
// search service. Pagination defaults to page 0, size 20.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	opts := driving.SearchOptions{}
	if t := params.Get("type"); t != "" && t != domain.FacetAll.String() {
		opts.Types = []domain.SourceType{domain.SourceType(t)}
	}
	if page, err := strconv.Atoi(params.Get("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if size, err := strconv.Atoi(params.Get("pageSize")); err == nil && size > 0 {
		opts.PageSize = size
	}

	result, err := s.search.Search(r.Context(), params.Get("q"), opts)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		logger.Error("Search failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	resp := searchResponse{
		Query:         result.Query.NormalisedText,
		Items:         make([]searchItem, len(result.Items)),
		FacetCounts:   result.FacetCounts,
		FailedSources: result.FailedSources,
		Total:         result.Total,
		Page:          result.Query.Page,
		PageSize:      result.Query.PageSize,
	}
	if result.Degraded() {
		resp.Warning = "some sources did not respond; results may be incomplete"
	}
	for i, item := range result.Items {
		resp.Items[i] = searchItem{
			ID:          item.ID,
			Type:        item.Type.String(),
			Title:       item.Title,
			Description: item.Description,
			URL:         item.URL,
			Score:       item.Score,
		}
		if item.PublishedAt != nil {
			resp.Items[i].PublishedAt = item.PublishedAt.Format(time.RFC3339)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSources lists the registered source types, for the UI's
// facet tabs.
func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]domain.SourceType{
		"sources": s.registry.Types(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Encoding response: %v", err)
	}
}
