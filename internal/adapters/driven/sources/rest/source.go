// Package rest provides a source adapter over a remote JSON search
// API, for collections that live outside the local content store
// (e.g., a headless CMS or an external job board).
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.SourceAdapter = (*Source)(nil)

// DefaultTimeout bounds one remote call when the aggregation context
// carries no tighter deadline.
const DefaultTimeout = 5 * time.Second

// record is the wire shape the remote endpoint returns.
type record struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Score       float64 `json:"score,omitempty"`
	PublishedAt string  `json:"published_at,omitempty"`
}

// Source queries a remote search endpoint:
//
//	GET <baseURL>?q=<query>&limit=<limit>
//
// expecting a JSON array of records. Remote shapes are mapped into
// domain.SearchResultItem at this boundary; rows without a remote
// score are scored locally with the reference policy.
type Source struct {
	sourceType domain.SourceType
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
}

// NewSource creates a remote source adapter.
// requestsPerSecond throttles outbound calls; zero disables throttling.
// A nil client falls back to a client with DefaultTimeout.
func NewSource(sourceType domain.SourceType, baseURL string, requestsPerSecond float64, client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Source{
		sourceType: sourceType,
		baseURL:    baseURL,
		client:     client,
		limiter:    limiter,
	}
}

// Type returns the source type this adapter serves.
func (s *Source) Type() domain.SourceType {
	return s.sourceType
}

// Search queries the remote endpoint and maps its rows.
func (s *Source) Search(ctx context.Context, query string, limit int) ([]domain.SearchResultItem, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", domain.ErrSourceTimeout)
		}
	}

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", domain.ErrSourceUnavailable)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", domain.ErrSourceUnavailable)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("remote %s: %w", s.sourceType, domain.ErrSourceTimeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, fmt.Errorf("remote %s: %w", s.sourceType, domain.ErrSourceTimeout)
		}
		return nil, fmt.Errorf("remote %s: %w", s.sourceType, domain.ErrSourceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote %s returned %d: %w", s.sourceType, resp.StatusCode, domain.ErrSourceUnavailable)
	}

	var records []record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding remote %s response: %w", s.sourceType, domain.ErrSourceUnavailable)
	}

	items := make([]domain.SearchResultItem, 0, len(records))
	for _, rec := range records {
		score := rec.Score
		if score <= 0 {
			score = domain.ScoreMatch(query, rec.Title, rec.Description)
		}
		if score <= 0 {
			continue
		}

		var published *time.Time
		if rec.PublishedAt != "" {
			if ts, err := time.Parse(time.RFC3339, rec.PublishedAt); err == nil {
				published = &ts
			}
		}

		items = append(items, domain.SearchResultItem{
			ID:          rec.ID,
			Type:        s.sourceType,
			Title:       rec.Title,
			Description: rec.Description,
			URL:         rec.URL,
			Score:       score,
			PublishedAt: published,
		})
	}

	domain.SortItems(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
