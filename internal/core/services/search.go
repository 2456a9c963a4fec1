package services

import (
	"context"
	"errors"
	"sort"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driven"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driving"
	"github.com/zwanski-tech/sitesearch/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// sourceResponse carries one adapter's answer back from the fan-out.
type sourceResponse struct {
	sourceType domain.SourceType
	items      []domain.SearchResultItem
	err        error
}

// SearchService aggregates search results across the registered
// sources. It holds no cross-call state beyond its collaborators, so
// one instance is safely callable from any number of goroutines.
type SearchService struct {
	registry *SourceRegistry
	cache    driven.ResultCache
	settings domain.EngineSettings
}

// NewSearchService creates a search service.
// The cache parameter is optional (can be nil).
func NewSearchService(registry *SourceRegistry, cache driven.ResultCache, settings domain.EngineSettings) *SearchService {
	return &SearchService{
		registry: registry,
		cache:    cache,
		settings: settings,
	}
}

// Search normalises raw input and aggregates across sources.
// It only fails for invalid input; source failures degrade the result.
func (s *SearchService) Search(
	ctx context.Context, raw string, opts driving.SearchOptions,
) (*domain.AggregationResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", raw)

	normalised, err := Normalise(raw, s.settings.MaxQueryLength)
	if err != nil {
		logger.Debug("Normalisation rejected query: %v", err)
		return nil, err
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = s.settings.DefaultPageSize
	}
	query := domain.NewSearchQuery(raw, normalised, opts.Types, opts.Page, pageSize)
	logger.Debug("Normalised: %q, types=%v, page=%d, pageSize=%d",
		normalised, query.Types, query.Page, query.PageSize)

	if s.cache != nil {
		if cached, ok := s.cache.Get(query.CacheKey()); ok {
			logger.Info("Cache hit for %q", normalised)
			// Re-tag so staleness checks compare against this call's
			// query identity, not the one that filled the cache.
			result := *cached
			result.Query = query
			return &result, nil
		}
	}

	result, err := s.Aggregate(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Put(query.CacheKey(), result)
	}

	return result, nil
}

// Aggregate fans the query out to every active source concurrently,
// merges the answers into one deterministically ranked list, computes
// facet counts over the full matched set, and slices out the
// requested page.
//
// Aggregate never fails outright for runtime conditions: adapters
// that error or miss the deadline are recorded in FailedSources and
// contribute zero items. Even all sources failing yields a valid
// empty result.
func (s *SearchService) Aggregate(
	ctx context.Context, query domain.SearchQuery,
) (*domain.AggregationResult, error) {
	active := s.registry.Active(query.Types)
	logger.Debug("Active sources: %d", len(active))

	// Enough candidates from every source for correct pagination and
	// facet counts after the merge, without fetching whole collections.
	overfetch := query.PageSize*(query.Page+1) + s.settings.OverfetchMargin

	ctx, cancel := context.WithTimeout(ctx, s.settings.AggregationDeadline)
	defer cancel()

	responses := make(chan sourceResponse, len(active))
	for _, adapter := range active {
		go func(a driven.SourceAdapter) {
			items, err := a.Search(ctx, query.NormalisedText, overfetch)
			responses <- sourceResponse{sourceType: a.Type(), items: items, err: ClassifySourceError(err)}
		}(adapter)
	}

	merged := make([]domain.SearchResultItem, 0, overfetch)
	var failed []domain.SourceType
	pending := make(map[domain.SourceType]bool, len(active))
	for _, adapter := range active {
		pending[adapter.Type()] = true
	}

collect:
	for range active {
		select {
		case resp := <-responses:
			delete(pending, resp.sourceType)
			if resp.err != nil {
				logger.Warn("Source %s failed: %v", resp.sourceType, resp.err)
				failed = append(failed, resp.sourceType)
				continue
			}
			logger.Debug("Source %s: %d items", resp.sourceType, len(resp.items))
			for _, item := range resp.items {
				// Stamp the type at the boundary so a misbehaving adapter
				// cannot skew facet counts.
				item.Type = resp.sourceType
				merged = append(merged, item)
			}
		case <-ctx.Done():
			// Adapters that ignore the deadline must not stall the whole
			// aggregation. Their late sends complete into the buffered
			// channel without a receiver.
			break collect
		}
	}
	for t := range pending {
		logger.Warn("Source %s missed the deadline", t)
		failed = append(failed, t)
	}

	domain.SortItems(merged)

	facets := make(map[domain.SourceType]int, len(active))
	for _, item := range merged {
		facets[item.Type]++
	}

	total := len(merged)
	start := query.Page * query.PageSize
	end := start + query.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })

	logger.Info("Aggregated %d items from %d sources (%d failed)",
		total, len(active), len(failed))

	return &domain.AggregationResult{
		Items:         merged[start:end],
		FacetCounts:   facets,
		FailedSources: failed,
		Total:         total,
		Query:         query,
	}, nil
}

// ClassifySourceError maps adapter-level failures onto the domain
// taxonomy, applied to every answer at the fan-out boundary. Deadline
// and cancellation become ErrSourceTimeout; anything else becomes
// ErrSourceUnavailable. Errors already carrying a domain sentinel pass
// through unchanged.
func ClassifySourceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrSourceTimeout), errors.Is(err, domain.ErrSourceUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.ErrSourceTimeout
	default:
		return domain.ErrSourceUnavailable
	}
}

// Settings returns the engine settings the service runs with.
func (s *SearchService) Settings() domain.EngineSettings {
	return s.settings
}
