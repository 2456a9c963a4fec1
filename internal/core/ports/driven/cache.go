package driven

import "github.com/zwanski-tech/sitesearch/internal/core/domain"

// ResultCache stores aggregation results keyed by
// domain.SearchQuery.CacheKey. It is an optional collaborator: the
// search service works without one, it just re-aggregates every call.
//
// Cached results keep the query identity of the call that filled the
// cache; the search service re-tags them before returning.
type ResultCache interface {
	// Get returns the cached result for the key, if present and fresh.
	Get(key string) (*domain.AggregationResult, bool)

	// Put stores a result under the key, replacing any existing entry.
	Put(key string, result *domain.AggregationResult)

	// Invalidate drops every cached entry. Called after content
	// changes (e.g., indexing new records).
	Invalidate()
}
