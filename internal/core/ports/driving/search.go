package driving

import (
	"context"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
)

// SearchOptions configures a search request made through the front
// door. Zero values fall back to the engine settings.
type SearchOptions struct {
	// Types restricts the search to specific sources.
	// Empty means all registered sources.
	Types []domain.SourceType

	// Page is the zero-based page index.
	Page int

	// PageSize is the number of items per page.
	PageSize int
}

// SearchService provides federated search to external actors.
type SearchService interface {
	// Search normalises raw input, consults the result cache, and
	// aggregates across the registered sources. The only error it
	// returns is domain.ErrInvalidQuery; source failures degrade the
	// result instead of failing it.
	Search(ctx context.Context, raw string, opts SearchOptions) (*domain.AggregationResult, error)

	// Aggregate runs one aggregation pass for an already-normalised
	// query, bypassing normalisation and the cache. Used by callers
	// that construct queries themselves (the debounce watcher).
	Aggregate(ctx context.Context, query domain.SearchQuery) (*domain.AggregationResult, error)
}

// SourceRegistry exposes the registered sources to external actors.
type SourceRegistry interface {
	// Types returns the registered source types in lexicographic order.
	Types() []domain.SourceType
}
