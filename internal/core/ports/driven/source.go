package driven

import (
	"context"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
)

// SourceAdapter wraps one searchable collection (site pages, blog
// posts, jobs, courses, tools) behind a uniform query capability.
// Each adapter serves exactly one source type.
//
// Adapters are stateless and re-entrant: they own nothing beyond the
// duration of a single Search call and must never mutate the backing
// collection.
type SourceAdapter interface {
	// Type returns the source type this adapter serves.
	Type() domain.SourceType

	// Search returns up to limit scored items matching the normalised
	// query text. "No results" is an empty slice, not an error.
	//
	// The aggregation deadline arrives through ctx; adapters should
	// honour it internally to free resources promptly. Failures are
	// classified with domain.ErrSourceUnavailable or
	// domain.ErrSourceTimeout.
	//
	// Scoring is adapter-specific but must be monotonic: a more
	// specific match never scores below a looser one. The reference
	// policy lives in domain.ScoreMatch.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResultItem, error)
}
