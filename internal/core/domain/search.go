package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SourceType identifies the collection a search result came from.
// It is an open set: the constants below cover the built-in site
// collections, but adapters may register additional types.
type SourceType string

// Built-in source types.
const (
	// SourceTypePage is a static site page (home, services, about).
	SourceTypePage SourceType = "page"

	// SourceTypeBlog is a blog post.
	SourceTypeBlog SourceType = "blog"

	// SourceTypeJob is a job or marketplace listing.
	SourceTypeJob SourceType = "job"

	// SourceTypeCourse is an academy course.
	SourceTypeCourse SourceType = "course"

	// SourceTypeTool is an interactive tool (IMEI checker, converters).
	SourceTypeTool SourceType = "tool"
)

// String returns the string representation.
func (t SourceType) String() string {
	return string(t)
}

// SearchQuery is an immutable, canonicalised search request.
// It is constructed once per submission and never mutated; superseded
// queries are discarded, never reused.
type SearchQuery struct {
	// ID uniquely identifies this query instance.
	// The debounce watcher compares it against the latest issued query
	// to drop stale results.
	ID string

	// Text is the raw user input, pre-normalisation.
	Text string

	// NormalisedText is the canonical form used for matching.
	NormalisedText string

	// Types restricts the aggregation to specific sources.
	// Empty means all registered sources.
	Types []SourceType

	// Page is the zero-based page index.
	Page int

	// PageSize is the number of items per page.
	PageSize int
}

// NewSearchQuery builds a query with a fresh identity.
// The caller supplies already-normalised text; see services.Normalise.
func NewSearchQuery(raw, normalised string, types []SourceType, page, pageSize int) SearchQuery {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return SearchQuery{
		ID:             uuid.NewString(),
		Text:           raw,
		NormalisedText: normalised,
		Types:          types,
		Page:           page,
		PageSize:       pageSize,
	}
}

// WantsType reports whether the query includes the given source type.
// An empty type set means every type is wanted.
func (q SearchQuery) WantsType(t SourceType) bool {
	if len(q.Types) == 0 {
		return true
	}
	for _, want := range q.Types {
		if want == t {
			return true
		}
	}
	return false
}

// CacheKey returns a stable cache key covering everything that affects
// the result: normalised text, requested types, and the page window.
// Query identity is deliberately excluded so repeated searches hit.
func (q SearchQuery) CacheKey() string {
	types := make([]string, len(q.Types))
	for i, t := range q.Types {
		types[i] = string(t)
	}
	sort.Strings(types)

	var b strings.Builder
	b.WriteString(q.NormalisedText)
	b.WriteByte('|')
	b.WriteString(strings.Join(types, ","))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.Page))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.PageSize))
	return b.String()
}

// DefaultPageSize is used when a query does not specify one.
const DefaultPageSize = 20

// SearchResultItem is a single scored hit produced by one source
// adapter. Items are created fresh for each query, are never mutated
// after creation, and their scores are only comparable within the
// aggregation pass that produced them.
type SearchResultItem struct {
	// ID is unique within the item's source.
	ID string

	// Type tags the source collection this item came from.
	Type SourceType

	// Title is the human-readable title.
	Title string

	// Description is a short summary used for matching and display.
	Description string

	// URL is the site-relative or absolute location of the content.
	URL string

	// Score is the adapter-assigned relevance score.
	Score float64

	// PublishedAt is when the content was published, if known.
	PublishedAt *time.Time
}

// Reference scoring tiers shared by the built-in adapters.
// A more specific match must never score below a looser one.
const (
	// ScoreExactTitle is an exact case-insensitive title match.
	ScoreExactTitle = 3.0

	// ScoreTitleSubstring is a title substring match.
	ScoreTitleSubstring = 2.0

	// ScoreDescription is a description-only substring match.
	ScoreDescription = 1.0
)

// ScoreMatch applies the reference scoring policy.
// The query is assumed to be normalised (lowercased, trimmed).
// Returns 0 when the item does not match and should be excluded.
func ScoreMatch(query, title, description string) float64 {
	if query == "" {
		return 0
	}
	titleLower := strings.ToLower(title)
	switch {
	case titleLower == query:
		return ScoreExactTitle
	case strings.Contains(titleLower, query):
		return ScoreTitleSubstring
	case strings.Contains(strings.ToLower(description), query):
		return ScoreDescription
	default:
		return 0
	}
}

// AggregationResult is the merged, ranked answer to one query.
// It is always structurally valid: failed sources shrink Items and
// grow FailedSources, they never turn the whole result into an error.
type AggregationResult struct {
	// Items is the page-sliced view of the full ranked set, ordered by
	// score descending with type then ID as deterministic tie-breaks.
	Items []SearchResultItem

	// FacetCounts maps each source type to its match count over the
	// full matched set, before pagination.
	FacetCounts map[SourceType]int

	// FailedSources lists sources that errored or timed out.
	// Callers should treat a non-empty set as a "results may be
	// incomplete" signal, not a failure.
	FailedSources []SourceType

	// Total is the number of matched items before pagination.
	Total int

	// Query is the query this result answers, kept for client-side
	// staleness checks.
	Query SearchQuery
}

// Degraded reports whether any source failed during aggregation.
func (r *AggregationResult) Degraded() bool {
	return len(r.FailedSources) > 0
}

// SortItems orders items by score descending, breaking ties by type
// then ID (both lexicographic). The ordering is fully deterministic
// regardless of the order sources responded in, which stable
// pagination and reproducible tests depend on.
func SortItems(items []SearchResultItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		if items[i].Type != items[j].Type {
			return items[i].Type < items[j].Type
		}
		return items[i].ID < items[j].ID
	})
}

// FilterByType returns the items matching the given type.
// FacetAll is the identity transform. The slice is a fresh allocation;
// the input is never modified.
func FilterByType(items []SearchResultItem, t SourceType) []SearchResultItem {
	if t == FacetAll {
		out := make([]SearchResultItem, len(items))
		copy(out, items)
		return out
	}
	out := make([]SearchResultItem, 0)
	for _, item := range items {
		if item.Type == t {
			out = append(out, item)
		}
	}
	return out
}

// FacetAll selects every source type when filtering facets.
const FacetAll SourceType = "all"
