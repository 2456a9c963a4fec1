// Package memory provides an in-memory source adapter for static
// collections such as site pages and tools, and doubles as the
// reference implementation of the adapter scoring contract.
package memory

import (
	"context"
	"time"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.SourceAdapter = (*Source)(nil)

// Record is the native shape of a static collection entry.
// It is mapped into domain.SearchResultItem at the adapter boundary.
type Record struct {
	// ID is unique within the collection.
	ID string

	// Title is the display title.
	Title string

	// Description is a short summary.
	Description string

	// URL is where the content lives on the site.
	URL string

	// PublishedAt is when the content was published, if known.
	PublishedAt *time.Time
}

// Source serves one static collection from memory.
// It is read-only after construction and safe for concurrent use.
type Source struct {
	sourceType domain.SourceType
	records    []Record
}

// NewSource creates a source over a fixed record set.
func NewSource(sourceType domain.SourceType, records []Record) *Source {
	return &Source{
		sourceType: sourceType,
		records:    records,
	}
}

// Type returns the source type this adapter serves.
func (s *Source) Type() domain.SourceType {
	return s.sourceType
}

// Search scores every record with the reference policy and returns
// up to limit matches. Records scoring zero are excluded.
func (s *Source) Search(ctx context.Context, query string, limit int) ([]domain.SearchResultItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrSourceTimeout
	}

	items := make([]domain.SearchResultItem, 0)
	for _, rec := range s.records {
		score := domain.ScoreMatch(query, rec.Title, rec.Description)
		if score == 0 {
			continue
		}
		items = append(items, domain.SearchResultItem{
			ID:          rec.ID,
			Type:        s.sourceType,
			Title:       rec.Title,
			Description: rec.Description,
			URL:         rec.URL,
			Score:       score,
			PublishedAt: rec.PublishedAt,
		})
	}

	domain.SortItems(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
