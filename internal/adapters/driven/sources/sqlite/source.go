package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driven"
)

// Ensure source implements the interface.
var _ driven.SourceAdapter = (*source)(nil)

// source serves one collection type from the shared records table.
type source struct {
	store      *Store
	sourceType domain.SourceType
}

// Type returns the source type this adapter serves.
func (s *source) Type() domain.SourceType {
	return s.sourceType
}

// Search narrows candidates in SQL with LIKE over title and
// description, then applies the reference scoring policy in Go so the
// ordering contract matches the other adapters exactly.
func (s *source) Search(ctx context.Context, query string, limit int) ([]domain.SearchResultItem, error) {
	// LIKE needs literal %/_ escaped so user input cannot widen the match.
	pattern := "%" + escapeLike(query) + "%"

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT type, id, title, description, url, published_at
		FROM records
		WHERE type = ?
		  AND (lower(title) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\')
	`, s.sourceType, pattern, pattern)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("querying %s: %w", s.sourceType, domain.ErrSourceTimeout)
		}
		return nil, fmt.Errorf("querying %s: %w", s.sourceType, domain.ErrSourceUnavailable)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("reading %s rows: %w", s.sourceType, domain.ErrSourceUnavailable)
	}

	items := make([]domain.SearchResultItem, 0, len(records))
	for _, rec := range records {
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

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
