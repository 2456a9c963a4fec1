package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driven"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driving"
)

// Ensure SourceRegistry implements the interface.
var _ driving.SourceRegistry = (*SourceRegistry)(nil)

// SourceRegistry holds the source adapters registered at startup.
// Each source type maps to exactly one adapter.
type SourceRegistry struct {
	mu       sync.RWMutex
	adapters map[domain.SourceType]driven.SourceAdapter
}

// NewSourceRegistry creates an empty registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		adapters: make(map[domain.SourceType]driven.SourceAdapter),
	}
}

// Register adds an adapter for its declared source type.
// Registering a second adapter for the same type fails with
// domain.ErrAlreadyExists.
func (r *SourceRegistry) Register(adapter driven.SourceAdapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := adapter.Type()
	if _, ok := r.adapters[t]; ok {
		return fmt.Errorf("source %q: %w", t, domain.ErrAlreadyExists)
	}
	r.adapters[t] = adapter
	return nil
}

// Active returns the adapters serving the query's requested types.
// An empty type set selects every registered adapter. Unknown
// requested types are ignored rather than failing the query.
// The slice is ordered by type for deterministic dispatch.
func (r *SourceRegistry) Active(types []domain.SourceType) []driven.SourceAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make([]driven.SourceAdapter, 0, len(r.adapters))
	if len(types) == 0 {
		for _, a := range r.adapters {
			active = append(active, a)
		}
	} else {
		seen := make(map[domain.SourceType]bool, len(types))
		for _, t := range types {
			if seen[t] {
				continue
			}
			seen[t] = true
			if a, ok := r.adapters[t]; ok {
				active = append(active, a)
			}
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].Type() < active[j].Type()
	})
	return active
}

// Types returns the registered source types in lexicographic order.
func (r *SourceRegistry) Types() []domain.SourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.SourceType, 0, len(r.adapters))
	for t := range r.adapters {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
