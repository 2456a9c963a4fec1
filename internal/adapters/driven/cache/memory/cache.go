// Package memory provides an in-memory TTL cache for aggregation
// results. It is injected into the search service as an optional
// collaborator, keeping the aggregation core pure and testable.
package memory

import (
	"sync"
	"time"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ResultCache = (*Cache)(nil)

type entry struct {
	result    *domain.AggregationResult
	expiresAt time.Time
}

// Cache is a mutex-guarded map with per-entry expiry. Expired entries
// are dropped lazily on read and swept on write, which is plenty for
// the handful of distinct queries a search box produces.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry

	// now is swappable for tests.
	now func() time.Time
}

// NewCache creates a cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached result for the key, if present and fresh.
func (c *Cache) Get(key string) (*domain.AggregationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.result, true
}

// Put stores a result under the key, replacing any existing entry.
func (c *Cache) Put(key string, result *domain.AggregationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = entry{
		result:    result,
		expiresAt: now.Add(c.ttl),
	}
}

// Invalidate drops every cached entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the number of live entries. Used by tests.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
