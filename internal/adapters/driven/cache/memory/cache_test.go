package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
)

func result(total int) *domain.AggregationResult {
	return &domain.AggregationResult{Total: total}
}

func TestCache_PutGet(t *testing.T) {
	cache := NewCache(time.Minute)

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Put("key", result(3))
	got, ok := cache.Get("key")
	require.True(t, ok)
	assert.Equal(t, 3, got.Total)
}

func TestCache_ReplacesExisting(t *testing.T) {
	cache := NewCache(time.Minute)

	cache.Put("key", result(1))
	cache.Put("key", result(2))

	got, ok := cache.Get("key")
	require.True(t, ok)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_Expiry(t *testing.T) {
	cache := NewCache(time.Minute)

	current := time.Now()
	cache.now = func() time.Time { return current }

	cache.Put("key", result(1))

	_, ok := cache.Get("key")
	assert.True(t, ok)

	// Step past the TTL; the entry goes away lazily on read.
	current = current.Add(2 * time.Minute)
	_, ok = cache.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestCache_PutSweepsExpired(t *testing.T) {
	cache := NewCache(time.Minute)

	current := time.Now()
	cache.now = func() time.Time { return current }

	cache.Put("old", result(1))
	current = current.Add(2 * time.Minute)
	cache.Put("new", result(2))

	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Get("new")
	assert.True(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	cache := NewCache(time.Minute)

	cache.Put("a", result(1))
	cache.Put("b", result(2))
	require.Equal(t, 2, cache.Len())

	cache.Invalidate()
	assert.Equal(t, 0, cache.Len())

	_, ok := cache.Get("a")
	assert.False(t, ok)
}
