package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewConfigStore_EmptyDirectory(t *testing.T) {
	store := newTestStore(t)

	// No file yet: the store starts empty and usable.
	_, ok := store.Get("anything")
	assert.False(t, ok)
	assert.Equal(t, "config.toml", filepath.Base(store.Path()))
}

func TestConfigStore_SetGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("search.debounce_ms", int64(500)))
	require.NoError(t, store.Set("server.addr", ":9090"))
	require.NoError(t, store.Set("search.cache_enabled", true))
	require.NoError(t, store.Set("remote.requests_per_second", 2.5))

	assert.Equal(t, 500, store.GetInt("search.debounce_ms"))
	assert.Equal(t, ":9090", store.GetString("server.addr"))
	assert.True(t, store.GetBool("search.cache_enabled"))
	assert.Equal(t, 2.5, store.GetFloat("remote.requests_per_second"))
}

func TestConfigStore_MissingAndMistypedKeys(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("server.addr", ":9090"))

	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("server.addr"))
	assert.Equal(t, 0.0, store.GetFloat("server.addr"))
	assert.False(t, store.GetBool("server.addr"))
}

func TestConfigStore_GetFloatAcceptsIntegers(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("remote.requests_per_second", int64(3)))
	assert.Equal(t, 3.0, store.GetFloat("remote.requests_per_second"))
}

func TestConfigStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("search.debounce_ms", int64(450)))
	require.NoError(t, store.Set("storage.data_dir", "/tmp/data"))
	require.NoError(t, store.Close())

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 450, reopened.GetInt("search.debounce_ms"))
	assert.Equal(t, "/tmp/data", reopened.GetString("storage.data_dir"))
}

func TestConfigStore_LoadsNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := `
[search]
debounce_ms = 250

[server]
addr = ":8080"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	defer store.Close()

	// Nested tables surface as dot-notation keys.
	assert.Equal(t, 250, store.GetInt("search.debounce_ms"))
	assert.Equal(t, ":8080", store.GetString("server.addr"))
}

func TestConfigStore_SavesReadableTables(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("search.debounce_ms", int64(300)))
	require.NoError(t, store.Set("search.deadline_ms", int64(2000)))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	// Dot keys round-trip through a nested [search] table on disk.
	assert.Contains(t, string(data), "[search]")
	assert.Contains(t, string(data), "debounce_ms = 300")
}

func TestConfigStore_WatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	defer store.Close()

	changed := make(chan struct{}, 1)
	store.Watch(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	// Give fsnotify a moment to establish the directory watch.
	time.Sleep(50 * time.Millisecond)

	content := "[search]\ndebounce_ms = 150\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("config change was not observed")
	}

	assert.Equal(t, 150, store.GetInt("search.debounce_ms"))
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	nested := map[string]any{
		"search": map[string]any{
			"debounce_ms": int64(300),
			"cache": map[string]any{
				"ttl_ms": int64(30000),
			},
		},
		"verbose": true,
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, int64(300), flat["search.debounce_ms"])
	assert.Equal(t, int64(30000), flat["search.cache.ttl_ms"])
	assert.Equal(t, true, flat["verbose"])

	assert.Equal(t, nested, unflattenMap(flat))
}
