package services

import (
	"time"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driven"
	"github.com/zwanski-tech/sitesearch/internal/logger"
)

// Config keys for engine settings.
const (
	KeyDebounceMs      = "search.debounce_ms"
	KeyDeadlineMs      = "search.deadline_ms"
	KeyMaxQueryLength  = "search.max_query_length"
	KeyOverfetchMargin = "search.overfetch_margin"
	KeyDefaultPageSize = "search.default_page_size"
	KeyCacheTTLMs      = "search.cache_ttl_ms"
	KeyServerAddr      = "server.addr"
	KeyDataDir         = "storage.data_dir"

	// KeyRemoteRPS is the default requests-per-second applied to
	// [[remote]] sources that do not set their own.
	KeyRemoteRPS = "remote_defaults.requests_per_second"
)

// DefaultServerAddr is the HTTP API bind address when unconfigured.
const DefaultServerAddr = ":8484"

// LoadSettings builds engine settings from the config store, falling
// back to defaults for missing or invalid keys. A zero debounce is
// valid (fire immediately); zero cache TTL disables the cache.
func LoadSettings(store driven.ConfigStore) domain.EngineSettings {
	settings := domain.DefaultEngineSettings()

	if _, ok := store.Get(KeyDebounceMs); ok {
		if ms := store.GetInt(KeyDebounceMs); ms >= 0 {
			settings.DebounceWindow = time.Duration(ms) * time.Millisecond
		}
	}
	if ms := store.GetInt(KeyDeadlineMs); ms > 0 {
		settings.AggregationDeadline = time.Duration(ms) * time.Millisecond
	}
	if n := store.GetInt(KeyMaxQueryLength); n > 0 {
		settings.MaxQueryLength = n
	}
	if n := store.GetInt(KeyOverfetchMargin); n > 0 {
		settings.OverfetchMargin = n
	}
	if n := store.GetInt(KeyDefaultPageSize); n > 0 {
		settings.DefaultPageSize = n
	}
	if _, ok := store.Get(KeyCacheTTLMs); ok {
		settings.CacheTTL = time.Duration(store.GetInt(KeyCacheTTLMs)) * time.Millisecond
	}

	if err := settings.Validate(); err != nil {
		logger.Warn("Invalid engine settings in %s, using defaults: %v", store.Path(), err)
		return domain.DefaultEngineSettings()
	}
	return settings
}

// LoadRemoteSources reads the [[remote]] tables from configuration:
//
//	[[remote]]
//	type = "job"
//	url = "https://api.example.com/search"
//	requests_per_second = 2.0
//
// Malformed entries are skipped with a warning rather than failing
// startup. Entries without their own requests_per_second inherit the
// remote_defaults.requests_per_second value, if configured.
func LoadRemoteSources(store driven.ConfigStore) []domain.RemoteSource {
	raw, ok := store.Get("remote")
	if !ok {
		return nil
	}
	defaultRPS := store.GetFloat(KeyRemoteRPS)

	entries, ok := raw.([]any)
	if !ok {
		return nil
	}

	var sources []domain.RemoteSource
	for _, e := range entries {
		table, ok := e.(map[string]any)
		if !ok {
			continue
		}

		sourceType, _ := table["type"].(string)
		endpoint, _ := table["url"].(string)
		if sourceType == "" || endpoint == "" {
			logger.Warn("Skipping remote source without type or url")
			continue
		}

		rps := defaultRPS
		switch v := table["requests_per_second"].(type) {
		case float64:
			rps = v
		case int64:
			rps = float64(v)
		}

		sources = append(sources, domain.RemoteSource{
			Type:              domain.SourceType(sourceType),
			URL:               endpoint,
			RequestsPerSecond: rps,
		})
	}
	return sources
}
