package domain

import "time"

// EngineSettings holds search engine behaviour configuration.
type EngineSettings struct {
	// DebounceWindow is how long input must pause before a search fires.
	DebounceWindow time.Duration

	// AggregationDeadline bounds how long one aggregation may take.
	// Sources that miss it are recorded as failed, not awaited.
	AggregationDeadline time.Duration

	// MaxQueryLength is the maximum query length in code points.
	MaxQueryLength int

	// OverfetchMargin is added on top of the page window when asking
	// each source for candidates, so merge and facet counts stay
	// correct without sources returning whole collections.
	OverfetchMargin int

	// DefaultPageSize is used when callers do not specify one.
	DefaultPageSize int

	// CacheTTL is how long aggregation results stay cached.
	// Zero disables the result cache.
	CacheTTL time.Duration
}

// DefaultEngineSettings returns sensible defaults for the engine.
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		DebounceWindow:      300 * time.Millisecond,
		AggregationDeadline: 2 * time.Second,
		MaxQueryLength:      256,
		OverfetchMargin:     50,
		DefaultPageSize:     DefaultPageSize,
		CacheTTL:            30 * time.Second,
	}
}

// Validate checks the settings are internally consistent.
func (s EngineSettings) Validate() error {
	if s.DebounceWindow < 0 {
		return ErrInvalidInput
	}
	if s.AggregationDeadline <= 0 {
		return ErrInvalidInput
	}
	if s.MaxQueryLength <= 0 {
		return ErrInvalidInput
	}
	if s.OverfetchMargin < 0 {
		return ErrInvalidInput
	}
	if s.DefaultPageSize <= 0 {
		return ErrInvalidInput
	}
	return nil
}

// RemoteSource describes a remote REST collection to register at
// startup, as configured in config.toml.
type RemoteSource struct {
	// Type is the source type the remote collection serves.
	Type SourceType

	// URL is the search endpoint base URL.
	URL string

	// RequestsPerSecond throttles calls to the remote API.
	// Zero means no throttling.
	RequestsPerSecond float64
}
