package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidQuery indicates a query was rejected by normalisation
	// (empty after trimming, or exceeding the configured length limit).
	// It is the only error surfaced synchronously to search callers.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrSourceUnavailable indicates a source adapter could not be
	// reached or errored internally. Recorded per-source during
	// aggregation, never propagated to the caller.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSourceTimeout indicates a source adapter did not respond
	// within the aggregation deadline. Handled like ErrSourceUnavailable.
	ErrSourceTimeout = errors.New("source timeout")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	// Returned when registering a second adapter for the same type.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWatcherClosed indicates the debounce watcher has been closed
	// and no longer accepts input.
	ErrWatcherClosed = errors.New("watcher closed")
)
