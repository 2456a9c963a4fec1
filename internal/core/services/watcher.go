package services

import (
	"context"
	"sync"
	"time"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driving"
	"github.com/zwanski-tech/sitesearch/internal/logger"
)

// WatchState is the debounce watcher's coarse state.
// Settled and Cancelled are terminal per query instance; the watcher
// itself cycles back to Idle and keeps running.
type WatchState int

// Watcher states.
const (
	// WatchIdle means no input is pending and nothing is in flight.
	WatchIdle WatchState = iota

	// WatchPending means input arrived and the debounce timer is
	// running. Newer input restarts the timer.
	WatchPending

	// WatchInFlight means an aggregation has been issued and its
	// result has not arrived yet.
	WatchInFlight
)

// Watcher coalesces rapid successive query changes (a user typing)
// into aggregation calls. Input starts a debounce timer; only input
// that survives the window un-superseded is searched. Results for
// superseded queries are dropped by comparing the result's query
// identity against the latest issued query - cancellation is
// cooperative, the underlying calls are never hard-aborted.
//
// The caller therefore only ever observes results for the most recent
// input, in order, on the Results channel.
type Watcher struct {
	search driving.SearchService
	window time.Duration
	opts   driving.SearchOptions

	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	latestID string
	state    WatchState
	closed   bool

	results chan *domain.AggregationResult
	errs    chan error
}

// NewWatcher creates a watcher around the search service.
// A zero window fires on the next tick (no debouncing); a negative
// window falls back to the engine default.
func NewWatcher(search driving.SearchService, window time.Duration, opts driving.SearchOptions) *Watcher {
	if window < 0 {
		window = domain.DefaultEngineSettings().DebounceWindow
	}
	return &Watcher{
		search:  search,
		window:  window,
		opts:    opts,
		state:   WatchIdle,
		results: make(chan *domain.AggregationResult, 1),
		errs:    make(chan error, 1),
	}
}

// Results delivers aggregation results for the newest input only.
func (w *Watcher) Results() <-chan *domain.AggregationResult {
	return w.results
}

// Errors delivers normalisation failures for the newest input only.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// State returns the watcher's current state.
func (w *Watcher) State() WatchState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Submit feeds new raw input into the watcher. Any pending timer is
// discarded and restarted for the new input; any in-flight result is
// marked stale. Submit never blocks.
func (w *Watcher) Submit(ctx context.Context, raw string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return domain.ErrWatcherClosed
	}

	// Pending -> Cancelled for the superseded input; the watcher
	// immediately re-enters Pending for the new one.
	if w.timer != nil {
		w.timer.Stop()
	}
	// Invalidate anything in flight. Its result will be dropped on
	// arrival because the query ID no longer matches.
	w.latestID = ""
	w.gen++
	w.state = WatchPending

	gen := w.gen
	w.timer = time.AfterFunc(w.window, func() {
		w.fire(ctx, raw, gen)
	})
	return nil
}

// fire runs once the debounce window elapses without newer input.
// The generation guard covers the window between a timer firing and
// Stop being called for it: a timer from a superseded Submit may
// still run, but it will see a newer generation and give up.
func (w *Watcher) fire(ctx context.Context, raw string, gen uint64) {
	w.mu.Lock()
	if w.closed || gen != w.gen {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	normalised, err := Normalise(raw, 0)
	if err != nil {
		w.mu.Lock()
		w.state = WatchIdle
		closed := w.closed
		w.mu.Unlock()
		if !closed {
			w.deliverErr(err)
		}
		return
	}

	query := domain.NewSearchQuery(raw, normalised, w.opts.Types, w.opts.Page, w.opts.PageSize)

	w.mu.Lock()
	if w.closed || gen != w.gen {
		w.mu.Unlock()
		return
	}
	w.latestID = query.ID
	w.state = WatchInFlight
	w.mu.Unlock()

	go func() {
		result, err := w.search.Aggregate(ctx, query)

		w.mu.Lock()
		stale := w.closed || w.latestID != query.ID
		if !stale {
			w.state = WatchIdle
		}
		w.mu.Unlock()

		if stale {
			// InFlight -> Cancelled: a newer query superseded this
			// one while it was outstanding.
			logger.Debug("Dropping stale result for %q", query.NormalisedText)
			return
		}
		if err != nil {
			w.deliverErr(err)
			return
		}
		w.deliver(result)
	}()
}

// deliver pushes a result, replacing an unconsumed older one so slow
// consumers always see the freshest result.
func (w *Watcher) deliver(result *domain.AggregationResult) {
	for {
		select {
		case w.results <- result:
			return
		default:
			select {
			case <-w.results:
			default:
			}
		}
	}
}

func (w *Watcher) deliverErr(err error) {
	for {
		select {
		case w.errs <- err:
			return
		default:
			select {
			case <-w.errs:
			default:
			}
		}
	}
}

// Close stops the watcher. Pending timers are discarded and any
// in-flight result is dropped on arrival. Submit fails afterwards.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.latestID = ""
	w.state = WatchIdle
}
