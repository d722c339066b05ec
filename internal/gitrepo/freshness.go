package gitrepo

import (
	"sync"
	"time"
)

// DefaultStalenessWindow is how long fetched remote refs are trusted before
// the operator is advised to refresh.
const DefaultStalenessWindow = 15 * time.Minute

// FreshnessTracker records the last successful remote fetch for the active
// repository and derives a staleness flag. Pure bookkeeping, no side effects.
type FreshnessTracker struct {
	mu            sync.Mutex
	window        time.Duration
	lastFetchedAt *time.Time
}

// NewFreshnessTracker creates a tracker with the given staleness window; a
// non-positive window falls back to the default.
func NewFreshnessTracker(window time.Duration) *FreshnessTracker {
	if window <= 0 {
		window = DefaultStalenessWindow
	}
	return &FreshnessTracker{window: window}
}

// RecordFetch notes a successful remote fetch.
func (t *FreshnessTracker) RecordFetch(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastFetchedAt = &at
}

// LastFetchedAt returns the last recorded fetch time, or nil when no fetch
// has happened yet.
func (t *FreshnessTracker) LastFetchedAt() *time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastFetchedAt == nil {
		return nil
	}
	at := *t.lastFetchedAt
	return &at
}

// IsStale reports whether the cached remote refs may be out of date: true
// when no fetch was ever recorded or the last one is older than the window.
// A fetch exactly at the window boundary still counts as fresh.
func (t *FreshnessTracker) IsStale(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastFetchedAt == nil {
		return true
	}
	return now.Sub(*t.lastFetchedAt) > t.window
}
