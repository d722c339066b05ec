package gitrepo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFreshnessTrackerStaleWithoutFetch(t *testing.T) {
	tracker := NewFreshnessTracker(DefaultStalenessWindow)
	assert.True(t, tracker.IsStale(time.Now()))
	assert.Nil(t, tracker.LastFetchedAt())
}

func TestFreshnessTrackerBoundary(t *testing.T) {
	tracker := NewFreshnessTracker(15 * time.Minute)
	fetchedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tracker.RecordFetch(fetchedAt)

	// exactly at the window boundary is still fresh
	assert.False(t, tracker.IsStale(fetchedAt.Add(15*time.Minute)))
	assert.True(t, tracker.IsStale(fetchedAt.Add(15*time.Minute+time.Second)))
	assert.False(t, tracker.IsStale(fetchedAt.Add(time.Minute)))
}

func TestFreshnessTrackerRecordFetchRefreshes(t *testing.T) {
	tracker := NewFreshnessTracker(15 * time.Minute)
	old := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	tracker.RecordFetch(old)

	now := old.Add(2 * time.Hour)
	assert.True(t, tracker.IsStale(now))

	tracker.RecordFetch(now)
	assert.False(t, tracker.IsStale(now))
	assert.Equal(t, now, *tracker.LastFetchedAt())
}
