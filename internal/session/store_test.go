package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharederrors "github.com/gitscrub/gitscrub/pkg/shared/errors"
)

func TestStoreSingleInFlightOperation(t *testing.T) {
	store := NewStore(NewState())

	release, err := store.BeginOperation("scan")
	require.NoError(t, err)

	_, err = store.BeginOperation("purge")
	assert.ErrorIs(t, err, sharederrors.ErrOperationInFlight)

	name, busy := store.InFlight()
	assert.True(t, busy)
	assert.Equal(t, "scan", name)

	release()
	_, busy = store.InFlight()
	assert.False(t, busy)

	release2, err := store.BeginOperation("purge")
	require.NoError(t, err)
	release2()
}

func TestStoreReleaseIsIdempotent(t *testing.T) {
	store := NewStore(NewState())

	release, err := store.BeginOperation("scan")
	require.NoError(t, err)
	release()
	release()

	_, err = store.BeginOperation("scan")
	require.NoError(t, err)
}

func TestStoreDispatchNotifiesSubscribers(t *testing.T) {
	store := NewStore(NewState())

	var seen []string
	store.Subscribe(func(s State) {
		seen = append(seen, s.RepoRoot)
	})

	store.Dispatch(RepoRootChanged{RepoRoot: "/repos/app"})
	store.Dispatch(RepoRootChanged{RepoRoot: "/repos/other"})

	assert.Equal(t, []string{"/repos/app", "/repos/other"}, seen)
	assert.Equal(t, "/repos/other", store.State().RepoRoot)
}
