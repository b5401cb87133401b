// AngelaMos | 2026
// refresher_test.go

package chat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshStoresSnapshot(t *testing.T) {
	r := NewRefresher(func(_ context.Context, _ string) ([]Message, error) {
		return []Message{{ID: "m1"}}, nil
	})

	messages, accepted, err := r.Refresh(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, accepted)
	require.Len(t, messages, 1)

	snap := r.Snapshot("c1")
	require.Len(t, snap, 1)
	assert.Equal(t, "m1", snap[0].ID)
}

func TestStaleFetchNeverOverwritesNewer(t *testing.T) {
	// First refresh starts, then a second starts and finishes; the first
	// finishes last with older data and must be discarded.
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	var calls atomic.Int32
	r := NewRefresher(func(_ context.Context, _ string) ([]Message, error) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-releaseFirst
			return []Message{{ID: "old"}}, nil
		}
		return []Message{{ID: "old"}, {ID: "new"}}, nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, accepted, err := r.Refresh(context.Background(), "c1")
		assert.NoError(t, err)
		assert.False(t, accepted, "stale refresh must be discarded")
	}()

	<-firstStarted

	_, accepted, err := r.Refresh(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, accepted)

	close(releaseFirst)
	wg.Wait()

	snap := r.Snapshot("c1")
	require.Len(t, snap, 2, "newer snapshot must win")
}

func TestBurstOfNotificationsBoundedFetches(t *testing.T) {
	var calls atomic.Int32
	r := NewRefresher(func(_ context.Context, _ string) ([]Message, error) {
		calls.Add(1)
		return nil, nil
	})

	for range 5 {
		_, _, err := r.Refresh(context.Background(), "c1")
		require.NoError(t, err)
	}

	// One fetch per notification, never more.
	assert.Equal(t, int32(5), calls.Load())
}

func TestRefreshPropagatesFetchError(t *testing.T) {
	r := NewRefresher(func(_ context.Context, _ string) ([]Message, error) {
		return nil, errors.New("db down")
	})

	_, accepted, err := r.Refresh(context.Background(), "c1")
	assert.Error(t, err)
	assert.False(t, accepted)
	assert.Nil(t, r.Snapshot("c1"))
}

func TestRoomsAreIndependent(t *testing.T) {
	r := NewRefresher(func(_ context.Context, condominiumID string) ([]Message, error) {
		return []Message{{CondominiumID: condominiumID}}, nil
	})

	_, _, err := r.Refresh(context.Background(), "c1")
	require.NoError(t, err)
	_, _, err = r.Refresh(context.Background(), "c2")
	require.NoError(t, err)

	assert.Equal(t, "c1", r.Snapshot("c1")[0].CondominiumID)
	assert.Equal(t, "c2", r.Snapshot("c2")[0].CondominiumID)
}
