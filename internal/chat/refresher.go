// AngelaMos | 2026
// refresher.go

package chat

import (
	"context"
	"sync"
)

// Refresher maintains a per-room snapshot of the message list. Every change
// notification triggers a full re-fetch; a generation counter ensures a slow
// fetch that started before a newer one can never overwrite the newer result.
type Refresher struct {
	fetch func(ctx context.Context, condominiumID string) ([]Message, error)

	mu    sync.Mutex
	gen   map[string]uint64
	saved map[string]snapshot
}

type snapshot struct {
	gen      uint64
	messages []Message
}

func NewRefresher(
	fetch func(ctx context.Context, condominiumID string) ([]Message, error),
) *Refresher {
	return &Refresher{
		fetch: fetch,
		gen:   make(map[string]uint64),
		saved: make(map[string]snapshot),
	}
}

// Refresh re-fetches the room and stores the result unless a later refresh
// already landed. Returns the messages this call fetched (which may be
// discarded as stale) and whether they were accepted as the newest snapshot.
func (r *Refresher) Refresh(
	ctx context.Context,
	condominiumID string,
) ([]Message, bool, error) {
	r.mu.Lock()
	r.gen[condominiumID]++
	myGen := r.gen[condominiumID]
	r.mu.Unlock()

	messages, err := r.fetch(ctx, condominiumID)
	if err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current := r.saved[condominiumID]; current.gen > myGen {
		// A refresh that started after this one already finished.
		return messages, false, nil
	}

	r.saved[condominiumID] = snapshot{gen: myGen, messages: messages}
	return messages, true, nil
}

// Snapshot returns the latest accepted message list for the room.
func (r *Refresher) Snapshot(condominiumID string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved[condominiumID].messages
}
