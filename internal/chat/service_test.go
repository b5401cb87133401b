// AngelaMos | 2026
// service_test.go

package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoview/api/internal/core"
)

type fakeRepo struct {
	messages  []Message
	listCalls atomic.Int32
	failList  func(call int32) bool
}

func (f *fakeRepo) Create(_ context.Context, m *Message) error {
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeRepo) ListByCondominium(
	_ context.Context,
	_ string,
) ([]Message, error) {
	call := f.listCalls.Add(1)
	if f.failList != nil && f.failList(call) {
		return nil, errors.New("list unavailable")
	}
	out := make([]Message, len(f.messages))
	copy(out, f.messages)
	return out, nil
}

func newTestChat(repo Repository) (*Service, *Hub) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	return NewService(repo, hub), hub
}

func TestPostNotifiesRoom(t *testing.T) {
	repo := &fakeRepo{}
	svc, hub := newTestChat(repo)

	messages, err := svc.Post(context.Background(), "c1", "u1", "hello")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Body)

	select {
	case n := <-hub.broadcast:
		assert.Equal(t, notificationChanged, n.Type)
		assert.Equal(t, "c1", n.CondominiumID)
	default:
		t.Fatal("expected a room notification")
	}
}

func TestPostNotifiesEvenWhenRefreshFails(t *testing.T) {
	// First list call feeds the post-write snapshot refresh; fail it so the
	// response falls back to a plain list.
	repo := &fakeRepo{failList: func(call int32) bool { return call == 1 }}
	svc, hub := newTestChat(repo)

	messages, err := svc.Post(context.Background(), "c1", "u1", "hello")
	require.NoError(t, err)
	require.Len(t, messages, 1)

	select {
	case n := <-hub.broadcast:
		assert.Equal(t, "c1", n.CondominiumID)
	default:
		t.Fatal("room must hear about the write even when the refresh fails")
	}
}

func TestPostRejectsEmptyBody(t *testing.T) {
	repo := &fakeRepo{}
	svc, hub := newTestChat(repo)

	_, err := svc.Post(context.Background(), "c1", "u1", "   ")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, repo.messages)

	select {
	case <-hub.broadcast:
		t.Fatal("rejected post must not notify the room")
	default:
	}
}
