// AngelaMos | 2026
// hub.go

package chat

import (
	"context"
	"log/slog"
)

// Notification is what the hub pushes to connected clients. It carries no
// message content: receivers re-fetch the thread over HTTP, so every client
// converges on the authoritative list instead of merging deltas.
type Notification struct {
	Type          string `json:"type"`
	CondominiumID string `json:"condominium_id"`
}

const notificationChanged = "messages_changed"

type Hub struct {
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan Notification
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Notification, 64),
		logger:     logger,
	}
}

// Run owns all room state. Single goroutine, so no locks.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, room := range h.rooms {
				for client := range room {
					close(client.send)
				}
			}
			return

		case client := <-h.register:
			room := h.rooms[client.condominiumID]
			if room == nil {
				room = make(map[*Client]struct{})
				h.rooms[client.condominiumID] = room
			}
			room[client] = struct{}{}
			h.logger.Debug("chat client joined",
				"condominium_id", client.condominiumID,
				"room_size", len(room),
			)

		case client := <-h.unregister:
			if room, ok := h.rooms[client.condominiumID]; ok {
				if _, present := room[client]; present {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.condominiumID)
					}
				}
			}

		case notification := <-h.broadcast:
			for client := range h.rooms[notification.CondominiumID] {
				select {
				case client.send <- notification:
				default:
					// Slow consumer: drop the connection, the client will
					// reconnect and re-fetch.
					delete(h.rooms[notification.CondominiumID], client)
					close(client.send)
				}
			}
		}
	}
}

// NotifyChanged tells every listener in the condominium room that the thread
// changed. Non-blocking: when the hub is saturated the notification is
// dropped and the next one catches clients up.
func (h *Hub) NotifyChanged(condominiumID string) {
	select {
	case h.broadcast <- Notification{
		Type:          notificationChanged,
		CondominiumID: condominiumID,
	}:
	default:
		h.logger.Warn("chat broadcast buffer full, dropping notification",
			"condominium_id", condominiumID,
		)
	}
}
