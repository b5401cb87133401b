// AngelaMos | 2026
// client.go

package chat

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/condoview/api/internal/config"
)

type Client struct {
	hub           *Hub
	conn          *websocket.Conn
	send          chan Notification
	condominiumID string
	userID        string
	cfg           config.ChatConfig
	logger        *slog.Logger
}

func newClient(
	hub *Hub,
	conn *websocket.Conn,
	condominiumID, userID string,
	cfg config.ChatConfig,
	logger *slog.Logger,
) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan Notification, 8),
		condominiumID: condominiumID,
		userID:        userID,
		cfg:           cfg,
		logger:        logger,
	}
}

// readPump discards inbound frames. Messages are posted over HTTP; the socket
// exists only to push change notifications. Reading is still required to
// process pongs and notice the peer going away.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close() //nolint:errcheck // connection teardown
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
			) {
				c.logger.Debug("chat socket closed unexpectedly",
					"user_id", c.userID,
					"error", err,
				)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	pingInterval := c.cfg.PongTimeout * 9 / 10
	ticker := time.NewTicker(pingInterval)

	defer func() {
		ticker.Stop()
		_ = c.conn.Close() //nolint:errcheck // connection teardown
	}()

	for {
		select {
		case notification, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)) //nolint:errcheck
			if !ok {
				_ = c.conn.WriteMessage( //nolint:errcheck // best-effort close frame
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				)
				return
			}

			if err := c.conn.WriteJSON(notification); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
