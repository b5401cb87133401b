// AngelaMos | 2026
// handler.go

package chat

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/condoview/api/internal/config"
	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/middleware"
)

type PostRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

type Handler struct {
	service   *Service
	hub       *Hub
	cfg       config.ChatConfig
	upgrader  websocket.Upgrader
	validator *validator.Validate
	logger    *slog.Logger
}

func NewHandler(
	service *Service,
	hub *Hub,
	cfg config.ChatConfig,
	allowedOrigins []string,
	logger *slog.Logger,
) *Handler {
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[origin] = struct{}{}
	}

	return &Handler{
		service: service,
		hub:     hub,
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if _, ok := originSet["*"]; ok {
					return true
				}
				_, ok := originSet[origin]
				return ok
			},
		},
		validator: validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Get("/messages", h.List)
		r.Post("/messages", h.Post)
		r.Get("/ws", h.ServeWS)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.List(
		r.Context(),
		middleware.GetCondominiumID(r.Context()),
	)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "condominium scope required")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, messages)
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	messages, err := h.service.Post(
		r.Context(),
		middleware.GetCondominiumID(r.Context()),
		middleware.GetUserID(r.Context()),
		req.Body,
	)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "message body is empty")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, messages)
}

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	condominiumID := middleware.GetCondominiumID(r.Context())
	userID := middleware.GetUserID(r.Context())

	if condominiumID == "" {
		core.BadRequest(w, "condominium scope required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			"user_id", userID,
			"error", err,
		)
		return
	}

	client := newClient(h.hub, conn, condominiumID, userID, h.cfg, h.logger)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
