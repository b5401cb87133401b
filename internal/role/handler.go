// AngelaMos | 2026
// handler.go

package role

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/middleware"
)

type SwitchRequest struct {
	Role string `json:"role" validate:"required,oneof=admin manager resident"`
}

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/roles", func(r chi.Router) {
		r.Get("/me", h.GetMine)
		r.Put("/me/active", h.SwitchActive)
	})
}

func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	resolved, err := h.service.Resolve(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resolved)
}

func (h *Handler) SwitchActive(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req SwitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resolved, err := h.service.Switch(r.Context(), userID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "unknown role")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "role not held")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, resolved)
}
