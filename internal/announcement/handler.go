// AngelaMos | 2026
// handler.go

package announcement

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/middleware"
	"github.com/condoview/api/internal/role"
)

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
	r.Route("/announcements", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(role.Admin, role.Manager))
			r.Post("/", h.Create)
			r.Put("/{announcementID}", h.Update)
			r.Delete("/{announcementID}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	condominiumID := middleware.GetCondominiumID(r.Context())

	announcements, err := h.service.List(r.Context(), condominiumID)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "condominium scope required")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, announcements)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	a, err := h.service.Create(
		r.Context(),
		middleware.GetCondominiumID(r.Context()),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, a)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	a, err := h.service.Update(
		r.Context(),
		chi.URLParam(r, "announcementID"),
		middleware.GetCondominiumID(r.Context()),
		req,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "announcement")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "announcement belongs to another condominium")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, a)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		chi.URLParam(r, "announcementID"),
		middleware.GetCondominiumID(r.Context()),
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "announcement")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "announcement belongs to another condominium")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}
