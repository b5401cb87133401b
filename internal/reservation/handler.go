// AngelaMos | 2026
// handler.go

package reservation

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
	r.Get("/common-areas", h.ListAreas)

	r.Route("/reservations", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.With(middleware.RequireRole(role.Admin, role.Manager)).
			Put("/{reservationID}/status", h.SetStatus)
	})
}

func (h *Handler) ListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.service.ListAreas(
		r.Context(),
		middleware.GetCondominiumID(r.Context()),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, areas)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		reservations []Reservation
		err          error
	)

	switch middleware.GetActiveRole(r.Context()) {
	case role.Admin, role.Manager:
		reservations, err = h.service.ListCondominium(
			r.Context(),
			middleware.GetCondominiumID(r.Context()),
		)
	default:
		reservations, err = h.service.ListMine(
			r.Context(),
			middleware.GetUserID(r.Context()),
		)
	}

	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, reservations)
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

	res, err := h.service.Create(
		r.Context(),
		middleware.GetCondominiumID(r.Context()),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "reservation must start before it ends")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "common area")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, res)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	res, err := h.service.SetStatus(
		r.Context(),
		chi.URLParam(r, "reservationID"),
		middleware.GetCondominiumID(r.Context()),
		req.Status,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "reservation")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "reservation belongs to another condominium")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "reservation already cancelled")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, res)
}
