// AngelaMos | 2026
// handler.go

package financial

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
	r.Route("/financial", func(r chi.Router) {
		r.Get("/records", h.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(role.Admin, role.Manager))
			r.Post("/records", h.Create)
			r.Put("/records/{recordID}/pay", h.MarkPaid)
		})
	})
}

// List scope follows the active role: residents get their unit's records,
// managers and admins the whole condominium.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		records []Record
		err     error
	)

	switch middleware.GetActiveRole(r.Context()) {
	case role.Admin, role.Manager:
		records, err = h.service.ListCondominium(
			r.Context(),
			middleware.GetCondominiumID(r.Context()),
		)
	default:
		records, err = h.service.ListForUnit(
			r.Context(),
			middleware.GetUnitID(r.Context()),
		)
	}

	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, records)
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

	rec, err := h.service.Create(
		r.Context(),
		middleware.GetCondominiumID(r.Context()),
		req,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, rec)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.MarkPaid(
		r.Context(),
		chi.URLParam(r, "recordID"),
		middleware.GetCondominiumID(r.Context()),
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "financial record")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "record belongs to another condominium")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "record already paid")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, rec)
}
