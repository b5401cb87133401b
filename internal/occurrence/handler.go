// AngelaMos | 2026
// handler.go

package occurrence

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
	r.Route("/occurrences", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Report)

		r.With(middleware.RequireRole(role.Admin, role.Manager)).
			Put("/{occurrenceID}/status", h.Transition)
	})
}

// List re-derives its scope from the active role on every call: residents see
// their own reports, managers and admins the whole condominium.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		occurrences []Occurrence
		err         error
	)

	switch middleware.GetActiveRole(r.Context()) {
	case role.Admin, role.Manager:
		occurrences, err = h.service.ListCondominium(
			r.Context(),
			middleware.GetCondominiumID(r.Context()),
		)
	default:
		occurrences, err = h.service.ListMine(
			r.Context(),
			middleware.GetUserID(r.Context()),
		)
	}

	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, occurrences)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	o, err := h.service.Report(
		r.Context(),
		middleware.GetCondominiumID(r.Context()),
		middleware.GetUnitID(r.Context()),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, o)
}

func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	o, err := h.service.Transition(
		r.Context(),
		chi.URLParam(r, "occurrenceID"),
		middleware.GetCondominiumID(r.Context()),
		req.Status,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "occurrence")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "occurrence belongs to another condominium")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "invalid status transition")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, o)
}
