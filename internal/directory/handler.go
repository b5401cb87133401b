// AngelaMos | 2026
// handler.go

package directory

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
	r.Route("/condominiums", func(r chi.Router) {
		r.Get("/", h.ListCondominiums)
		r.Get("/{condominiumID}", h.GetCondominium)
		r.Get("/{condominiumID}/units", h.ListUnits)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", h.CreateCondominium)
			r.Put("/{condominiumID}", h.UpdateCondominium)
			r.Delete("/{condominiumID}", h.DeleteCondominium)
		})
	})

	r.Route("/units", func(r chi.Router) {
		r.With(middleware.RequireRole(role.Admin, role.Manager)).
			Post("/", h.CreateUnit)
	})

	r.Route("/residents", func(r chi.Router) {
		r.With(middleware.RequireRole(role.Admin, role.Manager)).
			Get("/", h.ListResidents)
		r.With(middleware.RequireRole(role.Admin, role.Manager)).
			Post("/", h.UpsertProfile)
	})

	r.Route("/profiles", func(r chi.Router) {
		r.Get("/me", h.GetMyProfile)
		r.Put("/me", h.UpdateMyProfile)
	})
}

func (h *Handler) ListCondominiums(w http.ResponseWriter, r *http.Request) {
	condominiums, err := h.service.ListCondominiums(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, condominiums)
}

func (h *Handler) GetCondominium(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "condominiumID")

	c, err := h.service.GetCondominium(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "condominium")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, c)
}

func (h *Handler) CreateCondominium(w http.ResponseWriter, r *http.Request) {
	var req CreateCondominiumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.CreateCondominium(r.Context(), req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, c)
}

func (h *Handler) UpdateCondominium(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "condominiumID")

	var req UpdateCondominiumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.UpdateCondominium(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "condominium")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, c)
}

func (h *Handler) DeleteCondominium(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "condominiumID")

	if err := h.service.DeleteCondominium(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "condominium")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req CreateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.CreateUnit(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("unit"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, u)
}

func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	condominiumID := chi.URLParam(r, "condominiumID")

	units, err := h.service.ListUnits(r.Context(), condominiumID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, units)
}

// ListResidents is condominium-scoped: managers see their own building,
// admins may name any condominium via query parameter.
func (h *Handler) ListResidents(w http.ResponseWriter, r *http.Request) {
	condominiumID := middleware.GetCondominiumID(r.Context())
	if middleware.IsAdmin(r.Context()) {
		if requested := r.URL.Query().Get("condominium_id"); requested != "" {
			condominiumID = requested
		}
	}

	if condominiumID == "" {
		core.BadRequest(w, "condominium scope required")
		return
	}

	residents, err := h.service.ListResidents(r.Context(), condominiumID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, residents)
}

func (h *Handler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	// Managers can only place residents in their own condominium.
	if !middleware.IsAdmin(r.Context()) &&
		req.CondominiumID != middleware.GetCondominiumID(r.Context()) {
		core.Forbidden(w, "cannot manage another condominium")
		return
	}

	p, err := h.service.UpsertProfile(r.Context(), req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, p)
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	p, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, p)
}

func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateMyProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.UpdateMyProfile(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, p)
}
