// AngelaMos | 2026
// handler.go

package comment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/middleware"
)

type PostRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
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

// RegisterRoutes mounts the shared thread endpoints. The kind segment picks
// the parent collection: /comments/announcement/{id}, /comments/occurrence/{id}.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/comments/{kind}/{parentID}", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Post)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	kind, err := ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		core.BadRequest(w, "unknown comment kind")
		return
	}

	comments, err := h.service.List(
		r.Context(),
		kind,
		chi.URLParam(r, "parentID"),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, comments)
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	kind, err := ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		core.BadRequest(w, "unknown comment kind")
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	comments, err := h.service.Post(
		r.Context(),
		kind,
		chi.URLParam(r, "parentID"),
		middleware.GetUserID(r.Context()),
		req.Body,
	)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "comment body is empty")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, comments)
}
