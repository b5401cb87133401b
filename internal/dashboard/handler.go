// AngelaMos | 2026
// handler.go

package dashboard

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.Stats)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.service.Stats(
		ctx,
		middleware.GetActiveRole(ctx),
		middleware.GetCondominiumID(ctx),
		middleware.GetUserID(ctx),
		middleware.GetUnitID(ctx),
	)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "condominium scope required")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}
