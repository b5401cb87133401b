// AngelaMos | 2026
// handler.go

package market

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
	r.Route("/market", func(r chi.Router) {
		r.Get("/products", h.Products)
		r.Get("/products/search", h.SearchProducts)
		r.Get("/products/category/{category}", h.ProductsByCategory)
		r.Get("/categories", h.Categories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Put("/", h.SaveCart)
			r.Delete("/", h.ClearCart)
		})

		r.Post("/checkout", h.Checkout)
		r.Get("/orders", h.ListOrders)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(role.Admin, role.Manager))
			r.Get("/orders/all", h.ListCondominiumOrders)
			r.Put("/orders/{orderID}/status", h.UpdateOrderStatus)
		})
	})
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))

	page, err := h.service.Products(r.Context(), limit, skip)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, page)
}

func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "search query required")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, page)
}

func (h *Handler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ProductsByCategory(
		r.Context(),
		chi.URLParam(r, "category"),
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "category required")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "category")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, page)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, categories)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.GetCart(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, items)
}

func (h *Handler) SaveCart(w http.ResponseWriter, r *http.Request) {
	var items []CartItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	for _, item := range items {
		if err := h.validator.Struct(item); err != nil {
			core.BadRequest(w, core.FormatValidationError(err))
			return
		}
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.SaveCart(r.Context(), userID, items); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, items)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	order, err := h.service.Checkout(
		r.Context(),
		middleware.GetUserID(r.Context()),
		middleware.GetCondominiumID(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "cart is empty or scope missing")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListMyOrders(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, orders)
}

func (h *Handler) ListCondominiumOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListCondominiumOrders(
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

	core.OK(w, orders)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	order, err := h.service.UpdateOrderStatus(
		r.Context(),
		chi.URLParam(r, "orderID"),
		middleware.GetCondominiumID(r.Context()),
		req.Status,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "order")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "order belongs to another condominium")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "order status can no longer change")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, order)
}
