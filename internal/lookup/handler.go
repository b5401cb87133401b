// AngelaMos | 2026
// handler.go

package lookup

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/condoview/api/internal/core"
)

type CEPRequest struct {
	CEP string `json:"cep" validate:"required,max=10"`
}

type WeatherRequest struct {
	City string `json:"city" validate:"required,max=100"`
}

type Handler struct {
	client    *Client
	validator *validator.Validate
}

func NewHandler(client *Client) *Handler {
	return &Handler{
		client:    client,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/lookup", func(r chi.Router) {
		r.Post("/cep", h.CEP)
		r.Post("/weather", h.Weather)
	})
}

func (h *Handler) CEP(w http.ResponseWriter, r *http.Request) {
	var req CEPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	address, err := h.client.PostalCode(r.Context(), req.CEP)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "postal code must have 8 digits")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "postal code")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, address)
}

func (h *Handler) Weather(w http.ResponseWriter, r *http.Request) {
	var req WeatherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	weather, err := h.client.CityWeather(r.Context(), req.City)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "city is required")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "city")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, weather)
}
