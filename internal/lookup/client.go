// AngelaMos | 2026
// client.go

package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/condoview/api/internal/config"
	"github.com/condoview/api/internal/core"
)

// ErrMissingAPIKey means the weather proxy is not configured. Surfaced as a
// plain 500 so the client sees the same failure as any other upstream error.
var ErrMissingAPIKey = errors.New("weather api key not configured")

type Address struct {
	PostalCode   string `json:"postal_code"`
	Street       string `json:"street"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type Weather struct {
	City        string  `json:"city"`
	Temperature int     `json:"temperature"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Sunrise     int64   `json:"sunrise"`
	Sunset      int64   `json:"sunset"`
}

// Client proxies the two public lookup services. Stateless, no retries, no
// caching: a failed call surfaces as one error envelope.
type Client struct {
	http *http.Client
	cfg  config.LookupConfig
}

func NewClient(cfg config.LookupConfig) *Client {
	return &Client{
		http: &http.Client{Timeout: cfg.ClientTimeout},
		cfg:  cfg,
	}
}

type viaCEPResponse struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	NotFound     bool   `json:"erro"`
}

// PostalCode resolves a Brazilian postal code. Non-digits are stripped before
// validation; exactly eight digits are required.
func (c *Client) PostalCode(ctx context.Context, raw string) (*Address, error) {
	digits := stripNonDigits(raw)
	if len(digits) != 8 {
		return nil, fmt.Errorf(
			"postal code must have 8 digits: %w",
			core.ErrInvalidInput,
		)
	}

	endpoint := fmt.Sprintf("%s/ws/%s/json/", c.cfg.ViaCEPBaseURL, digits)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build postal code request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("postal code lookup: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"postal code lookup: upstream status %d",
			resp.StatusCode,
		)
	}

	var payload viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode postal code response: %w", err)
	}

	if payload.NotFound {
		return nil, fmt.Errorf("postal code lookup: %w", core.ErrNotFound)
	}

	return &Address{
		PostalCode:   payload.CEP,
		Street:       payload.Street,
		Complement:   payload.Complement,
		Neighborhood: payload.Neighborhood,
		City:         payload.City,
		State:        payload.State,
	}, nil
}

type openWeatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

// CityWeather fetches current conditions in metric units and flattens the
// upstream shape to the fields the dashboards render.
func (c *Client) CityWeather(ctx context.Context, city string) (*Weather, error) {
	if c.cfg.OpenWeatherAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("city is required: %w", core.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf(
		"%s/data/2.5/weather?q=%s&units=metric&lang=pt_br&appid=%s",
		c.cfg.OpenWeatherBaseURL,
		url.QueryEscape(city),
		c.cfg.OpenWeatherAPIKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather lookup: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("weather lookup: %w", core.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"weather lookup: upstream status %d",
			resp.StatusCode,
		)
	}

	var payload openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	description := ""
	if len(payload.Weather) > 0 {
		description = payload.Weather[0].Description
	}

	return &Weather{
		City:        payload.Name,
		Temperature: int(math.Round(payload.Main.Temp)),
		Description: description,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   payload.Wind.Speed,
		Sunrise:     payload.Sys.Sunrise,
		Sunset:      payload.Sys.Sunset,
	}, nil
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
