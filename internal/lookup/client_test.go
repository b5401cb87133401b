// AngelaMos | 2026
// client_test.go

package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoview/api/internal/config"
	"github.com/condoview/api/internal/core"
)

func newCEPClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.LookupConfig{
		ViaCEPBaseURL: srv.URL,
		ClientTimeout: 2 * time.Second,
	})
}

func newWeatherClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.LookupConfig{
		OpenWeatherBaseURL: srv.URL,
		OpenWeatherAPIKey:  apiKey,
		ClientTimeout:      2 * time.Second,
	})
}

func TestPostalCodeStripsFormatting(t *testing.T) {
	var gotPath string
	client := newCEPClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"cep": "01310-100",
			"logradouro": "Avenida Paulista",
			"bairro": "Bela Vista",
			"localidade": "São Paulo",
			"uf": "SP"
		}`))
	})

	address, err := client.PostalCode(context.Background(), "01310-100")
	require.NoError(t, err)

	assert.Equal(t, "/ws/01310100/json/", gotPath)
	assert.Equal(t, "Avenida Paulista", address.Street)
	assert.Equal(t, "Bela Vista", address.Neighborhood)
	assert.Equal(t, "São Paulo", address.City)
	assert.Equal(t, "SP", address.State)
}

func TestPostalCodeRejectsShortInput(t *testing.T) {
	client := NewClient(config.LookupConfig{ClientTimeout: time.Second})

	_, err := client.PostalCode(context.Background(), "1234")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestPostalCodeUpstreamNotFound(t *testing.T) {
	client := newCEPClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"erro": true}`))
	})

	_, err := client.PostalCode(context.Background(), "99999999")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCityWeatherFlattensPayload(t *testing.T) {
	client := newWeatherClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "Curitiba", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Curitiba",
			"weather": [{"description": "nublado"}],
			"main": {"temp": 18.6, "humidity": 81},
			"wind": {"speed": 3.4},
			"sys": {"sunrise": 1700000000, "sunset": 1700040000}
		}`))
	})

	weather, err := client.CityWeather(context.Background(), "Curitiba")
	require.NoError(t, err)

	assert.Equal(t, "Curitiba", weather.City)
	assert.Equal(t, 19, weather.Temperature)
	assert.Equal(t, "nublado", weather.Description)
	assert.Equal(t, 81, weather.Humidity)
	assert.InDelta(t, 3.4, weather.WindSpeed, 0.001)
	assert.Equal(t, int64(1700000000), weather.Sunrise)
}

func TestCityWeatherUnknownCity(t *testing.T) {
	client := newWeatherClient(t, "test-key", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.CityWeather(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCityWeatherMissingAPIKey(t *testing.T) {
	client := NewClient(config.LookupConfig{ClientTimeout: time.Second})

	_, err := client.CityWeather(context.Background(), "Curitiba")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
