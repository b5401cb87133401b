// AngelaMos | 2026
// handler_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoview/api/internal/middleware"
	"github.com/condoview/api/internal/role"
)

type fakeRoleSource struct {
	resolved role.ResolvedRoles
}

func (f *fakeRoleSource) Resolve(
	_ context.Context,
	_ string,
) (*role.ResolvedRoles, error) {
	out := f.resolved
	return &out, nil
}

func TestGetMeIncludesRoles(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := register(t, svc, "maria@example.com")

	h := NewHandler(svc, &fakeRoleSource{resolved: role.ResolvedRoles{
		Active:    "manager",
		Available: []string{"manager", "resident"},
	}})

	r := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, created.User.ID)
	rec := httptest.NewRecorder()
	h.GetMe(rec, r.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool       `json:"success"`
		Data    MeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "maria@example.com", body.Data.User.Email)
	assert.Equal(t, "manager", body.Data.ActiveRole)
	assert.Equal(t, []string{"manager", "resident"}, body.Data.AvailableRoles)
}

func TestGetMeRequiresAuthentication(t *testing.T) {
	svc, _, _ := newTestService(t)
	h := NewHandler(svc, &fakeRoleSource{})

	rec := httptest.NewRecorder()
	h.GetMe(rec, httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExtractIPAddressPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	r.RemoteAddr = "192.0.2.10:4431"
	r.Header.Set("X-Forwarded-For", "198.51.100.7, 203.0.113.9")

	// Last hop is the trusted proxy's observation.
	assert.Equal(t, "203.0.113.9", extractIPAddress(r))

	r.Header.Del("X-Forwarded-For")
	assert.Equal(t, "192.0.2.10", extractIPAddress(r))
}
