// AngelaMos | 2026
// gate_test.go

package gate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoview/api/internal/middleware"
	"github.com/condoview/api/internal/role"
)

type fakeResolver struct {
	resolved role.ResolvedRoles
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) (*role.ResolvedRoles, error) {
	out := f.resolved
	return &out, nil
}

type fakeMemberships struct{}

func (fakeMemberships) Membership(_ context.Context, _ string) (string, string, error) {
	return "condo-1", "unit-12", nil
}

type fakeRevoker struct {
	calls atomic.Int32
}

func (f *fakeRevoker) ForceSignOut(_ context.Context, _ string) {
	f.calls.Add(1)
}

type fakeNotifier struct {
	calls atomic.Int32
}

func (f *fakeNotifier) NotifyAccessDenied(_ context.Context, _, _ string) error {
	f.calls.Add(1)
	return nil
}

func newTestGate(allowed []string) (*Gate, *fakeRevoker, *fakeNotifier) {
	revoker := &fakeRevoker{}
	notifier := &fakeNotifier{}

	g := New(Config{
		Policy: NewAllowList(allowed),
		Roles: &fakeResolver{resolved: role.ResolvedRoles{
			Active:    "resident",
			Available: []string{"resident"},
		}},
		Memberships:  fakeMemberships{},
		Revoker:      revoker,
		Notifier:     notifier,
		Logger:       slog.New(slog.DiscardHandler),
		NotifyWindow: time.Minute,
	})

	return g, revoker, notifier
}

func authedRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/v1/announcements", nil)
	ctx := r.Context()
	ctx = context.WithValue(ctx, middleware.UserIDKey, "u1")
	ctx = context.WithValue(ctx, middleware.UserEmailKey, "person@example.com")
	ctx = context.WithValue(ctx, middleware.SessionTokenKey, token)
	return r.WithContext(ctx)
}

func TestGateAuthorizedInjectsMembership(t *testing.T) {
	g, _, _ := newTestGate([]string{"person@example.com"})

	var gotRole, gotCondo, gotUnit string
	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = middleware.GetActiveRole(r.Context())
		gotCondo = middleware.GetCondominiumID(r.Context())
		gotUnit = middleware.GetUnitID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("tok-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "resident", gotRole)
	assert.Equal(t, "condo-1", gotCondo)
	assert.Equal(t, "unit-12", gotUnit)
}

func TestGateCaseInsensitiveAllowList(t *testing.T) {
	g, _, _ := newTestGate([]string{"PERSON@Example.COM"})

	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("tok-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateRejectsUnlistedIdentity(t *testing.T) {
	g, revoker, notifier := newTestGate([]string{"someone-else@example.com"})

	handler := g.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for rejected identity")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("tok-1"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, int32(1), revoker.calls.Load())
	assert.Equal(t, int32(1), notifier.calls.Load())

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code     string `json:"code"`
			Redirect string `json:"redirect"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "IDENTITY_NOT_ALLOWED", body.Error.Code)
	assert.Equal(t, "/auth", body.Error.Redirect)
}

func TestGateRejectionSideEffectsDedupedPerToken(t *testing.T) {
	g, revoker, notifier := newTestGate([]string{"someone-else@example.com"})

	handler := g.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for rejected identity")
	}))

	for range 5 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest("tok-1"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	// Same token: one sign-out, one notification.
	assert.Equal(t, int32(1), revoker.calls.Load())
	assert.Equal(t, int32(1), notifier.calls.Load())

	// A different session token gets its own side effects.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("tok-2"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, int32(2), revoker.calls.Load())
	assert.Equal(t, int32(2), notifier.calls.Load())
}

func TestGateRejectionDedupUnderConcurrency(t *testing.T) {
	g, revoker, notifier := newTestGate([]string{"someone-else@example.com"})

	handler := g.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not run for rejected identity")
	}))

	const workers = 32

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(workers)

	for range workers {
		go func() {
			defer done.Done()
			start.Wait()
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest("tok-1"))
		}()
	}

	start.Done()
	done.Wait()

	// Simultaneous hits with the same token: still one sign-out, one notice.
	assert.Equal(t, int32(1), revoker.calls.Load())
	assert.Equal(t, int32(1), notifier.calls.Load())
}

func TestGateRequiresClaims(t *testing.T) {
	g, _, _ := newTestGate([]string{"person@example.com"})

	handler := g.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without claims")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/announcements", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSweepDropsExpiredEntries(t *testing.T) {
	g, revoker, _ := newTestGate([]string{"someone-else@example.com"})
	g.notifyWindow = -time.Second

	handler := g.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("tok-1"))
	require.Equal(t, int32(1), revoker.calls.Load())

	g.Sweep()

	// Entry expired and was swept, so the next hit re-runs side effects.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("tok-1"))
	assert.Equal(t, int32(2), revoker.calls.Load())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unknown", StateUnknown.String())
	assert.Equal(t, "checking", StateChecking.String())
	assert.Equal(t, "authorized", StateAuthorized.String())
	assert.Equal(t, "unauthorized", StateUnauthorized.String())
}
