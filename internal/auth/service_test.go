// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoview/api/internal/config"
	"github.com/condoview/api/internal/core"
)

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == user.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(
	_ context.Context,
	email string,
) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (f *fakeUserRepo) GetUserByID(
	_ context.Context,
	id string,
) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) UpdatePassword(
	_ context.Context,
	userID, passwordHash string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) IncrementTokenVersion(
	_ context.Context,
	userID string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	u.TokenVersion++
	return nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*RefreshToken)}
}

func (f *fakeTokenRepo) Create(_ context.Context, token *RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *token
	stored.CreatedAt = time.Now()
	f.tokens[token.ID] = &stored
	return nil
}

func (f *fakeTokenRepo) FindByHash(
	_ context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.TokenHash == tokenHash {
			out := *t
			return &out, nil
		}
	}
	return nil, fmt.Errorf("find token: %w", core.ErrNotFound)
}

func (f *fakeTokenRepo) FindByID(
	_ context.Context,
	id string,
) (*RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[id]
	if !ok {
		return nil, fmt.Errorf("find token: %w", core.ErrNotFound)
	}
	out := *t
	return &out, nil
}

func (f *fakeTokenRepo) MarkAsUsed(
	_ context.Context,
	id, replacedByID string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[id]
	if !ok {
		return fmt.Errorf("mark as used: %w", core.ErrNotFound)
	}
	t.MarkAsUsed(replacedByID)
	return nil
}

func (f *fakeTokenRepo) RevokeByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[id]
	if !ok {
		return fmt.Errorf("revoke token: %w", core.ErrNotFound)
	}
	t.Revoke()
	return nil
}

func (f *fakeTokenRepo) RevokeByFamilyID(
	_ context.Context,
	familyID string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.FamilyID == familyID && !t.IsRevoked() {
			t.Revoke()
		}
	}
	return nil
}

func (f *fakeTokenRepo) RevokeAllForUser(
	_ context.Context,
	userID string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.UserID == userID && !t.IsRevoked() {
			t.Revoke()
		}
	}
	return nil
}

func (f *fakeTokenRepo) GetActiveSessionsForUser(
	_ context.Context,
	userID string,
) ([]RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []RefreshToken
	for _, t := range f.tokens {
		if t.UserID == userID && t.IsValid() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, t := range f.tokens {
		if t.IsExpired() {
			delete(f.tokens, id)
			n++
		}
	}
	return n, nil
}

// eventRecorder collects session events emitted during a test.
type eventRecorder struct {
	mu     sync.Mutex
	events []SessionEvent
}

func (r *eventRecorder) record(_ context.Context, ev SessionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) types() []SessionEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SessionEventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func newTestService(t *testing.T) (*Service, *fakeTokenRepo, *fakeUserRepo) {
	t.Helper()

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")
	require.NoError(t, GenerateKeyPair(privPath, pubPath))

	jwtManager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     privPath,
		PublicKeyPath:      pubPath,
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "condoview-test",
		Audience:           "condoview-api",
	})
	require.NoError(t, err)

	tokens := newFakeTokenRepo()
	users := newFakeUserRepo()

	// Cache and blacklist writes are best-effort, so a client pointed at a
	// closed port exercises the degraded path instead of failing the test.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})

	svc := NewService(
		tokens,
		users,
		jwtManager,
		rdb,
		15*time.Minute,
		slog.New(slog.DiscardHandler),
	)

	return svc, tokens, users
}

func register(t *testing.T, svc *Service, email string) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "correct horse battery",
		Name:     "Test Resident",
	}, "test-agent", "203.0.113.9")
	require.NoError(t, err)
	return resp
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	rec := &eventRecorder{}
	svc.OnSessionChange(rec.record)

	created := register(t, svc, "maria@example.com")
	assert.NotEmpty(t, created.Tokens.AccessToken)
	assert.NotEmpty(t, created.Tokens.RefreshToken)
	assert.Equal(t, "Bearer", created.Tokens.TokenType)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "maria@example.com",
		Password: "correct horse battery",
	}, "test-agent", "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, resp.User.ID)

	assert.Equal(
		t,
		[]SessionEventType{SessionSignedIn, SessionSignedIn},
		rec.types(),
	)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "maria@example.com")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "maria@example.com",
		Password: "wrong password here",
	}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown accounts get the same answer as wrong passwords.
	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse battery",
	}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "maria@example.com")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "maria@example.com",
		Password: "another password 123",
		Name:     "Impostor",
	}, "", "")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRefreshRotatesTokenAndEmitsEvent(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	created := register(t, svc, "maria@example.com")

	rec := &eventRecorder{}
	svc.OnSessionChange(rec.record)

	resp, err := svc.Refresh(
		context.Background(),
		created.Tokens.RefreshToken,
		"test-agent",
		"203.0.113.9",
	)
	require.NoError(t, err)
	assert.NotEqual(
		t,
		created.Tokens.RefreshToken,
		resp.Tokens.RefreshToken,
		"refresh must rotate the token",
	)

	old, err := tokens.FindByHash(
		context.Background(),
		core.HashToken(created.Tokens.RefreshToken),
	)
	require.NoError(t, err)
	assert.True(t, old.IsUsed, "spent token must be marked used")
	require.NotNil(t, old.ReplacedByID)

	assert.Equal(t, []SessionEventType{SessionRefreshed}, rec.types())
}

func TestRefreshReuseRevokesFamily(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := register(t, svc, "maria@example.com")

	rotated, err := svc.Refresh(
		context.Background(),
		created.Tokens.RefreshToken,
		"", "",
	)
	require.NoError(t, err)

	// Presenting the spent token again is a reuse attack.
	_, err = svc.Refresh(
		context.Background(),
		created.Tokens.RefreshToken,
		"", "",
	)
	assert.ErrorIs(t, err, ErrTokenReuse)

	// The whole family goes down with it, current token included.
	_, err = svc.Refresh(
		context.Background(),
		rotated.Tokens.RefreshToken,
		"", "",
	)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "never-issued", "", "")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestLogoutRejectsForeignToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := register(t, svc, "maria@example.com")

	err := svc.Logout(
		context.Background(),
		created.Tokens.RefreshToken,
		"someone-else",
	)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestForceSignOutRevokesEverything(t *testing.T) {
	svc, _, users := newTestService(t)
	created := register(t, svc, "maria@example.com")

	rec := &eventRecorder{}
	svc.OnSessionChange(rec.record)

	svc.ForceSignOut(context.Background(), created.User.ID)

	sessions, err := svc.GetActiveSessions(
		context.Background(),
		created.User.ID,
	)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	u, err := users.GetUserByID(context.Background(), created.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.TokenVersion, "token version bump kills access tokens")

	assert.Equal(t, []SessionEventType{SessionRevoked}, rec.types())

	// The version bump invalidates tokens minted before it.
	err = svc.ValidateTokenVersion(context.Background(), created.User.ID, 0)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestRevokeSessionScopedToOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := register(t, svc, "maria@example.com")

	sessions, err := svc.GetActiveSessions(
		context.Background(),
		created.User.ID,
	)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	err = svc.RevokeSession(
		context.Background(),
		"someone-else",
		sessions[0].ID,
	)
	assert.ErrorIs(t, err, core.ErrForbidden)

	err = svc.RevokeSession(
		context.Background(),
		created.User.ID,
		sessions[0].ID,
	)
	require.NoError(t, err)

	sessions, err = svc.GetActiveSessions(context.Background(), created.User.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := register(t, svc, "maria@example.com")

	err := svc.ChangePassword(
		context.Background(),
		created.User.ID,
		"not the password",
		"brand new password 1",
	)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(
		context.Background(),
		created.User.ID,
		"correct horse battery",
		"brand new password 1",
	)
	require.NoError(t, err)

	// Old password no longer works, new one does.
	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "maria@example.com",
		Password: "correct horse battery",
	}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "maria@example.com",
		Password: "brand new password 1",
	}, "", "")
	require.NoError(t, err)
}
