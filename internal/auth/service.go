// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/condoview/api/internal/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrEmailExists        = errors.New("email already exists")
)

// SessionEvent describes a change to a user's authenticated session. Listeners
// registered with OnSessionChange receive one event per login, token refresh,
// sign-out, and forced revocation, in the order the changes were applied.
type SessionEvent struct {
	UserID string
	Email  string
	Type   SessionEventType
}

type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionRefreshed SessionEventType = "refreshed"
	SessionSignedOut SessionEventType = "signed_out"
	SessionRevoked   SessionEventType = "revoked"
)

const userCacheTTL = 5 * time.Minute

type Service struct {
	repo      Repository
	users     UserRepository
	jwt       *JWTManager
	redis     *redis.Client
	logger    *slog.Logger
	accessTTL time.Duration

	mu        sync.RWMutex
	listeners []func(context.Context, SessionEvent)
}

func NewService(
	repo Repository,
	users UserRepository,
	jwtManager *JWTManager,
	redisClient *redis.Client,
	accessTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		jwt:       jwtManager,
		redis:     redisClient,
		logger:    logger,
		accessTTL: accessTTL,
	}
}

// OnSessionChange registers a listener invoked synchronously after every
// session transition. Listeners must not block.
func (s *Service) OnSessionChange(fn func(context.Context, SessionEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify(ctx context.Context, event SessionEvent) {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx, event)
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.users.UpdatePassword(ctx, user.ID, newHash)
	}

	resp, err := s.createAuthResponse(ctx, user, userAgent, ipAddress, "", nil)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, SessionEvent{
		UserID: user.ID,
		Email:  user.Email,
		Type:   SessionSignedIn,
	})

	return resp, nil
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	resp, err := s.createAuthResponse(ctx, user, userAgent, ipAddress, "", nil)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, SessionEvent{
		UserID: user.ID,
		Email:  user.Email,
		Type:   SessionSignedIn,
	})

	return resp, nil
}

func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	tokenHash := core.HashToken(refreshToken)

	storedToken, err := s.repo.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if storedToken.IsUsed {
		//nolint:errcheck // security revocation continues regardless
		_ = s.repo.RevokeByFamilyID(ctx, storedToken.FamilyID)
		return nil, ErrTokenReuse
	}

	if !storedToken.IsValid() {
		if storedToken.IsRevoked() {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.users.GetUserByID(ctx, storedToken.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	resp, err := s.createAuthResponse(
		ctx,
		user,
		userAgent,
		ipAddress,
		storedToken.FamilyID,
		&storedToken.ID,
	)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, SessionEvent{
		UserID: user.ID,
		Email:  user.Email,
		Type:   SessionRefreshed,
	})

	return resp, nil
}

func (s *Service) Logout(
	ctx context.Context,
	refreshToken, userID string,
) error {
	tokenHash := core.HashToken(refreshToken)

	storedToken, err := s.repo.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find token: %w", err)
	}

	if storedToken.UserID != userID {
		return fmt.Errorf("logout: %w", core.ErrForbidden)
	}

	if err := s.repo.RevokeByID(ctx, storedToken.ID); err != nil &&
		!errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.invalidateUserCache(ctx, userID)
	s.notify(ctx, SessionEvent{UserID: userID, Type: SessionSignedOut})

	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}

	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	s.invalidateUserCache(ctx, userID)
	s.notify(ctx, SessionEvent{UserID: userID, Type: SessionSignedOut})

	return nil
}

// ForceSignOut revokes every credential a user holds. Used when an identity
// fails the access allow-list after authenticating. Best-effort: failures are
// logged, never surfaced, so the caller's rejection flow always completes.
func (s *Service) ForceSignOut(ctx context.Context, userID string) {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		s.logger.Warn("force sign-out: revoke tokens failed",
			"user_id", userID,
			"error", err,
		)
	}

	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		s.logger.Warn("force sign-out: token version bump failed",
			"user_id", userID,
			"error", err,
		)
	}

	s.invalidateUserCache(ctx, userID)
	s.notify(ctx, SessionEvent{UserID: userID, Type: SessionRevoked})
}

func (s *Service) RevokeAccessToken(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	key := "blacklist:" + jti
	ttl := time.Until(expiresAt)

	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (s *Service) IsAccessTokenBlacklisted(
	ctx context.Context,
	jti string,
) (bool, error) {
	key := "blacklist:" + jti

	exists, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}

func (s *Service) GetActiveSessions(
	ctx context.Context,
	userID string,
) ([]SessionInfo, error) {
	tokens, err := s.repo.GetActiveSessionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}

	sessions := make([]SessionInfo, 0, len(tokens))
	for _, t := range tokens {
		sessions = append(sessions, SessionInfo{
			ID:        t.ID,
			UserAgent: t.UserAgent,
			IPAddress: t.IPAddress,
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
		})
	}

	return sessions, nil
}

func (s *Service) RevokeSession(
	ctx context.Context,
	userID, sessionID string,
) error {
	token, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}

	if token.UserID != userID {
		return fmt.Errorf("revoke session: %w", core.ErrForbidden)
	}

	if err := s.repo.RevokeByID(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID, currentPassword, newPassword string,
) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	valid, _, err := core.VerifyPasswordTimingSafe(
		currentPassword,
		&user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.LogoutAll(ctx, userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	return nil
}

func (s *Service) ValidateTokenVersion(
	ctx context.Context,
	userID string,
	tokenVersion int,
) error {
	user, err := s.getUserCached(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if tokenVersion < user.TokenVersion {
		return fmt.Errorf("validate token version: %w", core.ErrTokenRevoked)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	user, err := s.getUserCached(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}, nil
}

// getUserCached reads through a short-lived Redis mirror of the users row so
// per-request token version checks do not hit Postgres.
func (s *Service) getUserCached(
	ctx context.Context,
	userID string,
) (*User, error) {
	key := "session:user:" + userID

	if data, err := s.redis.Get(ctx, key).Bytes(); err == nil {
		var user User
		if jsonErr := json.Unmarshal(data, &user); jsonErr == nil {
			return &user, nil
		}
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(user); err == nil {
		//nolint:errcheck // cache write is best-effort
		_ = s.redis.Set(ctx, key, data, userCacheTTL).Err()
	}

	return user, nil
}

func (s *Service) invalidateUserCache(ctx context.Context, userID string) {
	//nolint:errcheck // cache invalidation is best-effort
	_ = s.redis.Del(ctx, "session:user:"+userID).Err()
}

func (s *Service) createAuthResponse(
	ctx context.Context,
	user *User,
	userAgent, ipAddress, familyID string,
	oldTokenID *string,
) (*AuthResponse, error) {
	accessToken, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshData, err := s.jwt.CreateRefreshToken(user.ID, familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	newTokenID := uuid.New().String()

	refreshTokenEntity := &RefreshToken{
		ID:        newTokenID,
		UserID:    user.ID,
		TokenHash: refreshData.Hash,
		FamilyID:  refreshData.FamilyID,
		ExpiresAt: refreshData.ExpiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	if err := s.repo.Create(ctx, refreshTokenEntity); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	if oldTokenID != nil {
		//nolint:errcheck // best-effort token chain tracking
		_ = s.repo.MarkAsUsed(ctx, *oldTokenID, newTokenID)
	}

	return &AuthResponse{
		User: UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			CreatedAt: user.CreatedAt,
		},
		Tokens: TokenResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshData.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.accessTTL / time.Second),
			ExpiresAt:    time.Now().Add(s.accessTTL),
		},
	}, nil
}
