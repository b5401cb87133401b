// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/condoview/api/internal/core"
)

const (
	UserIDKey        contextKey = "user_id"
	UserEmailKey     contextKey = "user_email"
	ActiveRoleKey    contextKey = "active_role"
	CondominiumIDKey contextKey = "condominium_id"
	UnitIDKey        contextKey = "unit_id"
	SessionTokenKey  contextKey = "session_token"
	ClaimsKey        contextKey = "jwt_claims"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

type AccessTokenClaims struct {
	UserID       string
	Email        string
	TokenVersion int
}

// Authenticator verifies the bearer token and stores the identity claims on
// the request context. Role resolution and the identity allow-list check are
// layered on top by the access gate.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
			ctx = context.WithValue(ctx, SessionTokenKey, token)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			activeRole := GetActiveRole(r.Context())

			if activeRole == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if _, ok := roleSet[activeRole]; !ok {
				core.JSONError(
					w,
					core.ForbiddenError("insufficient permissions"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole("admin")(next)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		// Browsers cannot set headers on websocket upgrades.
		return r.URL.Query().Get("access_token")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

// WithMembership stores the resolved role and residence scope. Called by the
// access gate once the identity has passed the allow-list check.
func WithMembership(
	ctx context.Context,
	activeRole, condominiumID, unitID string,
) context.Context {
	ctx = context.WithValue(ctx, ActiveRoleKey, activeRole)
	ctx = context.WithValue(ctx, CondominiumIDKey, condominiumID)
	ctx = context.WithValue(ctx, UnitIDKey, unitID)
	return ctx
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}

func GetActiveRole(ctx context.Context) string {
	if role, ok := ctx.Value(ActiveRoleKey).(string); ok {
		return role
	}
	return ""
}

func GetCondominiumID(ctx context.Context) string {
	if id, ok := ctx.Value(CondominiumIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUnitID(ctx context.Context) string {
	if id, ok := ctx.Value(UnitIDKey).(string); ok {
		return id
	}
	return ""
}

func GetSessionToken(ctx context.Context) string {
	if token, ok := ctx.Value(SessionTokenKey).(string); ok {
		return token
	}
	return ""
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims); ok {
		return claims
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}

func IsAdmin(ctx context.Context) bool {
	return GetActiveRole(ctx) == "admin"
}
