// AngelaMos | 2026
// gate.go

package gate

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/middleware"
	"github.com/condoview/api/internal/role"
)

// State tracks where a request stands in the authorization check. Requests
// begin Unknown, move to Checking once claims are present, and end in
// Authorized or Unauthorized. Exposed for logging and tests.
type State int

const (
	StateUnknown State = iota
	StateChecking
	StateAuthorized
	StateUnauthorized
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthorized:
		return "authorized"
	case StateUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// RoleResolver yields the active role and the set of roles a user may act as.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string) (*role.ResolvedRoles, error)
}

// MembershipSource locates the user's residence scope. Implemented by the
// directory service.
type MembershipSource interface {
	Membership(
		ctx context.Context,
		userID string,
	) (condominiumID, unitID string, err error)
}

// SessionRevoker tears down an identity's credentials. Best-effort: the gate
// rejects the request whether or not revocation succeeds.
type SessionRevoker interface {
	ForceSignOut(ctx context.Context, userID string)
}

// Notifier records a user-visible notice about the rejection.
type Notifier interface {
	NotifyAccessDenied(ctx context.Context, userID, email string) error
}

const redirectTarget = "/auth"

type Gate struct {
	policy       Policy
	roles        RoleResolver
	memberships  MembershipSource
	revoker      SessionRevoker
	notifier     Notifier
	logger       *slog.Logger
	notifyWindow time.Duration

	// rejected dedups side effects per session token so a burst of requests
	// from an already-rejected client triggers one sign-out and one notice.
	rejected sync.Map
}

type Config struct {
	Policy       Policy
	Roles        RoleResolver
	Memberships  MembershipSource
	Revoker      SessionRevoker
	Notifier     Notifier
	Logger       *slog.Logger
	NotifyWindow time.Duration
}

func New(cfg Config) *Gate {
	if cfg.NotifyWindow <= 0 {
		cfg.NotifyWindow = 30 * time.Second
	}

	return &Gate{
		policy:       cfg.Policy,
		roles:        cfg.Roles,
		memberships:  cfg.Memberships,
		revoker:      cfg.Revoker,
		notifier:     cfg.Notifier,
		logger:       cfg.Logger,
		notifyWindow: cfg.NotifyWindow,
	}
}

// Middleware runs after token authentication. It checks the identity against
// the allow-list, resolves the active role, loads the residence scope, and
// stores all three on the request context. Identities that fail the policy
// get a 401 pointing the client back to the sign-in page.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := middleware.GetUserID(ctx)
		email := middleware.GetUserEmail(ctx)
		if userID == "" || email == "" {
			core.JSONError(w, core.UnauthorizedError("authentication required"))
			return
		}

		state := StateChecking

		if !g.policy.Allows(email) {
			state = StateUnauthorized
			g.reject(ctx, userID, email, middleware.GetSessionToken(ctx))
			g.logger.Info("gate decision",
				"state", state.String(),
				"user_id", userID,
			)
			core.UnauthorizedRedirect(
				w,
				core.IdentityNotAllowedError(),
				redirectTarget,
			)
			return
		}

		resolved, err := g.roles.Resolve(ctx, userID)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}

		condominiumID, unitID, err := g.memberships.Membership(ctx, userID)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}

		state = StateAuthorized
		g.logger.Debug("gate decision",
			"state", state.String(),
			"user_id", userID,
			"active_role", resolved.Active,
		)

		ctx = middleware.WithMembership(
			ctx,
			resolved.Active,
			condominiumID,
			unitID,
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// reject runs the rejection side effects exactly once per session token per
// notify window: revoke the session, record a notification. Repeat requests
// with the same token inside the window go straight to the 401.
func (g *Gate) reject(ctx context.Context, userID, email, token string) {
	if token != "" && !g.claimRejection(token) {
		return
	}

	g.logger.Warn("identity not on allow-list",
		"user_id", userID,
		"email", email,
	)

	g.revoker.ForceSignOut(ctx, userID)

	if err := g.notifier.NotifyAccessDenied(ctx, userID, email); err != nil {
		g.logger.Warn("access denied notification failed",
			"user_id", userID,
			"error", err,
		)
	}
}

// claimRejection reports whether the caller owns the side effects for this
// token. Exactly one concurrent caller wins per notify window: LoadOrStore
// settles the empty-slot race, CompareAndSwap settles the expired-entry one.
func (g *Gate) claimRejection(token string) bool {
	now := time.Now()
	expiry := now.Add(g.notifyWindow)

	for {
		prev, loaded := g.rejected.LoadOrStore(token, expiry)
		if !loaded {
			return true
		}

		if until, ok := prev.(time.Time); ok && now.Before(until) {
			return false
		}

		if g.rejected.CompareAndSwap(token, prev, expiry) {
			return true
		}
	}
}

// Sweep drops expired dedup entries. Run periodically from main.
func (g *Gate) Sweep() {
	now := time.Now()
	g.rejected.Range(func(key, value any) bool {
		if until, ok := value.(time.Time); ok && now.After(until) {
			g.rejected.Delete(key)
		}
		return true
	})
}
