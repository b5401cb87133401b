// AngelaMos | 2026
// service.go

package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/condoview/api/internal/core"
)

// PrefSelectedRole is the preference key holding the role a user chose to act
// as when they hold more than one.
const PrefSelectedRole = "selectedRole"

type Service struct {
	repo   Repository
	prefs  Prefs
	logger *slog.Logger
}

func NewService(repo Repository, prefs Prefs, logger *slog.Logger) *Service {
	return &Service{repo: repo, prefs: prefs, logger: logger}
}

// ResolvedRoles is the outcome of resolution: the role the user acts as for
// this request plus every role they could switch to.
type ResolvedRoles struct {
	Active    string   `json:"active_role"`
	Available []string `json:"available_roles"`
}

// Resolve determines the user's active role. Held roles come from the
// database; a stored preference wins when it names a role the user still
// holds, otherwise the highest-precedence held role applies. Users with no
// role rows at all are treated as residents so a missed provisioning step
// degrades access instead of locking the account out.
func (s *Service) Resolve(
	ctx context.Context,
	userID string,
) (*ResolvedRoles, error) {
	held, err := s.repo.GetRolesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve roles: %w", err)
	}

	if len(held) == 0 {
		s.logger.Warn("user has no role assignments, defaulting to resident",
			"user_id", userID,
		)
		return &ResolvedRoles{
			Active:    Resident,
			Available: []string{Resident},
		}, nil
	}

	preferred, err := s.prefs.Get(ctx, userID, PrefSelectedRole)
	if err == nil && Contains(held, preferred) {
		return &ResolvedRoles{Active: preferred, Available: held}, nil
	}
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		// Preference store unavailable; precedence still resolves.
		s.logger.Warn("role preference lookup failed",
			"user_id", userID,
			"error", err,
		)
	}

	active := Highest(held)

	// Persist the outcome so a stale or missing selection converges.
	//nolint:errcheck // preference write is best-effort
	_ = s.prefs.Set(ctx, userID, PrefSelectedRole, active)

	return &ResolvedRoles{Active: active, Available: held}, nil
}

// Switch stores the user's role choice. The role must be one they hold;
// provisioning-degraded users (no role rows) can only be residents.
func (s *Service) Switch(
	ctx context.Context,
	userID, requested string,
) (*ResolvedRoles, error) {
	if !IsValid(requested) {
		return nil, fmt.Errorf("switch role: %w", core.ErrInvalidInput)
	}

	held, err := s.repo.GetRolesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("switch role: %w", err)
	}

	if len(held) == 0 {
		held = []string{Resident}
	}

	if !Contains(held, requested) {
		return nil, fmt.Errorf("switch role: %w", core.ErrForbidden)
	}

	if err := s.prefs.Set(ctx, userID, PrefSelectedRole, requested); err != nil {
		return nil, fmt.Errorf("switch role: %w", err)
	}

	return &ResolvedRoles{Active: requested, Available: held}, nil
}
