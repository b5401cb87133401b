// AngelaMos | 2026
// repository.go

package role

import (
	"context"
	"fmt"

	"github.com/condoview/api/internal/core"
)

type Repository interface {
	GetRolesForUser(ctx context.Context, userID string) ([]string, error)
	AssignRole(ctx context.Context, userID, role string) error
	RemoveRole(ctx context.Context, userID, role string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetRolesForUser(
	ctx context.Context,
	userID string,
) ([]string, error) {
	query := `
		SELECT role
		FROM user_roles
		WHERE user_id = $1
		ORDER BY role`

	var roles []string
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, fmt.Errorf("get roles for user: %w", err)
	}

	return roles, nil
}

func (r *repository) AssignRole(
	ctx context.Context,
	userID, role string,
) error {
	query := `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}

	return nil
}

func (r *repository) RemoveRole(
	ctx context.Context,
	userID, role string,
) error {
	query := `
		DELETE FROM user_roles
		WHERE user_id = $1 AND role = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("remove role: %w", err)
	}

	return nil
}
