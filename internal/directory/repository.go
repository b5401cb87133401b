// AngelaMos | 2026
// repository.go

package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/condoview/api/internal/core"
)

type Repository interface {
	CreateCondominium(ctx context.Context, c *Condominium) error
	GetCondominium(ctx context.Context, id string) (*Condominium, error)
	ListCondominiums(ctx context.Context) ([]Condominium, error)
	UpdateCondominium(ctx context.Context, c *Condominium) error
	DeleteCondominium(ctx context.Context, id string) error

	CreateUnit(ctx context.Context, u *Unit) error
	ListUnits(ctx context.Context, condominiumID string) ([]Unit, error)

	UpsertProfile(ctx context.Context, p *Profile) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	ListProfiles(ctx context.Context, condominiumID string) ([]Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCondominium(
	ctx context.Context,
	c *Condominium,
) error {
	query := `
		INSERT INTO condominiums (
			id, name, street, number, complement, neighborhood,
			city, state, postal_code, phone, email
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, c, query,
		c.ID, c.Name, c.Street, c.Number, c.Complement, c.Neighborhood,
		c.City, c.State, c.PostalCode, c.Phone, c.Email,
	)
	if err != nil {
		return fmt.Errorf("create condominium: %w", err)
	}

	return nil
}

func (r *repository) GetCondominium(
	ctx context.Context,
	id string,
) (*Condominium, error) {
	query := `
		SELECT id, name, street, number, complement, neighborhood,
			city, state, postal_code, phone, email, created_at, updated_at
		FROM condominiums
		WHERE id = $1`

	var c Condominium
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get condominium: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get condominium: %w", err)
	}

	return &c, nil
}

func (r *repository) ListCondominiums(
	ctx context.Context,
) ([]Condominium, error) {
	query := `
		SELECT id, name, street, number, complement, neighborhood,
			city, state, postal_code, phone, email, created_at, updated_at
		FROM condominiums
		ORDER BY name`

	var out []Condominium
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list condominiums: %w", err)
	}

	return out, nil
}

func (r *repository) UpdateCondominium(
	ctx context.Context,
	c *Condominium,
) error {
	query := `
		UPDATE condominiums
		SET name = $2, phone = $3, email = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &c.UpdatedAt, query, c.ID, c.Name, c.Phone, c.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update condominium: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update condominium: %w", err)
	}

	return nil
}

func (r *repository) DeleteCondominium(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM condominiums WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete condominium: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete condominium: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete condominium: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CreateUnit(ctx context.Context, u *Unit) error {
	query := `
		INSERT INTO units (id, condominium_id, number, block, floor)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &u.CreatedAt, query,
		u.ID, u.CondominiumID, u.Number, u.Block, u.Floor,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create unit: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create unit: %w", err)
	}

	return nil
}

func (r *repository) ListUnits(
	ctx context.Context,
	condominiumID string,
) ([]Unit, error) {
	query := `
		SELECT id, condominium_id, number, block, floor, created_at
		FROM units
		WHERE condominium_id = $1
		ORDER BY block, number`

	var out []Unit
	if err := r.db.SelectContext(ctx, &out, query, condominiumID); err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}

	return out, nil
}

func (r *repository) UpsertProfile(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (
			id, condominium_id, unit_id, full_name, phone, avatar_url
		) VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			condominium_id = EXCLUDED.condominium_id,
			unit_id = EXCLUDED.unit_id,
			full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID, p.CondominiumID, p.UnitID, p.FullName, p.Phone, p.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

func (r *repository) GetProfile(
	ctx context.Context,
	userID string,
) (*Profile, error) {
	query := `
		SELECT id, condominium_id, COALESCE(unit_id::text, '') AS unit_id,
			full_name, phone, avatar_url, created_at, updated_at
		FROM profiles
		WHERE id = $1`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &p, nil
}

func (r *repository) ListProfiles(
	ctx context.Context,
	condominiumID string,
) ([]Profile, error) {
	query := `
		SELECT id, condominium_id, COALESCE(unit_id::text, '') AS unit_id,
			full_name, phone, avatar_url, created_at, updated_at
		FROM profiles
		WHERE condominium_id = $1
		ORDER BY full_name`

	var out []Profile
	if err := r.db.SelectContext(ctx, &out, query, condominiumID); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return out, nil
}

func (r *repository) UpdateProfile(ctx context.Context, p *Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $2, phone = $3, avatar_url = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &p.UpdatedAt, query,
		p.ID, p.FullName, p.Phone, p.AvatarURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}
