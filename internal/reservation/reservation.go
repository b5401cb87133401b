// AngelaMos | 2026
// reservation.go

package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/condoview/api/internal/core"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type CommonArea struct {
	ID            string    `db:"id"             json:"id"`
	CondominiumID string    `db:"condominium_id" json:"condominium_id"`
	Name          string    `db:"name"           json:"name"`
	Description   string    `db:"description"    json:"description,omitempty"`
	Capacity      int       `db:"capacity"       json:"capacity"`
	Active        bool      `db:"active"         json:"active"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
}

// Reservations record intent only. Overlapping bookings for the same area are
// accepted and left for the manager to sort out at confirmation time.
type Reservation struct {
	ID            string    `db:"id"             json:"id"`
	CommonAreaID  string    `db:"common_area_id" json:"common_area_id"`
	CondominiumID string    `db:"condominium_id" json:"condominium_id"`
	UserID        string    `db:"user_id"        json:"user_id"`
	StartsAt      time.Time `db:"starts_at"      json:"starts_at"`
	EndsAt        time.Time `db:"ends_at"        json:"ends_at"`
	Status        string    `db:"status"         json:"status"`
	Notes         string    `db:"notes"          json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

type CreateRequest struct {
	CommonAreaID string    `json:"common_area_id" validate:"required,uuid"`
	StartsAt     time.Time `json:"starts_at"      validate:"required"`
	EndsAt       time.Time `json:"ends_at"        validate:"required"`
	Notes        string    `json:"notes"          validate:"max=500"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

type Repository interface {
	ListActiveAreas(
		ctx context.Context,
		condominiumID string,
	) ([]CommonArea, error)
	GetArea(ctx context.Context, id string) (*CommonArea, error)
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]Reservation, error)
	ListByCondominium(
		ctx context.Context,
		condominiumID string,
	) ([]Reservation, error)
	UpdateStatus(ctx context.Context, r *Reservation) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) ListActiveAreas(
	ctx context.Context,
	condominiumID string,
) ([]CommonArea, error) {
	query := `
		SELECT id, condominium_id, name, description, capacity, active,
			created_at
		FROM common_areas
		WHERE condominium_id = $1 AND active = true
		ORDER BY name`

	var out []CommonArea
	if err := r.db.SelectContext(ctx, &out, query, condominiumID); err != nil {
		return nil, fmt.Errorf("list common areas: %w", err)
	}

	return out, nil
}

func (r *repository) GetArea(
	ctx context.Context,
	id string,
) (*CommonArea, error) {
	query := `
		SELECT id, condominium_id, name, description, capacity, active,
			created_at
		FROM common_areas
		WHERE id = $1`

	var area CommonArea
	err := r.db.GetContext(ctx, &area, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get common area: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get common area: %w", err)
	}

	return &area, nil
}

func (r *repository) Create(ctx context.Context, res *Reservation) error {
	query := `
		INSERT INTO reservations (
			id, common_area_id, condominium_id, user_id,
			starts_at, ends_at, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, res, query,
		res.ID, res.CommonAreaID, res.CondominiumID, res.UserID,
		res.StartsAt, res.EndsAt, res.Status, res.Notes,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}

	return nil
}

const reservationColumns = `
	id, common_area_id, condominium_id, user_id, starts_at, ends_at,
	status, notes, created_at, updated_at`

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Reservation, error) {
	query := `SELECT` + reservationColumns + `
		FROM reservations
		WHERE id = $1`

	var res Reservation
	err := r.db.GetContext(ctx, &res, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get reservation: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}

	return &res, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Reservation, error) {
	query := `SELECT` + reservationColumns + `
		FROM reservations
		WHERE user_id = $1
		ORDER BY starts_at DESC`

	var out []Reservation
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("list reservations by user: %w", err)
	}

	return out, nil
}

func (r *repository) ListByCondominium(
	ctx context.Context,
	condominiumID string,
) ([]Reservation, error) {
	query := `SELECT` + reservationColumns + `
		FROM reservations
		WHERE condominium_id = $1
		ORDER BY starts_at DESC`

	var out []Reservation
	if err := r.db.SelectContext(ctx, &out, query, condominiumID); err != nil {
		return nil, fmt.Errorf("list reservations by condominium: %w", err)
	}

	return out, nil
}

func (r *repository) UpdateStatus(ctx context.Context, res *Reservation) error {
	query := `
		UPDATE reservations
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &res.UpdatedAt, query, res.ID, res.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update reservation status: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}

	return nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListAreas(
	ctx context.Context,
	condominiumID string,
) ([]CommonArea, error) {
	return s.repo.ListActiveAreas(ctx, condominiumID)
}

func (s *Service) Create(
	ctx context.Context,
	condominiumID, userID string,
	req CreateRequest,
) (*Reservation, error) {
	if !req.StartsAt.Before(req.EndsAt) {
		return nil, fmt.Errorf(
			"reservation must start before it ends: %w",
			core.ErrInvalidInput,
		)
	}

	area, err := s.repo.GetArea(ctx, req.CommonAreaID)
	if err != nil {
		return nil, err
	}

	if !area.Active || area.CondominiumID != condominiumID {
		return nil, fmt.Errorf("create reservation: %w", core.ErrNotFound)
	}

	res := &Reservation{
		ID:            uuid.New().String(),
		CommonAreaID:  req.CommonAreaID,
		CondominiumID: condominiumID,
		UserID:        userID,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		Status:        StatusPending,
		Notes:         req.Notes,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}

	return res, nil
}

func (s *Service) ListMine(
	ctx context.Context,
	userID string,
) ([]Reservation, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListCondominium(
	ctx context.Context,
	condominiumID string,
) ([]Reservation, error) {
	return s.repo.ListByCondominium(ctx, condominiumID)
}

func (s *Service) SetStatus(
	ctx context.Context,
	id, condominiumID, status string,
) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if res.CondominiumID != condominiumID {
		return nil, fmt.Errorf("set reservation status: %w", core.ErrForbidden)
	}

	if res.Status == StatusCancelled {
		return nil, fmt.Errorf(
			"reservation already cancelled: %w",
			core.ErrInvalidInput,
		)
	}

	res.Status = status

	if err := s.repo.UpdateStatus(ctx, res); err != nil {
		return nil, err
	}

	return res, nil
}
