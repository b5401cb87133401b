// AngelaMos | 2026
// financial.go

package financial

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
	StatusPaid    = "paid"
	StatusPending = "pending"
	StatusOverdue = "overdue"
)

// Record amounts are in cents to keep arithmetic exact.
type Record struct {
	ID            string     `db:"id"             json:"id"`
	CondominiumID string     `db:"condominium_id" json:"condominium_id"`
	UnitID        string     `db:"unit_id"        json:"unit_id,omitempty"`
	Description   string     `db:"description"    json:"description"`
	AmountCents   int64      `db:"amount_cents"   json:"amount_cents"`
	DueDate       time.Time  `db:"due_date"       json:"due_date"`
	Status        string     `db:"status"         json:"status"`
	PaidAt        *time.Time `db:"paid_at"        json:"paid_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"     json:"updated_at"`
}

type CreateRequest struct {
	UnitID      string    `json:"unit_id"      validate:"omitempty,uuid"`
	Description string    `json:"description"  validate:"required,min=1,max=500"`
	AmountCents int64     `json:"amount_cents" validate:"required,gt=0"`
	DueDate     time.Time `json:"due_date"     validate:"required"`
}

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	ListByUnit(ctx context.Context, unitID string) ([]Record, error)
	ListByCondominium(ctx context.Context, condominiumID string) ([]Record, error)
	MarkPaid(ctx context.Context, rec *Record) error
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const recordColumns = `
	id, condominium_id, COALESCE(unit_id::text, '') AS unit_id, description,
	amount_cents, due_date, status, paid_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO financial_records (
			id, condominium_id, unit_id, description,
			amount_cents, due_date, status
		) VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, rec, query,
		rec.ID, rec.CondominiumID, rec.UnitID, rec.Description,
		rec.AmountCents, rec.DueDate, rec.Status,
	)
	if err != nil {
		return fmt.Errorf("create financial record: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Record, error) {
	query := `SELECT` + recordColumns + `
		FROM financial_records
		WHERE id = $1`

	var rec Record
	err := r.db.GetContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get financial record: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get financial record: %w", err)
	}

	return &rec, nil
}

func (r *repository) ListByUnit(
	ctx context.Context,
	unitID string,
) ([]Record, error) {
	query := `SELECT` + recordColumns + `
		FROM financial_records
		WHERE unit_id = $1
		ORDER BY due_date DESC`

	var out []Record
	if err := r.db.SelectContext(ctx, &out, query, unitID); err != nil {
		return nil, fmt.Errorf("list financial records by unit: %w", err)
	}

	return out, nil
}

func (r *repository) ListByCondominium(
	ctx context.Context,
	condominiumID string,
) ([]Record, error) {
	query := `SELECT` + recordColumns + `
		FROM financial_records
		WHERE condominium_id = $1
		ORDER BY due_date DESC`

	var out []Record
	if err := r.db.SelectContext(ctx, &out, query, condominiumID); err != nil {
		return nil, fmt.Errorf("list financial records by condominium: %w", err)
	}

	return out, nil
}

func (r *repository) MarkPaid(ctx context.Context, rec *Record) error {
	query := `
		UPDATE financial_records
		SET status = $2, paid_at = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &rec.UpdatedAt, query, rec.ID, rec.Status, rec.PaidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("mark record paid: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("mark record paid: %w", err)
	}

	return nil
}

// MarkOverdue flips pending records whose due date has passed. Run from a
// periodic job in main.
func (r *repository) MarkOverdue(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	query := `
		UPDATE financial_records
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND due_date < $3`

	result, err := r.db.ExecContext(ctx, query, StatusOverdue, StatusPending, now)
	if err != nil {
		return 0, fmt.Errorf("mark records overdue: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark records overdue: %w", err)
	}

	return rows, nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	condominiumID string,
	req CreateRequest,
) (*Record, error) {
	rec := &Record{
		ID:            uuid.New().String(),
		CondominiumID: condominiumID,
		UnitID:        req.UnitID,
		Description:   req.Description,
		AmountCents:   req.AmountCents,
		DueDate:       req.DueDate,
		Status:        StatusPending,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// ListForUnit is the resident view, scoped to their own unit.
func (s *Service) ListForUnit(
	ctx context.Context,
	unitID string,
) ([]Record, error) {
	if unitID == "" {
		return []Record{}, nil
	}
	return s.repo.ListByUnit(ctx, unitID)
}

func (s *Service) ListCondominium(
	ctx context.Context,
	condominiumID string,
) ([]Record, error) {
	return s.repo.ListByCondominium(ctx, condominiumID)
}

func (s *Service) MarkPaid(
	ctx context.Context,
	id, condominiumID string,
) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.CondominiumID != condominiumID {
		return nil, fmt.Errorf("mark record paid: %w", core.ErrForbidden)
	}

	if rec.Status == StatusPaid {
		return nil, fmt.Errorf("record already paid: %w", core.ErrInvalidInput)
	}

	now := time.Now()
	rec.Status = StatusPaid
	rec.PaidAt = &now

	if err := s.repo.MarkPaid(ctx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *Service) SweepOverdue(ctx context.Context) (int64, error) {
	return s.repo.MarkOverdue(ctx, time.Now())
}
