// AngelaMos | 2026
// occurrence.go

package occurrence

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
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// transitions encodes the maintenance workflow. Closing straight from open
// covers reports withdrawn before anyone picks them up.
var transitions = map[string][]string{
	StatusOpen:       {StatusInProgress, StatusClosed},
	StatusInProgress: {StatusResolved, StatusClosed},
}

func canTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Occurrence struct {
	ID            string     `db:"id"             json:"id"`
	CondominiumID string     `db:"condominium_id" json:"condominium_id"`
	UnitID        string     `db:"unit_id"        json:"unit_id,omitempty"`
	ReporterID    string     `db:"reporter_id"    json:"reporter_id"`
	Title         string     `db:"title"          json:"title"`
	Description   string     `db:"description"    json:"description"`
	Category      string     `db:"category"       json:"category,omitempty"`
	Status        string     `db:"status"         json:"status"`
	CreatedAt     time.Time  `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"     json:"updated_at"`
	ResolvedAt    *time.Time `db:"resolved_at"    json:"resolved_at,omitempty"`
}

type ReportRequest struct {
	Title       string `json:"title"       validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"required,min=1,max=5000"`
	Category    string `json:"category"    validate:"max=50"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_progress resolved closed"`
}

type Repository interface {
	Create(ctx context.Context, o *Occurrence) error
	GetByID(ctx context.Context, id string) (*Occurrence, error)
	ListByReporter(ctx context.Context, reporterID string) ([]Occurrence, error)
	ListByCondominium(
		ctx context.Context,
		condominiumID string,
	) ([]Occurrence, error)
	UpdateStatus(ctx context.Context, o *Occurrence) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Occurrence) error {
	query := `
		INSERT INTO occurrences (
			id, condominium_id, unit_id, reporter_id,
			title, description, category, status
		) VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, o, query,
		o.ID, o.CondominiumID, o.UnitID, o.ReporterID,
		o.Title, o.Description, o.Category, o.Status,
	)
	if err != nil {
		return fmt.Errorf("create occurrence: %w", err)
	}

	return nil
}

const occurrenceColumns = `
	id, condominium_id, COALESCE(unit_id::text, '') AS unit_id, reporter_id,
	title, description, category, status, created_at, updated_at, resolved_at`

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Occurrence, error) {
	query := `SELECT` + occurrenceColumns + `
		FROM occurrences
		WHERE id = $1`

	var o Occurrence
	err := r.db.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get occurrence: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get occurrence: %w", err)
	}

	return &o, nil
}

func (r *repository) ListByReporter(
	ctx context.Context,
	reporterID string,
) ([]Occurrence, error) {
	query := `SELECT` + occurrenceColumns + `
		FROM occurrences
		WHERE reporter_id = $1
		ORDER BY created_at DESC`

	var out []Occurrence
	if err := r.db.SelectContext(ctx, &out, query, reporterID); err != nil {
		return nil, fmt.Errorf("list occurrences by reporter: %w", err)
	}

	return out, nil
}

func (r *repository) ListByCondominium(
	ctx context.Context,
	condominiumID string,
) ([]Occurrence, error) {
	query := `SELECT` + occurrenceColumns + `
		FROM occurrences
		WHERE condominium_id = $1
		ORDER BY created_at DESC`

	var out []Occurrence
	if err := r.db.SelectContext(ctx, &out, query, condominiumID); err != nil {
		return nil, fmt.Errorf("list occurrences by condominium: %w", err)
	}

	return out, nil
}

func (r *repository) UpdateStatus(ctx context.Context, o *Occurrence) error {
	query := `
		UPDATE occurrences
		SET status = $2, resolved_at = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &o.UpdatedAt, query, o.ID, o.Status, o.ResolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update occurrence status: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update occurrence status: %w", err)
	}

	return nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Report(
	ctx context.Context,
	condominiumID, unitID, reporterID string,
	req ReportRequest,
) (*Occurrence, error) {
	o := &Occurrence{
		ID:            uuid.New().String(),
		CondominiumID: condominiumID,
		UnitID:        unitID,
		ReporterID:    reporterID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Status:        StatusOpen,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

// ListMine is the resident view: only reports the user filed themselves.
func (s *Service) ListMine(
	ctx context.Context,
	reporterID string,
) ([]Occurrence, error) {
	return s.repo.ListByReporter(ctx, reporterID)
}

// ListCondominium is the manager/admin view.
func (s *Service) ListCondominium(
	ctx context.Context,
	condominiumID string,
) ([]Occurrence, error) {
	return s.repo.ListByCondominium(ctx, condominiumID)
}

func (s *Service) Transition(
	ctx context.Context,
	id, condominiumID, newStatus string,
) (*Occurrence, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.CondominiumID != condominiumID {
		return nil, fmt.Errorf("transition occurrence: %w", core.ErrForbidden)
	}

	if !canTransition(o.Status, newStatus) {
		return nil, fmt.Errorf(
			"cannot move occurrence from %s to %s: %w",
			o.Status, newStatus, core.ErrInvalidInput,
		)
	}

	o.Status = newStatus
	if newStatus == StatusResolved {
		now := time.Now()
		o.ResolvedAt = &now
	}

	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}
