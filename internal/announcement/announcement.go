// AngelaMos | 2026
// announcement.go

package announcement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/condoview/api/internal/core"
)

type Announcement struct {
	ID            string    `db:"id"             json:"id"`
	CondominiumID string    `db:"condominium_id" json:"condominium_id"`
	AuthorID      string    `db:"author_id"      json:"author_id"`
	Title         string    `db:"title"          json:"title"`
	Body          string    `db:"body"           json:"body"`
	Pinned        bool      `db:"pinned"         json:"pinned"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

type CreateRequest struct {
	Title  string `json:"title"  validate:"required,min=1,max=200"`
	Body   string `json:"body"   validate:"required,min=1,max=10000"`
	Pinned bool   `json:"pinned"`
}

type UpdateRequest struct {
	Title  *string `json:"title"  validate:"omitempty,min=1,max=200"`
	Body   *string `json:"body"   validate:"omitempty,min=1,max=10000"`
	Pinned *bool   `json:"pinned"`
}

type Repository interface {
	Create(ctx context.Context, a *Announcement) error
	GetByID(ctx context.Context, id string) (*Announcement, error)
	ListByCondominium(
		ctx context.Context,
		condominiumID string,
	) ([]Announcement, error)
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Announcement) error {
	query := `
		INSERT INTO announcements (
			id, condominium_id, author_id, title, body, pinned
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, a, query,
		a.ID, a.CondominiumID, a.AuthorID, a.Title, a.Body, a.Pinned,
	)
	if err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Announcement, error) {
	query := `
		SELECT id, condominium_id, author_id, title, body, pinned,
			created_at, updated_at
		FROM announcements
		WHERE id = $1`

	var a Announcement
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get announcement: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get announcement: %w", err)
	}

	return &a, nil
}

func (r *repository) ListByCondominium(
	ctx context.Context,
	condominiumID string,
) ([]Announcement, error) {
	query := `
		SELECT id, condominium_id, author_id, title, body, pinned,
			created_at, updated_at
		FROM announcements
		WHERE condominium_id = $1
		ORDER BY pinned DESC, created_at DESC`

	var out []Announcement
	if err := r.db.SelectContext(ctx, &out, query, condominiumID); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}

	return out, nil
}

func (r *repository) Update(ctx context.Context, a *Announcement) error {
	query := `
		UPDATE announcements
		SET title = $2, body = $3, pinned = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &a.UpdatedAt, query, a.ID, a.Title, a.Body, a.Pinned)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update announcement: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM announcements WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete announcement: %w", core.ErrNotFound)
	}

	return nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(
	ctx context.Context,
	condominiumID string,
) ([]Announcement, error) {
	if condominiumID == "" {
		return nil, fmt.Errorf("list announcements: %w", core.ErrInvalidInput)
	}
	return s.repo.ListByCondominium(ctx, condominiumID)
}

func (s *Service) Create(
	ctx context.Context,
	condominiumID, authorID string,
	req CreateRequest,
) (*Announcement, error) {
	a := &Announcement{
		ID:            uuid.New().String(),
		CondominiumID: condominiumID,
		AuthorID:      authorID,
		Title:         req.Title,
		Body:          req.Body,
		Pinned:        req.Pinned,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Update(
	ctx context.Context,
	id, condominiumID string,
	req UpdateRequest,
) (*Announcement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.CondominiumID != condominiumID {
		return nil, fmt.Errorf("update announcement: %w", core.ErrForbidden)
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Body != nil {
		a.Body = *req.Body
	}
	if req.Pinned != nil {
		a.Pinned = *req.Pinned
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Delete(ctx context.Context, id, condominiumID string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if a.CondominiumID != condominiumID {
		return fmt.Errorf("delete announcement: %w", core.ErrForbidden)
	}

	return s.repo.Delete(ctx, id)
}
