// AngelaMos | 2026
// message.go

package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/condoview/api/internal/core"
)

type Message struct {
	ID            string    `db:"id"             json:"id"`
	CondominiumID string    `db:"condominium_id" json:"condominium_id"`
	SenderID      string    `db:"sender_id"      json:"sender_id"`
	SenderName    string    `db:"sender_name"    json:"sender_name"`
	Body          string    `db:"body"           json:"body"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, m *Message) error
	ListByCondominium(
		ctx context.Context,
		condominiumID string,
	) ([]Message, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO messages (id, condominium_id, sender_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &m.CreatedAt, query,
		m.ID, m.CondominiumID, m.SenderID, m.Body,
	)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

func (r *repository) ListByCondominium(
	ctx context.Context,
	condominiumID string,
) ([]Message, error) {
	query := `
		SELECT m.id, m.condominium_id, m.sender_id, m.body, m.created_at,
			COALESCE(p.full_name, u.name) AS sender_name
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		LEFT JOIN profiles p ON p.id = m.sender_id
		WHERE m.condominium_id = $1
		ORDER BY m.created_at ASC`

	var out []Message
	if err := r.db.SelectContext(ctx, &out, query, condominiumID); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return out, nil
}
