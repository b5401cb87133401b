// AngelaMos | 2026
// service.go

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/condoview/api/internal/core"
)

type Service struct {
	repo      Repository
	hub       *Hub
	refresher *Refresher
}

func NewService(repo Repository, hub *Hub) *Service {
	s := &Service{repo: repo, hub: hub}
	s.refresher = NewRefresher(repo.ListByCondominium)
	return s
}

func (s *Service) List(
	ctx context.Context,
	condominiumID string,
) ([]Message, error) {
	if condominiumID == "" {
		return nil, fmt.Errorf("list messages: %w", core.ErrInvalidInput)
	}
	return s.repo.ListByCondominium(ctx, condominiumID)
}

// Post stores the message, refreshes the room snapshot, and notifies every
// connected client so they re-fetch. The response carries the refreshed
// thread, not just the new row.
func (s *Service) Post(
	ctx context.Context,
	condominiumID, senderID, body string,
) ([]Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("message body is empty: %w", core.ErrInvalidInput)
	}

	m := &Message{
		ID:            uuid.New().String(),
		CondominiumID: condominiumID,
		SenderID:      senderID,
		Body:          body,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	// The write landed, so listeners hear about it even when the snapshot
	// refresh below fails.
	s.hub.NotifyChanged(condominiumID)

	messages, _, err := s.refresher.Refresh(ctx, condominiumID)
	if err != nil {
		// Fall back to a plain list.
		return s.repo.ListByCondominium(ctx, condominiumID)
	}

	return messages, nil
}
