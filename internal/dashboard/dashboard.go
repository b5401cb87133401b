// AngelaMos | 2026
// dashboard.go

package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/role"
)

// Stats is the landing-page summary. Counts are scoped to what the caller's
// active role can see, so the same endpoint serves every audience.
type Stats struct {
	Announcements    int `json:"announcements"`
	OpenOccurrences  int `json:"open_occurrences"`
	PendingPayments  int `json:"pending_payments"`
	UpcomingBookings int `json:"upcoming_bookings"`
}

type Repository interface {
	CountAnnouncements(ctx context.Context, condominiumID string) (int, error)
	CountOpenOccurrences(ctx context.Context, condominiumID, reporterID string) (int, error)
	CountPendingPayments(ctx context.Context, condominiumID, unitID string) (int, error)
	CountUpcomingReservations(ctx context.Context, condominiumID, userID string) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CountAnnouncements(
	ctx context.Context,
	condominiumID string,
) (int, error) {
	query := `SELECT COUNT(*) FROM announcements WHERE condominium_id = $1`

	var count int
	if err := r.db.GetContext(ctx, &count, query, condominiumID); err != nil {
		return 0, fmt.Errorf("count announcements: %w", err)
	}
	return count, nil
}

// CountOpenOccurrences counts open and in-progress occurrences. An empty
// reporterID counts the whole condominium; otherwise only that reporter's.
func (r *repository) CountOpenOccurrences(
	ctx context.Context,
	condominiumID, reporterID string,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM occurrences
		WHERE condominium_id = $1
		  AND status IN ('open', 'in_progress')
		  AND ($2 = '' OR reporter_id = $2::uuid)`

	var count int
	if err := r.db.GetContext(ctx, &count, query, condominiumID, reporterID); err != nil {
		return 0, fmt.Errorf("count open occurrences: %w", err)
	}
	return count, nil
}

func (r *repository) CountPendingPayments(
	ctx context.Context,
	condominiumID, unitID string,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM financial_records
		WHERE condominium_id = $1
		  AND status IN ('pending', 'overdue')
		  AND ($2 = '' OR unit_id = $2::uuid)`

	var count int
	if err := r.db.GetContext(ctx, &count, query, condominiumID, unitID); err != nil {
		return 0, fmt.Errorf("count pending payments: %w", err)
	}
	return count, nil
}

func (r *repository) CountUpcomingReservations(
	ctx context.Context,
	condominiumID, userID string,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE condominium_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND starts_at > NOW()
		  AND ($2 = '' OR user_id = $2::uuid)`

	var count int
	if err := r.db.GetContext(ctx, &count, query, condominiumID, userID); err != nil {
		return 0, fmt.Errorf("count upcoming reservations: %w", err)
	}
	return count, nil
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Stats gathers counts scoped by the active role: admins and managers see the
// whole condominium, residents only their own records.
func (s *Service) Stats(
	ctx context.Context,
	activeRole string,
	condominiumID, userID, unitID string,
) (*Stats, error) {
	if condominiumID == "" {
		return nil, fmt.Errorf("condominium scope required: %w", core.ErrInvalidInput)
	}

	reporterScope := userID
	unitScope := unitID
	reservationScope := userID
	if activeRole == role.Admin || activeRole == role.Manager {
		reporterScope = ""
		unitScope = ""
		reservationScope = ""
	}

	stats := &Stats{}

	var err error
	if stats.Announcements, err = s.repo.CountAnnouncements(ctx, condominiumID); err != nil {
		return nil, err
	}
	if stats.OpenOccurrences, err = s.repo.CountOpenOccurrences(ctx, condominiumID, reporterScope); err != nil {
		return nil, err
	}
	// A resident without a unit has no charges to count.
	if unitScope != "" || activeRole == role.Admin || activeRole == role.Manager {
		if stats.PendingPayments, err = s.repo.CountPendingPayments(ctx, condominiumID, unitScope); err != nil {
			return nil, err
		}
	}
	if stats.UpcomingBookings, err = s.repo.CountUpcomingReservations(ctx, condominiumID, reservationScope); err != nil {
		return nil, err
	}

	return stats, nil
}
