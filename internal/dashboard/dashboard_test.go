// AngelaMos | 2026
// dashboard_test.go

package dashboard

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/role"
)

type fakeRepo struct {
	announcementCondo string
	occurrenceArgs    [2]string
	paymentArgs       [2]string
	reservationArgs   [2]string
	paymentCalls      int
}

func (r *fakeRepo) CountAnnouncements(_ context.Context, condominiumID string) (int, error) {
	r.announcementCondo = condominiumID
	return 3, nil
}

func (r *fakeRepo) CountOpenOccurrences(_ context.Context, condominiumID, reporterID string) (int, error) {
	r.occurrenceArgs = [2]string{condominiumID, reporterID}
	return 2, nil
}

func (r *fakeRepo) CountPendingPayments(_ context.Context, condominiumID, unitID string) (int, error) {
	r.paymentCalls++
	r.paymentArgs = [2]string{condominiumID, unitID}
	return 5, nil
}

func (r *fakeRepo) CountUpcomingReservations(_ context.Context, condominiumID, userID string) (int, error) {
	r.reservationArgs = [2]string{condominiumID, userID}
	return 1, nil
}

func TestStatsManagerSeesWholeCondominium(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, slog.New(slog.DiscardHandler))

	stats, err := svc.Stats(context.Background(), role.Manager, "condo-1", "user-1", "unit-1")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Announcements)
	assert.Equal(t, [2]string{"condo-1", ""}, repo.occurrenceArgs)
	assert.Equal(t, [2]string{"condo-1", ""}, repo.paymentArgs)
	assert.Equal(t, [2]string{"condo-1", ""}, repo.reservationArgs)
}

func TestStatsResidentScopedToOwnRecords(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, slog.New(slog.DiscardHandler))

	stats, err := svc.Stats(context.Background(), role.Resident, "condo-1", "user-1", "unit-1")
	require.NoError(t, err)

	assert.Equal(t, 5, stats.PendingPayments)
	assert.Equal(t, [2]string{"condo-1", "user-1"}, repo.occurrenceArgs)
	assert.Equal(t, [2]string{"condo-1", "unit-1"}, repo.paymentArgs)
	assert.Equal(t, [2]string{"condo-1", "user-1"}, repo.reservationArgs)
}

func TestStatsResidentWithoutUnitSkipsPayments(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, slog.New(slog.DiscardHandler))

	stats, err := svc.Stats(context.Background(), role.Resident, "condo-1", "user-1", "")
	require.NoError(t, err)

	assert.Zero(t, stats.PendingPayments)
	assert.Zero(t, repo.paymentCalls)
}

func TestStatsRequiresCondominiumScope(t *testing.T) {
	svc := NewService(&fakeRepo{}, slog.New(slog.DiscardHandler))

	_, err := svc.Stats(context.Background(), role.Resident, "", "user-1", "unit-1")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
