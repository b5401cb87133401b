// AngelaMos | 2026
// financial_test.go

package financial

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoview/api/internal/core"
)

type fakeRepo struct {
	records map[string]*Record
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]*Record)}
}

func (r *fakeRepo) Create(_ context.Context, rec *Record) error {
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	r.records[rec.ID] = rec
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Record, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("get financial record: %w", core.ErrNotFound)
	}
	copied := *rec
	return &copied, nil
}

func (r *fakeRepo) ListByUnit(_ context.Context, unitID string) ([]Record, error) {
	var out []Record
	for _, rec := range r.records {
		if rec.UnitID == unitID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByCondominium(_ context.Context, condominiumID string) ([]Record, error) {
	var out []Record
	for _, rec := range r.records {
		if rec.CondominiumID == condominiumID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) MarkPaid(_ context.Context, rec *Record) error {
	stored, ok := r.records[rec.ID]
	if !ok {
		return fmt.Errorf("mark record paid: %w", core.ErrNotFound)
	}
	stored.Status = rec.Status
	stored.PaidAt = rec.PaidAt
	return nil
}

func (r *fakeRepo) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	var flipped int64
	for _, rec := range r.records {
		if rec.Status == StatusPending && rec.DueDate.Before(now) {
			rec.Status = StatusOverdue
			flipped++
		}
	}
	return flipped, nil
}

func createRecord(t *testing.T, svc *Service, condominiumID, unitID string, due time.Time) *Record {
	t.Helper()
	rec, err := svc.Create(context.Background(), condominiumID, CreateRequest{
		UnitID:      unitID,
		Description: "monthly fee",
		AmountCents: 45000,
		DueDate:     due,
	})
	require.NoError(t, err)
	return rec
}

func TestListForUnitWithoutUnitIsEmpty(t *testing.T) {
	svc := NewService(newFakeRepo())

	records, err := svc.ListForUnit(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMarkPaidSetsTimestamp(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	rec := createRecord(t, svc, "condo-1", "unit-1", time.Now().Add(24*time.Hour))

	paid, err := svc.MarkPaid(context.Background(), rec.ID, "condo-1")
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
}

func TestMarkPaidRejectsAlreadyPaid(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	rec := createRecord(t, svc, "condo-1", "unit-1", time.Now().Add(24*time.Hour))

	_, err := svc.MarkPaid(context.Background(), rec.ID, "condo-1")
	require.NoError(t, err)

	_, err = svc.MarkPaid(context.Background(), rec.ID, "condo-1")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestMarkPaidScopedByCondominium(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	rec := createRecord(t, svc, "condo-1", "unit-1", time.Now().Add(24*time.Hour))

	_, err := svc.MarkPaid(context.Background(), rec.ID, "condo-2")
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestSweepOverdueFlipsPastDuePending(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	overdue := createRecord(t, svc, "condo-1", "unit-1", time.Now().Add(-48*time.Hour))
	current := createRecord(t, svc, "condo-1", "unit-1", time.Now().Add(48*time.Hour))

	flipped, err := svc.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, flipped)

	assert.Equal(t, StatusOverdue, repo.records[overdue.ID].Status)
	assert.Equal(t, StatusPending, repo.records[current.ID].Status)
}
