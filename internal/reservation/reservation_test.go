// AngelaMos | 2026
// reservation_test.go

package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoview/api/internal/core"
)

type fakeRepo struct {
	areas        map[string]*CommonArea
	reservations map[string]*Reservation
}

func (f *fakeRepo) ListActiveAreas(_ context.Context, _ string) ([]CommonArea, error) {
	return nil, nil
}

func (f *fakeRepo) GetArea(_ context.Context, id string) (*CommonArea, error) {
	if a, ok := f.areas[id]; ok {
		return a, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) Create(_ context.Context, r *Reservation) error {
	f.reservations[r.ID] = r
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Reservation, error) {
	if r, ok := f.reservations[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) ListByUser(_ context.Context, _ string) ([]Reservation, error) {
	return nil, nil
}

func (f *fakeRepo) ListByCondominium(_ context.Context, _ string) ([]Reservation, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, r *Reservation) error {
	stored, ok := f.reservations[r.ID]
	if !ok {
		return core.ErrNotFound
	}
	stored.Status = r.Status
	return nil
}

func newService() (*Service, *fakeRepo) {
	repo := &fakeRepo{
		areas: map[string]*CommonArea{
			"area-1": {ID: "area-1", CondominiumID: "c1", Active: true},
			"area-2": {ID: "area-2", CondominiumID: "c1", Active: false},
		},
		reservations: map[string]*Reservation{},
	}
	return NewService(repo), repo
}

func TestCreateStartsPending(t *testing.T) {
	svc, _ := newService()
	start := time.Now().Add(24 * time.Hour)

	res, err := svc.Create(context.Background(), "c1", "u1", CreateRequest{
		CommonAreaID: "area-1",
		StartsAt:     start,
		EndsAt:       start.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, res.Status)
}

func TestCreateRejectsInvertedWindow(t *testing.T) {
	svc, _ := newService()
	start := time.Now().Add(24 * time.Hour)

	_, err := svc.Create(context.Background(), "c1", "u1", CreateRequest{
		CommonAreaID: "area-1",
		StartsAt:     start,
		EndsAt:       start.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	// Zero-length windows are inverted too.
	_, err = svc.Create(context.Background(), "c1", "u1", CreateRequest{
		CommonAreaID: "area-1",
		StartsAt:     start,
		EndsAt:       start,
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCreateRejectsInactiveArea(t *testing.T) {
	svc, _ := newService()
	start := time.Now().Add(24 * time.Hour)

	_, err := svc.Create(context.Background(), "c1", "u1", CreateRequest{
		CommonAreaID: "area-2",
		StartsAt:     start,
		EndsAt:       start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateRejectsForeignArea(t *testing.T) {
	svc, _ := newService()
	start := time.Now().Add(24 * time.Hour)

	_, err := svc.Create(context.Background(), "other-condo", "u1", CreateRequest{
		CommonAreaID: "area-1",
		StartsAt:     start,
		EndsAt:       start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	svc, repo := newService()
	repo.reservations["r1"] = &Reservation{
		ID:            "r1",
		CondominiumID: "c1",
		Status:        StatusPending,
	}

	res, err := svc.SetStatus(context.Background(), "r1", "c1", StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, res.Status)

	_, err = svc.SetStatus(context.Background(), "r1", "other", StatusCancelled)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestSetStatusCancelledIsTerminal(t *testing.T) {
	svc, repo := newService()
	repo.reservations["r1"] = &Reservation{
		ID:            "r1",
		CondominiumID: "c1",
		Status:        StatusCancelled,
	}

	_, err := svc.SetStatus(context.Background(), "r1", "c1", StatusConfirmed)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
