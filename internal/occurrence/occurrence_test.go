// AngelaMos | 2026
// occurrence_test.go

package occurrence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoview/api/internal/core"
)

type fakeRepo struct {
	byID map[string]*Occurrence
}

func (f *fakeRepo) Create(_ context.Context, o *Occurrence) error {
	f.byID[o.ID] = o
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Occurrence, error) {
	if o, ok := f.byID[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) ListByReporter(_ context.Context, reporterID string) ([]Occurrence, error) {
	var out []Occurrence
	for _, o := range f.byID {
		if o.ReporterID == reporterID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByCondominium(_ context.Context, condominiumID string) ([]Occurrence, error) {
	var out []Occurrence
	for _, o := range f.byID {
		if o.CondominiumID == condominiumID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, o *Occurrence) error {
	stored, ok := f.byID[o.ID]
	if !ok {
		return core.ErrNotFound
	}
	stored.Status = o.Status
	stored.ResolvedAt = o.ResolvedAt
	return nil
}

func newService(existing ...*Occurrence) (*Service, *fakeRepo) {
	repo := &fakeRepo{byID: map[string]*Occurrence{}}
	for _, o := range existing {
		repo.byID[o.ID] = o
	}
	return NewService(repo), repo
}

func TestReportStartsOpen(t *testing.T) {
	svc, _ := newService()

	o, err := svc.Report(context.Background(), "c1", "unit-1", "u1", ReportRequest{
		Title:       "Elevator stuck",
		Description: "Stopped between floors 3 and 4",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, o.Status)
	assert.Nil(t, o.ResolvedAt)
}

func TestTransitionWorkflow(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"open to in_progress", StatusOpen, StatusInProgress, true},
		{"open to closed", StatusOpen, StatusClosed, true},
		{"open to resolved skips work", StatusOpen, StatusResolved, false},
		{"in_progress to resolved", StatusInProgress, StatusResolved, true},
		{"in_progress to closed", StatusInProgress, StatusClosed, true},
		{"resolved is terminal", StatusResolved, StatusInProgress, false},
		{"closed is terminal", StatusClosed, StatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(&Occurrence{
				ID:            "o1",
				CondominiumID: "c1",
				Status:        tt.from,
			})

			o, err := svc.Transition(context.Background(), "o1", "c1", tt.to)
			if !tt.allowed {
				assert.ErrorIs(t, err, core.ErrInvalidInput)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, o.Status)
		})
	}
}

func TestTransitionToResolvedStampsTime(t *testing.T) {
	svc, repo := newService(&Occurrence{
		ID:            "o1",
		CondominiumID: "c1",
		Status:        StatusInProgress,
	})

	o, err := svc.Transition(context.Background(), "o1", "c1", StatusResolved)
	require.NoError(t, err)
	require.NotNil(t, o.ResolvedAt)
	require.NotNil(t, repo.byID["o1"].ResolvedAt)
}

func TestTransitionScopedToCondominium(t *testing.T) {
	svc, _ := newService(&Occurrence{
		ID:            "o1",
		CondominiumID: "c1",
		Status:        StatusOpen,
	})

	_, err := svc.Transition(context.Background(), "o1", "other-condo", StatusInProgress)
	assert.ErrorIs(t, err, core.ErrForbidden)
}
