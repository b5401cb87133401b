// AngelaMos | 2026
// announcement_test.go

package announcement

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
	byID map[string]*Announcement
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]*Announcement)}
}

func (f *fakeRepo) Create(_ context.Context, a *Announcement) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	stored := *a
	f.byID[a.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Announcement, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("get announcement: %w", core.ErrNotFound)
	}
	out := *a
	return &out, nil
}

func (f *fakeRepo) ListByCondominium(
	_ context.Context,
	condominiumID string,
) ([]Announcement, error) {
	var out []Announcement
	for _, a := range f.byID {
		if a.CondominiumID == condominiumID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, a *Announcement) error {
	stored, ok := f.byID[a.ID]
	if !ok {
		return fmt.Errorf("update announcement: %w", core.ErrNotFound)
	}
	a.UpdatedAt = time.Now()
	*stored = *a
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return fmt.Errorf("delete announcement: %w", core.ErrNotFound)
	}
	delete(f.byID, id)
	return nil
}

func TestCreateAndList(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), "condo-1", "u1", CreateRequest{
		Title:  "Water shutdown",
		Body:   "Maintenance on block B, Tuesday 9-12.",
		Pinned: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Pinned)

	listed, err := svc.List(context.Background(), "condo-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	other, err := svc.List(context.Background(), "condo-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestListRequiresCondominiumScope(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.List(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), "condo-1", "u1", CreateRequest{
		Title: "Pool closed",
		Body:  "Cleaning this weekend.",
	})
	require.NoError(t, err)

	newBody := "Cleaning postponed to next weekend."
	pinned := true
	updated, err := svc.Update(context.Background(), created.ID, "condo-1", UpdateRequest{
		Body:   &newBody,
		Pinned: &pinned,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pool closed", updated.Title, "unset fields stay put")
	assert.Equal(t, newBody, updated.Body)
	assert.True(t, updated.Pinned)
}

func TestUpdateScopedByCondominium(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), "condo-1", "u1", CreateRequest{
		Title: "Pool closed",
		Body:  "Cleaning this weekend.",
	})
	require.NoError(t, err)

	title := "Hijacked"
	_, err = svc.Update(context.Background(), created.ID, "condo-2", UpdateRequest{
		Title: &title,
	})
	assert.ErrorIs(t, err, core.ErrForbidden)

	err = svc.Delete(context.Background(), created.ID, "condo-2")
	assert.ErrorIs(t, err, core.ErrForbidden)

	err = svc.Delete(context.Background(), created.ID, "condo-1")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, "condo-1", UpdateRequest{})
	assert.ErrorIs(t, err, core.ErrNotFound)
}
