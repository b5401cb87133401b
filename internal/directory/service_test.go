// AngelaMos | 2026
// service_test.go

package directory

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/lookup"
)

type fakeRepo struct {
	Repository
	created  *Condominium
	profiles map[string]*Profile
}

func (f *fakeRepo) CreateCondominium(_ context.Context, c *Condominium) error {
	f.created = c
	return nil
}

func (f *fakeRepo) GetProfile(_ context.Context, userID string) (*Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, core.ErrNotFound
}

type fakePostal struct {
	address *lookup.Address
	err     error
}

func (f *fakePostal) PostalCode(_ context.Context, _ string) (*lookup.Address, error) {
	return f.address, f.err
}

func TestCreateCondominiumAutofillsAddress(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakePostal{address: &lookup.Address{
		PostalCode:   "01310-100",
		Street:       "Avenida Paulista",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
	}}, slog.New(slog.DiscardHandler))

	c, err := svc.CreateCondominium(context.Background(), CreateCondominiumRequest{
		Name:       "Edifício Central",
		PostalCode: "01310100",
		Number:     "1000",
	})
	require.NoError(t, err)

	assert.Equal(t, "Avenida Paulista", c.Street)
	assert.Equal(t, "Bela Vista", c.Neighborhood)
	assert.Equal(t, "São Paulo", c.City)
	assert.Equal(t, "SP", c.State)
	assert.Equal(t, "01310-100", c.PostalCode)
	require.NotNil(t, repo.created)
}

func TestCreateCondominiumKeepsExplicitAddress(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakePostal{address: &lookup.Address{
		Street: "Rua Errada",
		City:   "Outra Cidade",
	}}, slog.New(slog.DiscardHandler))

	c, err := svc.CreateCondominium(context.Background(), CreateCondominiumRequest{
		Name:       "Edifício Central",
		PostalCode: "01310100",
		Number:     "1000",
		Street:     "Rua Informada",
		City:       "Cidade Informada",
	})
	require.NoError(t, err)

	assert.Equal(t, "Rua Informada", c.Street)
	assert.Equal(t, "Cidade Informada", c.City)
}

func TestCreateCondominiumSurvivesLookupFailure(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(
		repo,
		&fakePostal{err: errors.New("upstream down")},
		slog.New(slog.DiscardHandler),
	)

	c, err := svc.CreateCondominium(context.Background(), CreateCondominiumRequest{
		Name:       "Edifício Central",
		PostalCode: "01310100",
		Number:     "1000",
	})
	require.NoError(t, err)
	assert.Empty(t, c.Street)
	require.NotNil(t, repo.created)
}

func TestMembershipWithoutProfile(t *testing.T) {
	svc := NewService(
		&fakeRepo{profiles: map[string]*Profile{}},
		&fakePostal{},
		slog.New(slog.DiscardHandler),
	)

	condo, unit, err := svc.Membership(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, condo)
	assert.Empty(t, unit)
}

func TestMembershipWithProfile(t *testing.T) {
	svc := NewService(
		&fakeRepo{profiles: map[string]*Profile{
			"u1": {ID: "u1", CondominiumID: "c1", UnitID: "unit-7"},
		}},
		&fakePostal{},
		slog.New(slog.DiscardHandler),
	)

	condo, unit, err := svc.Membership(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "c1", condo)
	assert.Equal(t, "unit-7", unit)
}
