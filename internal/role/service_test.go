// AngelaMos | 2026
// service_test.go

package role

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoview/api/internal/core"
)

type stubRepo struct {
	roles map[string][]string
	err   error
}

func (s *stubRepo) GetRolesForUser(_ context.Context, userID string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.roles[userID], nil
}

func (s *stubRepo) AssignRole(_ context.Context, userID, role string) error {
	s.roles[userID] = append(s.roles[userID], role)
	return nil
}

func (s *stubRepo) RemoveRole(_ context.Context, _, _ string) error {
	return nil
}

func newTestService(roles map[string][]string) (*Service, Prefs) {
	prefs := NewMemoryPrefs()
	svc := NewService(
		&stubRepo{roles: roles},
		prefs,
		slog.New(slog.DiscardHandler),
	)
	return svc, prefs
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name string
		held []string
		want string
	}{
		{"admin outranks all", []string{"resident", "admin", "manager"}, "admin"},
		{"manager outranks resident", []string{"resident", "manager"}, "manager"},
		{"single role", []string{"resident"}, "resident"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(map[string][]string{"u1": tt.held})

			resolved, err := svc.Resolve(context.Background(), "u1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, resolved.Active)
			assert.ElementsMatch(t, tt.held, resolved.Available)
		})
	}
}

func TestResolveHonorsPreference(t *testing.T) {
	svc, prefs := newTestService(map[string][]string{
		"u1": {"admin", "resident"},
	})

	err := prefs.Set(context.Background(), "u1", PrefSelectedRole, "resident")
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "resident", resolved.Active)
}

func TestResolveIgnoresStalePreference(t *testing.T) {
	svc, prefs := newTestService(map[string][]string{
		"u1": {"resident"},
	})

	// Preference points at a role the user no longer holds.
	err := prefs.Set(context.Background(), "u1", PrefSelectedRole, "admin")
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "resident", resolved.Active)

	// And the stale entry was overwritten with the resolved role.
	saved, err := prefs.Get(context.Background(), "u1", PrefSelectedRole)
	require.NoError(t, err)
	assert.Equal(t, "resident", saved)
}

func TestResolveNoAssignmentsDefaultsToResident(t *testing.T) {
	svc, _ := newTestService(map[string][]string{})

	resolved, err := svc.Resolve(context.Background(), "unprovisioned")
	require.NoError(t, err)
	assert.Equal(t, Resident, resolved.Active)
	assert.Equal(t, []string{Resident}, resolved.Available)
}

func TestResolveRepositoryError(t *testing.T) {
	svc := NewService(
		&stubRepo{err: errors.New("db down")},
		NewMemoryPrefs(),
		slog.New(slog.DiscardHandler),
	)

	_, err := svc.Resolve(context.Background(), "u1")
	assert.Error(t, err)
}

func TestSwitchPersistsChoice(t *testing.T) {
	svc, prefs := newTestService(map[string][]string{
		"u1": {"manager", "resident"},
	})

	resolved, err := svc.Switch(context.Background(), "u1", "resident")
	require.NoError(t, err)
	assert.Equal(t, "resident", resolved.Active)

	saved, err := prefs.Get(context.Background(), "u1", PrefSelectedRole)
	require.NoError(t, err)
	assert.Equal(t, "resident", saved)

	// Subsequent resolution sees the stored choice.
	resolved, err = svc.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "resident", resolved.Active)
}

func TestSwitchRejectsUnheldRole(t *testing.T) {
	svc, _ := newTestService(map[string][]string{
		"u1": {"resident"},
	})

	_, err := svc.Switch(context.Background(), "u1", "admin")
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestSwitchRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(map[string][]string{
		"u1": {"resident"},
	})

	_, err := svc.Switch(context.Background(), "u1", "superuser")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestHighest(t *testing.T) {
	assert.Equal(t, "admin", Highest([]string{"resident", "admin"}))
	assert.Equal(t, "", Highest(nil))
	assert.Equal(t, "", Highest([]string{"unknown"}))
}
