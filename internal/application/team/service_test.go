package team_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kwybro/guilloteam/internal/application/membership"
	"github.com/kwybro/guilloteam/internal/application/team"
	"github.com/kwybro/guilloteam/internal/domain"
	domerrors "github.com/kwybro/guilloteam/internal/domain/errors"
	"github.com/kwybro/guilloteam/internal/infrastructure/persistence/memory"
)

func newService(store *memory.Store) *team.Service {
	resolver := membership.NewResolver(store.Memberships())
	return team.NewService(store.Teams(), store.Memberships(), resolver)
}

func seedUser(t *testing.T, store *memory.Store, email string) domain.UserID {
	t.Helper()
	u := &domain.User{ID: domain.NewUserID(uuid.New()), Email: email}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u.ID
}

func TestCreateTeamGrantsOwnerMembership(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store)
	alice := seedUser(t, store, "alice@example.com")

	created, err := svc.Create(ctx, alice, "Acme")
	require.NoError(t, err)
	require.Equal(t, "Acme", created.Name)

	res, err := svc.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	require.Len(t, res.Members, 1)
	require.Equal(t, alice, res.Members[0].UserID)
	require.Equal(t, domain.RoleOwner, res.Members[0].Role)
	require.Equal(t, "alice@example.com", res.Members[0].Email)
}

func TestGetTeamOutsiderSeesNotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store)
	alice := seedUser(t, store, "alice@example.com")
	mallory := seedUser(t, store, "mallory@example.com")

	created, err := svc.Create(ctx, alice, "Acme")
	require.NoError(t, err)

	_, err = svc.Get(ctx, mallory, created.ID)
	require.ErrorIs(t, err, domerrors.ErrNotFound)

	// Absent team looks identical.
	_, err = svc.Get(ctx, mallory, domain.NewTeamID(uuid.New()))
	require.ErrorIs(t, err, domerrors.ErrNotFound)
}

func TestUpdateTeamOwnerOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store)
	alice := seedUser(t, store, "alice@example.com")
	bob := seedUser(t, store, "bob@example.com")

	created, err := svc.Create(ctx, alice, "Acme")
	require.NoError(t, err)
	require.NoError(t, store.Memberships().Create(ctx, &domain.Membership{
		UserID: bob, TeamID: created.ID, Role: domain.RoleMember,
	}))

	// Members cannot rename; the failure is indistinguishable from absence.
	_, err = svc.Update(ctx, bob, created.ID, "Evil Corp")
	require.ErrorIs(t, err, domerrors.ErrNotFound)

	updated, err := svc.Update(ctx, alice, created.ID, "Acme v2")
	require.NoError(t, err)
	require.Equal(t, "Acme v2", updated.Name)
}

func TestDeleteTeamSoftAndIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := newService(store).WithClock(func() time.Time { return now })
	alice := seedUser(t, store, "alice@example.com")

	created, err := svc.Create(ctx, alice, "Acme")
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, alice, created.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)

	teams, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Empty(t, teams)

	// The row is gone logically, so a second delete reports absence.
	_, err = svc.Delete(ctx, alice, created.ID)
	require.ErrorIs(t, err, domerrors.ErrNotFound)
}

func TestListTeamsScopedToCaller(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store)
	alice := seedUser(t, store, "alice@example.com")
	bob := seedUser(t, store, "bob@example.com")

	_, err := svc.Create(ctx, alice, "Alpha")
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, "Beta")
	require.NoError(t, err)

	teams, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, "Alpha", teams[0].Name)
}
