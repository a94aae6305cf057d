package invite_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kwybro/guilloteam/internal/application/invite"
	"github.com/kwybro/guilloteam/internal/application/membership"
	"github.com/kwybro/guilloteam/internal/domain"
	domerrors "github.com/kwybro/guilloteam/internal/domain/errors"
	"github.com/kwybro/guilloteam/internal/infrastructure/persistence/memory"
)

type fixture struct {
	store    *memory.Store
	svc      *invite.Service
	resolver *membership.Resolver
	owner    domain.UserID
	team     domain.TeamID
	now      time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	resolver := membership.NewResolver(store.Memberships())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := invite.NewService(store.Invites(), store.Teams(), store.Users(), resolver, nil).
		WithClock(func() time.Time { return now })

	owner := &domain.User{ID: domain.NewUserID(uuid.New()), Email: "alice@example.com"}
	require.NoError(t, store.Users().Create(ctx, owner))
	team := &domain.Team{ID: domain.NewTeamID(uuid.New()), Name: "Acme"}
	require.NoError(t, store.CreateWithOwner(ctx, team, owner.ID))

	return &fixture{store: store, svc: svc, resolver: resolver, owner: owner.ID, team: team.ID, now: now}
}

func (f *fixture) seedUser(t *testing.T, email string) domain.UserID {
	t.Helper()
	u := &domain.User{ID: domain.NewUserID(uuid.New()), Email: email}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u.ID
}

func TestCreateInviteOwnerOnly(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	member := f.seedUser(t, "bob@example.com")
	require.NoError(t, f.store.Memberships().Create(ctx, &domain.Membership{
		UserID: member, TeamID: f.team, Role: domain.RoleMember,
	}))

	_, err := f.svc.Create(ctx, member, f.team, "carol@example.com")
	require.ErrorIs(t, err, domerrors.ErrNotAuthorized)

	inv, err := f.svc.Create(ctx, f.owner, f.team, "carol@example.com")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(inv.Token, domain.InviteTokenPrefix))
	require.Equal(t, f.now.Add(invite.Expiry), inv.ExpiresAt)
}

func TestCreateInviteReplacesPending(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	first, err := f.svc.Create(ctx, f.owner, f.team, "carol@example.com")
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.owner, f.team, "carol@example.com")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	pending, err := f.svc.ListPending(ctx, f.owner, f.team)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, second.ID, pending[0].ID)

	// The replaced token is dead.
	carol := f.seedUser(t, "carol@example.com")
	_, err = f.svc.Accept(ctx, carol, first.Token)
	require.ErrorIs(t, err, domerrors.ErrNotFound)
}

func TestAcceptInviteJoinsTeam(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	carol := f.seedUser(t, "carol@example.com")

	inv, err := f.svc.Create(ctx, f.owner, f.team, "carol@example.com")
	require.NoError(t, err)

	joined, err := f.svc.Accept(ctx, carol, inv.Token)
	require.NoError(t, err)
	require.Equal(t, f.team, joined.ID)

	isMember, err := f.resolver.IsMember(ctx, carol, f.team)
	require.NoError(t, err)
	require.True(t, isMember)
	isOwner, err := f.resolver.IsOwner(ctx, carol, f.team)
	require.NoError(t, err)
	require.False(t, isOwner)

	members, err := f.store.Memberships().ListMembers(ctx, f.team)
	require.NoError(t, err)
	require.Len(t, members, 2)
}

func TestAcceptInviteTwiceAlreadyAccepted(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	carol := f.seedUser(t, "carol@example.com")

	inv, err := f.svc.Create(ctx, f.owner, f.team, "carol@example.com")
	require.NoError(t, err)

	_, err = f.svc.Accept(ctx, carol, inv.Token)
	require.NoError(t, err)
	_, err = f.svc.Accept(ctx, carol, inv.Token)
	require.ErrorIs(t, err, domerrors.ErrInviteAccepted)
}

func TestAcceptInviteExpired(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	carol := f.seedUser(t, "carol@example.com")

	inv, err := f.svc.Create(ctx, f.owner, f.team, "carol@example.com")
	require.NoError(t, err)

	f.svc.WithClock(func() time.Time { return f.now.Add(invite.Expiry + time.Hour) })
	_, err = f.svc.Accept(ctx, carol, inv.Token)
	require.ErrorIs(t, err, domerrors.ErrInviteExpired)

	// Expired rows also drop out of the pending list without being deleted.
	pending, err := f.svc.ListPending(ctx, f.owner, f.team)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestAcceptInviteEmailMismatchNotFound(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	mallory := f.seedUser(t, "mallory@example.com")

	inv, err := f.svc.Create(ctx, f.owner, f.team, "carol@example.com")
	require.NoError(t, err)

	// A leaked token is useless under the wrong identity.
	_, err = f.svc.Accept(ctx, mallory, inv.Token)
	require.ErrorIs(t, err, domerrors.ErrNotFound)
}

func TestRevokeInvite(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	carol := f.seedUser(t, "carol@example.com")

	inv, err := f.svc.Create(ctx, f.owner, f.team, "carol@example.com")
	require.NoError(t, err)

	revoked, err := f.svc.Revoke(ctx, f.owner, f.team, inv.ID)
	require.NoError(t, err)
	require.Equal(t, inv.ID, revoked.ID)

	_, err = f.svc.Accept(ctx, carol, inv.Token)
	require.ErrorIs(t, err, domerrors.ErrNotFound)

	_, err = f.svc.Revoke(ctx, f.owner, f.team, inv.ID)
	require.ErrorIs(t, err, domerrors.ErrNotFound)
}

func TestListPendingOwnerOnly(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	member := f.seedUser(t, "bob@example.com")
	require.NoError(t, f.store.Memberships().Create(ctx, &domain.Membership{
		UserID: member, TeamID: f.team, Role: domain.RoleMember,
	}))

	_, err := f.svc.ListPending(ctx, member, f.team)
	require.ErrorIs(t, err, domerrors.ErrNotAuthorized)
}
