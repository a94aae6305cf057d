package membership_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kwybro/guilloteam/internal/application/membership"
	"github.com/kwybro/guilloteam/internal/domain"
	"github.com/kwybro/guilloteam/internal/infrastructure/persistence/memory"
)

func TestResolverOwnerAndMember(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := membership.NewResolver(store.Memberships())

	owner := domain.NewUserID(uuid.New())
	member := domain.NewUserID(uuid.New())
	outsider := domain.NewUserID(uuid.New())

	team := &domain.Team{ID: domain.NewTeamID(uuid.New()), Name: "Acme", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, store.CreateWithOwner(ctx, team, owner))
	require.NoError(t, store.Memberships().Create(ctx, &domain.Membership{
		ID:     domain.NewMembershipID(uuid.New()),
		UserID: member,
		TeamID: team.ID,
		Role:   domain.RoleMember,
	}))

	isOwner, err := resolver.IsOwner(ctx, owner, team.ID)
	require.NoError(t, err)
	require.True(t, isOwner)

	isOwner, err = resolver.IsOwner(ctx, member, team.ID)
	require.NoError(t, err)
	require.False(t, isOwner)

	isOwner, err = resolver.IsOwner(ctx, outsider, team.ID)
	require.NoError(t, err)
	require.False(t, isOwner)

	isMember, err := resolver.IsMember(ctx, member, team.ID)
	require.NoError(t, err)
	require.True(t, isMember)

	isMember, err = resolver.IsMember(ctx, outsider, team.ID)
	require.NoError(t, err)
	require.False(t, isMember)
}

func TestResolverTeamIDsOf(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := membership.NewResolver(store.Memberships())

	user := domain.NewUserID(uuid.New())
	ids, err := resolver.TeamIDsOf(ctx, user)
	require.NoError(t, err)
	require.Empty(t, ids)

	teamA := &domain.Team{ID: domain.NewTeamID(uuid.New()), Name: "A"}
	teamB := &domain.Team{ID: domain.NewTeamID(uuid.New()), Name: "B"}
	require.NoError(t, store.CreateWithOwner(ctx, teamA, user))
	require.NoError(t, store.CreateWithOwner(ctx, teamB, user))

	ids, err = resolver.TeamIDsOf(ctx, user)
	require.NoError(t, err)
	require.ElementsMatch(t, []domain.TeamID{teamA.ID, teamB.ID}, ids)
}

func TestResolverDuplicateMembershipCollapses(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := membership.NewResolver(store.Memberships())

	user := domain.NewUserID(uuid.New())
	team := &domain.Team{ID: domain.NewTeamID(uuid.New()), Name: "Acme"}
	require.NoError(t, store.CreateWithOwner(ctx, team, user))

	// A second insert for the same pair is ignored, so the owner role stays.
	require.NoError(t, store.Memberships().Create(ctx, &domain.Membership{
		UserID: user,
		TeamID: team.ID,
		Role:   domain.RoleMember,
	}))

	isOwner, err := resolver.IsOwner(ctx, user, team.ID)
	require.NoError(t, err)
	require.True(t, isOwner)

	ids, err := resolver.TeamIDsOf(ctx, user)
	require.NoError(t, err)
	require.Len(t, ids, 1)
}
