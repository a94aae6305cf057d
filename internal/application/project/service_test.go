package project_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kwybro/guilloteam/internal/application/membership"
	"github.com/kwybro/guilloteam/internal/application/project"
	"github.com/kwybro/guilloteam/internal/domain"
	domerrors "github.com/kwybro/guilloteam/internal/domain/errors"
	"github.com/kwybro/guilloteam/internal/infrastructure/persistence/memory"
)

type fixture struct {
	store *memory.Store
	svc   *project.Service
	owner domain.UserID
	team  domain.TeamID
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	resolver := membership.NewResolver(store.Memberships())
	svc := project.NewService(store.Projects(), store.Tasks(), resolver)

	owner := domain.NewUserID(uuid.New())
	team := &domain.Team{ID: domain.NewTeamID(uuid.New()), Name: "Acme"}
	require.NoError(t, store.CreateWithOwner(ctx, team, owner))

	return &fixture{store: store, svc: svc, owner: owner, team: team.ID}
}

func TestCreateProjectRequiresMembership(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	outsider := domain.NewUserID(uuid.New())

	_, err := f.svc.Create(ctx, outsider, f.team, "Launch")
	require.ErrorIs(t, err, domerrors.ErrNotFound)

	p, err := f.svc.Create(ctx, f.owner, f.team, "Launch")
	require.NoError(t, err)
	require.Equal(t, f.team, p.TeamID)
}

func TestGetProjectHistogramZeroFilled(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	p, err := f.svc.Create(ctx, f.owner, f.team, "Launch")
	require.NoError(t, err)

	for _, status := range []domain.TaskStatus{domain.TaskOpen, domain.TaskOpen, domain.TaskExecuted} {
		require.NoError(t, f.store.Tasks().Create(ctx, &domain.Task{
			ID:        domain.NewTaskID(uuid.New()),
			ProjectID: p.ID,
			Title:     "t",
			Status:    status,
		}))
	}

	res, err := f.svc.Get(ctx, f.owner, f.team, p.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TaskStats{Open: 2, InProgress: 0, Executed: 1, Pardoned: 0}, res.Stats)
}

func TestGetProjectHistogramExcludesDeletedTasks(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	p, err := f.svc.Create(ctx, f.owner, f.team, "Launch")
	require.NoError(t, err)

	task := &domain.Task{ID: domain.NewTaskID(uuid.New()), ProjectID: p.ID, Title: "t", Status: domain.TaskOpen}
	require.NoError(t, f.store.Tasks().Create(ctx, task))
	_, err = f.store.Tasks().SoftDelete(ctx, task.ID, task.CreatedAt)
	require.NoError(t, err)

	res, err := f.svc.Get(ctx, f.owner, f.team, p.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TaskStats{}, res.Stats)
}

func TestProjectUpdateAllowsAnyMember(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	member := domain.NewUserID(uuid.New())
	require.NoError(t, f.store.Memberships().Create(ctx, &domain.Membership{
		UserID: member, TeamID: f.team, Role: domain.RoleMember,
	}))

	p, err := f.svc.Create(ctx, f.owner, f.team, "Launch")
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, member, f.team, p.ID, "Relaunch")
	require.NoError(t, err)
	require.Equal(t, "Relaunch", updated.Name)
}

func TestProjectDeleteHidesFromListAndGet(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	p, err := f.svc.Create(ctx, f.owner, f.team, "Launch")
	require.NoError(t, err)

	deleted, err := f.svc.Delete(ctx, f.owner, f.team, p.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)

	projects, err := f.svc.List(ctx, f.owner, f.team)
	require.NoError(t, err)
	require.Empty(t, projects)

	_, err = f.svc.Get(ctx, f.owner, f.team, p.ID)
	require.ErrorIs(t, err, domerrors.ErrNotFound)

	_, err = f.svc.Delete(ctx, f.owner, f.team, p.ID)
	require.ErrorIs(t, err, domerrors.ErrNotFound)
}

func TestProjectForeignTeamPathNotFound(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// A second team the caller does not belong to.
	stranger := domain.NewUserID(uuid.New())
	other := &domain.Team{ID: domain.NewTeamID(uuid.New()), Name: "Other"}
	require.NoError(t, f.store.CreateWithOwner(ctx, other, stranger))
	foreign, err := f.svc.Create(ctx, stranger, other.ID, "Secret")
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.owner, other.ID, foreign.ID)
	require.ErrorIs(t, err, domerrors.ErrNotFound)

	// Even with the correct project id under the caller's own team path.
	_, err = f.svc.Get(ctx, f.owner, f.team, foreign.ID)
	require.ErrorIs(t, err, domerrors.ErrNotFound)
}
