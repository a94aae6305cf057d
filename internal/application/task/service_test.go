package task_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kwybro/guilloteam/internal/application/task"
	"github.com/kwybro/guilloteam/internal/domain"
	domerrors "github.com/kwybro/guilloteam/internal/domain/errors"
	"github.com/kwybro/guilloteam/internal/infrastructure/persistence/memory"
)

type fixture struct {
	store   *memory.Store
	svc     *task.Service
	owner   domain.UserID
	team    domain.TeamID
	project domain.ProjectID
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	svc := task.NewService(store.Tasks(), store.Projects())

	owner := domain.NewUserID(uuid.New())
	team := &domain.Team{ID: domain.NewTeamID(uuid.New()), Name: "Acme"}
	require.NoError(t, store.CreateWithOwner(ctx, team, owner))
	p := &domain.Project{ID: domain.NewProjectID(uuid.New()), TeamID: team.ID, Name: "Launch"}
	require.NoError(t, store.Projects().Create(ctx, p))

	return &fixture{store: store, svc: svc, owner: owner, team: team.ID, project: p.ID}
}

func TestCreateTaskUnderOwnProject(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	created, err := f.svc.Create(ctx, f.owner, f.team, f.project, "Ship", domain.TaskOpen)
	require.NoError(t, err)
	require.Equal(t, f.project, created.ProjectID)
	require.Equal(t, domain.TaskOpen, created.Status)
}

func TestCreateTaskOutsiderNotFound(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	outsider := domain.NewUserID(uuid.New())

	_, err := f.svc.Create(ctx, outsider, f.team, f.project, "Ship", domain.TaskOpen)
	require.ErrorIs(t, err, domerrors.ErrNotFound)
}

func TestCreateTaskUnderDeletedProjectNotFound(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	p, err := f.store.Projects().GetForUser(ctx, f.team, f.project, f.owner)
	require.NoError(t, err)
	_, err = f.store.Projects().SoftDelete(ctx, f.project, p.CreatedAt)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.owner, f.team, f.project, "Ship", domain.TaskOpen)
	require.ErrorIs(t, err, domerrors.ErrNotFound)
}

func TestUpdateTaskPatchesStatusOnly(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	created, err := f.svc.Create(ctx, f.owner, f.team, f.project, "Ship", domain.TaskOpen)
	require.NoError(t, err)

	executed := domain.TaskExecuted
	updated, err := f.svc.Update(ctx, f.owner, f.project, created.ID, nil, &executed)
	require.NoError(t, err)
	require.Equal(t, "Ship", updated.Title)
	require.Equal(t, domain.TaskExecuted, updated.Status)

	title := "Ship it"
	updated, err = f.svc.Update(ctx, f.owner, f.project, created.ID, &title, nil)
	require.NoError(t, err)
	require.Equal(t, "Ship it", updated.Title)
	require.Equal(t, domain.TaskExecuted, updated.Status)
}

func TestDeleteTaskSoftAndIdempotent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	created, err := f.svc.Create(ctx, f.owner, f.team, f.project, "Ship", domain.TaskOpen)
	require.NoError(t, err)

	deleted, err := f.svc.Delete(ctx, f.owner, f.project, created.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)

	tasks, err := f.svc.List(ctx, f.owner, f.project)
	require.NoError(t, err)
	require.Empty(t, tasks)

	_, err = f.svc.Delete(ctx, f.owner, f.project, created.ID)
	require.ErrorIs(t, err, domerrors.ErrNotFound)
}

func TestTasksHiddenWhenProjectDeleted(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	created, err := f.svc.Create(ctx, f.owner, f.team, f.project, "Ship", domain.TaskOpen)
	require.NoError(t, err)

	_, err = f.store.Projects().SoftDelete(ctx, f.project, created.CreatedAt)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.owner, f.project, created.ID)
	require.ErrorIs(t, err, domerrors.ErrNotFound)
}
