package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kwybro/guilloteam/internal/application/auth"
	"github.com/kwybro/guilloteam/internal/application/invite"
	"github.com/kwybro/guilloteam/internal/application/membership"
	"github.com/kwybro/guilloteam/internal/application/project"
	"github.com/kwybro/guilloteam/internal/application/task"
	"github.com/kwybro/guilloteam/internal/application/team"
	"github.com/kwybro/guilloteam/internal/client"
	api "github.com/kwybro/guilloteam/internal/infrastructure/http"
	"github.com/kwybro/guilloteam/internal/infrastructure/http/handlers"
	"github.com/kwybro/guilloteam/internal/infrastructure/http/middleware"
	"github.com/kwybro/guilloteam/internal/infrastructure/identity"
	"github.com/kwybro/guilloteam/internal/infrastructure/persistence/memory"
	"github.com/kwybro/guilloteam/internal/infrastructure/queue"
	"github.com/kwybro/guilloteam/internal/infrastructure/webhook"
)

type env struct {
	ts    *httptest.Server
	store *memory.Store
}

// newEnv spins up the full router over the in-memory store, with the
// fixed code "123456" standing in for email delivery.
func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	resolver := membership.NewResolver(store.Memberships())
	provider := identity.NewProvider(store.Users(), identity.NewMemoryCodeStore(), store, queue.NewNoopEnqueuer(), time.Minute).
		WithCodeGenerator(func() (string, error) { return "123456", nil })

	log := zerolog.Nop()
	emitter := webhook.NewNoopEmitter()

	router := api.NewRouter(api.RouterConfig{
		AuthHandler:     handlers.NewAuthHandler(auth.NewService(provider, store.Teams()), log, emitter),
		TeamsHandler:    handlers.NewTeamsHandler(team.NewService(store.Teams(), store.Memberships(), resolver), log, emitter),
		ProjectsHandler: handlers.NewProjectsHandler(project.NewService(store.Projects(), store.Tasks(), resolver)),
		TasksHandler:    handlers.NewTasksHandler(task.NewService(store.Tasks(), store.Projects())),
		InvitesHandler:  handlers.NewInvitesHandler(invite.NewService(store.Invites(), store.Teams(), store.Users(), resolver, queue.NewNoopEnqueuer()), log, emitter),
		RequireAuth:     middleware.NewAPIKeyValidator(provider).Handler,
		Log:             log,
	})
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return &env{ts: ts, store: store}
}

func (e *env) signIn(t *testing.T, email string) *client.Client {
	t.Helper()
	ctx := context.Background()
	anon := client.New(e.ts.URL, "")
	require.NoError(t, anon.SendCode(ctx, email))
	res, err := anon.Verify(ctx, email, "123456")
	require.NoError(t, err)
	require.Equal(t, email, res.Email)
	return client.New(e.ts.URL, res.Token)
}

func apiErr(t *testing.T, err error) *client.APIError {
	t.Helper()
	var ae *client.APIError
	require.True(t, errors.As(err, &ae), "expected APIError, got %v", err)
	return ae
}

func TestSignInBootstrapsPersonalTeam(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.signIn(t, "alice@example.com")

	teams, err := alice.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, "Personal", teams[0].Name)
}

func TestTaskLifecycleFlow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.signIn(t, "alice@example.com")

	tm, err := alice.CreateTeam(ctx, "Acme")
	require.NoError(t, err)
	p, err := alice.CreateProject(ctx, tm.ID, "Launch")
	require.NoError(t, err)

	created, err := alice.CreateTask(ctx, tm.ID, p.ID, "Ship", "")
	require.NoError(t, err)
	require.Equal(t, "open", created.Status)

	executed := "executed"
	updated, err := alice.UpdateTask(ctx, tm.ID, p.ID, created.ID, nil, &executed)
	require.NoError(t, err)
	require.Equal(t, "executed", updated.Status)
	require.Equal(t, "Ship", updated.Title)

	detail, err := alice.GetProject(ctx, tm.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, detail.Tasks.Open)
	require.Equal(t, 1, detail.Tasks.Executed)

	tasks, err := alice.ListTasks(ctx, tm.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "executed", tasks[0].Status)
}

func TestInviteAcceptFlow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.signIn(t, "alice@example.com")
	bob := e.signIn(t, "bob@example.com")

	tm, err := alice.CreateTeam(ctx, "Acme")
	require.NoError(t, err)
	inv, err := alice.CreateInvite(ctx, tm.ID, "bob@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, inv.Token)

	joined, err := bob.AcceptInvite(ctx, inv.Token)
	require.NoError(t, err)
	require.Equal(t, tm.ID, joined.ID)

	detail, err := bob.GetTeam(ctx, tm.ID)
	require.NoError(t, err)
	require.Len(t, detail.Members, 2)
	roles := map[string]string{}
	for _, m := range detail.Members {
		roles[m.Email] = m.Role
	}
	require.Equal(t, "owner", roles["alice@example.com"])
	require.Equal(t, "member", roles["bob@example.com"])

	_, err = bob.AcceptInvite(ctx, inv.Token)
	ae := apiErr(t, err)
	require.Equal(t, http.StatusBadRequest, ae.Status)
	require.Equal(t, "invite_already_accepted", ae.Code)
}

func TestInviteManagementOwnerOnly(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.signIn(t, "alice@example.com")
	bob := e.signIn(t, "bob@example.com")

	tm, err := alice.CreateTeam(ctx, "Acme")
	require.NoError(t, err)
	inv, err := alice.CreateInvite(ctx, tm.ID, "bob@example.com")
	require.NoError(t, err)
	_, err = bob.AcceptInvite(ctx, inv.Token)
	require.NoError(t, err)

	_, err = bob.CreateInvite(ctx, tm.ID, "carol@example.com")
	ae := apiErr(t, err)
	require.Equal(t, http.StatusForbidden, ae.Status)
	require.Equal(t, "not_authorized", ae.Code)
}

func TestOutsiderSeesNotFound(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.signIn(t, "alice@example.com")
	bob := e.signIn(t, "bob@example.com")

	tm, err := alice.CreateTeam(ctx, "Acme")
	require.NoError(t, err)

	_, err = bob.GetTeam(ctx, tm.ID)
	ae := apiErr(t, err)
	require.Equal(t, http.StatusNotFound, ae.Status)
	require.Equal(t, "not_found", ae.Code)

	_, err = bob.CreateProject(ctx, tm.ID, "Sneaky")
	ae = apiErr(t, err)
	require.Equal(t, http.StatusNotFound, ae.Status)
}

func TestMissingBearerRejected(t *testing.T) {
	e := newEnv(t)

	resp, err := http.Get(e.ts.URL + "/teams")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "unauthorized", body.Code)
}

func TestValidationFailureListsFields(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.signIn(t, "alice@example.com")

	_, err := alice.CreateTeam(ctx, "")
	ae := apiErr(t, err)
	require.Equal(t, http.StatusBadRequest, ae.Status)
	require.NotEmpty(t, ae.Fields)
	require.Equal(t, "name", ae.Fields[0].Field)
	require.Equal(t, "required", ae.Fields[0].Rule)
}

func TestDeletedTeamDisappears(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.signIn(t, "alice@example.com")

	tm, err := alice.CreateTeam(ctx, "Acme")
	require.NoError(t, err)
	_, err = alice.DeleteTeam(ctx, tm.ID)
	require.NoError(t, err)

	_, err = alice.GetTeam(ctx, tm.ID)
	ae := apiErr(t, err)
	require.Equal(t, http.StatusNotFound, ae.Status)

	teams, err := alice.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1) // only Personal remains
}

func TestWrongCodeRejected(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	anon := client.New(e.ts.URL, "")
	require.NoError(t, anon.SendCode(ctx, "alice@example.com"))
	_, err := anon.Verify(ctx, "alice@example.com", "654321")
	ae := apiErr(t, err)
	require.Equal(t, http.StatusUnauthorized, ae.Status)
	require.Equal(t, "invalid_credentials", ae.Code)
}
