package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kwybro/guilloteam/internal/application/auth"
	domerrors "github.com/kwybro/guilloteam/internal/domain/errors"
	"github.com/kwybro/guilloteam/internal/infrastructure/identity"
	"github.com/kwybro/guilloteam/internal/infrastructure/persistence/memory"
)

func newService(store *memory.Store) *auth.Service {
	provider := identity.NewProvider(store.Users(), identity.NewMemoryCodeStore(), store, nil, time.Minute).
		WithCodeGenerator(func() (string, error) { return "123456", nil })
	return auth.NewService(provider, store.Teams())
}

func TestVerifyBootstrapsPersonalTeam(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store)

	require.NoError(t, svc.SendCode(ctx, "alice@example.com"))
	res, err := svc.Verify(ctx, "alice@example.com", "123456")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", res.Email)
	require.True(t, strings.HasPrefix(res.Token, identity.APIKeyPrefix))

	teams, err := store.Teams().ListForUser(ctx, res.UserID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, auth.DefaultTeamName, teams[0].Name)
}

func TestVerifySecondSignInKeepsSingleTeam(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store)

	require.NoError(t, svc.SendCode(ctx, "alice@example.com"))
	first, err := svc.Verify(ctx, "alice@example.com", "123456")
	require.NoError(t, err)

	require.NoError(t, svc.SendCode(ctx, "alice@example.com"))
	second, err := svc.Verify(ctx, "alice@example.com", "123456")
	require.NoError(t, err)
	require.Equal(t, first.UserID, second.UserID)
	require.NotEqual(t, first.Token, second.Token)

	teams, err := store.Teams().ListForUser(ctx, first.UserID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
}

func TestVerifyBadCode(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store)

	require.NoError(t, svc.SendCode(ctx, "alice@example.com"))
	_, err := svc.Verify(ctx, "alice@example.com", "999999")
	require.ErrorIs(t, err, domerrors.ErrInvalidCredentials)
}
