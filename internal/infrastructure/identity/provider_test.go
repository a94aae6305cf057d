package identity_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domerrors "github.com/kwybro/guilloteam/internal/domain/errors"
	"github.com/kwybro/guilloteam/internal/infrastructure/identity"
	"github.com/kwybro/guilloteam/internal/infrastructure/persistence/memory"
)

func newProvider(store *memory.Store) *identity.Provider {
	return identity.NewProvider(store.Users(), identity.NewMemoryCodeStore(), store, nil, time.Minute).
		WithCodeGenerator(func() (string, error) { return "123456", nil })
}

func TestOneTimeCodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p := newProvider(store)

	require.NoError(t, p.SendOneTimeCode(ctx, "alice@example.com"))

	user, created, err := p.VerifyOneTimeCode(ctx, "alice@example.com", "123456")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "alice@example.com", user.Email)

	// Codes are single-use.
	_, _, err = p.VerifyOneTimeCode(ctx, "alice@example.com", "123456")
	require.ErrorIs(t, err, domerrors.ErrInvalidCredentials)
}

func TestVerifyWrongCode(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p := newProvider(store)

	require.NoError(t, p.SendOneTimeCode(ctx, "alice@example.com"))
	_, _, err := p.VerifyOneTimeCode(ctx, "alice@example.com", "000000")
	require.ErrorIs(t, err, domerrors.ErrInvalidCredentials)
}

func TestVerifyExistingUserNotRecreated(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p := newProvider(store)

	require.NoError(t, p.SendOneTimeCode(ctx, "alice@example.com"))
	first, created, err := p.VerifyOneTimeCode(ctx, "alice@example.com", "123456")
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, p.SendOneTimeCode(ctx, "alice@example.com"))
	second, created, err := p.VerifyOneTimeCode(ctx, "alice@example.com", "123456")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
}

func TestAPIKeyIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p := newProvider(store)

	require.NoError(t, p.SendOneTimeCode(ctx, "alice@example.com"))
	user, _, err := p.VerifyOneTimeCode(ctx, "alice@example.com", "123456")
	require.NoError(t, err)

	key, err := p.IssueAPIKey(ctx, user.ID, "CLI")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(key, identity.APIKeyPrefix))

	resolved, err := p.VerifyCredential(ctx, key)
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved)

	_, err = p.VerifyCredential(ctx, "gt_bogus")
	require.ErrorIs(t, err, domerrors.ErrInvalidCredentials)
}

func TestExpiredCodeRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	codes := identity.NewMemoryCodeStore()
	p := identity.NewProvider(store.Users(), codes, store, nil, -time.Minute).
		WithCodeGenerator(func() (string, error) { return "123456", nil })

	// Negative TTL falls back to the default, so put an expired entry directly.
	require.NoError(t, codes.Put(ctx, "alice@example.com", "irrelevant", -time.Second))
	_, _, err := p.VerifyOneTimeCode(ctx, "alice@example.com", "123456")
	require.ErrorIs(t, err, domerrors.ErrInvalidCredentials)
}
