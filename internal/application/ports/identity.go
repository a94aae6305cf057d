package ports

import (
	"context"

	"github.com/kwybro/guilloteam/internal/domain"
)

// IdentityProvider issues verified identities and long-lived API keys.
// The core consumes it as an opaque capability; OTP generation, hashing and
// delivery live behind it.
type IdentityProvider interface {
	// SendOneTimeCode generates and delivers a sign-in code for the email.
	SendOneTimeCode(ctx context.Context, email string) error
	// VerifyOneTimeCode redeems a code. Codes are single-use. Returns the
	// user for the email, creating it on first sign-in, and whether it was
	// just created. Fails with domain ErrInvalidCredentials on a bad code.
	VerifyOneTimeCode(ctx context.Context, email, code string) (user *domain.User, created bool, err error)
	// IssueAPIKey mints a long-lived bearer key for the user. The plain key
	// is returned exactly once; only a hash is stored.
	IssueAPIKey(ctx context.Context, userID domain.UserID, name string) (string, error)
	// VerifyCredential resolves a bearer key to a user id, or
	// ErrInvalidCredentials.
	VerifyCredential(ctx context.Context, key string) (domain.UserID, error)
}
