// Package identity implements the identity provider capability: email OTP
// sign-in and long-lived API keys. Codes and keys are stored hashed; the
// plain values leave the process only via the delivery queue or the caller.
package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
	domerrors "github.com/kwybro/guilloteam/internal/domain/errors"
)

// APIKeyPrefix namespaces issued keys.
const APIKeyPrefix = "gt_"

// APIKeyStore persists API key hashes.
type APIKeyStore interface {
	Insert(ctx context.Context, id uuid.UUID, userID domain.UserID, name, keyHash string, now time.Time) error
	UserIDByHash(ctx context.Context, keyHash string) (domain.UserID, bool, error)
}

// Provider implements ports.IdentityProvider.
type Provider struct {
	users     ports.UserRepository
	codes     CodeStore
	keys      APIKeyStore
	enqueuer  ports.TaskEnqueuer
	codeTTL   time.Duration
	now       func() time.Time
	newCode   func() (string, error)
}

// NewProvider builds the provider. codeTTL <= 0 defaults to 10 minutes.
func NewProvider(users ports.UserRepository, codes CodeStore, keys APIKeyStore, enqueuer ports.TaskEnqueuer, codeTTL time.Duration) *Provider {
	if codeTTL <= 0 {
		codeTTL = 10 * time.Minute
	}
	return &Provider{
		users:    users,
		codes:    codes,
		keys:     keys,
		enqueuer: enqueuer,
		codeTTL:  codeTTL,
		now:      time.Now,
		newCode:  randomDigits,
	}
}

// WithClock overrides the clock, for tests.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

// WithCodeGenerator overrides code generation, for tests.
func (p *Provider) WithCodeGenerator(gen func() (string, error)) *Provider {
	p.newCode = gen
	return p
}

func (p *Provider) SendOneTimeCode(ctx context.Context, email string) error {
	code, err := p.newCode()
	if err != nil {
		return err
	}
	if err := p.codes.Put(ctx, email, hashSecret(code), p.codeTTL); err != nil {
		return err
	}
	if p.enqueuer != nil {
		return p.enqueuer.EnqueueSendOneTimeCode(ctx, email, code)
	}
	return nil
}

func (p *Provider) VerifyOneTimeCode(ctx context.Context, email, code string) (*domain.User, bool, error) {
	storedHash, ok, err := p.codes.Take(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if !ok || subtle.ConstantTimeCompare([]byte(storedHash), []byte(hashSecret(code))) != 1 {
		return nil, false, domerrors.ErrInvalidCredentials
	}

	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if user != nil {
		return user, false, nil
	}
	now := p.now()
	user = &domain.User{
		ID:        domain.NewUserID(uuid.New()),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (p *Provider) IssueAPIKey(ctx context.Context, userID domain.UserID, name string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	key := APIKeyPrefix + hex.EncodeToString(b)
	if err := p.keys.Insert(ctx, uuid.New(), userID, name, hashSecret(key), p.now()); err != nil {
		return "", err
	}
	return key, nil
}

func (p *Provider) VerifyCredential(ctx context.Context, key string) (domain.UserID, error) {
	userID, ok, err := p.keys.UserIDByHash(ctx, hashSecret(key))
	if err != nil {
		return domain.UserID{}, err
	}
	if !ok {
		return domain.UserID{}, domerrors.ErrInvalidCredentials
	}
	return userID, nil
}

func hashSecret(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

func randomDigits() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

var _ ports.IdentityProvider = (*Provider)(nil)
