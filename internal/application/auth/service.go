// Package auth chains the identity provider's OTP sign-in with API key
// issuance, and bootstraps a default team for first-time identities.
package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
)

// DefaultTeamName is the team every new identity starts with.
const DefaultTeamName = "Personal"

// Service implements the CLI-facing sign-in flow.
type Service struct {
	identity ports.IdentityProvider
	teams    ports.TeamRepository
}

// NewService builds the auth service.
func NewService(identity ports.IdentityProvider, teams ports.TeamRepository) *Service {
	return &Service{identity: identity, teams: teams}
}

// SendCode requests a sign-in OTP for the email.
func (s *Service) SendCode(ctx context.Context, email string) error {
	return s.identity.SendOneTimeCode(ctx, email)
}

// VerifyResult is the outcome of a successful OTP verification: a long-lived
// API key plus the resolved identity.
type VerifyResult struct {
	Token  string
	Email  string
	UserID domain.UserID
}

// Verify redeems the OTP and mints an API key. A first-time identity gets a
// "Personal" team created atomically with its owner membership, the same
// all-or-nothing unit as an explicit team create.
func (s *Service) Verify(ctx context.Context, email, code string) (*VerifyResult, error) {
	user, created, err := s.identity.VerifyOneTimeCode(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if created {
		t := &domain.Team{
			ID:        domain.NewTeamID(uuid.New()),
			Name:      DefaultTeamName,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.CreatedAt,
		}
		if err := s.teams.CreateWithOwner(ctx, t, user.ID); err != nil {
			return nil, err
		}
	}
	key, err := s.identity.IssueAPIKey(ctx, user.ID, "CLI")
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Token: key, Email: user.Email, UserID: user.ID}, nil
}
