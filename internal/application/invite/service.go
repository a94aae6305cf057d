// Package invite implements the invite lifecycle: owners summon an email
// address into a team with a time-boxed single-use token; the addressee
// accepts it to gain a member role.
package invite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kwybro/guilloteam/internal/application/membership"
	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
	domerrors "github.com/kwybro/guilloteam/internal/domain/errors"
)

// Expiry is the fixed invite lifetime.
const Expiry = 7 * 24 * time.Hour

// Service manages the invite lifecycle. Create, list and revoke are gated on
// team ownership; accept is open to any authenticated caller whose email
// matches the invite.
type Service struct {
	invites  ports.InviteRepository
	teams    ports.TeamRepository
	users    ports.UserRepository
	resolver *membership.Resolver
	enqueuer ports.TaskEnqueuer
	now      func() time.Time
}

// NewService builds the invite service. now defaults to time.Now.
func NewService(invites ports.InviteRepository, teams ports.TeamRepository, users ports.UserRepository, resolver *membership.Resolver, enqueuer ports.TaskEnqueuer) *Service {
	return &Service{invites: invites, teams: teams, users: users, resolver: resolver, enqueuer: enqueuer, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create issues a new invite for the email, replacing any pending invite for
// the same (team, email) pair so at most one stays active. Owner-only;
// non-owners get ErrNotAuthorized.
func (s *Service) Create(ctx context.Context, callerID domain.UserID, teamID domain.TeamID, email string) (*domain.Invite, error) {
	owner, err := s.resolver.IsOwner(ctx, callerID, teamID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, domerrors.ErrNotAuthorized
	}

	// Re-summoning the same email replaces the existing invite.
	if err := s.invites.DeletePending(ctx, teamID, email); err != nil {
		return nil, err
	}

	now := s.now()
	inv := &domain.Invite{
		ID:        domain.NewInviteID(uuid.New()),
		TeamID:    teamID,
		Email:     email,
		Token:     domain.NewInviteToken(),
		InvitedBy: callerID,
		ExpiresAt: now.Add(Expiry),
		CreatedAt: now,
	}
	if err := s.invites.Create(ctx, inv); err != nil {
		return nil, err
	}

	if s.enqueuer != nil {
		teamName := ""
		if t, err := s.teams.GetForUser(ctx, teamID, callerID); err == nil && t != nil {
			teamName = t.Name
		}
		// Delivery is best-effort; the token is returned to the caller.
		_ = s.enqueuer.EnqueueSendInvite(ctx, teamName, inv.Email, inv.Token)
	}
	return inv, nil
}

// ListPending returns the team's unaccepted, unexpired invites. Expired rows
// become invisible without being deleted. Owner-only.
func (s *Service) ListPending(ctx context.Context, callerID domain.UserID, teamID domain.TeamID) ([]*domain.Invite, error) {
	owner, err := s.resolver.IsOwner(ctx, callerID, teamID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, domerrors.ErrNotAuthorized
	}
	return s.invites.ListPending(ctx, teamID, s.now())
}

// Revoke hard-deletes an invite by (id, team). Owner-only; a missing row is
// ErrNotFound.
func (s *Service) Revoke(ctx context.Context, callerID domain.UserID, teamID domain.TeamID, inviteID domain.InviteID) (*domain.Invite, error) {
	owner, err := s.resolver.IsOwner(ctx, callerID, teamID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, domerrors.ErrNotAuthorized
	}
	inv, err := s.invites.Delete(ctx, inviteID, teamID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domerrors.ErrNotFound
	}
	return inv, nil
}

// Accept redeems an invite token for the caller. The invite must match both
// the token and the caller's own email, so a guessed token cannot grant
// access under the wrong identity. The membership insert and the accepted_at
// stamp commit in one transaction. Returns the joined team.
func (s *Service) Accept(ctx context.Context, callerID domain.UserID, token string) (*domain.Team, error) {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, domerrors.ErrNotFound
	}

	inv, err := s.invites.GetByTokenAndEmail(ctx, token, caller.Email)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domerrors.ErrNotFound
	}
	now := s.now()
	if inv.Accepted() {
		return nil, domerrors.ErrInviteAccepted
	}
	if inv.Expired(now) {
		return nil, domerrors.ErrInviteExpired
	}

	m := &domain.Membership{
		ID:        domain.NewMembershipID(uuid.New()),
		UserID:    callerID,
		TeamID:    inv.TeamID,
		Role:      domain.RoleMember,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.invites.Accept(ctx, inv.ID, m, now); err != nil {
		return nil, err
	}

	// The caller is a member now, so the scoped read resolves the team.
	t, err := s.teams.GetForUser(ctx, inv.TeamID, callerID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domerrors.ErrNotFound
	}
	return t, nil
}
