// Package team implements the scoped team operations: reads are restricted to
// the caller's teams, mutations to team owners, and creation is atomic with
// the creator's owner membership.
package team

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kwybro/guilloteam/internal/application/membership"
	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
	domerrors "github.com/kwybro/guilloteam/internal/domain/errors"
)

// Service wraps team persistence with membership scoping.
type Service struct {
	teams       ports.TeamRepository
	memberships ports.MembershipRepository
	resolver    *membership.Resolver
	now         func() time.Time
}

// NewService builds the team service. now defaults to time.Now.
func NewService(teams ports.TeamRepository, memberships ports.MembershipRepository, resolver *membership.Resolver) *Service {
	return &Service{teams: teams, memberships: memberships, resolver: resolver, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TeamWithMembers is the single-team read: the team plus its member list.
type TeamWithMembers struct {
	Team    *domain.Team
	Members []domain.TeamMember
}

// List returns the caller's non-deleted teams.
func (s *Service) List(ctx context.Context, callerID domain.UserID) ([]*domain.Team, error) {
	return s.teams.ListForUser(ctx, callerID)
}

// Get returns a single team with its member list. Teams outside the caller's
// membership set are indistinguishable from absent ones.
func (s *Service) Get(ctx context.Context, callerID domain.UserID, teamID domain.TeamID) (*TeamWithMembers, error) {
	t, err := s.teams.GetForUser(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domerrors.ErrNotFound
	}
	members, err := s.memberships.ListMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return &TeamWithMembers{Team: t, Members: members}, nil
}

// Create inserts the team and the caller's owner membership atomically. Any
// authenticated caller may create a team; a team with zero memberships is
// never observably persisted.
func (s *Service) Create(ctx context.Context, callerID domain.UserID, name string) (*domain.Team, error) {
	now := s.now()
	t := &domain.Team{
		ID:        domain.NewTeamID(uuid.New()),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.teams.CreateWithOwner(ctx, t, callerID); err != nil {
		return nil, err
	}
	return t, nil
}

// Update renames a team. Owner-only; non-owners get ErrNotFound, same as a
// team that does not exist.
func (s *Service) Update(ctx context.Context, callerID domain.UserID, teamID domain.TeamID, name string) (*domain.Team, error) {
	owner, err := s.resolver.IsOwner(ctx, callerID, teamID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, domerrors.ErrNotFound
	}
	t, err := s.teams.UpdateName(ctx, teamID, name, s.now())
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domerrors.ErrNotFound
	}
	return t, nil
}

// Delete soft-deletes a team. Owner-only, same collapse to ErrNotFound. A
// second delete finds no non-deleted row and also reports ErrNotFound.
func (s *Service) Delete(ctx context.Context, callerID domain.UserID, teamID domain.TeamID) (*domain.Team, error) {
	owner, err := s.resolver.IsOwner(ctx, callerID, teamID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, domerrors.ErrNotFound
	}
	t, err := s.teams.SoftDelete(ctx, teamID, s.now())
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domerrors.ErrNotFound
	}
	return t, nil
}
