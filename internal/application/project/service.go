// Package project implements the scoped project operations. Reads filter by
// the caller's membership subquery; mutations require an explicit membership
// lookup because the route path carries the team id directly.
package project

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kwybro/guilloteam/internal/application/membership"
	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
	domerrors "github.com/kwybro/guilloteam/internal/domain/errors"
)

// Service wraps project persistence with membership scoping.
type Service struct {
	projects ports.ProjectRepository
	tasks    ports.TaskRepository
	resolver *membership.Resolver
	now      func() time.Time
}

// NewService builds the project service. now defaults to time.Now.
func NewService(projects ports.ProjectRepository, tasks ports.TaskRepository, resolver *membership.Resolver) *Service {
	return &Service{projects: projects, tasks: tasks, resolver: resolver, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ProjectWithStats is the single-project read: the project plus its task
// status histogram, recomputed on every fetch.
type ProjectWithStats struct {
	Project *domain.Project
	Stats   domain.TaskStats
}

// List returns the team's non-deleted projects, provided the caller belongs
// to the team.
func (s *Service) List(ctx context.Context, callerID domain.UserID, teamID domain.TeamID) ([]*domain.Project, error) {
	return s.projects.ListForUser(ctx, teamID, callerID)
}

// Get returns a single project with its task histogram, zero-filled for every
// status and restricted to non-deleted tasks.
func (s *Service) Get(ctx context.Context, callerID domain.UserID, teamID domain.TeamID, projectID domain.ProjectID) (*ProjectWithStats, error) {
	p, err := s.projects.GetForUser(ctx, teamID, projectID, callerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domerrors.ErrNotFound
	}
	counts, err := s.tasks.CountByStatus(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var stats domain.TaskStats
	for status, n := range counts {
		stats.Add(status, n)
	}
	return &ProjectWithStats{Project: p, Stats: stats}, nil
}

// Create inserts a project under the team. Any member of the team may create;
// outsiders see ErrNotFound.
func (s *Service) Create(ctx context.Context, callerID domain.UserID, teamID domain.TeamID, name string) (*domain.Project, error) {
	member, err := s.resolver.IsMember(ctx, callerID, teamID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domerrors.ErrNotFound
	}
	now := s.now()
	p := &domain.Project{
		ID:        domain.NewProjectID(uuid.New()),
		TeamID:    teamID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update renames a project. Any member of the owning team may update; the
// existence check doubles as the scope check.
func (s *Service) Update(ctx context.Context, callerID domain.UserID, teamID domain.TeamID, projectID domain.ProjectID, name string) (*domain.Project, error) {
	existing, err := s.projects.GetForUser(ctx, teamID, projectID, callerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domerrors.ErrNotFound
	}
	p, err := s.projects.UpdateName(ctx, projectID, name, s.now())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domerrors.ErrNotFound
	}
	return p, nil
}

// Delete soft-deletes a project. Any member of the owning team may delete.
func (s *Service) Delete(ctx context.Context, callerID domain.UserID, teamID domain.TeamID, projectID domain.ProjectID) (*domain.Project, error) {
	existing, err := s.projects.GetForUser(ctx, teamID, projectID, callerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domerrors.ErrNotFound
	}
	p, err := s.projects.SoftDelete(ctx, projectID, s.now())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domerrors.ErrNotFound
	}
	return p, nil
}
