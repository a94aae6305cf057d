// Package task implements the scoped task operations. Every read and write
// joins task -> project -> team through the caller's membership set; a
// deleted or foreign project hides its tasks entirely.
package task

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
	domerrors "github.com/kwybro/guilloteam/internal/domain/errors"
)

// Service wraps task persistence with membership scoping.
type Service struct {
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
	now      func() time.Time
}

// NewService builds the task service. now defaults to time.Now.
func NewService(tasks ports.TaskRepository, projects ports.ProjectRepository) *Service {
	return &Service{tasks: tasks, projects: projects, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List returns the project's non-deleted tasks visible to the caller.
func (s *Service) List(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID) ([]*domain.Task, error) {
	return s.tasks.ListForUser(ctx, projectID, callerID)
}

// Get returns a single task visible to the caller.
func (s *Service) Get(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID, taskID domain.TaskID) (*domain.Task, error) {
	t, err := s.tasks.GetForUser(ctx, projectID, taskID, callerID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domerrors.ErrNotFound
	}
	return t, nil
}

// Create inserts a task under the project. The parent project must exist, be
// non-deleted and sit inside the caller's team set.
func (s *Service) Create(ctx context.Context, callerID domain.UserID, teamID domain.TeamID, projectID domain.ProjectID, title string, status domain.TaskStatus) (*domain.Task, error) {
	p, err := s.projects.GetForUser(ctx, teamID, projectID, callerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domerrors.ErrNotFound
	}
	now := s.now()
	t := &domain.Task{
		ID:        domain.NewTaskID(uuid.New()),
		ProjectID: projectID,
		Title:     title,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update patches a task's title and/or status. Nil fields are left untouched.
func (s *Service) Update(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID, taskID domain.TaskID, title *string, status *domain.TaskStatus) (*domain.Task, error) {
	existing, err := s.tasks.GetForUser(ctx, projectID, taskID, callerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domerrors.ErrNotFound
	}
	t, err := s.tasks.Update(ctx, taskID, title, status, s.now())
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domerrors.ErrNotFound
	}
	return t, nil
}

// Delete soft-deletes a task.
func (s *Service) Delete(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID, taskID domain.TaskID) (*domain.Task, error) {
	existing, err := s.tasks.GetForUser(ctx, projectID, taskID, callerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domerrors.ErrNotFound
	}
	t, err := s.tasks.SoftDelete(ctx, taskID, s.now())
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domerrors.ErrNotFound
	}
	return t, nil
}
