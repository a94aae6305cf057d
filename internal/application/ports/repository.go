package ports

import (
	"context"
	"time"

	"github.com/kwybro/guilloteam/internal/domain"
)

// TeamRepository defines persistence for teams. The *ForUser variants are
// scoped: they only see teams the user has a non-deleted membership in, and
// exclude soft-deleted rows. Absence is (nil, nil), never an error.
type TeamRepository interface {
	ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Team, error)
	GetForUser(ctx context.Context, teamID domain.TeamID, userID domain.UserID) (*domain.Team, error)
	// CreateWithOwner inserts the team and the creator's owner membership in
	// one transaction; neither row is observable without the other.
	CreateWithOwner(ctx context.Context, team *domain.Team, ownerID domain.UserID) error
	UpdateName(ctx context.Context, teamID domain.TeamID, name string, now time.Time) (*domain.Team, error)
	SoftDelete(ctx context.Context, teamID domain.TeamID, now time.Time) (*domain.Team, error)
}

// MembershipRepository defines persistence for team memberships.
type MembershipRepository interface {
	// TeamIDs returns all teams where the user has a membership row.
	TeamIDs(ctx context.Context, userID domain.UserID) ([]domain.TeamID, error)
	// Get returns the membership for the exact (user, team) pair, or nil.
	Get(ctx context.Context, userID domain.UserID, teamID domain.TeamID) (*domain.Membership, error)
	Create(ctx context.Context, m *domain.Membership) error
	// ListMembers returns memberships joined with user emails for a team.
	ListMembers(ctx context.Context, teamID domain.TeamID) ([]domain.TeamMember, error)
}

// ProjectRepository defines persistence for projects. Scoped reads filter by
// the caller's membership subquery and exclude soft-deleted rows.
type ProjectRepository interface {
	ListForUser(ctx context.Context, teamID domain.TeamID, userID domain.UserID) ([]*domain.Project, error)
	GetForUser(ctx context.Context, teamID domain.TeamID, projectID domain.ProjectID, userID domain.UserID) (*domain.Project, error)
	Create(ctx context.Context, p *domain.Project) error
	UpdateName(ctx context.Context, projectID domain.ProjectID, name string, now time.Time) (*domain.Project, error)
	SoftDelete(ctx context.Context, projectID domain.ProjectID, now time.Time) (*domain.Project, error)
}

// TaskRepository defines persistence for tasks. Scoped reads join through the
// parent project's team into the caller's membership subquery.
type TaskRepository interface {
	ListForUser(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) ([]*domain.Task, error)
	GetForUser(ctx context.Context, projectID domain.ProjectID, taskID domain.TaskID, userID domain.UserID) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, taskID domain.TaskID, title *string, status *domain.TaskStatus, now time.Time) (*domain.Task, error)
	SoftDelete(ctx context.Context, taskID domain.TaskID, now time.Time) (*domain.Task, error)
	// CountByStatus counts non-deleted tasks under the project grouped by
	// status. Statuses with no tasks are absent from the map.
	CountByStatus(ctx context.Context, projectID domain.ProjectID) (map[domain.TaskStatus]int, error)
}

// InviteRepository defines persistence for invites.
type InviteRepository interface {
	Create(ctx context.Context, inv *domain.Invite) error
	// DeletePending removes any invite for the (team, email) pair so a new
	// one can replace it.
	DeletePending(ctx context.Context, teamID domain.TeamID, email string) error
	ListPending(ctx context.Context, teamID domain.TeamID, now time.Time) ([]*domain.Invite, error)
	// Delete removes the invite matching both id and team; returns the
	// deleted invite or nil when nothing matched.
	Delete(ctx context.Context, inviteID domain.InviteID, teamID domain.TeamID) (*domain.Invite, error)
	// GetByTokenAndEmail requires both to match so a guessed token cannot be
	// redeemed under the wrong identity.
	GetByTokenAndEmail(ctx context.Context, token, email string) (*domain.Invite, error)
	// Accept inserts the member's membership and stamps accepted_at in one
	// transaction; an accepted invite without a membership is unobservable.
	Accept(ctx context.Context, inviteID domain.InviteID, m *domain.Membership, now time.Time) error
}

// UserRepository defines persistence for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
