package domain

import (
	"time"

	"github.com/google/uuid"
)

// TeamID is a value object for team identity.
type TeamID struct{ uuid.UUID }

// NewTeamID creates a new TeamID from uuid.
func NewTeamID(id uuid.UUID) TeamID { return TeamID{UUID: id} }

// String returns the canonical string form.
func (t TeamID) String() string { return t.UUID.String() }

// Team is a tenancy root. Every project, task and invite hangs off a team,
// and every read is scoped to the teams the caller belongs to.
type Team struct {
	ID        TeamID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Deleted reports whether the team has been soft-deleted.
func (t *Team) Deleted() bool { return t.DeletedAt != nil }
