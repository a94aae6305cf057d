package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectID is a value object for project identity.
type ProjectID struct{ uuid.UUID }

// NewProjectID creates a new ProjectID from uuid.
func NewProjectID(id uuid.UUID) ProjectID { return ProjectID{UUID: id} }

// String returns the canonical string form.
func (p ProjectID) String() string { return p.UUID.String() }

// Project belongs to exactly one team for its lifetime.
type Project struct {
	ID        ProjectID
	TeamID    TeamID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Deleted reports whether the project has been soft-deleted.
func (p *Project) Deleted() bool { return p.DeletedAt != nil }
