package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a membership role within a team. Only two exist: owners manage the
// team itself and its invites, members manage projects and tasks.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool { return r == RoleOwner || r == RoleMember }

// MembershipID is a value object for membership identity.
type MembershipID struct{ uuid.UUID }

// NewMembershipID creates a new MembershipID from uuid.
func NewMembershipID(id uuid.UUID) MembershipID { return MembershipID{UUID: id} }

// String returns the canonical string form.
func (m MembershipID) String() string { return m.UUID.String() }

// Membership links a user to a team with a role. At most one row exists per
// (user, team) pair.
type Membership struct {
	ID        MembershipID
	UserID    UserID
	TeamID    TeamID
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeamMember is the member-list projection returned with a single team:
// the membership joined with the user's email.
type TeamMember struct {
	UserID UserID
	Email  string
	Role   Role
}
