package domain

import (
	"time"

	"github.com/google/uuid"
)

// InviteTokenPrefix namespaces invite tokens so they are recognizable in logs
// and cannot be confused with API keys.
const InviteTokenPrefix = "gt_inv_"

// InviteID is a value object for invite identity.
type InviteID struct{ uuid.UUID }

// NewInviteID creates a new InviteID from uuid.
func NewInviteID(id uuid.UUID) InviteID { return InviteID{UUID: id} }

// String returns the canonical string form.
func (i InviteID) String() string { return i.UUID.String() }

// NewInviteToken generates an unguessable single-use invite token.
func NewInviteToken() string { return InviteTokenPrefix + uuid.NewString() }

// Invite is a time-boxed, single-use summons of an email address into a team.
// At most one pending invite exists per (team, email) pair; re-inviting
// replaces the previous one. Revocation deletes the row outright, so
// "revoked" is not a queryable state.
type Invite struct {
	ID         InviteID
	TeamID     TeamID
	Email      string
	Token      string
	InvitedBy  UserID
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	CreatedAt  time.Time
}

// Accepted reports whether the invite has been accepted. Accepted invites are
// terminal and must be rejected on reuse.
func (i *Invite) Accepted() bool { return i.AcceptedAt != nil }

// Expired reports whether the invite expired as of now. Expired invites are
// filtered at read time; no sweeper deletes them.
func (i *Invite) Expired(now time.Time) bool { return now.After(i.ExpiresAt) }

// Pending reports whether the invite is still acceptable as of now.
func (i *Invite) Pending(now time.Time) bool { return !i.Accepted() && !i.Expired(now) }
