// Package membership resolves which teams a user belongs to and whether they
// own a specific team. All tenancy scoping depends on it.
package membership

import (
	"context"

	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
)

// Resolver answers membership queries. Query-only; it never mutates state.
type Resolver struct {
	memberships ports.MembershipRepository
}

// NewResolver builds a resolver over the membership repository.
func NewResolver(memberships ports.MembershipRepository) *Resolver {
	return &Resolver{memberships: memberships}
}

// TeamIDsOf returns all teams where the user has a membership row.
func (r *Resolver) TeamIDsOf(ctx context.Context, userID domain.UserID) ([]domain.TeamID, error) {
	return r.memberships.TeamIDs(ctx, userID)
}

// IsOwner reports whether a membership row with role=owner exists for the
// exact (user, team) pair. Absence yields false, never an error.
func (r *Resolver) IsOwner(ctx context.Context, userID domain.UserID, teamID domain.TeamID) (bool, error) {
	m, err := r.memberships.Get(ctx, userID, teamID)
	if err != nil {
		return false, err
	}
	return m != nil && m.Role == domain.RoleOwner, nil
}

// IsMember reports whether any membership row exists for the exact
// (user, team) pair, regardless of role.
func (r *Resolver) IsMember(ctx context.Context, userID domain.UserID, teamID domain.TeamID) (bool, error) {
	m, err := r.memberships.Get(ctx, userID, teamID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}
