package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// User is an identity resolved by the identity provider. Users carry no
// credentials here; sign-in is email OTP and long-lived access is via API keys.
type User struct {
	ID        UserID
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
