package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
//
// ErrNotFound deliberately covers both true absence and scope violations on
// teams, projects and tasks: a caller outside a team must not be able to tell
// that the resource exists at all.
var (
	ErrNotFound           = errors.New("not found")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrInviteExpired      = errors.New("invite expired")
	ErrInviteAccepted     = errors.New("invite already accepted")
	ErrInvalidCredentials = errors.New("invalid or expired credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrConflict           = errors.New("conflicting write; partial state rolled back")
)
