package handlers

// API error codes returned in JSON { "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeNotFound           = "not_found"
	ErrCodeNotAuthorized      = "not_authorized"
	ErrCodeConflict           = "conflict"
	ErrCodeInviteExpired      = "invite_expired"
	ErrCodeInviteAccepted     = "invite_already_accepted"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeInternal           = "internal_error"
)
