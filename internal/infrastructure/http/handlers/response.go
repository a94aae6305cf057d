package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	domerrors "github.com/kwybro/guilloteam/internal/domain/errors"
)

// writeErr sends JSON { "error": message, "code": errCode }. If errCode is empty, a default is used from code.
func writeErr(w http.ResponseWriter, code int, errCode string, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeNotAuthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusGone:
		return ErrCodeInviteExpired
	case http.StatusTooManyRequests:
		return ErrCodeRateLimited
	default:
		return ErrCodeInternal
	}
}

// writeServiceErr maps domain sentinel errors to HTTP responses. Scope
// violations and true absence share the same 404 on purpose.
func writeServiceErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domerrors.ErrNotFound):
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, domerrors.ErrNotAuthorized):
		writeErr(w, http.StatusForbidden, ErrCodeNotAuthorized, "not authorized")
	case errors.Is(err, domerrors.ErrInviteAccepted):
		writeErr(w, http.StatusBadRequest, ErrCodeInviteAccepted, "invite already accepted")
	case errors.Is(err, domerrors.ErrInviteExpired):
		writeErr(w, http.StatusGone, ErrCodeInviteExpired, "invite expired")
	case errors.Is(err, domerrors.ErrInvalidCredentials):
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid credentials")
	default:
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
