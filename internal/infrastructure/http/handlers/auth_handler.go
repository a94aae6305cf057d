package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kwybro/guilloteam/internal/application/auth"
	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/infrastructure/http/middleware"
)

// AuthHandler handles /auth/* (one-time code sign-in). These endpoints are the
// only unauthenticated surface besides health and metrics.
type AuthHandler struct {
	auth    *auth.Service
	log     zerolog.Logger
	emitter ports.WebhookEmitter
}

// NewAuthHandler creates a handler for auth endpoints.
func NewAuthHandler(authSvc *auth.Service, log zerolog.Logger, emitter ports.WebhookEmitter) *AuthHandler {
	return &AuthHandler{auth: authSvc, log: log, emitter: emitter}
}

// SendCode requests a one-time sign-in code for the email. Always answers 200
// so the endpoint does not reveal which addresses have accounts.
func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	body.Email = SanitizeEmail(body.Email)
	if writeValidationErr(w, body) {
		return
	}
	if err := h.auth.SendCode(r.Context(), body.Email); err != nil {
		h.log.Error().Err(err).Msg("send one-time code failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	middleware.RecordAuthAttempt("auth.send_code", true)
	writeJSON(w, http.StatusOK, map[string]string{"message": "code sent"})
}

// Verify redeems a one-time code for a long-lived API key.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
		Code  string `json:"code" validate:"required,len=6"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	body.Email = SanitizeEmail(body.Email)
	if writeValidationErr(w, body) {
		return
	}
	res, err := h.auth.Verify(r.Context(), body.Email, body.Code)
	if err != nil {
		middleware.RecordAuthAttempt("auth.verify", false)
		AuditEmit(h.log, r, h.emitter, "auth.verify", "", "", false, err.Error())
		writeServiceErr(w, err)
		return
	}
	middleware.RecordAuthAttempt("auth.verify", true)
	AuditEmit(h.log, r, h.emitter, "auth.verify", "", res.UserID.String(), true, "")
	writeJSON(w, http.StatusOK, map[string]string{
		"token":   res.Token,
		"email":   res.Email,
		"user_id": res.UserID.String(),
	})
}
