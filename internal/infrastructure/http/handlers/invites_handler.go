package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kwybro/guilloteam/internal/application/invite"
	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
	"github.com/kwybro/guilloteam/internal/infrastructure/http/middleware"
)

// InvitesHandler handles /teams/{teamID}/invites/* and /invites/{token}/accept.
// Management endpoints are owner-only and return 403 for non-owners; the team
// id in the path is already known to the caller, so there is nothing to hide.
type InvitesHandler struct {
	invites *invite.Service
	log     zerolog.Logger
	emitter ports.WebhookEmitter
}

// NewInvitesHandler creates a handler for invite endpoints.
func NewInvitesHandler(invites *invite.Service, log zerolog.Logger, emitter ports.WebhookEmitter) *InvitesHandler {
	return &InvitesHandler{invites: invites, log: log, emitter: emitter}
}

// InviteResponse is the JSON shape for an invite.
type InviteResponse struct {
	ID         string  `json:"id"`
	TeamID     string  `json:"team_id"`
	Email      string  `json:"email"`
	Token      string  `json:"token"`
	InvitedBy  string  `json:"invited_by"`
	ExpiresAt  string  `json:"expires_at"`
	AcceptedAt *string `json:"accepted_at"`
	CreatedAt  string  `json:"created_at"`
}

func inviteResponse(inv *domain.Invite) InviteResponse {
	resp := InviteResponse{
		ID:        inv.ID.String(),
		TeamID:    inv.TeamID.String(),
		Email:     inv.Email,
		Token:     inv.Token,
		InvitedBy: inv.InvitedBy.String(),
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
		CreatedAt: inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.AcceptedAt != nil {
		s := inv.AcceptedAt.Format(time.RFC3339)
		resp.AcceptedAt = &s
	}
	return resp
}

// inviteScope pulls the caller and the team id out of the request.
func inviteScope(w http.ResponseWriter, r *http.Request) (domain.UserID, domain.TeamID, bool) {
	userID, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return domain.UserID{}, domain.TeamID{}, false
	}
	teamID, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid team id")
		return domain.UserID{}, domain.TeamID{}, false
	}
	return userID, domain.NewTeamID(teamID), true
}

// Create summons an email address into the team, replacing any pending invite
// for that address.
func (h *InvitesHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := inviteScope(w, r)
	if !ok {
		return
	}
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
	inv, err := h.invites.Create(r.Context(), userID, teamID, body.Email)
	if err != nil {
		AuditEmit(h.log, r, h.emitter, "invite.create", teamID.String(), userID.String(), false, err.Error())
		writeServiceErr(w, err)
		return
	}
	AuditEmit(h.log, r, h.emitter, "invite.create", teamID.String(), userID.String(), true, "")
	writeJSON(w, http.StatusCreated, inviteResponse(inv))
}

// List returns the team's pending invites.
func (h *InvitesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := inviteScope(w, r)
	if !ok {
		return
	}
	invites, err := h.invites.ListPending(r.Context(), userID, teamID)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	items := make([]InviteResponse, 0, len(invites))
	for _, inv := range invites {
		items = append(items, inviteResponse(inv))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invites": items})
}

// Revoke hard-deletes an invite; returns the revoked invite.
func (h *InvitesHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := inviteScope(w, r)
	if !ok {
		return
	}
	inviteID, err := uuid.Parse(chi.URLParam(r, "inviteID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid invite id")
		return
	}
	inv, err := h.invites.Revoke(r.Context(), userID, teamID, domain.NewInviteID(inviteID))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	AuditEmit(h.log, r, h.emitter, "invite.revoke", teamID.String(), userID.String(), true, "")
	writeJSON(w, http.StatusOK, inviteResponse(inv))
}

// Accept redeems an invite token for the caller; returns the joined team.
func (h *InvitesHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	token := chi.URLParam(r, "token")
	if token == "" {
		writeErr(w, http.StatusBadRequest, "", "token required")
		return
	}
	t, err := h.invites.Accept(r.Context(), userID, token)
	if err != nil {
		AuditEmit(h.log, r, h.emitter, "invite.accept", "", userID.String(), false, err.Error())
		writeServiceErr(w, err)
		return
	}
	AuditEmit(h.log, r, h.emitter, "invite.accept", t.ID.String(), userID.String(), true, "")
	writeJSON(w, http.StatusOK, teamResponse(t))
}
