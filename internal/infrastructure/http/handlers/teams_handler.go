package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/application/team"
	"github.com/kwybro/guilloteam/internal/domain"
	"github.com/kwybro/guilloteam/internal/infrastructure/http/middleware"
)

// TeamsHandler handles /teams/*. Requires a bearer API key.
type TeamsHandler struct {
	teams   *team.Service
	log     zerolog.Logger
	emitter ports.WebhookEmitter
}

// NewTeamsHandler creates a handler for team endpoints.
func NewTeamsHandler(teams *team.Service, log zerolog.Logger, emitter ports.WebhookEmitter) *TeamsHandler {
	return &TeamsHandler{teams: teams, log: log, emitter: emitter}
}

// TeamResponse is the JSON shape for a team.
type TeamResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// MemberResponse is the JSON shape for a team member.
type MemberResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func teamResponse(t *domain.Team) TeamResponse {
	return TeamResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

// List returns the teams the current user is a member of.
func (h *TeamsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	teams, err := h.teams.List(r.Context(), userID)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	items := make([]TeamResponse, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": items})
}

// Get returns one team with its member list. Non-members see 404.
func (h *TeamsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	teamID, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid team id")
		return
	}
	res, err := h.teams.Get(r.Context(), userID, domain.NewTeamID(teamID))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	members := make([]MemberResponse, 0, len(res.Members))
	for _, m := range res.Members {
		members = append(members, MemberResponse{
			UserID: m.UserID.String(),
			Email:  m.Email,
			Role:   string(m.Role),
		})
	}
	t := teamResponse(res.Team)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":         t.ID,
		"name":       t.Name,
		"created_at": t.CreatedAt,
		"updated_at": t.UpdatedAt,
		"members":    members,
	})
}

// Create creates a team with the caller as owner.
func (h *TeamsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	var body struct {
		Name string `json:"name" validate:"required,max=255"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if writeValidationErr(w, body) {
		return
	}
	t, err := h.teams.Create(r.Context(), userID, body.Name)
	if err != nil {
		AuditEmit(h.log, r, h.emitter, "team.create", "", userID.String(), false, err.Error())
		writeServiceErr(w, err)
		return
	}
	AuditEmit(h.log, r, h.emitter, "team.create", t.ID.String(), userID.String(), true, "")
	writeJSON(w, http.StatusCreated, teamResponse(t))
}

// Update renames a team. Owner-only; non-owners see 404.
func (h *TeamsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	teamID, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid team id")
		return
	}
	var body struct {
		Name string `json:"name" validate:"required,max=255"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if writeValidationErr(w, body) {
		return
	}
	t, err := h.teams.Update(r.Context(), userID, domain.NewTeamID(teamID), body.Name)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	AuditEmit(h.log, r, h.emitter, "team.update", t.ID.String(), userID.String(), true, "")
	writeJSON(w, http.StatusOK, teamResponse(t))
}

// Delete soft-deletes a team. Owner-only; returns the deleted team.
func (h *TeamsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	teamID, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid team id")
		return
	}
	t, err := h.teams.Delete(r.Context(), userID, domain.NewTeamID(teamID))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	AuditEmit(h.log, r, h.emitter, "team.delete", t.ID.String(), userID.String(), true, "")
	writeJSON(w, http.StatusOK, teamResponse(t))
}
