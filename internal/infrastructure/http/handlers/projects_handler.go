package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kwybro/guilloteam/internal/application/project"
	"github.com/kwybro/guilloteam/internal/domain"
	"github.com/kwybro/guilloteam/internal/infrastructure/http/middleware"
)

// ProjectsHandler handles /teams/{teamID}/projects/*.
type ProjectsHandler struct {
	projects *project.Service
}

// NewProjectsHandler creates a handler for project endpoints.
func NewProjectsHandler(projects *project.Service) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

// ProjectResponse is the JSON shape for a project.
type ProjectResponse struct {
	ID        string `json:"id"`
	TeamID    string `json:"team_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func projectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID.String(),
		TeamID:    p.TeamID.String(),
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// projectScope pulls the caller and the team id out of the request.
func projectScope(w http.ResponseWriter, r *http.Request) (domain.UserID, domain.TeamID, bool) {
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

// List returns the team's projects, provided the caller is a member.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := projectScope(w, r)
	if !ok {
		return
	}
	projects, err := h.projects.List(r.Context(), userID, teamID)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	items := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		items = append(items, projectResponse(p))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": items})
}

// Get returns one project with its task status counts.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := projectScope(w, r)
	if !ok {
		return
	}
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid project id")
		return
	}
	res, err := h.projects.Get(r.Context(), userID, teamID, domain.NewProjectID(projectID))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	p := projectResponse(res.Project)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":         p.ID,
		"team_id":    p.TeamID,
		"name":       p.Name,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
		"tasks":      res.Stats,
	})
}

// Create creates a project under the team.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := projectScope(w, r)
	if !ok {
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
	p, err := h.projects.Create(r.Context(), userID, teamID, body.Name)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectResponse(p))
}

// Update renames a project.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := projectScope(w, r)
	if !ok {
		return
	}
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid project id")
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
	p, err := h.projects.Update(r.Context(), userID, teamID, domain.NewProjectID(projectID), body.Name)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse(p))
}

// Delete soft-deletes a project; returns the deleted project.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := projectScope(w, r)
	if !ok {
		return
	}
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid project id")
		return
	}
	p, err := h.projects.Delete(r.Context(), userID, teamID, domain.NewProjectID(projectID))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse(p))
}
