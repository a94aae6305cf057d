package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kwybro/guilloteam/internal/application/task"
	"github.com/kwybro/guilloteam/internal/domain"
	"github.com/kwybro/guilloteam/internal/infrastructure/http/middleware"
)

// TasksHandler handles /teams/{teamID}/projects/{projectID}/tasks/*.
type TasksHandler struct {
	tasks *task.Service
}

// NewTasksHandler creates a handler for task endpoints.
func NewTasksHandler(tasks *task.Service) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

// TaskResponse is the JSON shape for a task.
type TaskResponse struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func taskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID.String(),
		ProjectID: t.ProjectID.String(),
		Title:     t.Title,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

// taskScope pulls the caller, team id and project id out of the request.
func taskScope(w http.ResponseWriter, r *http.Request) (domain.UserID, domain.TeamID, domain.ProjectID, bool) {
	userID, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return domain.UserID{}, domain.TeamID{}, domain.ProjectID{}, false
	}
	teamID, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid team id")
		return domain.UserID{}, domain.TeamID{}, domain.ProjectID{}, false
	}
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid project id")
		return domain.UserID{}, domain.TeamID{}, domain.ProjectID{}, false
	}
	return userID, domain.NewTeamID(teamID), domain.NewProjectID(projectID), true
}

// List returns the project's tasks visible to the caller.
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _, projectID, ok := taskScope(w, r)
	if !ok {
		return
	}
	tasks, err := h.tasks.List(r.Context(), userID, projectID)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	items := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": items})
}

// Get returns one task.
func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _, projectID, ok := taskScope(w, r)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid task id")
		return
	}
	t, err := h.tasks.Get(r.Context(), userID, projectID, domain.NewTaskID(taskID))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse(t))
}

// Create creates a task under the project. Status defaults to "open".
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, teamID, projectID, ok := taskScope(w, r)
	if !ok {
		return
	}
	var body struct {
		Title  string `json:"title" validate:"required,max=500"`
		Status string `json:"status" validate:"omitempty,oneof=open in_progress executed pardoned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if writeValidationErr(w, body) {
		return
	}
	status := domain.TaskStatus(body.Status)
	if body.Status == "" {
		status = domain.TaskOpen
	}
	t, err := h.tasks.Create(r.Context(), userID, teamID, projectID, body.Title, status)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, taskResponse(t))
}

// Update patches a task's title and/or status.
func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _, projectID, ok := taskScope(w, r)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid task id")
		return
	}
	var body struct {
		Title  *string `json:"title" validate:"omitempty,max=500"`
		Status *string `json:"status" validate:"omitempty,oneof=open in_progress executed pardoned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if writeValidationErr(w, body) {
		return
	}
	if body.Title == nil && body.Status == nil {
		writeErr(w, http.StatusBadRequest, "", "nothing to update")
		return
	}
	var status *domain.TaskStatus
	if body.Status != nil {
		s := domain.TaskStatus(*body.Status)
		status = &s
	}
	t, err := h.tasks.Update(r.Context(), userID, projectID, domain.NewTaskID(taskID), body.Title, status)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse(t))
}

// Delete soft-deletes a task; returns the deleted task.
func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _, projectID, ok := taskScope(w, r)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid task id")
		return
	}
	t, err := h.tasks.Delete(r.Context(), userID, projectID, domain.NewTaskID(taskID))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse(t))
}
