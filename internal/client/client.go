// Package client is a typed HTTP client for the guilloteam API, used by the
// CLI. Base URL and token are explicit constructor parameters; the package
// keeps no globals.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a guilloteam server.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client (default: 30s timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client. token may be empty for the auth endpoints.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response decoded from the server's JSON error body.
type APIError struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"error"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError is one entry of a validation failure breakdown.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// ServerFault reports whether the error was a 5xx.
func (e *APIError) ServerFault() bool { return e.Status >= 500 }

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// SendCode requests a one-time sign-in code for the email.
func (c *Client) SendCode(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/send-code", map[string]string{"email": email}, nil)
}

// VerifyResult is a successful sign-in: a long-lived API key and identity.
type VerifyResult struct {
	Token  string `json:"token"`
	Email  string `json:"email"`
	UserID string `json:"user_id"`
}

// Verify redeems a one-time code for an API key.
func (c *Client) Verify(ctx context.Context, email, code string) (*VerifyResult, error) {
	var out VerifyResult
	err := c.do(ctx, http.MethodPost, "/auth/verify", map[string]string{"email": email, "code": code}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Team is the API shape of a team.
type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Member is one entry of a team's member list.
type Member struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TeamDetail is a team plus its member list.
type TeamDetail struct {
	Team
	Members []Member `json:"members"`
}

func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	var out struct {
		Teams []Team `json:"teams"`
	}
	if err := c.do(ctx, http.MethodGet, "/teams", nil, &out); err != nil {
		return nil, err
	}
	return out.Teams, nil
}

func (c *Client) CreateTeam(ctx context.Context, name string) (*Team, error) {
	var out Team
	if err := c.do(ctx, http.MethodPost, "/teams", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTeam(ctx context.Context, teamID string) (*TeamDetail, error) {
	var out TeamDetail
	if err := c.do(ctx, http.MethodGet, "/teams/"+url.PathEscape(teamID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTeam(ctx context.Context, teamID, name string) (*Team, error) {
	var out Team
	if err := c.do(ctx, http.MethodPatch, "/teams/"+url.PathEscape(teamID), map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTeam(ctx context.Context, teamID string) (*Team, error) {
	var out Team
	if err := c.do(ctx, http.MethodDelete, "/teams/"+url.PathEscape(teamID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Project is the API shape of a project.
type Project struct {
	ID        string `json:"id"`
	TeamID    string `json:"team_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TaskCounts is the per-status histogram on a single-project read.
type TaskCounts struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Executed   int `json:"executed"`
	Pardoned   int `json:"pardoned"`
}

// ProjectDetail is a project plus its task status counts.
type ProjectDetail struct {
	Project
	Tasks TaskCounts `json:"tasks"`
}

func (c *Client) projectsPath(teamID string) string {
	return "/teams/" + url.PathEscape(teamID) + "/projects"
}

func (c *Client) ListProjects(ctx context.Context, teamID string) ([]Project, error) {
	var out struct {
		Projects []Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, c.projectsPath(teamID), nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

func (c *Client) CreateProject(ctx context.Context, teamID, name string) (*Project, error) {
	var out Project
	if err := c.do(ctx, http.MethodPost, c.projectsPath(teamID), map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProject(ctx context.Context, teamID, projectID string) (*ProjectDetail, error) {
	var out ProjectDetail
	if err := c.do(ctx, http.MethodGet, c.projectsPath(teamID)+"/"+url.PathEscape(projectID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, teamID, projectID, name string) (*Project, error) {
	var out Project
	if err := c.do(ctx, http.MethodPatch, c.projectsPath(teamID)+"/"+url.PathEscape(projectID), map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, teamID, projectID string) (*Project, error) {
	var out Project
	if err := c.do(ctx, http.MethodDelete, c.projectsPath(teamID)+"/"+url.PathEscape(projectID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Task is the API shape of a task.
type Task struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (c *Client) tasksPath(teamID, projectID string) string {
	return c.projectsPath(teamID) + "/" + url.PathEscape(projectID) + "/tasks"
}

func (c *Client) ListTasks(ctx context.Context, teamID, projectID string) ([]Task, error) {
	var out struct {
		Tasks []Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, c.tasksPath(teamID, projectID), nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, teamID, projectID, title, status string) (*Task, error) {
	body := map[string]string{"title": title}
	if status != "" {
		body["status"] = status
	}
	var out Task
	if err := c.do(ctx, http.MethodPost, c.tasksPath(teamID, projectID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTask(ctx context.Context, teamID, projectID, taskID string) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodGet, c.tasksPath(teamID, projectID)+"/"+url.PathEscape(taskID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask patches title and/or status; nil leaves a field untouched.
func (c *Client) UpdateTask(ctx context.Context, teamID, projectID, taskID string, title, status *string) (*Task, error) {
	body := map[string]interface{}{}
	if title != nil {
		body["title"] = *title
	}
	if status != nil {
		body["status"] = *status
	}
	var out Task
	if err := c.do(ctx, http.MethodPatch, c.tasksPath(teamID, projectID)+"/"+url.PathEscape(taskID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, teamID, projectID, taskID string) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodDelete, c.tasksPath(teamID, projectID)+"/"+url.PathEscape(taskID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Invite is the API shape of an invite.
type Invite struct {
	ID         string  `json:"id"`
	TeamID     string  `json:"team_id"`
	Email      string  `json:"email"`
	Token      string  `json:"token"`
	InvitedBy  string  `json:"invited_by"`
	ExpiresAt  string  `json:"expires_at"`
	AcceptedAt *string `json:"accepted_at"`
	CreatedAt  string  `json:"created_at"`
}

func (c *Client) invitesPath(teamID string) string {
	return "/teams/" + url.PathEscape(teamID) + "/invites"
}

func (c *Client) CreateInvite(ctx context.Context, teamID, email string) (*Invite, error) {
	var out Invite
	if err := c.do(ctx, http.MethodPost, c.invitesPath(teamID), map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListInvites(ctx context.Context, teamID string) ([]Invite, error) {
	var out struct {
		Invites []Invite `json:"invites"`
	}
	if err := c.do(ctx, http.MethodGet, c.invitesPath(teamID), nil, &out); err != nil {
		return nil, err
	}
	return out.Invites, nil
}

func (c *Client) RevokeInvite(ctx context.Context, teamID, inviteID string) (*Invite, error) {
	var out Invite
	if err := c.do(ctx, http.MethodDelete, c.invitesPath(teamID)+"/"+url.PathEscape(inviteID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptInvite redeems an invite token; returns the joined team.
func (c *Client) AcceptInvite(ctx context.Context, token string) (*Team, error) {
	var out Team
	if err := c.do(ctx, http.MethodPost, "/invites/"+url.PathEscape(token)+"/accept", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
