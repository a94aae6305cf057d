package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in_progress"
	TaskExecuted   TaskStatus = "executed"
	TaskPardoned   TaskStatus = "pardoned"
)

// TaskStatuses lists every status in histogram order.
var TaskStatuses = []TaskStatus{TaskOpen, TaskInProgress, TaskExecuted, TaskPardoned}

// Valid reports whether the status is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskExecuted, TaskPardoned:
		return true
	}
	return false
}

// TaskID is a value object for task identity.
type TaskID struct{ uuid.UUID }

// NewTaskID creates a new TaskID from uuid.
func NewTaskID(id uuid.UUID) TaskID { return TaskID{UUID: id} }

// String returns the canonical string form.
func (t TaskID) String() string { return t.UUID.String() }

// Task belongs to exactly one project.
type Task struct {
	ID        TaskID
	ProjectID ProjectID
	Title     string
	Status    TaskStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Deleted reports whether the task has been soft-deleted.
func (t *Task) Deleted() bool { return t.DeletedAt != nil }

// TaskStats is the per-status count of non-deleted tasks under a project,
// zero-filled for every status. Derived on each project fetch, never stored.
type TaskStats struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Executed   int `json:"executed"`
	Pardoned   int `json:"pardoned"`
}

// Add increments the count for the given status.
func (s *TaskStats) Add(status TaskStatus, n int) {
	switch status {
	case TaskOpen:
		s.Open += n
	case TaskInProgress:
		s.InProgress += n
	case TaskExecuted:
		s.Executed += n
	case TaskPardoned:
		s.Pardoned += n
	}
}
