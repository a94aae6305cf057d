package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
)

// TaskRepository persists tasks. Scoped reads join through the parent
// project's team into the caller's membership subquery, so a deleted or
// foreign project hides its tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

const (
	listTasksForUserSQL = `
		SELECT t.id, t.project_id, t.title, t.status, t.created_at, t.updated_at, t.deleted_at
		FROM tasks t
		INNER JOIN projects p ON p.id = t.project_id
		WHERE t.project_id = $1
		  AND p.team_id IN (SELECT team_id FROM memberships WHERE user_id = $2)
		  AND t.deleted_at IS NULL
		ORDER BY t.created_at`
	getTaskForUserSQL = `
		SELECT t.id, t.project_id, t.title, t.status, t.created_at, t.updated_at, t.deleted_at
		FROM tasks t
		INNER JOIN projects p ON p.id = t.project_id
		WHERE t.id = $1 AND t.project_id = $2
		  AND p.team_id IN (SELECT team_id FROM memberships WHERE user_id = $3)
		  AND t.deleted_at IS NULL`
	insertTaskSQL = `
		INSERT INTO tasks (id, project_id, title, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	updateTaskSQL = `
		UPDATE tasks
		SET title = COALESCE($1, title), status = COALESCE($2, status), updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
		RETURNING id, project_id, title, status, created_at, updated_at, deleted_at`
	softDeleteTaskSQL = `
		UPDATE tasks SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING id, project_id, title, status, created_at, updated_at, deleted_at`
	countTasksByStatusSQL = `
		SELECT status, COUNT(*) FROM tasks
		WHERE project_id = $1 AND deleted_at IS NULL
		GROUP BY status`
)

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID.UUID, &t.ProjectID.UUID, &t.Title, &t.Status, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) ListForUser(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx, listTasksForUserSQL, projectID.UUID, userID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID.UUID, &t.ProjectID.UUID, &t.Title, &t.Status, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *TaskRepository) GetForUser(ctx context.Context, projectID domain.ProjectID, taskID domain.TaskID, userID domain.UserID) (*domain.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, getTaskForUserSQL, taskID.UUID, projectID.UUID, userID.UUID))
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.pool.Exec(ctx, insertTaskSQL,
		t.ID.UUID, t.ProjectID.UUID, t.Title, string(t.Status), t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *TaskRepository) Update(ctx context.Context, taskID domain.TaskID, title *string, status *domain.TaskStatus, now time.Time) (*domain.Task, error) {
	var statusStr *string
	if status != nil {
		s := string(*status)
		statusStr = &s
	}
	return scanTask(r.pool.QueryRow(ctx, updateTaskSQL, title, statusStr, now, taskID.UUID))
}

func (r *TaskRepository) SoftDelete(ctx context.Context, taskID domain.TaskID, now time.Time) (*domain.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, softDeleteTaskSQL, now, taskID.UUID))
}

func (r *TaskRepository) CountByStatus(ctx context.Context, projectID domain.ProjectID) (map[domain.TaskStatus]int, error) {
	rows, err := r.pool.Query(ctx, countTasksByStatusSQL, projectID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[domain.TaskStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.TaskStatus(status)] = n
	}
	return counts, rows.Err()
}

var _ ports.TaskRepository = (*TaskRepository)(nil)
