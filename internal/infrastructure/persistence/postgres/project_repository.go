package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
)

// ProjectRepository persists projects.
type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

const (
	listProjectsForUserSQL = `
		SELECT id, team_id, name, created_at, updated_at, deleted_at FROM projects
		WHERE team_id = $1
		  AND team_id IN (SELECT team_id FROM memberships WHERE user_id = $2)
		  AND deleted_at IS NULL
		ORDER BY created_at`
	getProjectForUserSQL = `
		SELECT id, team_id, name, created_at, updated_at, deleted_at FROM projects
		WHERE id = $1 AND team_id = $2
		  AND team_id IN (SELECT team_id FROM memberships WHERE user_id = $3)
		  AND deleted_at IS NULL`
	insertProjectSQL = `
		INSERT INTO projects (id, team_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	updateProjectNameSQL = `
		UPDATE projects SET name = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
		RETURNING id, team_id, name, created_at, updated_at, deleted_at`
	softDeleteProjectSQL = `
		UPDATE projects SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING id, team_id, name, created_at, updated_at, deleted_at`
)

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID.UUID, &p.TeamID.UUID, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) ListForUser(ctx context.Context, teamID domain.TeamID, userID domain.UserID) ([]*domain.Project, error) {
	rows, err := r.pool.Query(ctx, listProjectsForUserSQL, teamID.UUID, userID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID.UUID, &p.TeamID.UUID, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) GetForUser(ctx context.Context, teamID domain.TeamID, projectID domain.ProjectID, userID domain.UserID) (*domain.Project, error) {
	return scanProject(r.pool.QueryRow(ctx, getProjectForUserSQL, projectID.UUID, teamID.UUID, userID.UUID))
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	_, err := r.pool.Exec(ctx, insertProjectSQL, p.ID.UUID, p.TeamID.UUID, p.Name, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ProjectRepository) UpdateName(ctx context.Context, projectID domain.ProjectID, name string, now time.Time) (*domain.Project, error) {
	return scanProject(r.pool.QueryRow(ctx, updateProjectNameSQL, name, now, projectID.UUID))
}

func (r *ProjectRepository) SoftDelete(ctx context.Context, projectID domain.ProjectID, now time.Time) (*domain.Project, error) {
	return scanProject(r.pool.QueryRow(ctx, softDeleteProjectSQL, now, projectID.UUID))
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)
