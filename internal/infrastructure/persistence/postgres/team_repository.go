package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
)

// TeamRepository persists teams. Scoped reads filter through the caller's
// membership subquery rather than materializing the team set.
type TeamRepository struct {
	pool *pgxpool.Pool
}

func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{pool: pool}
}

const (
	listTeamsForUserSQL = `
		SELECT id, name, created_at, updated_at, deleted_at FROM teams
		WHERE id IN (SELECT team_id FROM memberships WHERE user_id = $1)
		  AND deleted_at IS NULL
		ORDER BY created_at`
	getTeamForUserSQL = `
		SELECT id, name, created_at, updated_at, deleted_at FROM teams
		WHERE id = $1
		  AND id IN (SELECT team_id FROM memberships WHERE user_id = $2)
		  AND deleted_at IS NULL`
	insertTeamSQL = `
		INSERT INTO teams (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`
	insertOwnerMembershipSQL = `
		INSERT INTO memberships (id, user_id, team_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, 'owner', $4, $5)`
	updateTeamNameSQL = `
		UPDATE teams SET name = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
		RETURNING id, name, created_at, updated_at, deleted_at`
	softDeleteTeamSQL = `
		UPDATE teams SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING id, name, created_at, updated_at, deleted_at`
)

func scanTeam(row pgx.Row) (*domain.Team, error) {
	var t domain.Team
	err := row.Scan(&t.ID.UUID, &t.Name, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepository) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Team, error) {
	rows, err := r.pool.Query(ctx, listTeamsForUserSQL, userID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID.UUID, &t.Name, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *TeamRepository) GetForUser(ctx context.Context, teamID domain.TeamID, userID domain.UserID) (*domain.Team, error) {
	return scanTeam(r.pool.QueryRow(ctx, getTeamForUserSQL, teamID.UUID, userID.UUID))
}

// CreateWithOwner inserts the team and its owner membership in one
// transaction. If either insert fails the other is rolled back; a team with
// zero memberships never commits.
func (r *TeamRepository) CreateWithOwner(ctx context.Context, team *domain.Team, ownerID domain.UserID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, insertTeamSQL, team.ID.UUID, team.Name, team.CreatedAt, team.UpdatedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, insertOwnerMembershipSQL, uuid.New(), ownerID.UUID, team.ID.UUID, team.CreatedAt, team.CreatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *TeamRepository) UpdateName(ctx context.Context, teamID domain.TeamID, name string, now time.Time) (*domain.Team, error) {
	return scanTeam(r.pool.QueryRow(ctx, updateTeamNameSQL, name, now, teamID.UUID))
}

func (r *TeamRepository) SoftDelete(ctx context.Context, teamID domain.TeamID, now time.Time) (*domain.Team, error) {
	return scanTeam(r.pool.QueryRow(ctx, softDeleteTeamSQL, now, teamID.UUID))
}

var _ ports.TeamRepository = (*TeamRepository)(nil)
