package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
)

// MembershipRepository persists team memberships.
type MembershipRepository struct {
	pool *pgxpool.Pool
}

func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

const (
	teamIDsSQL = `SELECT team_id FROM memberships WHERE user_id = $1`
	getMembershipSQL = `
		SELECT id, user_id, team_id, role, created_at, updated_at FROM memberships
		WHERE user_id = $1 AND team_id = $2`
	insertMembershipSQL = `
		INSERT INTO memberships (id, user_id, team_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, team_id) DO NOTHING`
	listMembersSQL = `
		SELECT m.user_id, u.email, m.role FROM memberships m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.team_id = $1
		ORDER BY m.created_at`
)

func (r *MembershipRepository) TeamIDs(ctx context.Context, userID domain.UserID) ([]domain.TeamID, error) {
	rows, err := r.pool.Query(ctx, teamIDsSQL, userID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.TeamID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, domain.NewTeamID(id))
	}
	return out, rows.Err()
}

func (r *MembershipRepository) Get(ctx context.Context, userID domain.UserID, teamID domain.TeamID) (*domain.Membership, error) {
	var m domain.Membership
	err := r.pool.QueryRow(ctx, getMembershipSQL, userID.UUID, teamID.UUID).
		Scan(&m.ID.UUID, &m.UserID.UUID, &m.TeamID.UUID, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *MembershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	_, err := r.pool.Exec(ctx, insertMembershipSQL,
		m.ID.UUID, m.UserID.UUID, m.TeamID.UUID, string(m.Role), m.CreatedAt, m.UpdatedAt)
	return err
}

func (r *MembershipRepository) ListMembers(ctx context.Context, teamID domain.TeamID) ([]domain.TeamMember, error) {
	rows, err := r.pool.Query(ctx, listMembersSQL, teamID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.TeamMember
	for rows.Next() {
		var m domain.TeamMember
		if err := rows.Scan(&m.UserID.UUID, &m.Email, &m.Role); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

var _ ports.MembershipRepository = (*MembershipRepository)(nil)
