package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
)

// InviteRepository persists invites. Accept runs the membership insert and
// the accepted_at stamp in one transaction.
type InviteRepository struct {
	pool *pgxpool.Pool
}

func NewInviteRepository(pool *pgxpool.Pool) *InviteRepository {
	return &InviteRepository{pool: pool}
}

const (
	insertInviteSQL = `
		INSERT INTO invites (id, team_id, email, token, invited_by, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	deletePendingInviteSQL = `
		DELETE FROM invites
		WHERE team_id = $1 AND email = $2 AND accepted_at IS NULL`
	listPendingInvitesSQL = `
		SELECT id, team_id, email, token, invited_by, expires_at, accepted_at, created_at
		FROM invites
		WHERE team_id = $1 AND accepted_at IS NULL AND expires_at > $2
		ORDER BY created_at`
	deleteInviteSQL = `
		DELETE FROM invites WHERE id = $1 AND team_id = $2
		RETURNING id, team_id, email, token, invited_by, expires_at, accepted_at, created_at`
	getInviteByTokenEmailSQL = `
		SELECT id, team_id, email, token, invited_by, expires_at, accepted_at, created_at
		FROM invites
		WHERE token = $1 AND email = $2`
	insertMemberMembershipSQL = `
		INSERT INTO memberships (id, user_id, team_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, team_id) DO NOTHING`
	markInviteAcceptedSQL = `
		UPDATE invites SET accepted_at = $1 WHERE id = $2`
)

func scanInvite(row pgx.Row) (*domain.Invite, error) {
	var inv domain.Invite
	err := row.Scan(&inv.ID.UUID, &inv.TeamID.UUID, &inv.Email, &inv.Token,
		&inv.InvitedBy.UUID, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	_, err := r.pool.Exec(ctx, insertInviteSQL,
		inv.ID.UUID, inv.TeamID.UUID, inv.Email, inv.Token, inv.InvitedBy.UUID, inv.ExpiresAt, inv.CreatedAt)
	return err
}

func (r *InviteRepository) DeletePending(ctx context.Context, teamID domain.TeamID, email string) error {
	_, err := r.pool.Exec(ctx, deletePendingInviteSQL, teamID.UUID, email)
	return err
}

func (r *InviteRepository) ListPending(ctx context.Context, teamID domain.TeamID, now time.Time) ([]*domain.Invite, error) {
	rows, err := r.pool.Query(ctx, listPendingInvitesSQL, teamID.UUID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Invite
	for rows.Next() {
		var inv domain.Invite
		if err := rows.Scan(&inv.ID.UUID, &inv.TeamID.UUID, &inv.Email, &inv.Token,
			&inv.InvitedBy.UUID, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &inv)
	}
	return out, rows.Err()
}

func (r *InviteRepository) Delete(ctx context.Context, inviteID domain.InviteID, teamID domain.TeamID) (*domain.Invite, error) {
	return scanInvite(r.pool.QueryRow(ctx, deleteInviteSQL, inviteID.UUID, teamID.UUID))
}

func (r *InviteRepository) GetByTokenAndEmail(ctx context.Context, token, email string) (*domain.Invite, error) {
	return scanInvite(r.pool.QueryRow(ctx, getInviteByTokenEmailSQL, token, email))
}

func (r *InviteRepository) Accept(ctx context.Context, inviteID domain.InviteID, m *domain.Membership, now time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, insertMemberMembershipSQL,
		m.ID.UUID, m.UserID.UUID, m.TeamID.UUID, string(m.Role), m.CreatedAt, m.UpdatedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, markInviteAcceptedSQL, now, inviteID.UUID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

var _ ports.InviteRepository = (*InviteRepository)(nil)
