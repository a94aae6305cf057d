package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
)

// UserRepository persists users.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const (
	insertUserSQL = `
		INSERT INTO users (id, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`
	getUserByIDSQL    = `SELECT id, email, created_at, updated_at FROM users WHERE id = $1`
	getUserByEmailSQL = `SELECT id, email, created_at, updated_at FROM users WHERE email = $1`
)

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID.UUID, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, insertUserSQL, user.ID.UUID, user.Email, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, getUserByIDSQL, userID.UUID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, getUserByEmailSQL, email))
}

var _ ports.UserRepository = (*UserRepository)(nil)
