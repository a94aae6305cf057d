package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kwybro/guilloteam/internal/domain"
	"github.com/kwybro/guilloteam/internal/infrastructure/identity"
)

// APIKeyRepository persists API key hashes.
type APIKeyRepository struct {
	pool *pgxpool.Pool
}

func NewAPIKeyRepository(pool *pgxpool.Pool) *APIKeyRepository {
	return &APIKeyRepository{pool: pool}
}

const (
	insertAPIKeySQL = `
		INSERT INTO api_keys (id, user_id, name, key_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	getAPIKeyUserSQL = `SELECT user_id FROM api_keys WHERE key_hash = $1`
)

func (r *APIKeyRepository) Insert(ctx context.Context, id uuid.UUID, userID domain.UserID, name, keyHash string, now time.Time) error {
	_, err := r.pool.Exec(ctx, insertAPIKeySQL, id, userID.UUID, name, keyHash, now)
	return err
}

func (r *APIKeyRepository) UserIDByHash(ctx context.Context, keyHash string) (domain.UserID, bool, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, getAPIKeyUserSQL, keyHash).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.UserID{}, false, nil
		}
		return domain.UserID{}, false, err
	}
	return domain.NewUserID(id), true, nil
}

var _ identity.APIKeyStore = (*APIKeyRepository)(nil)
