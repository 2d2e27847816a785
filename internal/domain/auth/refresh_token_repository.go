package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// RefreshTokenRecord stores a hashed refresh token. Only the SHA-256 hash is
// persisted; the raw token never touches the database.
type RefreshTokenRecord struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// RefreshTokenRepository defines refresh token persistence
type RefreshTokenRepository interface {
	Create(ctx context.Context, rec *RefreshTokenRecord) error
	GetByHash(ctx context.Context, tokenHash string) (*RefreshTokenRecord, error)
	DeleteByHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type refreshTokenRepository struct {
	db *sqlx.DB
}

// NewRefreshTokenRepository creates refresh token repository
func NewRefreshTokenRepository(db *sqlx.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, rec *RefreshTokenRecord) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.db.GetContext(ctx, &rec.ID, query, rec.UserID, rec.TokenHash, rec.ExpiresAt, rec.CreatedAt)
}

func (r *refreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*RefreshTokenRecord, error) {
	var rec RefreshTokenRecord
	query := `SELECT * FROM refresh_tokens WHERE token_hash = $1 AND expires_at > NOW()`
	err := r.db.GetContext(ctx, &rec, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &rec, err
}

func (r *refreshTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	return err
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
