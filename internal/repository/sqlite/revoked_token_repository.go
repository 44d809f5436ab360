package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fintrack/internal/repository"
)

const createRevokedTokensTable = `
CREATE TABLE IF NOT EXISTS revoked_tokens (
	token_id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	expires_at DATETIME NOT NULL
);
`

type RevokedTokenRepository struct {
	db *sql.DB
}

func NewRevokedTokenRepository(db *sql.DB) repository.RevokedTokenRepository {
	return &RevokedTokenRepository{db: db}
}

func (r *RevokedTokenRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRevokedTokensTable); err != nil {
		return fmt.Errorf("create revoked_tokens table: %w", err)
	}
	return nil
}

func (r *RevokedTokenRepository) Revoke(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO revoked_tokens (token_id, user_id, expires_at)
VALUES (?, ?, ?)
ON CONFLICT(token_id) DO NOTHING`,
		tokenID,
		userID,
		expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert revoked token: %w", err)
	}
	return nil
}

func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
SELECT 1 FROM revoked_tokens WHERE token_id = ?`,
		tokenID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query revoked token: %w", err)
	}
	return true, nil
}

func (r *RevokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	if _, err := r.db.ExecContext(ctx, `
DELETE FROM revoked_tokens WHERE expires_at < ?`,
		now.UTC(),
	); err != nil {
		return fmt.Errorf("prune revoked tokens: %w", err)
	}
	return nil
}
