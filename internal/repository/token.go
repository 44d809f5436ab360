package repository

import (
	"context"
	"time"
)

// RevokedTokenRepository is the server-side denylist for session tokens.
// Logout records a token's ID here; verification consults it until the
// token's natural expiry, after which rows are pruned.
type RevokedTokenRepository interface {
	Init(ctx context.Context) error
	Revoke(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) error
}
