package repository

import (
	"context"

	"fintrack/internal/domain"
)

// TransactionRepository defines persistence operations for Transaction
// entities. All queries are partitioned by the owning user.
type TransactionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, tx *domain.Transaction) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error)
	// ListByUserAndMonth returns the user's transactions whose occurred_at
	// falls in the half-open interval [first of month, first of next month),
	// newest first.
	ListByUserAndMonth(ctx context.Context, userID int64, year int, month int) ([]domain.Transaction, error)
}
