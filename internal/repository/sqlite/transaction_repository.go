package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fintrack/internal/domain"
	"fintrack/internal/repository"
)

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	amount INTEGER NOT NULL,
	kind TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	occurred_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL
);
`

const createTransactionsIndex = `
CREATE INDEX IF NOT EXISTS idx_transactions_user_occurred
ON transactions (user_id, occurred_at);
`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTransactionsTable); err != nil {
		return fmt.Errorf("create transactions table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createTransactionsIndex); err != nil {
		return fmt.Errorf("create transactions index: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) (int64, error) {
	tx.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO transactions (user_id, amount, kind, description, occurred_at, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		tx.UserID,
		tx.Amount,
		string(tx.Kind),
		tx.Description,
		tx.OccurredAt.UTC(),
		tx.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction last insert id: %w", err)
	}
	tx.ID = id
	return id, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, amount, kind, description, occurred_at, created_at
FROM transactions
WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *TransactionRepository) ListByUserAndMonth(ctx context.Context, userID int64, year int, month int) ([]domain.Transaction, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0) // calendar month, exact regardless of length

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, amount, kind, description, occurred_at, created_at
FROM transactions
WHERE user_id = ? AND occurred_at >= ? AND occurred_at < ?
ORDER BY occurred_at DESC`,
		userID,
		start,
		end,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions by month: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for rows.Next() {
		var (
			tx   domain.Transaction
			kind string
		)
		if err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Amount,
			&kind,
			&tx.Description,
			&tx.OccurredAt,
			&tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Kind = domain.TransactionKind(kind)
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
