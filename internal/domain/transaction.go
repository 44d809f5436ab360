package domain

import "time"

// TransactionKind tells whether a transaction adds to or subtracts from the
// user's balance. The amount itself is always a positive magnitude.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindOutcome TransactionKind = "outcome"
)

// Valid reports whether the kind is one of the two known values.
func (k TransactionKind) Valid() bool {
	return k == KindIncome || k == KindOutcome
}

// Transaction is a single financial record owned by a user. Amount is in
// minor units (cents) to keep monetary sums exact.
type Transaction struct {
	ID          int64
	UserID      int64
	Amount      int64
	Kind        TransactionKind
	Description string
	OccurredAt  time.Time
	CreatedAt   time.Time
}

// Summary aggregates a set of transactions. All figures are minor units.
type Summary struct {
	TotalIncome  int64
	TotalOutcome int64
	Balance      int64
}
