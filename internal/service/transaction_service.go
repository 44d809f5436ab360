package service

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/domain"
	"fintrack/internal/repository"
)

var (
	// ErrInvalidAmount rejects zero, negative or missing amounts. Direction
	// is carried by the kind, so the magnitude must be positive.
	ErrInvalidAmount = errors.New("amount must be a positive number of minor units")
	// ErrInvalidKind rejects kinds outside income/outcome.
	ErrInvalidKind = errors.New("kind must be income or outcome")
	// ErrMissingDate rejects transactions without an occurrence timestamp.
	ErrMissingDate = errors.New("transaction date is required")
	// ErrInvalidMonth rejects out-of-range report months.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// MonthlyReport pairs a month's transactions with their summary, newest
// transaction first.
type MonthlyReport struct {
	Transactions []domain.Transaction
	Summary      domain.Summary
}

// TransactionService records transactions and produces monthly reports.
type TransactionService interface {
	Add(ctx context.Context, userID int64, amount int64, occurredAt time.Time, kind domain.TransactionKind, description string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error)
	MonthlyReport(ctx context.Context, userID int64, year int, month int) (*MonthlyReport, error)
}

type transactionService struct {
	transactions repository.TransactionRepository
}

func NewTransactionService(transactions repository.TransactionRepository) TransactionService {
	return &transactionService{transactions: transactions}
}

func (s *transactionService) Add(ctx context.Context, userID int64, amount int64, occurredAt time.Time, kind domain.TransactionKind, description string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if occurredAt.IsZero() {
		return nil, ErrMissingDate
	}
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}

	tx := &domain.Transaction{
		UserID:      userID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
		OccurredAt:  occurredAt.UTC(),
	}

	if _, err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *transactionService) ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID)
}

func (s *transactionService) MonthlyReport(ctx context.Context, userID int64, year int, month int) (*MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	transactions, err := s.transactions.ListByUserAndMonth(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	return &MonthlyReport{
		Transactions: transactions,
		Summary:      Summarize(transactions),
	}, nil
}
