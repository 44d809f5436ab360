package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"fintrack/internal/domain"
	"fintrack/internal/repository"
)

type TransactionRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	users repository.UserRepository
	txs   repository.TransactionRepository
	ctx   context.Context
}

func (s *TransactionRepositorySuite) SetupTest() {
	db, err := Open(":memory:")
	require.NoError(s.T(), err, "failed to open test database")
	s.db = db
	s.ctx = context.Background()

	s.users = NewUserRepository(db)
	s.txs = NewTransactionRepository(db)
	require.NoError(s.T(), s.users.Init(s.ctx))
	require.NoError(s.T(), s.txs.Init(s.ctx))
}

func (s *TransactionRepositorySuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *TransactionRepositorySuite) createUser(username string) int64 {
	id, err := s.users.Create(s.ctx, &domain.User{
		Username:     username,
		PasswordHash: "x",
	})
	require.NoError(s.T(), err)
	return id
}

func (s *TransactionRepositorySuite) addTransaction(userID, amount int64, kind domain.TransactionKind, occurredAt time.Time) *domain.Transaction {
	tx := &domain.Transaction{
		UserID:     userID,
		Amount:     amount,
		Kind:       kind,
		OccurredAt: occurredAt,
	}
	_, err := s.txs.Create(s.ctx, tx)
	require.NoError(s.T(), err)
	return tx
}

func (s *TransactionRepositorySuite) TestCreateAssignsID() {
	userID := s.createUser("alice")
	tx := s.addTransaction(userID, 1500, domain.KindIncome, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	assert.Greater(s.T(), tx.ID, int64(0))
	assert.False(s.T(), tx.CreatedAt.IsZero())
}

func (s *TransactionRepositorySuite) TestListByUserPartition() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	s.addTransaction(alice, 100, domain.KindIncome, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	s.addTransaction(bob, 200, domain.KindOutcome, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))

	got, err := s.txs.ListByUser(s.ctx, bob)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 1)
	assert.Equal(s.T(), bob, got[0].UserID)
	assert.Equal(s.T(), int64(200), got[0].Amount)

	got, err = s.txs.ListByUser(s.ctx, alice)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 1)
	assert.Equal(s.T(), alice, got[0].UserID)
}

func (s *TransactionRepositorySuite) TestMonthRangeIsHalfOpen() {
	userID := s.createUser("alice")

	lastSecondOfJan := s.addTransaction(userID, 100, domain.KindIncome,
		time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC))
	firstSecondOfFeb := s.addTransaction(userID, 200, domain.KindOutcome,
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	january, err := s.txs.ListByUserAndMonth(s.ctx, userID, 2025, 1)
	require.NoError(s.T(), err)
	require.Len(s.T(), january, 1)
	assert.Equal(s.T(), lastSecondOfJan.ID, january[0].ID)

	february, err := s.txs.ListByUserAndMonth(s.ctx, userID, 2025, 2)
	require.NoError(s.T(), err)
	require.Len(s.T(), february, 1)
	assert.Equal(s.T(), firstSecondOfFeb.ID, february[0].ID)
}

func (s *TransactionRepositorySuite) TestMonthRangeHandlesDecember() {
	userID := s.createUser("alice")

	s.addTransaction(userID, 100, domain.KindIncome,
		time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))
	s.addTransaction(userID, 200, domain.KindIncome,
		time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC))

	december, err := s.txs.ListByUserAndMonth(s.ctx, userID, 2024, 12)
	require.NoError(s.T(), err)
	require.Len(s.T(), december, 1)
	assert.Equal(s.T(), int64(100), december[0].Amount)
}

func (s *TransactionRepositorySuite) TestMonthListOrderedNewestFirst() {
	userID := s.createUser("alice")

	s.addTransaction(userID, 1, domain.KindIncome, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC))
	s.addTransaction(userID, 3, domain.KindIncome, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC))
	s.addTransaction(userID, 2, domain.KindIncome, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC))

	got, err := s.txs.ListByUserAndMonth(s.ctx, userID, 2025, 5)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 3)
	assert.Equal(s.T(), int64(3), got[0].Amount)
	assert.Equal(s.T(), int64(2), got[1].Amount)
	assert.Equal(s.T(), int64(1), got[2].Amount)
}

func (s *TransactionRepositorySuite) TestMonthPartitionAcrossUsers() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	s.addTransaction(alice, 100, domain.KindIncome, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))
	s.addTransaction(bob, 200, domain.KindIncome, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))

	got, err := s.txs.ListByUserAndMonth(s.ctx, bob, 2025, 7)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 1)
	assert.Equal(s.T(), bob, got[0].UserID)
}

func TestTransactionRepositorySuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositorySuite))
}
