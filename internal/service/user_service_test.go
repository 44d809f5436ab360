package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/auth"
	"fintrack/internal/repository/sqlite"
)

func newUserService(t *testing.T) (UserService, *sql.DB) {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	require.NoError(t, users.Init(context.Background()))

	return NewUserService(users, auth.NewPasswordHasher(bcrypt.MinCost)), db
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "hunter2-hunter2")
	require.NoError(t, err)
	assert.Greater(t, user.ID, int64(0))
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash, "hash must not leave the service")

	var stored string
	require.NoError(t, db.QueryRow(`SELECT password_hash FROM users WHERE username = ?`, "alice").Scan(&stored))
	assert.NotEqual(t, "hunter2-hunter2", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("hunter2-hunter2")))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "alice", "password-one")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "password-two")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// first registration still works
	got, err := svc.Authenticate(ctx, "alice", "password-one")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "password")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Register(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAuthenticateSharedFailureMessage(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "correct-password")
	require.NoError(t, err)

	// unknown user and wrong password fail identically
	_, unknownErr := svc.Authenticate(ctx, "bob", "whatever")
	_, wrongErr := svc.Authenticate(ctx, "alice", "wrong-password")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthenticateSuccess(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "correct-password")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "alice", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
}
