package domain

import "time"

// User is a registered account holder. The password hash never leaves the
// service layer.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
