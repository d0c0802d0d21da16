package domain

import "time"

// User mirrors the persisted representation in the users table.
// Accounts are created inactive and activated exactly once by a
// successful OTP verification.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	PasswordAlgo string
	FullName     string
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
