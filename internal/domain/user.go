package domain

import "time"

// MaxUsernameLength mirrors the width of the username column.
const MaxUsernameLength = 80

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

// User represents an account that can log in and own tasks.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
