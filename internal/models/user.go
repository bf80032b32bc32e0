package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the login name (unique).
	Username string

	FirstName string
	LastName  string

	// Email is optional and only used for bill reminders.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	IsPremium bool

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID and creation time.
func NewUser(username, firstName, lastName, email, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
