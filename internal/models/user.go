package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// A user is created on first authentication and is immutable afterwards
// except for name/avatar sync from the identity provider.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique). Used for login.
	Email string

	// ImageURL is an optional avatar reference.
	ImageURL string

	// TokenIdentifier is the opaque authentication-identity token assigned
	// by the identity provider on first authentication.
	TokenIdentifier string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized to clients.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile sync.
	UpdatedAt int64
}

// NewUser creates a User with a fresh ID, token identifier and timestamps.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:              uuid.New().String(),
		Name:            name,
		Email:           email,
		TokenIdentifier: "local|" + uuid.New().String(),
		PasswordHash:    passwordHash,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
