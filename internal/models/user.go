package models

import (
	"time"

	"github.com/google/uuid"
)

// AnonymizedNamePrefix prefixes the display name of removed users.
const AnonymizedNamePrefix = "Former member"

// User represents a registered participant.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the unique login and display name.
	Name string

	// PasswordHash is the bcrypt hash of the user's password.
	// Empty for anonymized users, which can no longer log in.
	PasswordHash string

	// Active is false once the user has been removed and anonymized.
	// Dormant users keep their ledger history but cannot be assigned to
	// new purchases or payments.
	Active bool

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change to the account.
	UpdatedAt int64
}

// NewUser creates an active user with a fresh ID.
func NewUser(name, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AnonymizedName returns the display name given to a removed user.
func AnonymizedName(userID string) string {
	short := userID
	if len(short) > 8 {
		short = short[:8]
	}
	return AnonymizedNamePrefix + " " + short
}
