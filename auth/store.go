package auth

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the persistence interface for user records.
type Store interface {
	// GetByEmail returns the user with the given email, or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID returns the user with the given ID, or ErrUserNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// UpdateLastLogin stamps the user's last successful login time.
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error

	// UpdatePassword replaces the user's password hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
