package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is the stored credential record. PasswordHash never leaves this package.
type User struct {
	ID           uuid.UUID
	ClientID     *uuid.UUID
	Name         string
	Email        string
	Role         string
	PasswordHash string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the sanitized view of the user safe to expose to clients.
func (u *User) Principal() *Principal {
	return &Principal{
		ID:       u.ID,
		ClientID: u.ClientID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

// Principal identifies an authenticated user without credential material.
type Principal struct {
	ID       uuid.UUID  `json:"id"`
	ClientID *uuid.UUID `json:"client_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	IsActive bool       `json:"is_active"`
}

// RoleAdmin grants access to administrative endpoints.
const RoleAdmin = "admin"

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
