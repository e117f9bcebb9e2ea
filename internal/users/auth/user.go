// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package auth

import (
	"time"

	"github.com/jgiannako/kalamos/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Kalamos platform.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	RoleID       int       `json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity returns the authenticated view of the user, excluding the
// password hash. This is the only value that ever leaves the package after
// a successful credential check.
func (u *User) Identity() sec.Identity {
	return sec.Identity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		RoleID:   u.RoleID,
	}
}

// # Constraints

const (
	// MaxUsernameLength bounds usernames, matching the account table column.
	MaxUsernameLength = 35

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 5
)

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldToken    = "token"
	FieldUser     = "user"
)
