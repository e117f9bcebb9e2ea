// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

/*
Package account handles profile management for authenticated users.

It lets users view their profile, change their username, delete their account
with a password confirmation, and reach the role-gated writing dashboard.

# Architecture

  - Domain: This package depends on the auth package for the User entity
    and its storage contracts.
  - Security: Username changes re-sign the session token; account deletion
    revokes every outstanding token through the revocation registry.
*/
package account

import (
	"time"

	"github.com/jgiannako/kalamos/internal/users/auth"
)

// # Transport Views

// UsernameChange is the result of a profile rename. The replacement token
// reflects the new username so clients stay in sync without a re-login.
type UsernameChange struct {
	Token string     `json:"token"`
	User  *auth.User `json:"user"`
}

// DashboardSummary is the landing payload for the writing dashboard.
// Reaching it at all requires at least the author role.
type DashboardSummary struct {
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	MemberSince time.Time `json:"member_since"`
}

// PublicProfile is the anonymous-readable view of an account, shown on the
// public author pages. It never carries the email or any credential data.
type PublicProfile struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
