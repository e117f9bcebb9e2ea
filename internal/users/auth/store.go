// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserStore defines the data access contract for user accounts.
//
// Implementations signal "no such row" with an apperr NOT_FOUND and
// unique-constraint violations with an apperr CONFLICT, so callers never see
// storage-specific error types.
type UserStore interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - ctx: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: NOT_FOUND or database retrieval failures
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - ctx: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: NOT_FOUND or database retrieval failures
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - ctx: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: NOT_FOUND or database retrieval failures
	*/
	FindByUsername(ctx context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account.

		Parameters:
		  - ctx: context.Context
		  - user: *User

		Returns:
		  - error: CONFLICT on duplicate email/username, or persistence failures
	*/
	Create(ctx context.Context, user *User) error

	/*
		UpdateUsername replaces the account's username.

		Parameters:
		  - ctx: context.Context
		  - id: string
		  - username: string

		Returns:
		  - error: CONFLICT on duplicate username, NOT_FOUND, or persistence failures
	*/
	UpdateUsername(ctx context.Context, id, username string) error

	/*
		Delete removes the account after an in-transaction credential check.

		The stored password hash is read and the row locked, verifyHash is
		invoked with it, and the row is deleted only when verifyHash returns
		true, all inside a single transaction, so no observer can see a
		verified-but-not-yet-deleted account.

		Parameters:
		  - ctx: context.Context
		  - id: string
		  - verifyHash: func(hash string) bool

		Returns:
		  - error: UNAUTHORIZED when verifyHash rejects, NOT_FOUND, or
		    persistence failures
	*/
	Delete(ctx context.Context, id string, verifyHash func(hash string) bool) error
}

// # Session Revocation

// SessionRevoker tracks user ids whose outstanding session claims must be
// treated as anonymous. Entries expire on their own once every token issued
// before the revocation has itself expired.
type SessionRevoker interface {

	/*
		RevokeUser marks every live session of the user as invalid.

		Parameters:
		  - ctx: context.Context
		  - userID: string
		  - ttl: time.Duration (at least the session token lifetime)

		Returns:
		  - error: Registry write failures
	*/
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error

	/*
		IsRevoked reports whether the user's sessions have been revoked.

		Parameters:
		  - ctx: context.Context
		  - userID: string

		Returns:
		  - bool: true when a revocation entry exists
		  - error: Registry read failures
	*/
	IsRevoked(ctx context.Context, userID string) (bool, error)
}
