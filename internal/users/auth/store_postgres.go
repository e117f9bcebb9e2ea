// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgiannako/kalamos/internal/platform/apperr"
	"github.com/jgiannako/kalamos/internal/platform/dberr"
)

// # User Store (PostgreSQL)

// PostgresUserStore implements the [UserStore] interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] values via [dberr.Wrap] so no storage
// implementation detail leaks to callers.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new PostgreSQL implementation of the [UserStore].
func NewUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

const userColumns = "id, username, email, passwordhash, roleid, createdat, updatedat"

/*
Create persists a new user record into the users.account table.

Parameters:
  - ctx: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: CONFLICT on unique violations, or connectivity errors
*/
func (store *PostgresUserStore) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, roleid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.RoleID,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_user_store_create_failed: %w", err), "")
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE email = $1`

	return store.scanOne(store.pool.QueryRow(ctx, query, email), "find_by_email")
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - ctx: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE username = $1`

	return store.scanOne(store.pool.QueryRow(ctx, query, username), "find_by_username")
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - ctx: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE id = $1`

	return store.scanOne(store.pool.QueryRow(ctx, query, id), "find_by_id")
}

/*
UpdateUsername replaces the account's username, refreshing updatedat.

Parameters:
  - ctx: context.Context
  - id: string
  - username: string

Returns:
  - error: CONFLICT on duplicate username, NOT_FOUND, or execution errors
*/
func (store *PostgresUserStore) UpdateUsername(ctx context.Context, id, username string) error {
	const query = `
		UPDATE users.account
		SET username = $2, updatedat = $3
		WHERE id = $1`

	tag, err := store.pool.Exec(ctx, query, id, username, time.Now())
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_user_store_update_username_failed: %w", err), "")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Delete removes the account after an in-transaction credential check.

Description: Locks the row, hands the stored hash to verifyHash, and deletes
only on approval. The lock guarantees no window where the password has been
verified but the account still mutable by a concurrent request.

Parameters:
  - ctx: context.Context
  - id: string
  - verifyHash: func(hash string) bool

Returns:
  - error: UNAUTHORIZED when verifyHash rejects, NOT_FOUND, or execution errors
*/
func (store *PostgresUserStore) Delete(ctx context.Context, id string, verifyHash func(hash string) bool) error {
	transaction, err := store.pool.Begin(ctx)
	if err != nil {
		return apperr.Internal(fmt.Errorf("postgres_user_store_delete_begin_failed: %w", err))
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	const selectQuery = `
		SELECT passwordhash
		FROM users.account
		WHERE id = $1
		FOR UPDATE`

	var passwordHash string
	if err := transaction.QueryRow(ctx, selectQuery, id).Scan(&passwordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("User")
		}
		return apperr.Internal(fmt.Errorf("postgres_user_store_delete_lookup_failed: %w", err))
	}

	// The verification (a full key derivation) runs while the row is locked.
	// Deletion is idempotent, so the lock is about consistency, not safety.
	if !verifyHash(passwordHash) {
		return apperr.Unauthorized("Invalid email or password")
	}

	const deleteQuery = "DELETE FROM users.account WHERE id = $1"
	if _, err := transaction.Exec(ctx, deleteQuery, id); err != nil {
		return apperr.Internal(fmt.Errorf("postgres_user_store_delete_failed: %w", err))
	}

	if err := transaction.Commit(ctx); err != nil {
		return apperr.Internal(fmt.Errorf("postgres_user_store_delete_commit_failed: %w", err))
	}

	return nil
}

// scanOne hydrates a single [User] row, translating pgx.ErrNoRows.
func (store *PostgresUserStore) scanOne(row pgx.Row, operation string) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.RoleID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, apperr.Internal(fmt.Errorf("postgres_user_store_%s_failed: %w", operation, err))
	}

	return user, nil
}
