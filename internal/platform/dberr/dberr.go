// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jgiannako/kalamos/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		if resource != "" {
			return apperr.NotFound(resource)
		}
		return ErrNotFound
	}

	// 2. Unique-constraint violations become client-safe Conflicts.
	// The violated constraint name tells us which field collided.
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		return conflictFor(pgError.ConstraintName)
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// conflictFor maps a unique-constraint name onto a per-field conflict message.
//
// Constraint names follow the users.account schema: account_email_key,
// account_username_key.
func conflictFor(constraint string) *apperr.AppError {
	switch {
	case strings.Contains(constraint, "email"):
		return apperr.Conflict("Email is already in use")
	case strings.Contains(constraint, "username"):
		return apperr.Conflict("Username is already taken")
	default:
		return apperr.Conflict("Resource already exists")
	}
}
