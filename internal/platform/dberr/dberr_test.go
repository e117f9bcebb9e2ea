// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package dberr_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgiannako/kalamos/internal/platform/apperr"
	"github.com/jgiannako/kalamos/internal/platform/dberr"
)

/*
TestWrap_NoRows maps pgx.ErrNoRows to a NOT_FOUND for the named resource.
*/
func TestWrap_NoRows(t *testing.T) {
	err := dberr.Wrap(pgx.ErrNoRows, "User")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Equal(t, "User not found", ae.Message)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

/*
TestWrap_UniqueViolation maps constraint names to per-field conflicts.
*/
func TestWrap_UniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		message    string
	}{
		{"email", "account_email_key", "Email is already in use"},
		{"username", "account_username_key", "Username is already taken"},
		{"unknown", "account_other_key", "Resource already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgError := &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: tt.constraint,
			}

			err := dberr.Wrap(pgError, "User")

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "CONFLICT", ae.Code)
			assert.Equal(t, tt.message, ae.Message)
		})
	}
}

/*
TestWrap_Passthrough covers nil and unexpected errors.
*/
func TestWrap_Passthrough(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "User"))

	err := dberr.Wrap(errors.New("connection reset"), "User")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "INTERNAL_ERROR", ae.Code)
	// The cause is kept for logging but never in the client message.
	assert.Equal(t, "An unexpected error occurred", ae.Message)
}
