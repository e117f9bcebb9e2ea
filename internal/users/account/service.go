// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package account

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/jgiannako/kalamos/internal/platform/apperr"
	"github.com/jgiannako/kalamos/internal/platform/sec"
	"github.com/jgiannako/kalamos/internal/users/auth"
)

// # Service Layer

// Service orchestrates profile reads and mutations for authenticated users.
//
// It coordinates the user store, the password codec, the token service, and
// the revocation registry so every mutation leaves sessions consistent.
type Service struct {
	users     auth.UserStore
	revoker   auth.SessionRevoker
	passwords *sec.PasswordCodec
	tokens    *sec.TokenService
	logger    *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	users auth.UserStore,
	revoker auth.SessionRevoker,
	passwords *sec.PasswordCodec,
	tokens *sec.TokenService,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:     users,
		revoker:   revoker,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

/*
ChangeUsername renames the account and re-signs the live session claims.

Description: Normalizes the candidate name, persists it, and reissues the
session token carrying the new username. The roleId in the claims is kept
verbatim so a rename can never escalate privileges.

Parameters:
  - context: context.Context
  - claims: *sec.SessionClaims (The currently live session)
  - username: string

Returns:
  - *UsernameChange: Replacement token and updated profile
  - error: Conflict on duplicate names, or storage failures
*/
func (service *Service) ChangeUsername(context context.Context, claims *sec.SessionClaims, username string) (*UsernameChange, error) {

	// Same normalization as signup so renames cannot create a second Unicode
	// spelling of an existing name.
	username = norm.NFC.String(username)

	// Pre-check for a friendlier Conflict message. The unique constraint
	// remains the authoritative guard.
	if existing, err := service.users.FindByUsername(context, username); err == nil && existing.ID != claims.UserID {
		return nil, apperr.Conflict("Username is already taken")
	}

	if err := service.users.UpdateUsername(context, claims.UserID, username); err != nil {
		return nil, fmt.Errorf("account_service_rename_failed: %w", err)
	}

	// Re-sign the claims so the denormalized username in the token matches
	// the database again.
	token, err := service.tokens.Reissue(claims, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_reissue_failed: %w", err)
	}

	user, err := service.users.FindByID(context, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("account_service_rename_lookup_failed: %w", err)
	}

	service.logger.Info("user_renamed", slog.String("user_id", claims.UserID))

	return &UsernameChange{
		Token: token,
		User:  user,
	}, nil
}

// # Account Deletion

/*
DeleteAccount permanently removes the account after a password confirmation.

Description: The password is verified against the stored hash inside the
same transaction that deletes the row, so a concurrent password change can
never slip between the check and the delete. On success every outstanding
session token is revoked before the call returns.

Parameters:
  - context: context.Context
  - userID: string
  - password: string (Current password, re-confirmed)

Returns:
  - error: Unauthorized when the password is wrong, or storage failures
*/
func (service *Service) DeleteAccount(context context.Context, userID, password string) error {

	err := service.users.Delete(context, userID, func(hash string) bool {
		return service.passwords.Verify(context, password, hash)
	})
	if err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	// Revocation happens before returning so the very next request with a
	// still-valid token is already treated as anonymous.
	if err := service.revoker.RevokeUser(context, userID, service.tokens.TTL()); err != nil {
		return fmt.Errorf("account_service_revoke_failed: %w", err)
	}

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}

// # Public Profiles

/*
PublicProfile retrieves the anonymous-readable view of any account by id.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *PublicProfile: Username, role name, and enrollment date
  - error: Not found or execution failures
*/
func (service *Service) PublicProfile(context context.Context, userID string) (*PublicProfile, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_public_profile_failed: %w", err)
	}

	return &PublicProfile{
		Username:  user.Username,
		Role:      sec.Role(user.RoleID).String(),
		CreatedAt: user.CreatedAt,
	}, nil
}

// # Dashboard

/*
Dashboard assembles the landing summary for the writing dashboard.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *DashboardSummary: Profile facts shown on the dashboard landing page
  - error: Not found or execution failures
*/
func (service *Service) Dashboard(context context.Context, userID string) (*DashboardSummary, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_dashboard_failed: %w", err)
	}

	return &DashboardSummary{
		Username:    user.Username,
		Role:        sec.Role(user.RoleID).String(),
		MemberSince: user.CreatedAt,
	}, nil
}
