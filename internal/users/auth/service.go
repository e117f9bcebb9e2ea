// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

/*
Package auth implements credential-based account management for the Kalamos
publishing platform.

It covers enrollment, the password check on login, and the issuance of the
signed session token that downstream authorization gates consume.

Architecture:

  - Service: Orchestrates business logic (Register, Login).
  - UserStore: Abstracted persistence contract (Postgres implementation).
  - SessionRevoker: Redis tombstones neutralizing tokens of deleted accounts.
  - Security: scrypt password hashing and HS256 session tokens via sec.

The package guarantees one observable outcome for every failed login so that
responses never reveal whether an email address is enrolled.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jgiannako/kalamos/internal/platform/apperr"
	"github.com/jgiannako/kalamos/internal/platform/sec"
	"github.com/jgiannako/kalamos/pkg/uuid"
)

// # Service

// Service implements account registration and credential authentication.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed before merging.
type Service struct {
	users     UserStore
	passwords *sec.PasswordCodec
	tokens    *sec.TokenService
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(users UserStore, passwords *sec.PasswordCodec, tokens *sec.TokenService) *Service {
	return &Service{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new account.

Description: Normalizes the username, checks identity uniqueness, derives the
password hash, and persists the account with the default reader role.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Greek usernames arrive in mixed Unicode forms depending on the client
	// keyboard. Normalize to NFC so uniqueness and display are consistent.
	username := norm.NFC.String(input.Username)

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.users.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already in use")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.users.FindByUsername(context, username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. The scrypt parameters are fixed
	// so every stored hash stays verifiable across deployments.
	hashedPassword, err := service.passwords.Hash(context, input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		RoleID:       int(sec.RoleReader),
	}

	// Persist the user to the database. The unique constraints are the
	// authoritative guard; the pre-checks above only improve error messages.
	if err := service.users.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

/*
Authenticate resolves an email+password pair to the account it belongs to.

Description: Looks up the account by email and performs a constant-time
password comparison. Every failure path produces the same Unauthorized
outcome and burns a comparable amount of KDF work, so neither the response
nor its timing reveals whether the email is enrolled.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *User: The authenticated account. Callers expose at most its Identity().
  - err: The uniform Unauthorized on any credential failure; store
    failures propagate unchanged
*/
func (service *Service) Authenticate(context context.Context, email, password string) (*User, error) {

	// Look up the account by email.
	user, err := service.users.FindByEmail(context, email)

	// A store outage is not a credential failure. Propagate it so the
	// delivery layer logs the cause and answers with a 500, not a 401.
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	// The account does not exist. Burn a placeholder key derivation so
	// unknown emails cost the same as wrong passwords, then return the
	// same generic message.
	if err != nil {
		service.passwords.VerifyPlaceholder(context, password)
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// Accounts migrated without a credential can never authenticate, but
	// they still pay the full derivation cost.
	if user.PasswordHash == "" {
		service.passwords.VerifyPlaceholder(context, password)
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// Verify the password with a constant-time digest comparison.
	if !service.passwords.Verify(context, password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	return user, nil
}

/*
Login validates account credentials and issues a signed session token.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session token and account view
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.Authenticate(context, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	// Sign fresh session claims from the authoritative account record. The
	// roleId enters the token here and only here.
	token, err := service.tokens.Issue(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	return &LoginSession{
		Token:     token,
		ExpiresAt: time.Now().Add(service.tokens.TTL()),
		User:      user,
	}, nil
}
