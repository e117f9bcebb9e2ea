// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Identity & Claims

// Identity is the authenticated view of an account returned by a successful
// credential check. It deliberately excludes the password hash.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleID   int    `json:"role_id"`
}

// SessionClaims is the payload embedded inside a signed session token.
//
// # Why custom claims?
//
// By denormalizing the Username and RoleID into the token, middleware can
// reconstruct the active user context WITHOUT querying the database on every
// request. The price is that the username must be re-synchronized whenever
// the profile changes; see [TokenService.Reissue].
type SessionClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the token payload small.
	UserID   string `json:"uid"`
	Username string `json:"unm"`
	RoleID   int    `json:"rid"`
}

// WithUsername returns a copy of the claims carrying the new username.
//
// The RoleID is intentionally untouched: role changes require a fresh
// authentication, never a claim refresh.
func (c SessionClaims) WithUsername(username string) SessionClaims {
	c.Username = username
	return c
}

// # Token Service

// TokenService issues and verifies the signed session tokens that carry
// [SessionClaims] between requests. Tokens are HMAC-signed (HS256) with the
// application session secret.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// minSecretLength guards against accidentally deploying with a trivial secret.
const minSecretLength = 32

// NewTokenService creates a new TokenService.
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("sec: session secret must be at least %d bytes", minSecretLength)
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

/*
Issue turns an authenticated identity into a signed session token.

Description: Copies id, username, and roleId verbatim into fresh
[SessionClaims] and signs them. The roleId is set here, and only here, from
the authoritative account record.

Parameters:
  - identity: Identity

Returns:
  - string: Signed token
  - error: Signing failures
*/
func (service *TokenService) Issue(identity Identity) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(service.ttl)),
		},
		UserID:   identity.ID,
		Username: identity.Username,
		RoleID:   identity.RoleID,
	}

	return service.sign(claims)
}

/*
Reissue produces a fresh token reflecting a profile mutation.

Description: Keeps the UserID and RoleID of the existing claims, applies the
new username, and re-signs with fresh issue/expiry timestamps. Callers are
responsible for delivering the new token to whatever session carrier is in
use (cookie, bearer header).

Parameters:
  - claims: *SessionClaims (the currently live claims)
  - username: string (the post-mutation username)

Returns:
  - string: Signed replacement token
  - error: Signing failures
*/
func (service *TokenService) Reissue(claims *SessionClaims, username string) (string, error) {
	now := time.Now()

	refreshed := claims.WithUsername(username)
	refreshed.IssuedAt = jwt.NewNumericDate(now)
	refreshed.ExpiresAt = jwt.NewNumericDate(now.Add(service.ttl))
	refreshed.Issuer = service.issuer

	return service.sign(refreshed)
}

// Verify checks the signature and validity of a session token string.
func (service *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}

// TTL exposes the configured token lifetime (used to size the revocation
// registry entries when an account is deleted).
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// sign serializes and HMAC-signs the claims.
func (service *TokenService) sign(claims SessionClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}
