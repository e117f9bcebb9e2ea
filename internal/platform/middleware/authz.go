// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jgiannako/kalamos/internal/platform/apperr"
	"github.com/jgiannako/kalamos/internal/platform/constants"
	"github.com/jgiannako/kalamos/internal/platform/ctxutil"
	"github.com/jgiannako/kalamos/internal/platform/respond"
	"github.com/jgiannako/kalamos/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify session tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from [sec.TokenService],
// allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.SessionClaims, error)
}

// RevocationChecker reports whether a user's live sessions have been revoked
// (account deleted or force signed-out) since the token was issued.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, userID string) (bool, error)
}

// Authenticate extracts and verifies the session token from the request.
//
// # Flow
//  1. Look for 'Authorization: Bearer <token>', falling back to the session cookie.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, verify the token signature and expiry via [TokenVerifier].
//  4. Check the revocation registry: a claim for a deleted account is treated
//     exactly like no claim at all.
//  5. Inject [*sec.SessionClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction ───────────────────────────────────────────
			tokenString, malformed := extractToken(request)
			if malformed {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 2. Anonymous Access ───────────────────────────────────────────
			if tokenString == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(tokenString)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired session"))
				return
			}

			// ── 4. Revocation Check ───────────────────────────────────────────
			// Deleted accounts must go anonymous immediately, even though the
			// signed token is otherwise still valid.
			revoked, err := revocations.IsRevoked(request.Context(), claims.UserID)
			if err != nil {
				// Fail closed: an unreachable registry downgrades to anonymous
				// rather than accepting a possibly revoked claim.
				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(),
					"revocation_check_failed", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}
			if revoked {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetClaims(request.Context())
		if decision := sec.Authorize(claims, sec.RoleReader); !decision.Allowed {
			respond.Error(writer, request, denialError(decision))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose session does not meet the role threshold.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// The decision itself is delegated to [sec.Authorize], the same gate the
// handlers and the web client's navigation rendering consult, so there is
// exactly one place where "who may do what" is decided.
func RequireRole(minRole sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetClaims(request.Context())

			if decision := sec.Authorize(claims, minRole); !decision.Allowed {
				respond.Error(writer, request, denialError(decision))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// denialError maps a negative gate decision onto the transport error taxonomy.
func denialError(decision sec.Decision) *apperr.AppError {
	if decision.Reason == sec.DenyInsufficientRole {
		return apperr.Forbidden("Insufficient permissions")
	}
	return apperr.Unauthorized("Authentication required")
}

// extractToken pulls the raw session token out of the request.
//
// The Authorization header wins over the cookie so API clients can override
// a stale browser session. malformed is true only when an Authorization
// header is present but not in Bearer form.
func extractToken(request *http.Request) (token string, malformed bool) {
	authHeader := request.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", true
		}
		return parts[1], false
	}

	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, false
}
