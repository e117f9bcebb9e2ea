// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package sec

// # Authorization Gate

// DenyReason classifies why an authorization decision was negative.
type DenyReason string

const (
	// DenyNotAuthenticated means no session claims were presented.
	DenyNotAuthenticated DenyReason = "NOT_AUTHENTICATED"

	// DenyInsufficientRole means the session's role ordinal is below the
	// required threshold.
	DenyInsufficientRole DenyReason = "INSUFFICIENT_ROLE"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason // set only when Allowed is false
}

// Authorize is the single decision function for every protected surface.
//
// # Policy
//
// Route guards, navigation rendering, and account-mutation endpoints must all
// call this function rather than comparing role ordinals inline, so UI
// visibility and API enforcement can never diverge.
//
// # Parameters
//   - claims: The session claims, or nil for an anonymous request.
//   - minRole: The minimum role ordinal required for the action.
//
// # Returns
//   - Decision: Allowed, or denied with [DenyNotAuthenticated] /
//     [DenyInsufficientRole].
func Authorize(claims *SessionClaims, minRole Role) Decision {
	if claims == nil {
		return Decision{Reason: DenyNotAuthenticated}
	}

	if !Role(claims.RoleID).AtLeast(minRole) {
		return Decision{Reason: DenyInsufficientRole}
	}

	return Decision{Allowed: true}
}
