// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jgiannako/kalamos/internal/platform/sec"
)

/*
TestAuthorize covers the full decision table of the authorization gate.
*/
func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		claims  *sec.SessionClaims
		minRole sec.Role
		allowed bool
		reason  sec.DenyReason
	}{
		{"anonymous_reader_gate", nil, sec.RoleReader, false, sec.DenyNotAuthenticated},
		{"anonymous_author_gate", nil, sec.RoleAuthor, false, sec.DenyNotAuthenticated},
		{"reader_at_reader_gate", claimsWithRole(sec.RoleReader), sec.RoleReader, true, ""},
		{"reader_at_author_gate", claimsWithRole(sec.RoleReader), sec.RoleAuthor, false, sec.DenyInsufficientRole},
		{"reader_at_admin_gate", claimsWithRole(sec.RoleReader), sec.RoleAdmin, false, sec.DenyInsufficientRole},
		{"author_at_author_gate", claimsWithRole(sec.RoleAuthor), sec.RoleAuthor, true, ""},
		{"author_at_admin_gate", claimsWithRole(sec.RoleAuthor), sec.RoleAdmin, false, sec.DenyInsufficientRole},
		{"admin_at_author_gate", claimsWithRole(sec.RoleAdmin), sec.RoleAuthor, true, ""},
		{"admin_at_admin_gate", claimsWithRole(sec.RoleAdmin), sec.RoleAdmin, true, ""},
		{"zero_role_claims", claimsWithRole(0), sec.RoleReader, false, sec.DenyInsufficientRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := sec.Authorize(tt.claims, tt.minRole)

			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.Equal(t, tt.reason, decision.Reason)
			}
		})
	}
}

/*
TestRole_Hierarchy verifies the ordinal ordering and the known-value check.
*/
func TestRole_Hierarchy(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleReader))
	assert.True(t, sec.RoleAuthor.AtLeast(sec.RoleAuthor))
	assert.False(t, sec.RoleReader.AtLeast(sec.RoleAuthor))

	assert.True(t, sec.RoleReader.Valid())
	assert.True(t, sec.RoleAdmin.Valid())
	assert.False(t, sec.Role(0).Valid())
	assert.False(t, sec.Role(4).Valid())
}

/*
TestRole_String checks role names used in logs and dashboard payloads.
*/
func TestRole_String(t *testing.T) {
	assert.Equal(t, "reader", sec.RoleReader.String())
	assert.Equal(t, "author", sec.RoleAuthor.String())
	assert.Equal(t, "admin", sec.RoleAdmin.String())
	assert.Equal(t, "unknown", sec.Role(42).String())
}

// claimsWithRole builds minimal session claims at the given role.
func claimsWithRole(role sec.Role) *sec.SessionClaims {
	return &sec.SessionClaims{
		UserID:   "user-1",
		Username: "nikos",
		RoleID:   int(role),
	}
}
