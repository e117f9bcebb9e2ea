// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package sec

// # User Roles

// Role is the ordinal privilege level granted to an account.
//
// Higher values are a strict superset of lower values' access. The numeric
// values are a contract shared with the database role table and with every
// client; they are persisted as-is in session claims.
type Role int

const (
	// RoleReader is the default role for standard registered users.
	RoleReader Role = 1

	// RoleAuthor can access the authoring dashboard and publish content.
	RoleAuthor Role = 2

	// RoleAdmin has unrestricted access.
	RoleAdmin Role = 3
)

// # Role Hierarchy

// AtLeast reports whether the role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r >= target
}

// Valid reports whether the role is one of the known ordinals.
func (r Role) Valid() bool {
	return r >= RoleReader && r <= RoleAdmin
}

// String returns the human-readable role name for logs and admin tooling.
func (r Role) String() string {
	switch r {
	case RoleReader:
		return "reader"
	case RoleAuthor:
		return "author"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}
