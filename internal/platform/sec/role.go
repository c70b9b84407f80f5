// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Role represents the authorization level granted to an account.
//
// The set is closed. Superuser status is tracked separately on the account and
// is not a role value.
type Role string

const (
	// Default role for registered users. Can write and edit their own reviews and comments.
	RoleUser Role = "user"

	// Can edit or delete any review or comment.
	RoleModerator Role = "moderator"

	// Full catalog and user administration.
	RoleAdmin Role = "admin"
)

// Roles lists every valid [Role] in ascending order of privilege.
var Roles = []Role{RoleUser, RoleModerator, RoleAdmin}

// IsValid reports whether r is a recognised [Role] value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// String implements [fmt.Stringer].
func (r Role) String() string { return string(r) }

// RoleNames returns the role values as plain strings, for validation messages.
func RoleNames() []string {
	names := make([]string, len(Roles))
	for i, role := range Roles {
		names[i] = string(role)
	}
	return names
}
