// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Caller Identity

// Caller is the identity a request acts on behalf of.
//
// A nil *Caller is the anonymous caller. Every method is nil-safe so policy
// code never has to branch on authentication before asking a question.
type Caller struct {
	UserID      string
	Username    string
	Role        Role
	IsSuperuser bool
}

// IsAuthenticated reports whether the caller carries an identity.
func (caller *Caller) IsAuthenticated() bool {
	return caller != nil
}

// IsAdmin reports whether the caller holds the admin role or is a superuser.
func (caller *Caller) IsAdmin() bool {
	if caller == nil {
		return false
	}
	return caller.Role == RoleAdmin || caller.IsSuperuser
}

// IsModerator reports whether the caller holds the moderator role.
func (caller *Caller) IsModerator() bool {
	return caller != nil && caller.Role == RoleModerator
}

// IsUser reports whether the caller holds the plain user role.
func (caller *Caller) IsUser() bool {
	return caller != nil && caller.Role == RoleUser
}

// Owns reports whether the caller is the account identified by userID.
func (caller *Caller) Owns(userID string) bool {
	return caller != nil && userID != "" && caller.UserID == userID
}

// ID returns the caller's user ID, or an empty string when anonymous.
func (caller *Caller) ID() string {
	if caller == nil {
		return ""
	}
	return caller.UserID
}
