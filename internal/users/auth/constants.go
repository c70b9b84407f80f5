// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Account Constraints

const (
	// MaxUsernameLength matches the users.account.username column.
	MaxUsernameLength = 150

	// MaxEmailLength is the RFC 5321 path limit.
	MaxEmailLength = 254

	// MaxNameLength bounds first and last names.
	MaxNameLength = 150
)

// # Confirmation Mail

const (
	// ConfirmationSubject is the subject line of the code email.
	ConfirmationSubject = "Your login code"
)
