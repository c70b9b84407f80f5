// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the account lookups and writes the signup flow needs.
type UserRepository interface {

	/*
		FindByID returns the account with the given id.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a new account.

		Returns:
		  - error: a field-level ValidationError when the username or email is taken
	*/
	Create(context context.Context, user *User) error

	// MarkConfirmed records that the account exchanged a confirmation code.
	MarkConfirmed(context context.Context, userID string) error
}

// # Volatile Data Access

// ConfirmationCodeRepository stores one hashed confirmation code per username.
type ConfirmationCodeRepository interface {

	/*
		Set stores codeHash for username, replacing any previous code.

		Parameters:
		  - context: context.Context
		  - username: string
		  - codeHash: string (bcrypt hash of the code)
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, username, codeHash string, ttl time.Duration) error

	/*
		Get returns the live code hash for username.

		Returns:
		  - error: apperr.NotFound when no code is stored or it expired
	*/
	Get(context context.Context, username string) (string, error)

	/*
		Consume deletes the code for username.

		Returns:
		  - bool: false when the code was already gone, so a concurrent exchange won
		  - error: Persistence failures
	*/
	Consume(context context.Context, username string) (bool, error)
}
