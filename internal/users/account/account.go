// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user profiles and the admin user directory.

Every authenticated user reads and edits their own profile through /users/me;
the role is read-only there. Admins list, create, edit and delete any account
by username, and that is the only place a role changes.

# Architecture

  - Entities: this package reuses [auth.User].
  - Store: PostgreSQL, sharing the row mapping of the auth store.
*/
package account

import (
	"context"

	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// # Write Models

// Draft carries the fields of an account created by an admin.
type Draft struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      sec.Role
}

// Patch carries a partial profile update. Nil fields are kept.
type Patch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *sec.Role
}

// Filter narrows the user directory.
type Filter struct {
	Search string
}

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
type Repository interface {

	// List returns a page of accounts ordered by username, and the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error)

	/*
		FindByID retrieves an account by its ID.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		FindByUsername retrieves an account by its username.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		Create persists a new account.

		Returns:
		  - error: field-level ValidationError when the username or email is taken
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update modifies the mutable fields of an existing account.

		Returns:
		  - error: field-level ValidationError when the new username or email is taken
	*/
	Update(context context.Context, user *auth.User) error

	// Delete removes an account with its reviews and comments.
	Delete(context context.Context, id string) error
}
