// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the account identity and confirmation-code flow.

A visitor signs up with a username and an email. The service creates the
account when it does not exist yet and emails a one-time confirmation code.
Exchanging that code returns a signed access token.

# Architecture

  - Entities: User, the shared account record.
  - Stores: PostgreSQL for accounts, Redis for the hashed confirmation codes.
  - Delivery: codes leave the process through a background mail dispatcher.
*/
package auth

import (
	"regexp"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// # Domain Entities

// User is a registered account.
type User struct {
	ID          string    `json:"-"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Bio         string    `json:"bio"`
	Role        sec.Role  `json:"role"`
	IsSuperuser bool      `json:"-"`
	IsConfirmed bool      `json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Caller returns the identity the user acts as once authenticated.
func (user *User) Caller() sec.Caller {
	return sec.Caller{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
	}
}

// # Field Identifiers

const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldRole             = "role"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
)

// usernamePattern allows letters, digits and @ . + - _.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

/*
ValidateIdentity adds the username and email rules to validator.

Parameters:
  - validator: *validate.Validator (collects the failures)
  - username: string
  - email: string
*/
func ValidateIdentity(validator *validate.Validator, username, email string) {
	validator.Required(FieldUsername, username)
	if username != "" {
		validator.MaxLen(FieldUsername, username, MaxUsernameLength)
		validator.Matches(FieldUsername, username, usernamePattern, "Letters, digits and @/./+/-/_ only")
		validator.NotIn(FieldUsername, username, constants.ReservedUsername)
	}

	validator.Required(FieldEmail, email)
	if email != "" {
		validator.MaxLen(FieldEmail, email, MaxEmailLength)
		validator.Email(FieldEmail, email)
	}
}

// ValidateNames adds the length rules of the optional profile fields.
func ValidateNames(validator *validate.Validator, firstName, lastName string) {
	validator.MaxLen(FieldFirstName, firstName, MaxNameLength)
	validator.MaxLen(FieldLastName, lastName, MaxNameLength)
}
