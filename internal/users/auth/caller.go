// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// CallerResolver rebuilds the request caller from the stored account.
//
// Role, superuser flag and username come from the store, not the token, so an
// admin's demotion or deletion of an account applies to tokens already issued.
type CallerResolver struct {
	users UserRepository
}

// NewCallerResolver creates a [CallerResolver] over users.
func NewCallerResolver(users UserRepository) *CallerResolver {
	return &CallerResolver{users: users}
}

/*
ResolveCaller loads the account named by verified claims.

Returns:
  - *sec.Caller: The caller with its current role
  - error: Unauthorized when the account no longer exists, or storage errors
*/
func (resolver *CallerResolver) ResolveCaller(context context.Context, claims *sec.AuthClaims) (*sec.Caller, error) {
	user, err := resolver.users.FindByID(context, claims.UserID)
	if apperr.IsNotFound(err) {
		return nil, apperr.Unauthorized("Account no longer exists")
	}
	if err != nil {
		return nil, err
	}

	caller := user.Caller()
	return &caller, nil
}
