// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package policy holds the access decisions of the API as pure functions.

Every predicate takes the HTTP method, the [sec.Caller] (nil when anonymous)
and, for object-level checks, the author of the targeted resource. None of
them perform I/O, so the full decision table is unit-testable.

Levels:

  - Collection: decided before the target is loaded (route middleware).
  - Object: decided after the target is loaded (service layer).

A mutation of an existing review or comment is only ever authorised through
[AuthorModeratorAdminOrReadOnlyObject].
*/
package policy

import (
	"net/http"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// Target describes the resource an object-level decision is made about.
type Target struct {
	AuthorID string
}

// # Method Classification

// IsSafeMethod reports whether method is read-only (GET, HEAD, OPTIONS).
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// # Collection-Level Decisions

// AdminOnly allows authenticated admins and superusers.
func AdminOnly(caller *sec.Caller) bool {
	return caller.IsAdmin()
}

// AdminOrReadOnly allows anyone to read and only admins to write.
func AdminOrReadOnly(method string, caller *sec.Caller) bool {
	return IsSafeMethod(method) || AdminOnly(caller)
}

// AuthorModeratorAdminOrReadOnly is the collection-level gate for reviews and
// comments: anyone may read, any authenticated caller may proceed to write.
func AuthorModeratorAdminOrReadOnly(method string, caller *sec.Caller) bool {
	return IsSafeMethod(method) || caller.IsAuthenticated()
}

// # Object-Level Decisions

// AuthorModeratorAdminOrReadOnlyObject allows reads, and writes by the
// target's author, moderators and admins.
func AuthorModeratorAdminOrReadOnlyObject(method string, caller *sec.Caller, target Target) bool {
	if IsSafeMethod(method) {
		return true
	}
	if !caller.IsAuthenticated() {
		return false
	}
	return caller.IsModerator() || caller.IsAdmin() || caller.Owns(target.AuthorID)
}

// # Denial Mapping

// Deny converts a negative decision into the error for the caller:
// Unauthorized when anonymous, Forbidden otherwise.
func Deny(caller *sec.Caller) error {
	if !caller.IsAuthenticated() {
		return apperr.Unauthorized("Authentication required")
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}

// Check returns nil when allowed is true and the denial for caller otherwise.
func Check(allowed bool, caller *sec.Caller) error {
	if allowed {
		return nil
	}
	return Deny(caller)
}
