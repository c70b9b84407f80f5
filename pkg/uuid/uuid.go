// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid mints the string identifiers of user accounts and request IDs.
//
// Version 7 values sort by creation time, which keeps the users primary key
// index append-only. Catalog rows keep numeric ids because they appear in
// public URLs.
package uuid

import "github.com/google/uuid"

// New returns a UUIDv7 string, or a random v4 if the clock source fails.
func New() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
