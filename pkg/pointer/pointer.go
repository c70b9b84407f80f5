// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer bridges optional JSON fields and plain values.
//
// Write payloads decode into pointer fields so that "absent" and "zero" stay
// distinguishable; handlers use [Val] where absence simply means empty.
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, or returns the zero value when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
