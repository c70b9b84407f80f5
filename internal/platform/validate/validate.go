// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate accumulates field errors for a write request and reports them
as one VALIDATION_ERROR.

	validator := &validate.Validator{}
	validator.Required(FieldName, draft.Name).MaxLen(FieldName, draft.Name, MaxNameLength)
	if err := validator.Err(); err != nil {
	    return nil, err
	}

Rules never stop the chain, so a client sees every bad field at once. A
Validator belongs to one call and is not safe for concurrent use.
*/
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

const failedMessage = "Validation failed"

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	// ErrInvalidJSON is returned for a body that is not a JSON object of the expected shape.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects [apperr.FieldError] values. The zero value is ready to use.
type Validator struct {
	errs []apperr.FieldError
}

// Required rejects blank values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen counts characters, not bytes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Ensure this field has no more than %d characters", max))
	}
	return v
}

// Range is inclusive on both ends.
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// Email accepts a bare address only; "Name <a@b>" is rejected.
func (v *Validator) Email(field, value string) *Validator {
	if address, err := mail.ParseAddress(value); err != nil || address.Address != value {
		v.add(field, "Enter a valid email address")
	}
	return v
}

// Slug accepts lowercase ASCII words joined by single hyphens.
func (v *Validator) Slug(field, value string) *Validator {
	if !slugPattern.MatchString(value) {
		v.add(field, "Enter a valid slug of lowercase letters, digits and hyphens")
	}
	return v
}

// Matches rejects values outside pattern; message describes the accepted shape.
func (v *Validator) Matches(field, value string, pattern *regexp.Regexp, message string) *Validator {
	if !pattern.MatchString(value) {
		v.add(field, message)
	}
	return v
}

// NotIn rejects reserved words, ignoring case.
func (v *Validator) NotIn(field, value string, reserved ...string) *Validator {
	if slices.ContainsFunc(reserved, func(word string) bool { return strings.EqualFold(value, word) }) {
		v.add(field, fmt.Sprintf("The value '%s' is reserved", value))
	}
	return v
}

// OneOf requires an exact match against allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if !slices.Contains(allowed, value) {
		v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	}
	return v
}

// Custom records message when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Add records message unconditionally.
func (v *Validator) Add(field, message string) *Validator {
	v.add(field, message)
	return v
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Err returns the collected failures as one VALIDATION_ERROR, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(failedMessage, v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// FieldError builds a VALIDATION_ERROR for a single field outside a chain.
func FieldError(field, message string) *apperr.AppError {
	return apperr.ValidationError(failedMessage, apperr.FieldError{Field: field, Message: message})
}
