// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug derives the URL identifiers of categories and genres from
// their display names ("Science Fiction" → "science-fiction").
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented letters and drops the combining marks (é → e).
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

/*
From converts a display name into a lowercase ASCII slug.

Letters and digits are kept, every other run of characters becomes a single
hyphen, and leading or trailing hyphens are dropped. Characters without an
ASCII decomposition (e.g. CJK) are treated as separators, so the result may
be empty; callers validate that.
*/
func From(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}

	var builder strings.Builder
	builder.Grow(len(folded))

	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}

	return builder.String()
}

// FromMax is [From] cut to at most max bytes, without a trailing hyphen.
func FromMax(name string, max int) string {
	return Truncate(From(name), max)
}

// Truncate cuts an ASCII slug to max bytes and trims the hyphen a cut may expose.
func Truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return strings.TrimRight(value[:max], "-")
}
