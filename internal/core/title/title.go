// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the works of the catalog and their derived rating.

# Core Responsibility

  - Discovery: Filtered, paginated listing ordered by year then name.
  - Curation: Admin-only create, partial update and delete.
  - Rating: Every read carries the mean review score, or null without reviews.

Classification is referenced by slug on input. Slugs are resolved inside the
same transaction as the write, so a title is never saved with a half-applied
set of genres.
*/
package title

import (
	"time"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
)

// # Domain

// Title is a single work in the catalog.
type Title struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Rating      *float64           `json:"rating"`
	Description string             `json:"description"`
	Genres      []taxonomy.Genre   `json:"genre"`
	Category    *taxonomy.Category `json:"category"`
}

// NewRating derives the rating from the score aggregate of a title.
// It returns nil when there are no scores so that "unrated" is never 0.
func NewRating(sum, count int64) *float64 {
	if count == 0 {
		return nil
	}
	rating := float64(sum) / float64(count)
	return &rating
}

// # Write Models

// Draft carries the fields of a new title. Classification is given by slug.
type Draft struct {
	Name         string
	Year         int
	Description  string
	CategorySlug *string
	GenreSlugs   []string
}

// Patch carries a partial update. Nil fields are left untouched; a non-nil
// GenreSlugs replaces the whole genre set and an empty CategorySlug clears the category.
type Patch struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (patch Patch) IsEmpty() bool {
	return patch.Name == nil && patch.Year == nil && patch.Description == nil &&
		patch.CategorySlug == nil && patch.GenreSlugs == nil
}

// # Search Params

// Filter holds the listing criteria of GET /titles.
type Filter struct {
	CategorySlug string
	GenreSlug    string
	Name         string // case-insensitive exact match
	Year         *int
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"
)

// MaxNameLength bounds the name column.
const MaxNameLength = 256

// yearInFuture reports whether year lies after the current year of now.
func yearInFuture(year int, now time.Time) bool {
	return year > now.Year()
}
