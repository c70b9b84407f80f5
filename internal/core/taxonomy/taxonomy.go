// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package taxonomy manages the flat classifiers of the catalog: categories and genres.

Both share one shape ({name, slug}) and one lifecycle:

  - Discovery: Anyone may list them, optionally searching by name.
  - Curation: Only admins create and delete them.

A title references at most one [Category] and any number of genres. Deleting a
category clears the reference on its titles; deleting a genre removes its
associations. Neither deletion is ever blocked by referencing titles.
*/
package taxonomy

import "github.com/taibuivan/yamdb/internal/platform/database/schema"

// # Domain

// Term is a single category or genre.
type Term struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Category classifies the kind of a work (film, book, music...).
type Category = Term

// Genre classifies the content of a work (drama, comedy...).
type Genre = Term

// # Kinds

// Kind binds a [Term] flavour to its table.
type Kind struct {
	// Resource is the singular human name used in errors and logs.
	Resource string

	Table          string
	ID             string
	Name           string
	Slug           string
	SlugConstraint string
}

// Categories describes core.category.
var Categories = Kind{
	Resource:       "Category",
	Table:          schema.CoreCategory.Table,
	ID:             schema.CoreCategory.ID,
	Name:           schema.CoreCategory.Name,
	Slug:           schema.CoreCategory.Slug,
	SlugConstraint: schema.ConstraintCategorySlug,
}

// Genres describes core.genre.
var Genres = Kind{
	Resource:       "Genre",
	Table:          schema.CoreGenre.Table,
	ID:             schema.CoreGenre.ID,
	Name:           schema.CoreGenre.Name,
	Slug:           schema.CoreGenre.Slug,
	SlugConstraint: schema.ConstraintGenreSlug,
}

// # Search Params

// Filter holds the parameters of a term listing.
type Filter struct {
	Search string // case-insensitive substring of the name
}

// # Field Identifiers

const (
	FieldName = "name"
	FieldSlug = "slug"
)

// # Limits

const (
	MaxNameLength = 256
	MaxSlugLength = 50
)
