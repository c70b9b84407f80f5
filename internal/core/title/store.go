// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import "context"

// # Title Data Access

// Repository defines the data access contract for titles.
type Repository interface {

	/*
		List retrieves a filtered page of titles ordered by year, then name.

		Returns:
		  - []*Title: Hydrated titles, each with category, genres and rating
		  - int: Total matching count
		  - error: Database execution errors
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error)

	/*
		FindByID retrieves a hydrated title.

		Returns:
		  - error: apperr.NotFound when missing
	*/
	FindByID(context context.Context, id int64) (*Title, error)

	/*
		Create resolves the draft's slugs and inserts the title atomically.

		Returns:
		  - int64: The new title ID
		  - error: Field-level ValidationError for unknown slugs
	*/
	Create(context context.Context, draft Draft) (int64, error)

	/*
		Update applies a patch atomically.

		Returns:
		  - error: apperr.NotFound when missing, ValidationError for unknown slugs
	*/
	Update(context context.Context, id int64, patch Patch) error

	/*
		Delete removes a title together with its reviews and comments.

		Returns:
		  - error: apperr.NotFound when missing
	*/
	Delete(context context.Context, id int64) error
}
