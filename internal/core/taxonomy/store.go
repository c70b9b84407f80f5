// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import "context"

// # Term Data Access

// Repository defines the data access contract for one [Kind] of term.
type Repository interface {

	/*
		List retrieves a page of terms ordered by name.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Name search)
		  - limit, offset: int (Pagination bounds)

		Returns:
		  - []*Term: The requested page
		  - int: Total matching count for pagination metadata
		  - error: Database execution errors
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Term, int, error)

	/*
		Create inserts a term and fills its generated ID.

		Returns:
		  - error: apperr.Conflict when the slug is taken
	*/
	Create(context context.Context, term *Term) error

	/*
		DeleteBySlug removes a term by its slug.

		Returns:
		  - error: apperr.NotFound when no term has the slug
	*/
	DeleteBySlug(context context.Context, slug string) error
}
