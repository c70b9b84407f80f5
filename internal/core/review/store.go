// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import "context"

// # Review Data Access

// Repository defines the data access contract for reviews and comments.
type Repository interface {

	// ## Parents

	/*
		TitleExists reports whether the title is present.

		Returns:
		  - error: apperr.NotFound when missing
	*/
	TitleExists(context context.Context, titleID int64) error

	// ## Reviews

	// ListReviews retrieves a page of a title's reviews, oldest first.
	ListReviews(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error)

	/*
		FindReview retrieves a review that belongs to titleID.

		Returns:
		  - error: apperr.NotFound when missing or attached to another title
	*/
	FindReview(context context.Context, titleID, reviewID int64) (*Review, error)

	// HasReview reports whether authorID already reviewed titleID.
	HasReview(context context.Context, titleID int64, authorID string) (bool, error)

	/*
		CreateReview inserts a review and fills its ID and publication date.

		Returns:
		  - error: apperr.Conflict when the author already reviewed the title
	*/
	CreateReview(context context.Context, review *Review) error

	// UpdateReview persists the text and score of review.
	UpdateReview(context context.Context, review *Review) error

	// DeleteReview removes a review and its comments.
	DeleteReview(context context.Context, reviewID int64) error

	// ## Comments

	// ListComments retrieves a page of a review's comments, oldest first.
	ListComments(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error)

	/*
		FindComment retrieves a comment that belongs to reviewID.

		Returns:
		  - error: apperr.NotFound when missing or attached to another review
	*/
	FindComment(context context.Context, reviewID, commentID int64) (*Comment, error)

	// CreateComment inserts a comment and fills its ID and publication date.
	CreateComment(context context.Context, comment *Comment) error

	// UpdateComment persists the text of comment.
	UpdateComment(context context.Context, comment *Comment) error

	// DeleteComment removes a comment.
	DeleteComment(context context.Context, commentID int64) error
}
