// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// Named constraints referenced when translating integrity violations.
const (
	ConstraintAccountUsername    = "account_username_key"
	ConstraintAccountEmail       = "account_email_key"
	ConstraintCategorySlug       = "category_slug_key"
	ConstraintGenreSlug          = "genre_slug_key"
	ConstraintReviewTitleAuthor  = "review_title_author_key"
	ConstraintGenreTitleTitleKey = "genretitle_title_genre_key"
)
