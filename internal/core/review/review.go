// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review manages user reviews of titles and the comments under them.

# Invariants

  - One review per (title, author). The database constraint decides races;
    the loser gets a Conflict.
  - Every review operation resolves the title first (404 when absent).
  - Every comment operation resolves the review within its title.
  - Existing reviews and comments are changed only by their author, a
    moderator or an admin.

Scores feed the title rating, which is computed on read by the title package.
*/
package review

import "time"

// # Domain

// Review is a scored opinion of one user about one title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Comment is a reply to a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// # Write Models

// ReviewInput carries the fields of a new review.
type ReviewInput struct {
	Text  string
	Score int
}

// ReviewPatch carries a partial review update. Nil fields are kept.
type ReviewPatch struct {
	Text  *string
	Score *int
}

// CommentPatch carries a partial comment update.
type CommentPatch struct {
	Text *string
}

// # Field Identifiers

const (
	FieldText  = "text"
	FieldScore = "score"
)

// # Limits

const (
	MinScore = 1
	MaxScore = 10
)

const (
	resourceTitle   = "Title"
	resourceReview  = "Review"
	resourceComment = "Comment"
)
