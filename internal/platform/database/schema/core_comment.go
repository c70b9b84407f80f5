// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreCommentTable represents the 'core.comment' table
type CoreCommentTable struct {
	Table     string
	ID        string
	ReviewID  string
	AuthorID  string
	Text      string
	CreatedAt string
}

// CoreComment is the schema definition for core.comment
var CoreComment = CoreCommentTable{
	Table:     "core.comment",
	ID:        "id",
	ReviewID:  "reviewid",
	AuthorID:  "authorid",
	Text:      "text",
	CreatedAt: "createdat",
}

// Columns returns every column of core.comment in declaration order.
func (t CoreCommentTable) Columns() []string {
	return []string{t.ID, t.ReviewID, t.AuthorID, t.Text, t.CreatedAt}
}
