// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed review store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// reviewSelect reads reviews joined with their author's username.
var reviewSelect = fmt.Sprintf(`
	SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s
	FROM %s r
	JOIN %s a ON a.%s = r.%s
`,
	schema.CoreReview.ID, schema.CoreReview.TitleID, schema.CoreReview.AuthorID, schema.UsersAccount.Username,
	schema.CoreReview.Text, schema.CoreReview.Score, schema.CoreReview.CreatedAt,
	schema.CoreReview.Table,
	schema.UsersAccount.Table, schema.UsersAccount.ID, schema.CoreReview.AuthorID,
)

// commentSelect reads comments joined with their author's username.
var commentSelect = fmt.Sprintf(`
	SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s
	FROM %s c
	JOIN %s a ON a.%s = c.%s
`,
	schema.CoreComment.ID, schema.CoreComment.ReviewID, schema.CoreComment.AuthorID, schema.UsersAccount.Username,
	schema.CoreComment.Text, schema.CoreComment.CreatedAt,
	schema.CoreComment.Table,
	schema.UsersAccount.Table, schema.UsersAccount.ID, schema.CoreComment.AuthorID,
)

func reviewTargets(review *Review) []any {
	return []any{&review.ID, &review.TitleID, &review.AuthorID, &review.Author, &review.Text, &review.Score, &review.PubDate}
}

func commentTargets(comment *Comment) []any {
	return []any{&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author, &comment.Text, &comment.PubDate}
}

// # Parents

// TitleExists reports whether the title is present.
func (repository *PostgresRepository) TitleExists(context context.Context, titleID int64) error {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", schema.CoreTitle.Table, schema.CoreTitle.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return dberr.Wrap(err, resourceTitle)
	}

	if !exists {
		return apperr.NotFound(resourceTitle)
	}
	return nil
}

// # Reviews

/*
ListReviews retrieves a page of a title's reviews, oldest first.

Description: The total is read with COUNT(*) OVER() in the same statement.
*/
func (repository *PostgresRepository) ListReviews(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	query := fmt.Sprintf(`
		SELECT page.*, COUNT(*) OVER() FROM (%s WHERE r.%s = $1) page
		ORDER BY page.%s ASC, page.%s ASC
		LIMIT $2 OFFSET $3
	`, reviewSelect, schema.CoreReview.TitleID, schema.CoreReview.CreatedAt, schema.CoreReview.ID)

	rows, err := repository.pool.Query(context, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	total := 0
	for rows.Next() {
		review := &Review{}
		if err := rows.Scan(append(reviewTargets(review), &total)...); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate reviews: %w", err)
	}

	return reviews, total, nil
}

// FindReview retrieves a review scoped to its title.
func (repository *PostgresRepository) FindReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := reviewSelect + fmt.Sprintf(" WHERE r.%s = $1 AND r.%s = $2", schema.CoreReview.ID, schema.CoreReview.TitleID)

	review := &Review{}
	if err := repository.pool.QueryRow(context, query, reviewID, titleID).Scan(reviewTargets(review)...); err != nil {
		return nil, dberr.Wrap(err, resourceReview)
	}

	return review, nil
}

// HasReview reports whether authorID already reviewed titleID.
func (repository *PostgresRepository) HasReview(context context.Context, titleID int64, authorID string) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)",
		schema.CoreReview.Table, schema.CoreReview.TitleID, schema.CoreReview.AuthorID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID, authorID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, resourceReview)
	}

	return exists, nil
}

/*
CreateReview inserts a review.

Description: The (title, author) unique constraint is the final arbiter. When
two inserts race, the loser's unique violation is reported as a Conflict.
*/
func (repository *PostgresRepository) CreateReview(context context.Context, review *Review) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s
	`,
		schema.CoreReview.Table,
		schema.CoreReview.TitleID, schema.CoreReview.AuthorID, schema.CoreReview.Text, schema.CoreReview.Score,
		schema.CoreReview.ID, schema.CoreReview.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query, review.TitleID, review.AuthorID, review.Text, review.Score).
		Scan(&review.ID, &review.PubDate)

	if dberr.IsUniqueViolation(err, schema.ConstraintReviewTitleAuthor) {
		return errAlreadyReviewed()
	}

	return dberr.Wrap(err, resourceReview)
}

// UpdateReview persists the text and score of review.
func (repository *PostgresRepository) UpdateReview(context context.Context, review *Review) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3",
		schema.CoreReview.Table, schema.CoreReview.Text, schema.CoreReview.Score, schema.CoreReview.ID)

	result, err := repository.pool.Exec(context, query, review.Text, review.Score, review.ID)
	if err != nil {
		return dberr.Wrap(err, resourceReview)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(resourceReview)
	}
	return nil
}

// DeleteReview removes a review. Its comments follow through ON DELETE CASCADE.
func (repository *PostgresRepository) DeleteReview(context context.Context, reviewID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CoreReview.Table, schema.CoreReview.ID)

	result, err := repository.pool.Exec(context, query, reviewID)
	if err != nil {
		return dberr.Wrap(err, resourceReview)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(resourceReview)
	}
	return nil
}

// # Comments

// ListComments retrieves a page of a review's comments, oldest first.
func (repository *PostgresRepository) ListComments(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	query := fmt.Sprintf(`
		SELECT page.*, COUNT(*) OVER() FROM (%s WHERE c.%s = $1) page
		ORDER BY page.%s ASC, page.%s ASC
		LIMIT $2 OFFSET $3
	`, commentSelect, schema.CoreComment.ReviewID, schema.CoreComment.CreatedAt, schema.CoreComment.ID)

	rows, err := repository.pool.Query(context, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	total := 0
	for rows.Next() {
		comment := &Comment{}
		if err := rows.Scan(append(commentTargets(comment), &total)...); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate comments: %w", err)
	}

	return comments, total, nil
}

// FindComment retrieves a comment scoped to its review.
func (repository *PostgresRepository) FindComment(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := commentSelect + fmt.Sprintf(" WHERE c.%s = $1 AND c.%s = $2", schema.CoreComment.ID, schema.CoreComment.ReviewID)

	comment := &Comment{}
	if err := repository.pool.QueryRow(context, query, commentID, reviewID).Scan(commentTargets(comment)...); err != nil {
		return nil, dberr.Wrap(err, resourceComment)
	}

	return comment, nil
}

// CreateComment inserts a comment. A review deleted in the meantime surfaces as NotFound.
func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s
	`,
		schema.CoreComment.Table,
		schema.CoreComment.ReviewID, schema.CoreComment.AuthorID, schema.CoreComment.Text,
		schema.CoreComment.ID, schema.CoreComment.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query, comment.ReviewID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.PubDate)

	return dberr.Wrap(err, resourceComment)
}

// UpdateComment persists the text of comment.
func (repository *PostgresRepository) UpdateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		schema.CoreComment.Table, schema.CoreComment.Text, schema.CoreComment.ID)

	result, err := repository.pool.Exec(context, query, comment.Text, comment.ID)
	if err != nil {
		return dberr.Wrap(err, resourceComment)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(resourceComment)
	}
	return nil
}

// DeleteComment removes a comment.
func (repository *PostgresRepository) DeleteComment(context context.Context, commentID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CoreComment.Table, schema.CoreComment.ID)

	result, err := repository.pool.Exec(context, query, commentID)
	if err != nil {
		return dberr.Wrap(err, resourceComment)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(resourceComment)
	}
	return nil
}
