// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

// PostgresRepository implements [Repository] for a single [Kind] using a pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
	kind Kind
}

// NewPostgresRepository returns a postgres repository bound to kind.
func NewPostgresRepository(pool *pgxpool.Pool, kind Kind) *PostgresRepository {
	return &PostgresRepository{pool: pool, kind: kind}
}

/*
List retrieves a page of terms ordered by name.

Description: The total is read with a window function so that the page and
its count come from the same statement.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Term, int, error) {
	kind := repository.kind

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE TRUE
	`, kind.ID, kind.Name, kind.Slug, kind.Table))

	// Name search
	if search := strings.TrimSpace(filter.Search); search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", kind.Name, argID))
		args = append(args, postgres.ContainsPattern(search))
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC, %s ASC LIMIT $%d OFFSET $%d", kind.Name, kind.ID, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, kind.Resource)
	}
	defer rows.Close()

	terms := make([]*Term, 0)
	total := 0
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug, &total); err != nil {
			return nil, 0, dberr.Wrap(err, kind.Resource)
		}
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, kind.Resource)
	}

	return terms, total, nil
}

// Create inserts a term and fills its generated ID.
func (repository *PostgresRepository) Create(context context.Context, term *Term) error {
	kind := repository.kind

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		RETURNING %s
	`, kind.Table, kind.Name, kind.Slug, kind.ID)

	err := repository.pool.QueryRow(context, query, term.Name, term.Slug).Scan(&term.ID)
	if dberr.IsUniqueViolation(err, kind.SlugConstraint) {
		return apperr.Conflict(fmt.Sprintf("%s with slug '%s' already exists", kind.Resource, term.Slug))
	}

	return dberr.Wrap(err, kind.Resource)
}

// DeleteBySlug removes a term by its slug. Referencing titles are released by
// the foreign keys (SET NULL for categories, CASCADE on the genre junction).
func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	kind := repository.kind

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, kind.Table, kind.Slug)

	result, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, kind.Resource)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(kind.Resource)
	}

	return nil
}
