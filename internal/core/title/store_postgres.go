// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

const resourceTitle = "Title"

// # PostgreSQL Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed title store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// hydratedColumns reads a title with its category, the JSON array of its
// genres and the score aggregate of its reviews. The aggregate is a lateral
// subquery of the same statement (see [hydratedFrom]), so the rating never
// observes a different snapshot than the row.
var hydratedColumns = fmt.Sprintf(`
		t.%s, t.%s, t.%s, t.%s,
		c.%s, c.%s, c.%s,
		COALESCE(r.score_sum, 0), COALESCE(r.score_count, 0),
		COALESCE((
			SELECT json_agg(json_build_object('name', g.%s, 'slug', g.%s) ORDER BY g.%s)
			FROM %s g
			JOIN %s gt ON gt.%s = g.%s
			WHERE gt.%s = t.%s
		), '[]') AS genres
`,
	schema.CoreTitle.ID, schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description,
	schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
	schema.CoreGenre.Name, schema.CoreGenre.Slug, schema.CoreGenre.Name,
	schema.CoreGenre.Table,
	schema.CoreGenreTitle.Table, schema.CoreGenreTitle.GenreID, schema.CoreGenre.ID,
	schema.CoreGenreTitle.TitleID, schema.CoreTitle.ID,
)

// hydratedFrom joins the category and the review aggregate to core.title.
var hydratedFrom = fmt.Sprintf(`
	FROM %s t
	LEFT JOIN %s c ON c.%s = t.%s
	LEFT JOIN LATERAL (
		SELECT SUM(%s) AS score_sum, COUNT(%s) AS score_count
		FROM %s
		WHERE %s = t.%s
	) r ON TRUE
`,
	schema.CoreTitle.Table,
	schema.CoreCategory.Table, schema.CoreCategory.ID, schema.CoreTitle.CategoryID,
	schema.CoreReview.Score, schema.CoreReview.Score,
	schema.CoreReview.Table,
	schema.CoreReview.TitleID, schema.CoreTitle.ID,
)

/*
List returns a filtered, paginated slice of titles and the total count.

Description: Filters are case-insensitive exact matches. The total is read
with COUNT(*) OVER() so the page and its count come from one round-trip.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	// Window function for the total count
	queryBuilder.WriteString("SELECT " + hydratedColumns + ", COUNT(*) OVER() AS total_count " + hydratedFrom + " WHERE TRUE")
	writeFilters(&queryBuilder, &args, &argID, filter)

	// Ordering and pagination
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.%s ASC, t.%s ASC, t.%s ASC LIMIT $%d OFFSET $%d",
		schema.CoreTitle.Year, schema.CoreTitle.Name, schema.CoreTitle.ID, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list titles: %w", err)
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	total := 0
	for rows.Next() {
		row := hydratedRow{}
		if err := rows.Scan(append(row.targets(), &total)...); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan title: %w", err)
		}

		title, err := row.title()
		if err != nil {
			return nil, 0, err
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate titles: %w", err)
	}

	return titles, total, nil
}

// writeFilters appends the listing filters as AND clauses.
func writeFilters(queryBuilder *strings.Builder, args *[]any, argID *int, filter Filter) {

	// Category filtering
	if filter.CategorySlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND LOWER(c.%s) = LOWER($%d)", schema.CoreCategory.Slug, *argID))
		*args = append(*args, filter.CategorySlug)
		*argID++
	}

	// Genre filtering
	if filter.GenreSlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(`
			AND EXISTS (
				SELECT 1 FROM %s fgt
				JOIN %s fg ON fg.%s = fgt.%s
				WHERE fgt.%s = t.%s AND LOWER(fg.%s) = LOWER($%d)
			)`,
			schema.CoreGenreTitle.Table,
			schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreGenreTitle.GenreID,
			schema.CoreGenreTitle.TitleID, schema.CoreTitle.ID, schema.CoreGenre.Slug, *argID,
		))
		*args = append(*args, filter.GenreSlug)
		*argID++
	}

	// Name filtering
	if filter.Name != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND LOWER(t.%s) = LOWER($%d)", schema.CoreTitle.Name, *argID))
		*args = append(*args, filter.Name)
		*argID++
	}

	// Year filtering
	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.CoreTitle.Year, *argID))
		*args = append(*args, *filter.Year)
		*argID++
	}
}

// FindByID retrieves a hydrated title by its primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query := "SELECT " + hydratedColumns + hydratedFrom + fmt.Sprintf(" WHERE t.%s = $1", schema.CoreTitle.ID)

	row := hydratedRow{}
	if err := repository.pool.QueryRow(context, query, id).Scan(row.targets()...); err != nil {
		return nil, dberr.Wrap(err, resourceTitle)
	}

	return row.title()
}

/*
Create persists a new title and its genre links.

Description: Slug resolution, the title insert and the junction inserts run
in one transaction. An unknown slug aborts the whole write.
*/
func (repository *PostgresRepository) Create(context context.Context, draft Draft) (int64, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(context)

	// Classification resolution
	categoryID, err := resolveCategory(context, transaction, draft.CategorySlug)
	if err != nil {
		return 0, err
	}

	genreIDs, err := resolveGenres(context, transaction, draft.GenreSlugs)
	if err != nil {
		return 0, err
	}

	// Core record insertion
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`,
		schema.CoreTitle.Table,
		schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description, schema.CoreTitle.CategoryID,
		schema.CoreTitle.ID,
	)

	var id int64
	if err := transaction.QueryRow(context, query, draft.Name, draft.Year, draft.Description, categoryID).Scan(&id); err != nil {
		return 0, dberr.Wrap(err, resourceTitle)
	}

	// Genre associations
	if err := updateGenres(context, transaction, id, genreIDs); err != nil {
		return 0, err
	}

	if err := transaction.Commit(context); err != nil {
		return 0, fmt.Errorf("postgres: failed to commit create transaction: %w", err)
	}

	return id, nil
}

/*
Update applies a partial update to a title.

Description: Only the fields present in the patch are written. A supplied
genre list replaces the association set inside the same transaction.
*/
func (repository *PostgresRepository) Update(context context.Context, id int64, patch Patch) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: update transaction begin failed: %w", err)
	}
	defer transaction.Rollback(context)

	// Lock the row so concurrent patches apply one after the other.
	lockQuery := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 FOR UPDATE", schema.CoreTitle.ID, schema.CoreTitle.Table, schema.CoreTitle.ID)
	var lockedID int64
	if err := transaction.QueryRow(context, lockQuery, id).Scan(&lockedID); err != nil {
		return dberr.Wrap(err, resourceTitle)
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET %s = %s", schema.CoreTitle.Table, schema.CoreTitle.ID, schema.CoreTitle.ID))
	var args []any
	argID := 1

	// Name
	if patch.Name != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.CoreTitle.Name, argID))
		args = append(args, *patch.Name)
		argID++
	}

	// Year
	if patch.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.CoreTitle.Year, argID))
		args = append(args, *patch.Year)
		argID++
	}

	// Description
	if patch.Description != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.CoreTitle.Description, argID))
		args = append(args, *patch.Description)
		argID++
	}

	// Category (empty slug clears it)
	if patch.CategorySlug != nil {
		var categorySlug *string
		if *patch.CategorySlug != "" {
			categorySlug = patch.CategorySlug
		}

		categoryID, err := resolveCategory(context, transaction, categorySlug)
		if err != nil {
			return err
		}
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.CoreTitle.CategoryID, argID))
		args = append(args, categoryID)
		argID++
	}

	// Resolve genres before any write so an unknown slug leaves the row untouched.
	var genreIDs []int64
	if patch.GenreSlugs != nil {
		genreIDs, err = resolveGenres(context, transaction, *patch.GenreSlugs)
		if err != nil {
			return err
		}
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $%d", schema.CoreTitle.ID, argID))
	args = append(args, id)

	if _, err := transaction.Exec(context, queryBuilder.String(), args...); err != nil {
		return dberr.Wrap(err, resourceTitle)
	}

	// Genre set replacement
	if patch.GenreSlugs != nil {
		if err := updateGenres(context, transaction, id, genreIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: update transaction commit failed: %w", err)
	}

	return nil
}

// Delete removes a title. Reviews and comments go with it through ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CoreTitle.Table, schema.CoreTitle.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceTitle)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(resourceTitle)
	}

	return nil
}

// # Slug Resolution

// resolveCategory maps an optional category slug to its ID inside transaction.
func resolveCategory(context context.Context, transaction pgx.Tx, categorySlug *string) (*int64, error) {
	if categorySlug == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", schema.CoreCategory.ID, schema.CoreCategory.Table, schema.CoreCategory.Slug)

	var id int64
	err := transaction.QueryRow(context, query, *categorySlug).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldCategory,
			Message: fmt.Sprintf("Unknown category slug '%s'", *categorySlug),
		})
	}
	if err != nil {
		return nil, dberr.Wrap(err, "Category")
	}

	return &id, nil
}

// resolveGenres maps genre slugs to IDs inside transaction. Every slug must resolve.
func resolveGenres(context context.Context, transaction pgx.Tx, genreSlugs []string) ([]int64, error) {
	if len(genreSlugs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = ANY($1)",
		schema.CoreGenre.ID, schema.CoreGenre.Slug, schema.CoreGenre.Table, schema.CoreGenre.Slug)

	rows, err := transaction.Query(context, query, genreSlugs)
	if err != nil {
		return nil, dberr.Wrap(err, "Genre")
	}
	defer rows.Close()

	found := make(map[string]int64, len(genreSlugs))
	for rows.Next() {
		var id int64
		var slug string
		if err := rows.Scan(&id, &slug); err != nil {
			return nil, dberr.Wrap(err, "Genre")
		}
		found[slug] = id
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Genre")
	}

	return matchGenres(genreSlugs, found)
}

// matchGenres orders the resolved IDs like the input and reports unknown slugs.
func matchGenres(genreSlugs []string, found map[string]int64) ([]int64, error) {
	var missing []string
	ids := make([]int64, 0, len(genreSlugs))
	for _, genreSlug := range genreSlugs {
		id, ok := found[genreSlug]
		if !ok {
			missing = append(missing, genreSlug)
			continue
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	if len(missing) > 0 {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldGenre,
			Message: fmt.Sprintf("Unknown genre slug(s): %s", strings.Join(missing, ", ")),
		})
	}

	return ids, nil
}

/*
updateGenres synchronizes the genre associations of a title.

Description: Implements a "Clear and Insert" strategy on core.genretitle,
sending the inserts as one pgx batch.
*/
func updateGenres(context context.Context, transaction pgx.Tx, titleID int64, genreIDs []int64) error {
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CoreGenreTitle.Table, schema.CoreGenreTitle.TitleID)
	if _, err := transaction.Exec(context, deleteQuery, titleID); err != nil {
		return fmt.Errorf("postgres: failed to clear genres: %w", err)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)",
		schema.CoreGenreTitle.Table, schema.CoreGenreTitle.TitleID, schema.CoreGenreTitle.GenreID)

	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(insertQuery, titleID, genreID)
	}

	results := transaction.SendBatch(context, batch)
	defer results.Close()

	for range genreIDs {
		if _, err := results.Exec(); err != nil {
			return dberr.Wrap(err, "Genre")
		}
	}

	return nil
}

// # Row Hydration

// hydratedRow is the scan target of [hydratedColumns].
type hydratedRow struct {
	id           int64
	name         string
	year         int
	description  string
	categoryID   *int64
	categoryName *string
	categorySlug *string
	scoreSum     int64
	scoreCount   int64
	genresJSON   []byte
}

func (row *hydratedRow) targets() []any {
	return []any{
		&row.id, &row.name, &row.year, &row.description,
		&row.categoryID, &row.categoryName, &row.categorySlug,
		&row.scoreSum, &row.scoreCount,
		&row.genresJSON,
	}
}

func (row *hydratedRow) title() (*Title, error) {
	title := &Title{
		ID:          row.id,
		Name:        row.name,
		Year:        row.year,
		Description: row.description,
		Rating:      NewRating(row.scoreSum, row.scoreCount),
		Genres:      make([]taxonomy.Genre, 0),
	}

	if row.categoryID != nil {
		title.Category = &taxonomy.Category{
			ID:   *row.categoryID,
			Name: pointer.Val(row.categoryName),
			Slug: pointer.Val(row.categorySlug),
		}
	}

	if err := json.Unmarshal(row.genresJSON, &title.Genres); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal genres: %w", err)
	}

	return title, nil
}
