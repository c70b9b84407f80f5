// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

const resourceUser = "User"

// # Account Repository

// PostgresAccountRepository implements [Repository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a PostgreSQL implementation of [Repository].
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
List retrieves a page of accounts.

Description: Search matches a case-insensitive substring of the username.
The total is read with COUNT(*) OVER() in the same statement.
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	var builder strings.Builder
	args := make([]any, 0, 3)

	builder.WriteString(fmt.Sprintf("SELECT %s, COUNT(*) OVER() FROM %s",
		strings.Join(schema.UsersAccount.Columns(), ", "), schema.UsersAccount.Table))

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, postgres.ContainsPattern(search))
		builder.WriteString(fmt.Sprintf(" WHERE %s ILIKE $%d", schema.UsersAccount.Username, len(args)))
	}

	args = append(args, limit, offset)
	builder.WriteString(fmt.Sprintf(" ORDER BY %s ASC LIMIT $%d OFFSET $%d",
		schema.UsersAccount.Username, len(args)-1, len(args)))

	rows, err := repository.pool.Query(context, builder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*auth.User, 0)
	total := 0
	for rows.Next() {
		user := &auth.User{}
		if err := rows.Scan(append(auth.UserTargets(user), &total)...); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate users: %w", err)
	}

	return users, total, nil
}

func (repository *PostgresAccountRepository) findBy(context context.Context, column, value string) (*auth.User, error) {
	query := auth.UserSelect + fmt.Sprintf(" WHERE %s = $1", column)

	user := &auth.User{}
	if err := repository.pool.QueryRow(context, query, value).Scan(auth.UserTargets(user)...); err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}

	return user, nil
}

// FindByID retrieves an account by its ID.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	return repository.findBy(context, schema.UsersAccount.ID, id)
}

// FindByUsername retrieves an account by its username.
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	return repository.findBy(context, schema.UsersAccount.Username, username)
}

// Create persists a new account.
func (repository *PostgresAccountRepository) Create(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s
	`,
		schema.UsersAccount.Table,
		schema.UsersAccount.ID, schema.UsersAccount.Username, schema.UsersAccount.Email, schema.UsersAccount.Role,
		schema.UsersAccount.Bio, schema.UsersAccount.FirstName, schema.UsersAccount.LastName,
		schema.UsersAccount.CreatedAt, schema.UsersAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email, user.Role, user.Bio, user.FirstName, user.LastName,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return auth.MapIdentityConflict(err)
	}

	return nil
}

/*
Update modifies the mutable profile fields of an existing account.

Parameters:
  - context: context.Context
  - user: *auth.User (hydrated entity with changes)

Returns:
  - error: Identity conflicts, apperr.NotFound or storage failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $7
		RETURNING %s
	`,
		schema.UsersAccount.Table,
		schema.UsersAccount.Username, schema.UsersAccount.Email, schema.UsersAccount.Role,
		schema.UsersAccount.Bio, schema.UsersAccount.FirstName, schema.UsersAccount.LastName,
		schema.UsersAccount.UpdatedAt,
		schema.UsersAccount.ID,
		schema.UsersAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.Username, user.Email, user.Role, user.Bio, user.FirstName, user.LastName, user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		return auth.MapIdentityConflict(err)
	}

	return nil
}

// Delete removes an account. Reviews and comments follow through ON DELETE CASCADE.
func (repository *PostgresAccountRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.UsersAccount.Table, schema.UsersAccount.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceUser)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(resourceUser)
	}
	return nil
}
