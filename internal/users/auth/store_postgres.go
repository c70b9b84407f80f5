// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

const resourceUser = "User"

// # Shared Row Mapping

// UserSelect reads every account column in [UserTargets] order.
var UserSelect = fmt.Sprintf("SELECT %s FROM %s",
	strings.Join(schema.UsersAccount.Columns(), ", "), schema.UsersAccount.Table)

// UserTargets returns the scan destinations matching [UserSelect].
func UserTargets(user *User) []any {
	return []any{
		&user.ID, &user.Username, &user.Email, &user.Role, &user.Bio,
		&user.FirstName, &user.LastName, &user.IsSuperuser, &user.IsConfirmed,
		&user.CreatedAt, &user.UpdatedAt,
	}
}

/*
MapIdentityConflict turns a username/email unique violation into the
field-level ValidationError the API reports for taken identities.

Returns:
  - error: ValidationError for a known constraint, otherwise dberr.Wrap(err)
*/
func MapIdentityConflict(err error) error {
	switch {
	case dberr.IsUniqueViolation(err, schema.ConstraintAccountUsername):
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field: FieldUsername, Message: "A user with that username already exists",
		})
	case dberr.IsUniqueViolation(err, schema.ConstraintAccountEmail):
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field: FieldEmail, Message: "A user with that email already exists",
		})
	}
	return dberr.Wrap(err, resourceUser)
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (repository *PostgresUserRepository) findBy(context context.Context, column, value string) (*User, error) {
	query := UserSelect + fmt.Sprintf(" WHERE %s = $1", column)

	user := &User{}
	if err := repository.pool.QueryRow(context, query, value).Scan(UserTargets(user)...); err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}

	return user, nil
}

// FindByID retrieves an account by its primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, schema.UsersAccount.ID, id)
}

// FindByUsername retrieves an account by its exact username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UsersAccount.Username, username)
}

// FindByEmail retrieves an account by its exact email.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UsersAccount.Email, email)
}

/*
Create persists a new account into users.account.

Description: Timestamps are initialised here when zero. A concurrent signup
racing on the same username or email loses on the unique constraint.

Parameters:
  - context: context.Context
  - user: *User (ID must be set)

Returns:
  - error: Field-level ValidationError on a taken identity, or storage errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, schema.UsersAccount.Table, strings.Join(schema.UsersAccount.Columns(), ", "))

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID, user.Username, user.Email, user.Role, user.Bio,
		user.FirstName, user.LastName, user.IsSuperuser, user.IsConfirmed,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return MapIdentityConflict(err)
	}

	return nil
}

// MarkConfirmed sets isconfirmed on the account.
func (repository *PostgresUserRepository) MarkConfirmed(context context.Context, userID string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1",
		schema.UsersAccount.Table, schema.UsersAccount.IsConfirmed, schema.UsersAccount.UpdatedAt, schema.UsersAccount.ID)

	result, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return dberr.Wrap(err, resourceUser)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(resourceUser)
	}
	return nil
}
