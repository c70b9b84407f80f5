// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// # Service Layer

// Service orchestrates the business logic of the title catalog.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a title [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// # Title Lookups

/*
List retrieves a filtered page of titles.

Parameters:
  - context: context.Context
  - filter: Filter (category, genre, name, year)
  - limit, offset: int

Returns:
  - []*Title: Titles ordered by year, then name
  - int: Total matching count
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
Get retrieves a single title with its rating.

Returns:
  - error: apperr.NotFound when the title does not exist
*/
func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repo.FindByID(context, id)
}

// # Title Management

/*
Create validates and persists a new title.

Description: The category and genres are given by slug and resolved by the
repository in the same transaction as the insert.

Parameters:
  - context: context.Context
  - draft: Draft

Returns:
  - *Title: The hydrated title as stored
  - error: Validation or persistence errors
*/
func (service *Service) Create(context context.Context, draft Draft) (*Title, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.CategorySlug != nil && strings.TrimSpace(*draft.CategorySlug) == "" {
		draft.CategorySlug = nil
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, draft.Name).MaxLen(FieldName, draft.Name, MaxNameLength)
	service.validateYear(validator, draft.Year)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	id, err := service.repo.Create(context, draft)
	if err != nil {
		return nil, err
	}

	service.logger.Info("title_created",
		slog.Int64("title_id", id),
		slog.String("name", draft.Name),
	)

	return service.repo.FindByID(context, id)
}

/*
Update applies a partial update to a title.

Parameters:
  - context: context.Context
  - id: int64
  - patch: Patch (nil fields are kept)

Returns:
  - *Title: The hydrated title after the update
  - error: Validation, not found or persistence errors
*/
func (service *Service) Update(context context.Context, id int64, patch Patch) (*Title, error) {
	validator := &validate.Validator{}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
		validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
	}

	if patch.Year != nil {
		service.validateYear(validator, *patch.Year)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return service.repo.FindByID(context, id)
	}

	if err := service.repo.Update(context, id, patch); err != nil {
		return nil, err
	}

	service.logger.Info("title_updated", slog.Int64("title_id", id))

	return service.repo.FindByID(context, id)
}

/*
Delete removes a title with its reviews and their comments.

Returns:
  - error: apperr.NotFound when the title does not exist
*/
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("title_deleted", slog.Int64("title_id", id))
	return nil
}

// validateYear rejects years after the current one.
func (service *Service) validateYear(validator *validate.Validator, year int) {
	now := service.now()
	validator.Custom(FieldYear, yearInFuture(year, now),
		fmt.Sprintf("Year cannot be later than %d", now.Year()))
}
