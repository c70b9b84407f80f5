// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/slug"
)

// # Service Layer

// Service orchestrates the business rules for one [Kind] of term.
type Service struct {
	repo   Repository
	kind   Kind
	logger *slog.Logger
}

// NewService constructs a taxonomy [Service] for kind.
func NewService(repo Repository, kind Kind, logger *slog.Logger) *Service {
	return &Service{repo: repo, kind: kind, logger: logger}
}

/*
List returns a page of terms ordered by name.

Parameters:
  - context: context.Context
  - filter: Filter (Name search)
  - limit, offset: int

Returns:
  - []*Term: Page of terms
  - int: Total matching count
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Term, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
Create validates and persists a new term.

Description: The slug is derived from the name when omitted. A slug that is
already taken fails with a Conflict.

Parameters:
  - context: context.Context
  - term: *Term

Returns:
  - error: Validation, conflict or storage failures
*/
func (service *Service) Create(context context.Context, term *Term) error {
	term.Name = strings.TrimSpace(term.Name)
	term.Slug = strings.TrimSpace(term.Slug)

	// Slug generation
	if term.Slug == "" {
		term.Slug = slug.FromMax(term.Name, MaxSlugLength)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, term.Name).MaxLen(FieldName, term.Name, MaxNameLength)
	validator.Required(FieldSlug, term.Slug).MaxLen(FieldSlug, term.Slug, MaxSlugLength)
	if term.Slug != "" {
		validator.Slug(FieldSlug, term.Slug)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, term); err != nil {
		return err
	}

	service.logger.Info(strings.ToLower(service.kind.Resource)+"_created",
		slog.Int64("id", term.ID),
		slog.String("slug", term.Slug),
	)
	return nil
}

/*
Delete removes a term by slug.

Returns:
  - error: apperr.NotFound when the slug is unknown
*/
func (service *Service) Delete(context context.Context, slug string) error {
	if err := service.repo.DeleteBySlug(context, slug); err != nil {
		return err
	}

	service.logger.Info(strings.ToLower(service.kind.Resource)+"_deleted", slog.String("slug", slug))
	return nil
}
