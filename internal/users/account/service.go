// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// Service implements profile and user directory use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs an account [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Self Profile

// GetProfile returns the caller's own account.
func (service *Service) GetProfile(context context.Context, caller *sec.Caller) (*auth.User, error) {
	return service.repo.FindByID(context, caller.ID())
}

/*
UpdateProfile applies a patch to the caller's own account.

Description: The role cannot be changed from here; a role in the patch is
dropped rather than rejected.

Parameters:
  - context: context.Context
  - caller: *sec.Caller
  - patch: Patch

Returns:
  - *auth.User: Updated account
  - error: Validation, NotFound or storage errors
*/
func (service *Service) UpdateProfile(context context.Context, caller *sec.Caller, patch Patch) (*auth.User, error) {
	patch.Role = nil

	user, err := service.repo.FindByID(context, caller.ID())
	if err != nil {
		return nil, err
	}

	return service.apply(context, caller, user, patch)
}

// # User Directory

// List returns a page of the user directory.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

// Get returns the account with the given username.
func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	return service.repo.FindByUsername(context, username)
}

/*
Create adds an account with any role.

Parameters:
  - context: context.Context
  - caller: *sec.Caller (the acting admin, for the audit log)
  - draft: Draft (an empty role means user)

Returns:
  - *auth.User: Created account
  - error: Validation or storage errors
*/
func (service *Service) Create(context context.Context, caller *sec.Caller, draft Draft) (*auth.User, error) {
	user := &auth.User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(draft.Username),
		Email:     strings.TrimSpace(draft.Email),
		FirstName: strings.TrimSpace(draft.FirstName),
		LastName:  strings.TrimSpace(draft.LastName),
		Bio:       draft.Bio,
		Role:      draft.Role,
	}
	if user.Role == "" {
		user.Role = sec.RoleUser
	}

	validator := &validate.Validator{}
	auth.ValidateIdentity(validator, user.Username, user.Email)
	auth.ValidateNames(validator, user.FirstName, user.LastName)
	validator.OneOf(auth.FieldRole, string(user.Role), sec.RoleNames()...)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
		slog.String("actor_id", caller.ID()),
	)
	return user, nil
}

// Update applies a patch, role included, to the account with the given username.
func (service *Service) Update(context context.Context, caller *sec.Caller, username string, patch Patch) (*auth.User, error) {
	user, err := service.repo.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	return service.apply(context, caller, user, patch)
}

// Delete removes the account with the given username.
func (service *Service) Delete(context context.Context, caller *sec.Caller, username string) error {
	user, err := service.repo.FindByUsername(context, username)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, user.ID); err != nil {
		return err
	}

	service.logger.Info("user_deleted", slog.String("user_id", user.ID), slog.String("actor_id", caller.ID()))
	return nil
}

// apply validates and persists patch on user.
func (service *Service) apply(context context.Context, caller *sec.Caller, user *auth.User, patch Patch) (*auth.User, error) {
	if patch.Username != nil {
		user.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		user.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}

	validator := &validate.Validator{}
	auth.ValidateIdentity(validator, user.Username, user.Email)
	auth.ValidateNames(validator, user.FirstName, user.LastName)
	validator.OneOf(auth.FieldRole, string(user.Role), sec.RoleNames()...)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_updated", slog.String("user_id", user.ID), slog.String("actor_id", caller.ID()))
	return user, nil
}
