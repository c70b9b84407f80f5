// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	GenerateAccessToken(caller sec.Caller, timeToLive time.Duration) (string, error)
}

// MailDispatcher hands a message to background delivery.
type MailDispatcher interface {
	Dispatch(message mail.Message)
}

// Options carries the lifetimes the service applies.
type Options struct {
	CodeTTL  time.Duration
	TokenTTL time.Duration
}

// Service implements the signup and token exchange use cases.
type Service struct {
	userRepository UserRepository
	codeRepository ConfirmationCodeRepository
	codeSource     sec.CodeSource
	tokenProvider  TokenProvider
	mailer         MailDispatcher
	options        Options
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	userRepo UserRepository,
	codeRepo ConfirmationCodeRepository,
	codeSource sec.CodeSource,
	tokenProv TokenProvider,
	mailer MailDispatcher,
	options Options,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		codeRepository: codeRepo,
		codeSource:     codeSource,
		tokenProvider:  tokenProv,
		mailer:         mailer,
		options:        options,
		logger:         logger,
	}
}

// # Signup Flow

// SignupInput holds the identity a visitor asks a code for.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup creates the account when needed and emails a fresh confirmation code.

Description: A username already bound to another email, or an email bound to
another username, is rejected with field-level detail and nothing changes.
Repeating a signup with the same pair rotates the code.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: The (possibly pre-existing) account
  - error: ValidationError or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	ValidateIdentity(validator, input.Username, input.Email)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.resolveSignupUser(context, input)
	if err != nil {
		return nil, err
	}

	code, err := service.codeSource.NewCode()
	if err != nil {
		return nil, fmt.Errorf("auth_service_code_failed: %w", err)
	}

	codeHash, err := sec.HashSecret(code)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.codeRepository.Set(context, user.Username, codeHash, service.options.CodeTTL); err != nil {
		return nil, err
	}

	service.mailer.Dispatch(mail.Message{
		To:      user.Email,
		Subject: ConfirmationSubject,
		Body:    code,
	})

	service.logger.Info("confirmation_code_issued", slog.String("user_id", user.ID))
	return user, nil
}

// resolveSignupUser returns the account owning the pair, creating it when neither part is taken.
func (service *Service) resolveSignupUser(context context.Context, input SignupInput) (*User, error) {
	byUsername, err := service.lookup(service.userRepository.FindByUsername(context, input.Username))
	if err != nil {
		return nil, err
	}
	byEmail, err := service.lookup(service.userRepository.FindByEmail(context, input.Email))
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Custom(FieldUsername, byUsername != nil && byUsername.Email != input.Email,
		"This username is registered with another email")
	validator.Custom(FieldEmail, byEmail != nil && byEmail.Username != input.Username,
		"This email is registered with another username")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if byUsername != nil {
		return byUsername, nil
	}

	user := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}
	if err := service.userRepository.Create(context, user); err != nil {
		if winner := service.concurrentSignup(context, input, err); winner != nil {
			return winner, nil
		}
		return nil, err
	}

	service.logger.Info("user_signed_up", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// concurrentSignup returns the account a parallel signup for the same pair
// created between our lookup and insert, or nil when createErr is a real conflict.
func (service *Service) concurrentSignup(context context.Context, input SignupInput, createErr error) *User {
	if !apperr.HasCode(createErr, apperr.CodeValidation) {
		return nil
	}

	winner, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil || winner.Email != input.Email {
		return nil
	}

	service.logger.Info("signup_joined_concurrent_create", slog.String("user_id", winner.ID))
	return winner
}

// lookup treats NotFound as an absent account.
func (service *Service) lookup(user *User, err error) (*User, error) {
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	return user, err
}

// # Token Exchange

// TokenInput holds the username and the code received by email.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

/*
Token exchanges a confirmation code for an access token.

Description: A wrong or missing code leaves the stored code in place so the
user can retry. A matching code is consumed; when a concurrent exchange
consumed it first, this one fails like a wrong code.

Parameters:
  - context: context.Context
  - input: TokenInput

Returns:
  - string: Signed access token
  - error: ValidationError, NotFound (unknown user) or storage errors
*/
func (service *Service) Token(context context.Context, input TokenInput) (string, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.ConfirmationCode = strings.TrimSpace(input.ConfirmationCode)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.NotIn(FieldUsername, input.Username, constants.ReservedUsername)
	validator.Required(FieldConfirmationCode, input.ConfirmationCode)
	if err := validator.Err(); err != nil {
		return "", err
	}

	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return "", err
	}

	codeHash, err := service.codeRepository.Get(context, user.Username)
	if apperr.IsNotFound(err) {
		return "", errInvalidCode()
	}
	if err != nil {
		return "", err
	}

	if !sec.CheckSecretHash(input.ConfirmationCode, codeHash) {
		service.logger.Warn("confirmation_code_mismatch", slog.String("user_id", user.ID))
		return "", errInvalidCode()
	}

	consumed, err := service.codeRepository.Consume(context, user.Username)
	if err != nil {
		return "", err
	}
	if !consumed {
		return "", errInvalidCode()
	}

	if !user.IsConfirmed {
		if err := service.userRepository.MarkConfirmed(context, user.ID); err != nil {
			return "", err
		}
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.Caller(), service.options.TokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_failed: %w", err)
	}

	service.logger.Info("access_token_issued", slog.String("user_id", user.ID))
	return token, nil
}

func errInvalidCode() error {
	return validate.FieldError(FieldConfirmationCode, "Invalid or expired confirmation code")
}
