// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// # Confirmation Code Repository

// RedisConfirmationCodeRepository implements [ConfirmationCodeRepository] using Redis.
// Expiry is delegated to the key TTL.
type RedisConfirmationCodeRepository struct {
	client *redis.Client
}

// NewConfirmationCodeRepository creates a Redis-backed [ConfirmationCodeRepository].
func NewConfirmationCodeRepository(client *redis.Client) *RedisConfirmationCodeRepository {
	return &RedisConfirmationCodeRepository{client: client}
}

func confirmationCodeKey(username string) string {
	return constants.RedisPrefixConfirmationCode + username
}

/*
Set stores a code hash under the username with its TTL.

Parameters:
  - context: context.Context
  - username: string
  - codeHash: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisConfirmationCodeRepository) Set(context context.Context, username, codeHash string, ttl time.Duration) error {
	if err := repository.client.Set(context, confirmationCodeKey(username), codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_set_failed: %w", err)
	}
	return nil
}

/*
Get retrieves the code hash for a username.

Description: Returns apperr.NotFound if the code is absent or expired.

Returns:
  - string: bcrypt hash
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisConfirmationCodeRepository) Get(context context.Context, username string) (string, error) {
	codeHash, err := repository.client.Get(context, confirmationCodeKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Confirmation code")
		}
		return "", fmt.Errorf("redis_confirmation_code_get_failed: %w", err)
	}

	return codeHash, nil
}

// Consume deletes the code and reports whether this call removed it.
func (repository *RedisConfirmationCodeRepository) Consume(context context.Context, username string) (bool, error) {
	removed, err := repository.client.Del(context, confirmationCodeKey(username)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_confirmation_code_delete_failed: %w", err)
	}
	return removed > 0, nil
}
