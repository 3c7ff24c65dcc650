// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phambinh/cropsight/internal/platform/apperr"
	"github.com/phambinh/cropsight/internal/platform/constants"
)

// RedisSessionBindingRepository implements SessionBindingRepository using Redis.
//
// One key per identity maps to the jti of the single currently-valid session
// token. Redis SET overwrites in one atomic write, so a new bind implicitly
// kills the old token: a reader can never observe two valid tokens for the
// same identity.
type RedisSessionBindingRepository struct {
	client *redis.Client
}

// NewSessionBindingRepository creates a new Redis-backed SessionBindingRepository.
func NewSessionBindingRepository(client *redis.Client) *RedisSessionBindingRepository {
	return &RedisSessionBindingRepository{client: client}
}

/*
Bind records jti as the identity's current session binding.

Description: A single SET replaces any previous binding; invalidation of the
prior token and issuance of the new one are the same write.

Parameters:
  - context: context.Context
  - identityID: string
  - jti: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisSessionBindingRepository) Bind(context context.Context, identityID, jti string, ttl time.Duration) error {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixSessionBinding, identityID)

	// Overwrite the binding with TTL
	if err := repository.client.Set(context, key, jti, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_binding_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Current retrieves the jti currently bound to the identity.

Description: Returns apperr.NotFound if no binding exists or it has expired.

Parameters:
  - context: context.Context
  - identityID: string

Returns:
  - string: Bound jti
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisSessionBindingRepository) Current(context context.Context, identityID string) (string, error) {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixSessionBinding, identityID)

	// Get the binding from Redis
	jti, err := repository.client.Get(context, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("No active session binding")
		}
		return "", fmt.Errorf("redis_session_binding_get_failed: %w", err)
	}

	// Return the bound jti
	return jti, nil
}

/*
Unbind removes the identity's binding, killing its current session.

Parameters:
  - context: context.Context
  - identityID: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionBindingRepository) Unbind(context context.Context, identityID string) error {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixSessionBinding, identityID)

	// Delete the binding from Redis
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_session_binding_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
