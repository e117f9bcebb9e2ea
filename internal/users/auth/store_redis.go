// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jgiannako/kalamos/internal/platform/constants"
)

// # Session Revocation Registry (Redis)

// RedisSessionRevoker implements the [SessionRevoker] interface on Redis.
//
// Tokens are stateless, so a deleted account's still-valid tokens are
// neutralized by a tombstone key that outlives the longest possible token.
// The key expires on its own once every token issued for the account has
// expired too, keeping the registry self-cleaning.
type RedisSessionRevoker struct {
	client *redis.Client
}

// NewSessionRevoker creates a Redis-backed implementation of [SessionRevoker].
func NewSessionRevoker(client *redis.Client) *RedisSessionRevoker {
	return &RedisSessionRevoker{client: client}
}

/*
RevokeUser writes a tombstone for every outstanding token of the account.

Parameters:
  - ctx: context.Context
  - userID: string
  - ttl: time.Duration (Must cover the full token lifetime)

Returns:
  - error: Connectivity or write errors
*/
func (revoker *RedisSessionRevoker) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	key := constants.RedisPrefixRevokedUser + userID

	if err := revoker.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_revoker_set_failed: %w", err)
	}

	return nil
}

/*
IsRevoked reports whether the account's tokens have been revoked.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - bool: true when a tombstone exists
  - error: Connectivity errors
*/
func (revoker *RedisSessionRevoker) IsRevoked(ctx context.Context, userID string) (bool, error) {
	key := constants.RedisPrefixRevokedUser + userID

	count, err := revoker.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis_session_revoker_exists_failed: %w", err)
	}

	return count > 0, nil
}
