// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// RedisConsumedCodeRepository implements [ConsumedCodeRepository] using Redis.
type RedisConsumedCodeRepository struct {
	client redis.UniversalClient
}

// NewConsumedCodeRepository creates a new Redis-backed ConsumedCodeRepository.
func NewConsumedCodeRepository(client redis.UniversalClient) *RedisConsumedCodeRepository {
	return &RedisConsumedCodeRepository{client: client}
}

/*
Claim marks a confirmation code as used with SET NX.

Description: Only the first caller for a given (user, code) pair gets true.
The code itself is hashed so the key space never holds a usable secret.

Parameters:
  - context: context.Context
  - userID: int64
  - code: string
  - ttl: time.Duration

Returns:
  - bool: Whether this call claimed the code
  - error: Connectivity errors
*/
func (repository *RedisConsumedCodeRepository) Claim(context context.Context, userID int64, code string, ttl time.Duration) (bool, error) {
	digest := sha256.Sum256([]byte(code))
	key := constants.RedisPrefixConsumedCode + strconv.FormatInt(userID, 10) + ":" + hex.EncodeToString(digest[:])

	claimed, err := repository.client.SetNX(context, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_consumed_code_claim_failed: %w", err)
	}

	return claimed, nil
}
