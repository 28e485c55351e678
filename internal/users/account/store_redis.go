// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/vidora/internal/platform/constants"
)

// maxHistoryLength bounds the per-user watch history list in Redis.
const maxHistoryLength = 100

// RedisWatchHistoryRepository implements WatchHistoryRepository using a
// Redis list per user, newest entry at the head.
type RedisWatchHistoryRepository struct {
	client *redis.Client
}

// NewWatchHistoryRepository creates a new Redis-backed WatchHistoryRepository.
func NewWatchHistoryRepository(client *redis.Client) *RedisWatchHistoryRepository {
	return &RedisWatchHistoryRepository{client: client}
}

/*
Push records a watched video at the head of the user's history list.

Description: Removes any older occurrence of the same video first, so each
video appears at most once, then trims the list to its maximum length.

Parameters:
  - context: context.Context
  - userID: string
  - videoID: string

Returns:
  - error: Execution errors
*/
func (repository *RedisWatchHistoryRepository) Push(context context.Context, userID, videoID string) error {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixWatchHistory, userID)

	// De-duplicate, prepend, and bound the list in a single pipeline round-trip
	pipeline := repository.client.TxPipeline()
	pipeline.LRem(context, key, 0, videoID)
	pipeline.LPush(context, key, videoID)
	pipeline.LTrim(context, key, 0, maxHistoryLength-1)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_watch_history_push_failed: %w", err)
	}

	return nil
}

/*
List returns the user's watch history, most recent first.

Parameters:
  - context: context.Context
  - userID: string
  - limit: int

Returns:
  - []string: Ordered video IDs
  - error: Execution errors
*/
func (repository *RedisWatchHistoryRepository) List(context context.Context, userID string, limit int) ([]string, error) {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixWatchHistory, userID)

	if limit <= 0 || limit > maxHistoryLength {
		limit = maxHistoryLength
	}

	// Read the head of the list
	videoIDs, err := repository.client.LRange(context, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_watch_history_list_failed: %w", err)
	}

	return videoIDs, nil
}
