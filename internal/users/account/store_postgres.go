// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// # Channel Statistics Repository

// PostgresChannelStatsRepository implements ChannelStatsRepository over
// the core.subscription table.
type PostgresChannelStatsRepository struct {
	pool *pgxpool.Pool
}

// NewChannelStatsRepository creates a new PostgreSQL implementation of ChannelStatsRepository.
func NewChannelStatsRepository(pool *pgxpool.Pool) *PostgresChannelStatsRepository {
	return &PostgresChannelStatsRepository{pool: pool}
}

/*
SubscriberCount counts subscriptions pointing AT the channel.

Parameters:
  - context: context.Context
  - channelID: string

Returns:
  - int: Subscriber count
  - error: Execution errors
*/
func (repository *PostgresChannelStatsRepository) SubscriberCount(context context.Context, channelID string) (int, error) {
	const query = "SELECT COUNT(*) FROM core.subscription WHERE channelid = $1"

	var count int
	if err := repository.pool.QueryRow(context, query, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_stats_repo_subscriber_count_failed: %w", err)
	}

	return count, nil
}

/*
SubscribedToCount counts subscriptions made BY the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - int: Subscribed-to count
  - error: Execution errors
*/
func (repository *PostgresChannelStatsRepository) SubscribedToCount(context context.Context, userID string) (int, error) {
	const query = "SELECT COUNT(*) FROM core.subscription WHERE subscriberid = $1"

	var count int
	if err := repository.pool.QueryRow(context, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_stats_repo_subscribed_to_count_failed: %w", err)
	}

	return count, nil
}

/*
IsSubscribed checks whether a subscription pair exists.

Parameters:
  - context: context.Context
  - viewerID: string
  - channelID: string

Returns:
  - bool: Subscription status
  - error: Execution errors
*/
func (repository *PostgresChannelStatsRepository) IsSubscribed(context context.Context, viewerID, channelID string) (bool, error) {
	const query = "SELECT EXISTS(SELECT 1 FROM core.subscription WHERE subscriberid = $1 AND channelid = $2)"

	var exists bool
	if err := repository.pool.QueryRow(context, query, viewerID, channelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_stats_repo_is_subscribed_failed: %w", err)
	}

	return exists, nil
}
