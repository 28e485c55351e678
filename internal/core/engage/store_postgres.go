// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/pkg/uuidv7"
)

// # Like Repository

// PostgresLikeRepository implements the LikeRepository interface using pgx.
type PostgresLikeRepository struct {
	pool *pgxpool.Pool
}

// NewLikeRepository creates a new PostgreSQL implementation of the LikeRepository.
func NewLikeRepository(pool *pgxpool.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

/*
ToggleVideoLike flips the caller's like on a video.

Description: A DELETE is attempted first; zero rows removed means the like
did not exist yet, so an INSERT follows. The insert selects its target from
core.video filtered on publication, so draft and deleted videos alike
produce zero inserted rows and map to NotFound.
*/
func (repository *PostgresLikeRepository) ToggleVideoLike(context context.Context, likerID, videoID string) (bool, error) {
	const deleteQuery = "DELETE FROM core.like WHERE likerid = $1 AND videoid = $2"
	const insertQuery = `
		INSERT INTO core.like (id, likerid, videoid)
		SELECT $1, $2, v.id
		FROM core.video v
		WHERE v.id = $3 AND v.ispublished = TRUE`

	return repository.toggle(context, deleteQuery, insertQuery, likerID, videoID, "Video")
}

/*
ToggleCommentLike flips the caller's like on a comment.

Description: Same sequence as video likes; the comment's parent video must
still be published for the like to land.
*/
func (repository *PostgresLikeRepository) ToggleCommentLike(context context.Context, likerID, commentID string) (bool, error) {
	const deleteQuery = "DELETE FROM core.like WHERE likerid = $1 AND commentid = $2"
	const insertQuery = `
		INSERT INTO core.like (id, likerid, commentid)
		SELECT $1, $2, c.id
		FROM core.comment c
		JOIN core.video v ON v.id = c.videoid
		WHERE c.id = $3 AND v.ispublished = TRUE`

	return repository.toggle(context, deleteQuery, insertQuery, likerID, commentID, "Comment")
}

// toggle runs the delete-then-insert sequence shared by both like targets.
//
// The insert is a guarded INSERT ... SELECT: zero inserted rows means the
// target does not exist (or is not likeable) and maps to NotFound.
func (repository *PostgresLikeRepository) toggle(context context.Context, deleteQuery, insertQuery, likerID, targetID, resource string) (bool, error) {
	tag, err := repository.pool.Exec(context, deleteQuery, likerID, targetID)
	if err != nil {
		return false, fmt.Errorf("postgres_like_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	tag, err = repository.pool.Exec(context, insertQuery, uuidv7.New(), likerID, targetID)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return false, apperr.NotFound(resource)
		}
		return false, fmt.Errorf("postgres_like_repo_insert_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, apperr.NotFound(resource)
	}

	return true, nil
}

// # Subscription Repository

// PostgresSubscriptionRepository implements the SubscriptionRepository interface using pgx.
type PostgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new PostgreSQL implementation of the SubscriptionRepository.
func NewSubscriptionRepository(pool *pgxpool.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

/*
Toggle flips the subscriber's relationship with a channel.

Parameters:
  - context: context.Context
  - subscriberID: string
  - channelID: string

Returns:
  - bool: True when now subscribed, false when unsubscribed
  - error: Execution failures
*/
func (repository *PostgresSubscriptionRepository) Toggle(context context.Context, subscriberID, channelID string) (bool, error) {
	const deleteQuery = "DELETE FROM core.subscription WHERE subscriberid = $1 AND channelid = $2"
	const insertQuery = "INSERT INTO core.subscription (id, subscriberid, channelid) VALUES ($1, $2, $3)"

	tag, err := repository.pool.Exec(context, deleteQuery, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("postgres_subscription_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	// A racing duplicate subscribe or a just-deleted channel surfaces as a
	// constraint violation; dberr classifies it into a client-safe error.
	if _, err := repository.pool.Exec(context, insertQuery, uuidv7.New(), subscriberID, channelID); err != nil {
		return false, dberr.Wrap(err, "subscription_toggle_insert")
	}

	return true, nil
}

// # Channel Resolver

// PostgresChannelResolver resolves channel handles against the users.account table.
type PostgresChannelResolver struct {
	pool *pgxpool.Pool
}

// NewChannelResolver creates a new PostgreSQL implementation of the ChannelResolver.
func NewChannelResolver(pool *pgxpool.Pool) *PostgresChannelResolver {
	return &PostgresChannelResolver{pool: pool}
}

/*
ResolveChannelID returns the account ID for a username.

Parameters:
  - context: context.Context
  - username: string (matched case-insensitively)

Returns:
  - string: Account ID
  - error: apperr.NotFound or execution failures
*/
func (resolver *PostgresChannelResolver) ResolveChannelID(context context.Context, username string) (string, error) {
	const query = "SELECT id FROM users.account WHERE username = LOWER($1)"

	var channelID string
	err := resolver.pool.QueryRow(context, query, username).Scan(&channelID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("Channel")
		}
		return "", fmt.Errorf("postgres_channel_resolver_failed: %w", err)
	}

	return channelID, nil
}
