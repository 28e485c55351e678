// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user profile management and channel presentation.

It provides functionality for users to view and update their private identity
data, replace their avatar and cover image, inspect their watch history, and
for anyone to view a public channel profile with subscription statistics.

# Architecture

  - Entities: ChannelProfile (DTO).
  - Domain: This package depends on the auth package for the User entity.
  - Storage: Postgres for accounts and subscription statistics, Redis for the
    per-user watch-history read model.
*/
package account

import (
	"context"

	"github.com/taibuivan/vidora/internal/users/auth"
)

// # Domain Entities

// ChannelProfile is the public presentation of a user as a channel.
//
// It combines the account's public fields with subscription statistics and
// the caller-specific IsSubscribed flag.
type ChannelProfile struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	FullName        string `json:"full_name"`
	AvatarURL       string `json:"avatar_url"`
	CoverImageURL   string `json:"cover_image_url,omitempty"`
	SubscriberCount int    `json:"subscriber_count"`
	SubscribedTo    int    `json:"subscribed_to_count"`
	IsSubscribed    bool   `json:"is_subscribed"`
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		FindByUsername retrieves a user record by their handle.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error
}

// ChannelStatsRepository defines the read contract for subscription statistics.
type ChannelStatsRepository interface {
	/*
		SubscriberCount returns how many users subscribe to the channel.

		Parameters:
		  - context: context.Context
		  - channelID: string

		Returns:
		  - int: Subscriber count
		  - error: Retrieval failures
	*/
	SubscriberCount(context context.Context, channelID string) (int, error)

	/*
		SubscribedToCount returns how many channels the user subscribes to.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - int: Subscribed-to count
		  - error: Retrieval failures
	*/
	SubscribedToCount(context context.Context, userID string) (int, error)

	/*
		IsSubscribed reports whether viewerID subscribes to channelID.

		Parameters:
		  - context: context.Context
		  - viewerID: string
		  - channelID: string

		Returns:
		  - bool: Subscription status
		  - error: Retrieval failures
	*/
	IsSubscribed(context context.Context, viewerID, channelID string) (bool, error)
}

// WatchHistoryRepository defines the contract for the volatile watch-history
// read model.
type WatchHistoryRepository interface {
	/*
		Push records that the user watched the video, moving it to the front
		of their history and de-duplicating older entries.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - videoID: string

		Returns:
		  - error: Storage failures
	*/
	Push(context context.Context, userID, videoID string) error

	/*
		List returns the user's watch history, most recent first.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - limit: int

		Returns:
		  - []string: Ordered video IDs
		  - error: Retrieval failures
	*/
	List(context context.Context, userID string, limit int) ([]string, error)
}
