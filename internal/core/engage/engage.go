// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package engage implements the engagement surface: like toggles on videos
and comments, and channel subscriptions.

Both operations are idempotent toggles. Repeating a like or subscribe call
flips the state back rather than erroring, so clients never need to track
whether the relationship already exists.

# Architecture

  - Service: Self-subscription guard and channel handle resolution.
  - Repository: Postgres-backed toggle semantics over unique pairs.
*/
package engage

import "context"

// # Field Identifiers

const (
	FieldUsername  = "username"
	FieldVideoID   = "videoID"
	FieldCommentID = "commentID"
)

// # Repository Contracts

// LikeRepository defines the data access contract for like toggles.
type LikeRepository interface {

	/*
		ToggleVideoLike flips the caller's like on a video.

		Parameters:
		  - context: context.Context
		  - likerID: string
		  - videoID: string

		Returns:
		  - bool: True when the video is now liked, false when unliked
		  - error: apperr.NotFound for an unknown video, or storage failures
	*/
	ToggleVideoLike(context context.Context, likerID, videoID string) (bool, error)

	/*
		ToggleCommentLike flips the caller's like on a comment.

		Parameters:
		  - context: context.Context
		  - likerID: string
		  - commentID: string

		Returns:
		  - bool: True when the comment is now liked, false when unliked
		  - error: apperr.NotFound for an unknown comment, or storage failures
	*/
	ToggleCommentLike(context context.Context, likerID, commentID string) (bool, error)
}

// SubscriptionRepository defines the data access contract for subscriptions.
type SubscriptionRepository interface {

	/*
		Toggle flips the subscriber's relationship with a channel.

		Parameters:
		  - context: context.Context
		  - subscriberID: string
		  - channelID: string

		Returns:
		  - bool: True when now subscribed, false when unsubscribed
		  - error: Storage failures
	*/
	Toggle(context context.Context, subscriberID, channelID string) (bool, error)
}

// ChannelResolver maps a channel handle to the owning account ID.
type ChannelResolver interface {
	// ResolveChannelID returns the account ID for a username, or apperr.NotFound.
	ResolveChannelID(context context.Context, username string) (string, error)
}
