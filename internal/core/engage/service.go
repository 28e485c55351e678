// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engage

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidora/internal/platform/apperr"
)

// # Service Layer

// Service orchestrates the engagement use cases.
type Service struct {
	likeRepository         LikeRepository
	subscriptionRepository SubscriptionRepository
	channelResolver        ChannelResolver
	logger                 *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(likeRepo LikeRepository, subscriptionRepo SubscriptionRepository, resolver ChannelResolver, logger *slog.Logger) *Service {
	return &Service{
		likeRepository:         likeRepo,
		subscriptionRepository: subscriptionRepo,
		channelResolver:        resolver,
		logger:                 logger,
	}
}

/*
ToggleVideoLike flips the caller's like on a video.

Parameters:
  - context: context.Context
  - userID: string
  - videoID: string

Returns:
  - bool: True when the video is now liked
  - error: NotFound or storage failures
*/
func (service *Service) ToggleVideoLike(context context.Context, userID, videoID string) (bool, error) {
	liked, err := service.likeRepository.ToggleVideoLike(context, userID, videoID)
	if err != nil {
		return false, err
	}

	service.logger.Info("video_like_toggled",
		slog.String("video_id", videoID),
		slog.Bool("liked", liked),
	)

	return liked, nil
}

/*
ToggleCommentLike flips the caller's like on a comment.

Parameters:
  - context: context.Context
  - userID: string
  - commentID: string

Returns:
  - bool: True when the comment is now liked
  - error: NotFound or storage failures
*/
func (service *Service) ToggleCommentLike(context context.Context, userID, commentID string) (bool, error) {
	return service.likeRepository.ToggleCommentLike(context, userID, commentID)
}

/*
ToggleSubscription flips the caller's subscription to a channel.

Description: The channel handle is resolved to an account ID first, and
subscribing to one's own channel is rejected.

Parameters:
  - context: context.Context
  - userID: string
  - username: string (channel handle)

Returns:
  - bool: True when now subscribed
  - error: NotFound, ValidationError, or storage failures
*/
func (service *Service) ToggleSubscription(context context.Context, userID, username string) (bool, error) {
	channelID, err := service.channelResolver.ResolveChannelID(context, username)
	if err != nil {
		return false, err
	}

	if channelID == userID {
		return false, apperr.ValidationError("You cannot subscribe to your own channel")
	}

	subscribed, err := service.subscriptionRepository.Toggle(context, userID, channelID)
	if err != nil {
		return false, err
	}

	service.logger.Info("subscription_toggled",
		slog.String("channel_id", channelID),
		slog.Bool("subscribed", subscribed),
	)

	return subscribed, nil
}
