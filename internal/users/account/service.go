// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/taibuivan/vidora/internal/media"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for user profiles and channels.
//
// It ensures that profile updates, image replacement, and channel statistics
// follow established business constraints.
type Service struct {
	accountRepository AccountRepository
	statsRepository   ChannelStatsRepository
	historyRepository WatchHistoryRepository
	uploader          media.Uploader
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	accountRepo AccountRepository,
	statsRepo ChannelStatsRepository,
	historyRepo WatchHistoryRepository,
	uploader media.Uploader,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		statsRepository:   statsRepo,
		historyRepository: historyRepo,
		uploader:          uploader,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
type UpdateProfileInput struct {
	FullName *string
	Email    *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.FullName != nil {
		user.FullName = *input.FullName
	}

	// Apply delta updates
	if input.Email != nil {
		user.Email = *input.Email
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

/*
UpdateAvatar replaces the user's avatar via the media gateway.

Description: The new image is uploaded first; only after a successful upload
is the account row updated, so a failed upload never clears the old avatar.

Parameters:
  - context: context.Context
  - userID: string
  - filename: string
  - file: io.Reader

Returns:
  - *auth.User: The updated user profile
  - error: UploadError or storage failures
*/
func (service *Service) UpdateAvatar(context context.Context, userID, filename string, file io.Reader) (*auth.User, error) {
	return service.updateImage(context, userID, filename, file, func(user *auth.User, url string) {
		user.AvatarURL = url
	})
}

/*
UpdateCoverImage replaces the user's cover image via the media gateway.

Parameters:
  - context: context.Context
  - userID: string
  - filename: string
  - file: io.Reader

Returns:
  - *auth.User: The updated user profile
  - error: UploadError or storage failures
*/
func (service *Service) UpdateCoverImage(context context.Context, userID, filename string, file io.Reader) (*auth.User, error) {
	return service.updateImage(context, userID, filename, file, func(user *auth.User, url string) {
		user.CoverImageURL = url
	})
}

// updateImage is the shared upload-then-update flow for profile images.
func (service *Service) updateImage(context context.Context, userID, filename string, file io.Reader, apply func(*auth.User, string)) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	asset, err := service.uploader.Upload(context, media.KindImage, filename, file)
	if err != nil {
		return nil, apperr.UploadError("Image upload failed", err)
	}

	apply(user, asset.URL)

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_image_updated", slog.String("user_id", userID))

	return user, nil
}

// # Channel Presentation

/*
GetChannelProfile builds the public channel view of a user.

Description: Resolves the channel by handle, then attaches subscription
statistics and the viewer-specific IsSubscribed flag. The viewerID may be
empty for anonymous requests.

Parameters:
  - context: context.Context
  - username: string
  - viewerID: string (empty when anonymous)

Returns:
  - *ChannelProfile: Public channel presentation
  - error: Not found or retrieval failures
*/
func (service *Service) GetChannelProfile(context context.Context, username, viewerID string) (*ChannelProfile, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	subscriberCount, err := service.statsRepository.SubscriberCount(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("account_service_subscriber_count_failed: %w", err)
	}

	subscribedTo, err := service.statsRepository.SubscribedToCount(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("account_service_subscribed_to_count_failed: %w", err)
	}

	isSubscribed := false
	if viewerID != "" {
		isSubscribed, err = service.statsRepository.IsSubscribed(context, viewerID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("account_service_is_subscribed_failed: %w", err)
		}
	}

	return &ChannelProfile{
		ID:              user.ID,
		Username:        user.Username,
		FullName:        user.FullName,
		AvatarURL:       user.AvatarURL,
		CoverImageURL:   user.CoverImageURL,
		SubscriberCount: subscriberCount,
		SubscribedTo:    subscribedTo,
		IsSubscribed:    isSubscribed,
	}, nil
}

// # Watch History

/*
GetWatchHistory lists the user's recently watched video IDs, newest first.

Parameters:
  - context: context.Context
  - userID: string
  - limit: int

Returns:
  - []string: Ordered video IDs
  - error: Retrieval failures
*/
func (service *Service) GetWatchHistory(context context.Context, userID string, limit int) ([]string, error) {
	history, err := service.historyRepository.List(context, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("account_service_watch_history_failed: %w", err)
	}
	return history, nil
}
