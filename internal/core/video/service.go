// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"
	"io"
	"log/slog"

	"github.com/taibuivan/vidora/internal/media"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/slug"
	"github.com/taibuivan/vidora/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates the video catalogue use cases.
type Service struct {
	videoRepository VideoRepository
	watchRecorder   WatchRecorder
	uploader        media.Uploader
	logger          *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(videoRepo VideoRepository, recorder WatchRecorder, uploader media.Uploader, logger *slog.Logger) *Service {
	return &Service{
		videoRepository: videoRepo,
		watchRecorder:   recorder,
		uploader:        uploader,
		logger:          logger,
	}
}

// # Publication Flow

// FileInput carries one uploaded multipart file into the service layer.
type FileInput struct {
	Filename string
	Content  io.Reader
}

// PublishInput holds everything needed to publish a new video.
type PublishInput struct {
	Title       string
	Description string
	VideoFile   *FileInput // Required.
	Thumbnail   *FileInput // Required.
}

/*
Publish uploads the media files and persists a new video.

Description: Both files are pushed to the media gateway BEFORE the row is
created, so a failed upload never leaves a partial catalogue entry. The slug
is derived from the title.

Parameters:
  - context: context.Context
  - ownerID: string
  - input: PublishInput

Returns:
  - *Video: Created entity
  - err: UploadError or storage failures
*/
func (service *Service) Publish(context context.Context, ownerID string, input PublishInput) (*Video, error) {

	if input.VideoFile == nil {
		return nil, apperr.ValidationError("Video file is required", apperr.FieldError{Field: FieldVideoFile, Message: "is required"})
	}
	if input.Thumbnail == nil {
		return nil, apperr.ValidationError("Thumbnail file is required", apperr.FieldError{Field: FieldThumbnail, Message: "is required"})
	}

	// ── 1. Upload the primary video asset ─────────────────────────────────
	videoAsset, err := service.uploader.Upload(context, media.KindVideo, input.VideoFile.Filename, input.VideoFile.Content)
	if err != nil {
		return nil, apperr.UploadError("Video upload failed", err)
	}

	// ── 2. Upload the thumbnail ───────────────────────────────────────────
	thumbAsset, err := service.uploader.Upload(context, media.KindImage, input.Thumbnail.Filename, input.Thumbnail.Content)
	if err != nil {
		// Best effort: don't leave the orphaned video asset on the provider.
		_ = service.uploader.Destroy(context, media.KindVideo, videoAsset.PublicID)
		return nil, apperr.UploadError("Thumbnail upload failed", err)
	}

	// ── 3. Persist the catalogue entry ────────────────────────────────────
	video := &Video{
		ID:            uuidv7.New(),
		OwnerID:       ownerID,
		Title:         input.Title,
		Slug:          slug.From(input.Title),
		Description:   input.Description,
		VideoURL:      videoAsset.URL,
		ThumbnailURL:  thumbAsset.URL,
		VideoPublicID: videoAsset.PublicID,
		ThumbPublicID: thumbAsset.PublicID,
		Duration:      videoAsset.Duration,
		IsPublished:   true,
	}

	if err := service.videoRepository.Create(context, video); err != nil {
		return nil, err
	}

	service.logger.Info("video_published",
		slog.String("video_id", video.ID),
		slog.String("owner_id", ownerID),
	)

	return video, nil
}

// # Retrieval

/*
Get returns a single video and records the view.

Description: The view counter is incremented for every retrieval; when the
viewer is authenticated, the video is also pushed onto their watch history.
Both side effects are best-effort and never fail the read.

Parameters:
  - context: context.Context
  - videoID: string
  - viewerID: string (empty when anonymous)

Returns:
  - *Video: Hydrated entity
  - error: Not found or retrieval failures
*/
func (service *Service) Get(context context.Context, videoID, viewerID string) (*Video, error) {
	video, err := service.videoRepository.FindByID(context, videoID)
	if err != nil {
		return nil, err
	}

	// Drafts are only visible to their owner.
	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, apperr.NotFound("Video")
	}

	if err := service.videoRepository.IncrementViews(context, videoID); err == nil {
		video.Views++
	}

	if viewerID != "" {
		_ = service.watchRecorder.Push(context, viewerID, videoID)
	}

	return video, nil
}

/*
List returns a page of published videos, newest first.

Parameters:
  - context: context.Context
  - filter: ListFilter
  - params: pagination.Params

Returns:
  - []Video: Page of results
  - pagination.Meta: Page metadata
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, filter ListFilter, params pagination.Params) ([]Video, pagination.Meta, error) {
	filter.PublishedOnly = true

	videos, total, err := service.videoRepository.List(context, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return videos, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Mutation

// UpdateInput defines the mutable subset of video fields.
type UpdateInput struct {
	Title       *string
	Description *string
	Thumbnail   *FileInput
	IsPublished *bool
}

/*
Update applies owner-only changes to a video.

Description: Verifies ownership, optionally replaces the thumbnail through
the media gateway, and regenerates the slug when the title changes.

Parameters:
  - context: context.Context
  - videoID: string
  - callerID: string
  - input: UpdateInput

Returns:
  - *Video: Updated entity
  - error: Forbidden, NotFound, UploadError, or storage failures
*/
func (service *Service) Update(context context.Context, videoID, callerID string, input UpdateInput) (*Video, error) {
	video, err := service.videoRepository.FindByID(context, videoID)
	if err != nil {
		return nil, err
	}

	if video.OwnerID != callerID {
		return nil, apperr.Forbidden("Only the owner can modify this video")
	}

	// Apply delta updates
	if input.Title != nil {
		video.Title = *input.Title
		video.Slug = slug.From(*input.Title)
	}
	if input.Description != nil {
		video.Description = *input.Description
	}
	if input.IsPublished != nil {
		video.IsPublished = *input.IsPublished
	}

	if input.Thumbnail != nil {
		thumbAsset, err := service.uploader.Upload(context, media.KindImage, input.Thumbnail.Filename, input.Thumbnail.Content)
		if err != nil {
			return nil, apperr.UploadError("Thumbnail upload failed", err)
		}
		video.ThumbnailURL = thumbAsset.URL
		video.ThumbPublicID = thumbAsset.PublicID
	}

	if err := service.videoRepository.Update(context, video); err != nil {
		return nil, err
	}

	return video, nil
}

/*
Delete removes a video and its provider-side assets.

Description: Verifies ownership, deletes the row, then destroys the media
assets best-effort (an orphaned provider asset is preferable to a dangling
catalogue entry).

Parameters:
  - context: context.Context
  - videoID: string
  - callerID: string

Returns:
  - error: Forbidden, NotFound, or deletion failures
*/
func (service *Service) Delete(context context.Context, videoID, callerID string) error {
	video, err := service.videoRepository.FindByID(context, videoID)
	if err != nil {
		return err
	}

	if video.OwnerID != callerID {
		return apperr.Forbidden("Only the owner can delete this video")
	}

	if err := service.videoRepository.Delete(context, videoID); err != nil {
		return err
	}

	_ = service.uploader.Destroy(context, media.KindVideo, video.VideoPublicID)
	_ = service.uploader.Destroy(context, media.KindImage, video.ThumbPublicID)

	service.logger.Info("video_deleted",
		slog.String("video_id", videoID),
		slog.String("owner_id", callerID),
	)

	return nil
}
