// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates the comment use cases.
type Service struct {
	commentRepository CommentRepository
	videoChecker      VideoChecker
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(commentRepo CommentRepository, checker VideoChecker, logger *slog.Logger) *Service {
	return &Service{
		commentRepository: commentRepo,
		videoChecker:      checker,
		logger:            logger,
	}
}

/*
Create attaches a new comment to a video.

Description: The target video must exist and be published; commenting on an
unknown or draft video yields NotFound rather than a dangling row.

Parameters:
  - context: context.Context
  - videoID: string
  - ownerID: string
  - content: string

Returns:
  - *Comment: Created entity
  - error: NotFound or storage failures
*/
func (service *Service) Create(context context.Context, videoID, ownerID, content string) (*Comment, error) {
	exists, err := service.videoChecker.Exists(context, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Video")
	}

	comment := &Comment{
		ID:      uuidv7.New(),
		VideoID: videoID,
		OwnerID: ownerID,
		Content: content,
	}

	if err := service.commentRepository.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("video_id", videoID),
	)

	return comment, nil
}

/*
ListByVideo returns a page of a video's comments, newest first.

Parameters:
  - context: context.Context
  - videoID: string
  - viewerID: string (empty when anonymous)
  - params: pagination.Params

Returns:
  - []Comment: Page of enriched results
  - pagination.Meta: Page metadata
  - error: NotFound or retrieval failures
*/
func (service *Service) ListByVideo(context context.Context, videoID, viewerID string, params pagination.Params) ([]Comment, pagination.Meta, error) {
	exists, err := service.videoChecker.Exists(context, videoID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if !exists {
		return nil, pagination.Meta{}, apperr.NotFound("Video")
	}

	comments, total, err := service.commentRepository.ListByVideo(context, videoID, viewerID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return comments, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Update changes a comment's body. Only the author may edit.

Parameters:
  - context: context.Context
  - commentID: string
  - callerID: string
  - content: string

Returns:
  - *Comment: Updated entity
  - error: Forbidden, NotFound, or storage failures
*/
func (service *Service) Update(context context.Context, commentID, callerID, content string) (*Comment, error) {
	comment, err := service.commentRepository.FindByID(context, commentID)
	if err != nil {
		return nil, err
	}

	if comment.OwnerID != callerID {
		return nil, apperr.Forbidden("Only the author can edit this comment")
	}

	comment.Content = content
	if err := service.commentRepository.Update(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

/*
Delete removes a comment. Only the author may delete.

Parameters:
  - context: context.Context
  - commentID: string
  - callerID: string

Returns:
  - error: Forbidden, NotFound, or deletion failures
*/
func (service *Service) Delete(context context.Context, commentID, callerID string) error {
	comment, err := service.commentRepository.FindByID(context, commentID)
	if err != nil {
		return err
	}

	if comment.OwnerID != callerID {
		return apperr.Forbidden("Only the author can delete this comment")
	}

	if err := service.commentRepository.Delete(context, commentID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted",
		slog.String("comment_id", commentID),
		slog.String("video_id", comment.VideoID),
	)

	return nil
}
