// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment implements threaded discussion under videos.

Listings are enriched with a per-comment like count and a viewer-specific
IsLiked flag, computed in a single query against the like table.

# Architecture

  - Entities: Comment.
  - Service: Ownership checks and video-existence validation.
  - Repository: Postgres-backed persistence with offset pagination.
*/
package comment

import (
	"context"
	"time"

	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Domain Entities

// Comment represents a user comment under a video.
//
// LikeCount and IsLiked are read-model fields populated by listing queries;
// they are not stored on the comment row itself.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	OwnerID   string    `json:"owner_id"`
	Content   string    `json:"content"`
	LikeCount int       `json:"like_count"`
	IsLiked   bool      `json:"is_liked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldContent   = "content"
	FieldCommentID = "commentID"
	FieldVideoID   = "videoID"
)

// MaxContentLength bounds a single comment body.
const MaxContentLength = 2000

// # Repository Contracts

// CommentRepository defines the data access contract for comments.
type CommentRepository interface {

	/*
		Create persists a new comment row.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, comment *Comment) error

	/*
		FindByID returns the comment with the given ID (no like enrichment).

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Comment: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Comment, error)

	/*
		ListByVideo returns a page of comments for a video, newest first,
		enriched with like counts and the viewer's IsLiked flag.

		Parameters:
		  - context: context.Context
		  - videoID: string
		  - viewerID: string (empty when anonymous)
		  - params: pagination.Params

		Returns:
		  - []Comment: Page of enriched results
		  - int: Total comment count for the video
		  - error: Retrieval failures
	*/
	ListByVideo(context context.Context, videoID, viewerID string, params pagination.Params) ([]Comment, int, error)

	/*
		Update persists a changed comment body.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, comment *Comment) error

	/*
		Delete removes the comment row permanently.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, id string) error
}

// VideoChecker verifies that a target video exists before a comment is attached.
type VideoChecker interface {
	// Exists reports whether a published video with the ID exists.
	Exists(context context.Context, videoID string) (bool, error)
}
