// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package video implements the publication catalogue of the platform.

It covers the full lifecycle of a video: multipart upload through the media
gateway, slug generation, listing and retrieval with view counting, owner-only
mutation, and deletion.

# Architecture

  - Entities: Video.
  - Service: Orchestrates uploads, ownership checks, and view recording.
  - Repository: Postgres-backed persistence with offset pagination.
*/
package video

import (
	"context"
	"time"

	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Domain Entities

// Video represents a published or draft video on the platform.
type Video struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	VideoURL      string    `json:"video_url"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	VideoPublicID string    `json:"-"` // Provider handle, needed for deletion.
	ThumbPublicID string    `json:"-"`
	Duration      float64   `json:"duration"`
	Views         int64     `json:"views"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldVideoFile   = "videoFile"
	FieldThumbnail   = "thumbnail"
	FieldVideoID     = "videoID"
)

// ListFilter narrows a catalogue listing.
type ListFilter struct {
	// OwnerID restricts the listing to a single channel when non-empty.
	OwnerID string
	// PublishedOnly hides drafts. Always true for public listings.
	PublishedOnly bool
}

// # Repository Contracts

// VideoRepository defines the data access contract for videos.
type VideoRepository interface {

	/*
		Create persists a brand-new video row.

		Parameters:
		  - context: context.Context
		  - video: *Video

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, video *Video) error

	/*
		FindByID returns the video with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Video: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Video, error)

	/*
		List returns a page of videos matching the filter, newest first,
		along with the total match count.

		Parameters:
		  - context: context.Context
		  - filter: ListFilter
		  - params: pagination.Params

		Returns:
		  - []Video: Page of results
		  - int: Total match count
		  - error: Retrieval failures
	*/
	List(context context.Context, filter ListFilter, params pagination.Params) ([]Video, int, error)

	/*
		Update persists changes to mutable video fields.

		Parameters:
		  - context: context.Context
		  - video: *Video

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, video *Video) error

	/*
		Delete removes the video row permanently.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, id string) error

	/*
		IncrementViews bumps the view counter by one.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	IncrementViews(context context.Context, id string) error
}

// WatchRecorder receives watch events for the per-user history read model.
type WatchRecorder interface {
	// Push records that the user watched the video.
	Push(context context.Context, userID, videoID string) error
}
