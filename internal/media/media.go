// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media provides the gateway to the external media storage service.

It abstracts file uploads (avatars, cover images, video files, thumbnails)
behind a small interface so that domain services never deal with multipart
encoding or provider credentials directly.

# Architecture

  - Uploader: The port consumed by domain services.
  - cloudinaryUploader: The REST adapter for a Cloudinary-compatible provider.

Domain services receive an [Uploader] at construction time, which keeps them
trivially testable with in-memory fakes.
*/
package media

import (
	"context"
	"io"
)

// Kind classifies an upload so the gateway can route it to the right
// resource type on the provider side.
type Kind string

const (
	// KindImage covers avatars, cover images, and thumbnails.
	KindImage Kind = "image"
	// KindVideo covers the primary video file of a publication.
	KindVideo Kind = "video"
)

// Asset is the provider-side record of a successfully uploaded file.
type Asset struct {
	// URL is the publicly servable HTTPS URL of the asset.
	URL string `json:"url"`
	// PublicID is the provider's identifier, required for later deletion.
	PublicID string `json:"public_id"`
	// Bytes is the stored size of the asset.
	Bytes int64 `json:"bytes"`
	// Duration is the playable length in seconds. Zero for images.
	Duration float64 `json:"duration"`
}

// Uploader is the port for pushing and removing files on the media provider.
type Uploader interface {
	// Upload streams the file to the provider and returns the stored asset.
	// The filename is used as a hint for the provider's public ID.
	Upload(ctx context.Context, kind Kind, filename string, file io.Reader) (*Asset, error)

	// Destroy removes a previously uploaded asset by its public ID.
	// Destroying an already-removed asset is not an error.
	Destroy(ctx context.Context, kind Kind, publicID string) error
}
