// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session-token lifecycle.

It defines the core domain entity (User) and the logic for registration,
authentication, refresh-token rotation, and revocation.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered member of the Vidora platform.
//
// # Refresh Token Storage
//
// Each user has at most ONE live refresh token. Its SHA-256 digest is stored
// on the account row (RefreshTokenHash); issuing a new token overwrites the
// previous digest, which invalidates any older refresh token immediately.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"` // Stored lowercase.
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"` // Explicitly omitted from JSON for security.
	FullName         string    `json:"full_name"`
	AvatarURL        string    `json:"avatar_url"`
	CoverImageURL    string    `json:"cover_image_url,omitempty"`
	RefreshTokenHash string    `json:"-"` // Digest of the live refresh token. Omitted for security.
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldFullName     = "fullname"
	FieldAvatar       = "avatar"
	FieldCoverImage   = "coverImage"
	FieldRefreshToken = "refreshToken"
	FieldAccessToken  = "accessToken"
	FieldUser         = "user"
)
