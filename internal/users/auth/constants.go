// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Token Lifetimes

const (
	// AccessTokenTTL is the lifetime of a short-lived JWT access token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the lifetime of a long-lived JWT refresh token.
	// A revoked or rotated token dies earlier via the stored-hash check.
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// # Input Limits

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// MaxUsernameLength bounds usernames to keep URLs and indexes sane.
	MaxUsernameLength = 30

	// MinUsernameLength avoids single-character vanity handles.
	MinUsernameLength = 3
)
