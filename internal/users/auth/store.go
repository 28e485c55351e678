// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
)

// ErrTokenStale is returned by [UserRepository.RotateRefreshTokenHash] when
// the stored hash no longer matches the presented one. It signals that the
// token was already rotated or revoked and must not be honored again.
var ErrTokenStale = errors.New("auth: refresh token is stale")

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.
		Lookup is case-insensitive; usernames are stored lowercase.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (unique violations map to Conflict)
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable profile fields.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		SetRefreshTokenHash unconditionally overwrites the stored refresh-token
		digest for the user. Used at login, where a fresh session replaces
		whatever token was live before.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string

		Returns:
		  - error: Persistence failures
	*/
	SetRefreshTokenHash(context context.Context, userID, tokenHash string) error

	/*
		RotateRefreshTokenHash atomically replaces the stored digest ONLY IF it
		still equals oldHash (compare-and-swap). Exactly one of two concurrent
		rotations with the same old token can win.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - oldHash: string
		  - newHash: string

		Returns:
		  - error: ErrTokenStale when the stored digest differs, or persistence failures
	*/
	RotateRefreshTokenHash(context context.Context, userID, oldHash, newHash string) error

	/*
		ClearRefreshTokenHash removes the stored digest, revoking every
		outstanding refresh token for the user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearRefreshTokenHash(context context.Context, userID string) error
}
