// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Core identity and access management for the Vidora platform.

It handles everything from user registration and secure password hashing to
the session-token lifecycle: issuing JWT access/refresh pairs, rotating the
refresh token via an atomic compare-and-swap, and revocation at logout.

Architecture:

  - Service: Orchestrates business logic (Register, Login, RefreshSession).
  - Repository: Abstracted interface for Postgres (Users).
  - Security: Leverages bcrypt hashing and HS256-signed JWTs with
    independent access and refresh secrets.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/

package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/taibuivan/vidora/internal/media"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating and verifying security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed short-lived JWT for the given user.
	GenerateAccessToken(userID, username string, timeToLive time.Duration) (string, error)

	// GenerateRefreshToken creates a signed long-lived JWT carrying only the user ID.
	GenerateRefreshToken(userID string, timeToLive time.Duration) (string, error)

	// VerifyRefreshToken checks signature and expiry of a refresh token string.
	// It deliberately does NOT consult storage; hash equality is the service's job.
	VerifyRefreshToken(tokenString string) (*sec.AuthClaims, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or token rotation logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	uploader       media.Uploader
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider, uploader media.Uploader) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		uploader:       uploader,
	}
}

// # Registration Flow

// FileInput carries one uploaded multipart file into the service layer.
type FileInput struct {
	Filename string
	Content  io.Reader
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	FullName   string
	Avatar     *FileInput // Required.
	CoverImage *FileInput // Optional.
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member. The avatar is pushed to the
media gateway BEFORE the account row is created, so a failed required upload
never leaves a partial user behind.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists), UploadError, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Usernames are canonically lowercase across the platform.
	username := strings.ToLower(strings.TrimSpace(input.Username))

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByUsername(context, username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// The avatar is a hard requirement for a publishable channel profile.
	if input.Avatar == nil {
		return nil, apperr.ValidationError("Avatar file is required", apperr.FieldError{
			Field:   FieldAvatar,
			Message: "is required",
		})
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Push the avatar to the media gateway before touching the database.
	avatarAsset, err := service.uploader.Upload(context, media.KindImage, input.Avatar.Filename, input.Avatar.Content)
	if err != nil {
		return nil, apperr.UploadError("Avatar upload failed", err)
	}

	// The cover image is optional; a failed upload degrades to an empty URL.
	coverImageURL := ""
	if input.CoverImage != nil {
		if coverAsset, coverErr := service.uploader.Upload(context, media.KindImage, input.CoverImage.Filename, input.CoverImage.Content); coverErr == nil {
			coverImageURL = coverAsset.URL
		}
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:            uuidv7.New(),
		Username:      username,
		Email:         input.Email,
		PasswordHash:  hashedPassword,
		FullName:      input.FullName,
		AvatarURL:     avatarAsset.URL,
		CoverImageURL: coverImageURL,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
// Either Username or Email identifies the account; at least one must be set.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues a fresh token pair.

Description: Verifies identity, performs constant-time password comparison,
and overwrites the stored refresh-token digest with the new session's.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: NotFound (unknown account), Unauthorized (bad password), or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// Resolve the account by whichever identifier was supplied.
	var user *User
	var err error
	if input.Username != "" {
		user, err = service.userRepository.FindByUsername(context, input.Username)
	} else {
		user, err = service.userRepository.FindByEmail(context, input.Email)
	}

	// An unknown account surfaces as NotFound; a wrong password as Unauthorized.
	if err != nil {
		return nil, err
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.issueTokenPair(context, user)
}

/*
Logout permanently revokes the user's live refresh token.

Description: Clears the stored digest, so every outstanding refresh token
dies immediately. Access tokens already in flight run to their natural
expiry (a bounded staleness window of at most [AccessTokenTTL]).

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.userRepository.ClearRefreshTokenHash(context, userID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
RefreshSession implements the Refresh Token Rotation mechanism.

Description: Verifies the presented refresh token cryptographically, then
rotates the stored digest with an atomic compare-and-swap so that each
refresh token is usable exactly once. A lost race, a revoked session, and a
forged token all collapse into the same Unauthorized error to avoid giving
an attacker an oracle.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *LoginSession: New session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken string) (*LoginSession, error) {

	// ── 1. Cryptographic verification (signature + expiry) ────────────────
	claims, err := service.tokenProvider.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 2. Resolve the account named by the token ─────────────────────────
	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 3. Mint the replacement pair ──────────────────────────────────────
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	newRefreshToken, err := service.tokenProvider.GenerateRefreshToken(user.ID, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// ── 4. Atomic rotation (single-use guarantee) ─────────────────────────
	oldHash := sec.HashToken(refreshToken)
	newHash := sec.HashToken(newRefreshToken)
	if err := service.userRepository.RotateRefreshTokenHash(context, user.ID, oldHash, newHash); err != nil {
		if errors.Is(err, ErrTokenStale) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, fmt.Errorf("auth_service_refresh_rotate_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          newRefreshToken,
		RefreshTokenExpiresAt: time.Now().Add(RefreshTokenTTL),
		User:                  user,
	}, nil
}

// issueTokenPair mints a fresh access/refresh pair and stores the refresh digest.
//
// Used by the login path, where the overwrite is unconditional: logging in
// invalidates whatever refresh token was live before.
func (service *Service) issueTokenPair(context context.Context, user *User) (*LoginSession, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenProvider.GenerateRefreshToken(user.ID, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	if err := service.userRepository.SetRefreshTokenHash(context, user.ID, sec.HashToken(refreshToken)); err != nil {
		return nil, fmt.Errorf("auth_service_store_refresh_hash_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: time.Now().Add(RefreshTokenTTL),
		User:                  user,
	}, nil
}
