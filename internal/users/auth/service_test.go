// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/media"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

// # Test Doubles

// fakeUserRepository is an in-memory UserRepository with real CAS semantics
// for the refresh-token digest.
type fakeUserRepository struct {
	users map[string]*User // keyed by ID
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*User{}}
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := repository.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found with this email")
}

func (repository *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, user := range repository.users {
		if user.Username == strings.ToLower(username) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found with this username")
}

func (repository *fakeUserRepository) Create(_ context.Context, user *User) error {
	repository.users[user.ID] = user
	return nil
}

func (repository *fakeUserRepository) Update(_ context.Context, user *User) error {
	repository.users[user.ID] = user
	return nil
}

func (repository *fakeUserRepository) SetRefreshTokenHash(_ context.Context, userID, tokenHash string) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User not found")
	}
	user.RefreshTokenHash = tokenHash
	return nil
}

func (repository *fakeUserRepository) RotateRefreshTokenHash(_ context.Context, userID, oldHash, newHash string) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User not found")
	}
	if user.RefreshTokenHash != oldHash {
		return ErrTokenStale
	}
	user.RefreshTokenHash = newHash
	return nil
}

func (repository *fakeUserRepository) ClearRefreshTokenHash(_ context.Context, userID string) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User not found")
	}
	user.RefreshTokenHash = ""
	return nil
}

// fakeUploader records uploads and can be primed to fail.
type fakeUploader struct {
	failNext bool
	uploads  int
}

func (uploader *fakeUploader) Upload(_ context.Context, _ media.Kind, filename string, _ io.Reader) (*media.Asset, error) {
	if uploader.failNext {
		uploader.failNext = false
		return nil, errors.New("provider unreachable")
	}
	uploader.uploads++
	return &media.Asset{URL: "https://cdn.example/" + filename, PublicID: "vidora/" + filename}, nil
}

func (uploader *fakeUploader) Destroy(_ context.Context, _ media.Kind, _ string) error {
	return nil
}

// # Fixtures

func newTestService(t *testing.T) (*Service, *fakeUserRepository, *fakeUploader) {
	t.Helper()

	tokenService, err := sec.NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", "vidora.test")
	require.NoError(t, err)

	repository := newFakeUserRepository()
	uploader := &fakeUploader{}

	return NewService(repository, tokenService, uploader), repository, uploader
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
		FullName: "Alice Example",
		Avatar:   &FileInput{Filename: "avatar.png", Content: strings.NewReader("png")},
	}
}

func registerTestUser(t *testing.T, service *Service) *User {
	t.Helper()
	user, err := service.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	return user
}

// # Registration

func TestRegister_Success(t *testing.T) {
	service, repository, _ := newTestService(t)

	user, err := service.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "https://cdn.example/avatar.png", user.AvatarURL)
	assert.Empty(t, user.CoverImageURL)

	stored, err := repository.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash, "password must never be stored in plain text")
	assert.True(t, sec.CheckPasswordHash("correct-horse", stored.PasswordHash))
}

func TestRegister_LowercasesUsername(t *testing.T) {
	service, _, _ := newTestService(t)

	input := validRegisterInput()
	input.Username = "AlIcE"

	user, err := service.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestRegister_DuplicateIdentityConflicts(t *testing.T) {
	service, _, _ := newTestService(t)
	registerTestUser(t, service)

	testCases := []struct {
		name     string
		mutate   func(*RegisterInput)
		wantMsg  string
		wantCode string
	}{
		{
			name:    "duplicate email",
			mutate:  func(input *RegisterInput) { input.Username = "someone-else" },
			wantMsg: "Email is already registered",
		},
		{
			name:    "duplicate username",
			mutate:  func(input *RegisterInput) { input.Email = "other@example.com" },
			wantMsg: "Username is already taken",
		},
		{
			name: "duplicate username different case",
			mutate: func(input *RegisterInput) {
				input.Email = "other@example.com"
				input.Username = "ALICE"
			},
			wantMsg: "Username is already taken",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			input := validRegisterInput()
			testCase.mutate(&input)

			_, err := service.Register(context.Background(), input)
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "CONFLICT", appError.Code)
			assert.Equal(t, testCase.wantMsg, appError.Message)
		})
	}
}

func TestRegister_MissingAvatarIsValidationError(t *testing.T) {
	service, repository, _ := newTestService(t)

	input := validRegisterInput()
	input.Avatar = nil

	_, err := service.Register(context.Background(), input)
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)

	assert.Empty(t, repository.users, "no user row may exist after a failed registration")
}

func TestRegister_AvatarUploadFailureLeavesNoUserRow(t *testing.T) {
	service, repository, uploader := newTestService(t)
	uploader.failNext = true

	_, err := service.Register(context.Background(), validRegisterInput())
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UPLOAD_ERROR", appError.Code)

	assert.Empty(t, repository.users, "a failed required upload must not create a user")
}

func TestRegister_CoverImageUploadIsOptionalAndNonFatal(t *testing.T) {
	service, _, uploader := newTestService(t)

	input := validRegisterInput()
	input.CoverImage = &FileInput{Filename: "cover.png", Content: strings.NewReader("png")}

	user, err := service.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/cover.png", user.CoverImageURL)
	assert.Equal(t, 2, uploader.uploads)
}

func TestUser_PasswordAndTokenHashNeverSerialized(t *testing.T) {
	service, _, _ := newTestService(t)
	user := registerTestUser(t, service)
	user.RefreshTokenHash = "deadbeef"

	serialized, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(serialized), "password")
	assert.NotContains(t, string(serialized), user.PasswordHash)
	assert.NotContains(t, string(serialized), "deadbeef")
}

// # Login

func TestLogin_ByUsernameAndByEmail(t *testing.T) {
	service, _, _ := newTestService(t)
	registerTestUser(t, service)

	testCases := []struct {
		name  string
		input LoginInput
	}{
		{name: "by username", input: LoginInput{Username: "alice", Password: "correct-horse"}},
		{name: "by email", input: LoginInput{Email: "alice@example.com", Password: "correct-horse"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			session, err := service.Login(context.Background(), testCase.input)
			require.NoError(t, err)

			assert.NotEmpty(t, session.AccessToken)
			assert.NotEmpty(t, session.RefreshToken)
			assert.Equal(t, "alice", session.User.Username)
		})
	}
}

func TestLogin_UnknownAccountIsNotFound(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Login(context.Background(), LoginInput{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	service, _, _ := newTestService(t)
	registerTestUser(t, service)

	_, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "wrong-battery"})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

func TestLogin_StoresRefreshTokenDigest(t *testing.T) {
	service, repository, _ := newTestService(t)
	user := registerTestUser(t, service)

	session, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	stored := repository.users[user.ID]
	assert.Equal(t, sec.HashToken(session.RefreshToken), stored.RefreshTokenHash)
	assert.NotEqual(t, session.RefreshToken, stored.RefreshTokenHash, "the raw token must never be persisted")
}

func TestLogin_OverwritesPreviousRefreshToken(t *testing.T) {
	service, _, _ := newTestService(t)
	registerTestUser(t, service)

	first, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	// The first session's refresh token was displaced by the second login.
	_, err = service.RefreshSession(context.Background(), first.RefreshToken)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

// # Refresh Rotation

func TestRefreshSession_RotatesAndIsSingleUse(t *testing.T) {
	service, _, _ := newTestService(t)
	registerTestUser(t, service)

	session, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	// First rotation succeeds and yields a different pair.
	rotated, err := service.RefreshSession(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// Replaying the consumed token must fail: it is stale after rotation.
	_, err = service.RefreshSession(context.Background(), session.RefreshToken)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)

	// The rotated replacement still works.
	_, err = service.RefreshSession(context.Background(), rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshSession_GarbageTokenIsUnauthorized(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.RefreshSession(context.Background(), "not-a-jwt-at-all")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

func TestRefreshSession_AccessTokenRejectedAsRefreshToken(t *testing.T) {
	service, _, _ := newTestService(t)
	registerTestUser(t, service)

	session, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	// The two token classes are signed with independent secrets.
	_, err = service.RefreshSession(context.Background(), session.AccessToken)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

// # Revocation

func TestLogout_RevokesOutstandingRefreshToken(t *testing.T) {
	service, repository, _ := newTestService(t)
	user := registerTestUser(t, service)

	session, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), user.ID))
	assert.Empty(t, repository.users[user.ID].RefreshTokenHash)

	// The previously issued refresh token is dead.
	_, err = service.RefreshSession(context.Background(), session.RefreshToken)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}
