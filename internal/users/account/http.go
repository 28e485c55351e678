// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/internal/users/auth"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements profile and channel HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// MeRoutes returns the authenticated self-profile routes (mounted at /users/me).
//
// # Endpoints
//   - GET    /               : Current user's profile.
//   - PATCH  /               : Update fullname/email.
//   - PATCH  /avatar         : Replace avatar (multipart).
//   - PATCH  /cover-image    : Replace cover image (multipart).
//   - GET    /watch-history  : Recently watched video IDs.
func (handler *Handler) MeRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.getProfile)
	router.Patch("/", handler.updateProfile)
	router.Patch("/avatar", handler.updateAvatar)
	router.Patch("/cover-image", handler.updateCoverImage)
	router.Get("/watch-history", handler.watchHistory)

	return router
}

// ChannelRoutes returns the public channel routes (mounted at /users/c).
//
// # Endpoints
//   - GET /{username} : Public channel profile with subscription statistics.
func (handler *Handler) ChannelRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{username}", handler.channelProfile)
	return router
}

// # Request Payloads

type updateProfileRequest struct {
	FullName *string `json:"fullname"`
	Email    *string `json:"email"`
}

/*
GetProfile returns the authenticated user's own profile.

GET /api/v1/users/me

Response:
  - 200: User: Current profile (password and token fields omitted)
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Current user fetched successfully")
}

/*
UpdateProfile applies partial changes to the authenticated user's profile.

PATCH /api/v1/users/me

Request:
  - Body: updateProfileRequest (FullName and/or Email)

Response:
  - 200: User: Updated profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.FullName == nil && input.Email == nil {
		respond.Error(writer, request, apperr.ValidationError("At least one field is required"))
		return
	}

	validator := &validate.Validator{}
	if input.FullName != nil {
		validator.Required("fullname", *input.FullName)
	}
	if input.Email != nil {
		validator.Required("email", *input.Email).Email("email", *input.Email)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		FullName: input.FullName,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Account details updated successfully")
}

/*
UpdateAvatar replaces the authenticated user's avatar image.

PATCH /api/v1/users/me/avatar

Request:
  - Multipart file: avatar

Response:
  - 200: User: Updated profile
  - 400: ErrUploadError: Missing file or provider failure
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.updateImage(writer, request, "avatar", handler.accountService.UpdateAvatar, "Avatar updated successfully")
}

/*
UpdateCoverImage replaces the authenticated user's cover image.

PATCH /api/v1/users/me/cover-image

Request:
  - Multipart file: coverImage

Response:
  - 200: User: Updated profile
  - 400: ErrUploadError: Missing file or provider failure
*/
func (handler *Handler) updateCoverImage(writer http.ResponseWriter, request *http.Request) {
	handler.updateImage(writer, request, "coverImage", handler.accountService.UpdateCoverImage, "Cover image updated successfully")
}

// updateImage is the shared multipart handling for profile image endpoints.
func (handler *Handler) updateImage(
	writer http.ResponseWriter,
	request *http.Request,
	fieldName string,
	apply func(ctx context.Context, userID, filename string, file io.Reader) (*auth.User, error),
	message string,
) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(constants.MaxImageUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Request must be multipart/form-data"))
		return
	}

	file, header, err := request.FormFile(fieldName)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(fieldName, "file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	user, err := apply(request.Context(), userID, header.Filename, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, message)
}

/*
WatchHistory lists the authenticated user's recently watched video IDs.

GET /api/v1/users/me/watch-history

Response:
  - 200: []string: Ordered video IDs, newest first
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) watchHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	history, err := handler.accountService.GetWatchHistory(request.Context(), userID, params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, history, "Watch history fetched successfully")
}

/*
ChannelProfile returns the public channel view of a user.

GET /api/v1/users/c/{username}

Description: Publicly accessible. If the caller is authenticated, the
IsSubscribed flag reflects their own subscription status.

Response:
  - 200: ChannelProfile: Public channel presentation
  - 404: ErrNotFound: No account matches the handle
*/
func (handler *Handler) channelProfile(writer http.ResponseWriter, request *http.Request) {
	username := strings.TrimSpace(requestutil.Param(request, "username"))
	if username == "" {
		respond.Error(writer, request, validate.RequiredError("username", "is required"))
		return
	}

	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	profile, err := handler.accountService.GetChannelProfile(request.Context(), username, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile, "Channel profile fetched successfully")
}
