// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the video catalogue HTTP endpoints.
type Handler struct {
	videoService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{videoService: service}
}

// Routes returns a [chi.Router] configured with catalogue routes.
//
// # Endpoints
//   - GET    /           : Paginated catalogue listing.
//   - GET    /{videoID}  : Single video (records a view).
//   - POST   /           : Publish a new video (protected, multipart).
//   - PATCH  /{videoID}  : Owner-only update (protected).
//   - DELETE /{videoID}  : Owner-only deletion (protected).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/", handler.list)
	router.Get("/{videoID}", handler.get)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.publish)
		r.Patch("/{videoID}", handler.update)
		r.Delete("/{videoID}", handler.remove)
	})

	return router
}

/*
List returns a page of published videos.

GET /api/v1/videos?page=&limit=&owner=

Response:
  - 200: []Video with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := ListFilter{OwnerID: strings.TrimSpace(request.URL.Query().Get("owner"))}

	videos, meta, err := handler.videoService.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, videos, meta, "Videos fetched successfully")
}

/*
Get returns a single video and records the view.

GET /api/v1/videos/{videoID}

Response:
  - 200: Video
  - 404: ErrNotFound: Unknown ID or unpublished draft
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	videoID, err := requestutil.UUIDParam(request, FieldVideoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	video, err := handler.videoService.Get(request.Context(), videoID, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video, "Video fetched successfully")
}

/*
Publish uploads and creates a new video.

POST /api/v1/videos

Request:
  - Form fields: title, description
  - Files: videoFile (required), thumbnail (required)

Response:
  - 201: Video: Created catalogue entry
  - 400: ErrInvalidJSON: Validation or upload failure
*/
func (handler *Handler) publish(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(constants.MaxVideoUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Request must be multipart/form-data"))
		return
	}

	title := strings.TrimSpace(request.FormValue(FieldTitle))
	description := strings.TrimSpace(request.FormValue(FieldDescription))

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, 200)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := PublishInput{Title: title, Description: description}

	if videoFile, videoHeader, err := request.FormFile(FieldVideoFile); err == nil {
		defer func() { _ = videoFile.Close() }()
		input.VideoFile = &FileInput{Filename: videoHeader.Filename, Content: videoFile}
	}
	if thumbFile, thumbHeader, err := request.FormFile(FieldThumbnail); err == nil {
		defer func() { _ = thumbFile.Close() }()
		input.Thumbnail = &FileInput{Filename: thumbHeader.Filename, Content: thumbFile}
	}

	video, err := handler.videoService.Publish(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, video, "Video published successfully")
}

/*
Update applies owner-only changes to a video.

PATCH /api/v1/videos/{videoID}

Request:
  - Form fields: title, description, isPublished (all optional)
  - Files: thumbnail (optional)

Response:
  - 200: Video: Updated entity
  - 403: ErrForbidden: Caller is not the owner
  - 404: ErrNotFound: Unknown ID
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID, err := requestutil.UUIDParam(request, FieldVideoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(constants.MaxImageUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Request must be multipart/form-data"))
		return
	}

	input := UpdateInput{}

	if values, ok := request.MultipartForm.Value[FieldTitle]; ok && len(values) > 0 {
		title := strings.TrimSpace(values[0])
		validator := &validate.Validator{}
		validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, 200)
		if err := validator.Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
		input.Title = &title
	}
	if values, ok := request.MultipartForm.Value[FieldDescription]; ok && len(values) > 0 {
		description := strings.TrimSpace(values[0])
		input.Description = &description
	}
	if values, ok := request.MultipartForm.Value["isPublished"]; ok && len(values) > 0 {
		published := values[0] == "true"
		input.IsPublished = &published
	}

	if thumbFile, thumbHeader, err := request.FormFile(FieldThumbnail); err == nil {
		defer func() { _ = thumbFile.Close() }()
		input.Thumbnail = &FileInput{Filename: thumbHeader.Filename, Content: thumbFile}
	}

	video, err := handler.videoService.Update(request.Context(), videoID, userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video, "Video updated successfully")
}

/*
Remove deletes a video and its provider-side assets.

DELETE /api/v1/videos/{videoID}

Response:
  - 200: Success: Video deleted
  - 403: ErrForbidden: Caller is not the owner
  - 404: ErrNotFound: Unknown ID
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID, err := requestutil.UUIDParam(request, FieldVideoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.videoService.Delete(request.Context(), videoID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Video deleted successfully")
}
