// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the comment HTTP endpoints.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// VideoRoutes returns the routes mounted under /videos/{videoID}/comments.
//
// # Endpoints
//   - GET  / : Paginated comment listing for the video.
//   - POST / : Attach a new comment (protected).
func (handler *Handler) VideoRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
	})

	return router
}

// Routes returns the routes mounted under /comments.
//
// # Endpoints
//   - PATCH  /{commentID} : Author-only edit (protected).
//   - DELETE /{commentID} : Author-only deletion (protected).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Patch("/{commentID}", handler.update)
		r.Delete("/{commentID}", handler.remove)
	})

	return router
}

// # Request Payloads

type commentPayload struct {
	Content string `json:"content"`
}

func validateContent(content string) error {
	validator := &validate.Validator{}
	validator.Required(FieldContent, content).MaxLen(FieldContent, content, MaxContentLength)
	return validator.Err()
}

// # Endpoint Handlers

/*
List returns a page of a video's comments.

GET /api/v1/videos/{videoID}/comments?page=&limit=

Response:
  - 200: []Comment with pagination metadata
  - 404: ErrNotFound: Unknown video
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	videoID, err := requestutil.UUIDParam(request, FieldVideoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	params := pagination.FromRequest(request)

	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	comments, meta, err := handler.commentService.ListByVideo(request.Context(), videoID, viewerID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, meta, "Comments fetched successfully")
}

/*
Create attaches a new comment to a video.

POST /api/v1/videos/{videoID}/comments

Request:
  - Body: {"content": "..."}

Response:
  - 201: Comment: Created entity
  - 400: ErrInvalidJSON: Malformed body or empty content
  - 404: ErrNotFound: Unknown video
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
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

	var payload commentPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	content := strings.TrimSpace(payload.Content)
	if err := validateContent(content); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Create(request.Context(), videoID, userID, content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment, "Comment added successfully")
}

/*
Update edits a comment's body.

PATCH /api/v1/comments/{commentID}

Request:
  - Body: {"content": "..."}

Response:
  - 200: Comment: Updated entity
  - 403: ErrForbidden: Caller is not the author
  - 404: ErrNotFound: Unknown comment
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := requestutil.UUIDParam(request, FieldCommentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload commentPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	content := strings.TrimSpace(payload.Content)
	if err := validateContent(content); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Update(request.Context(), commentID, userID, content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment, "Comment updated successfully")
}

/*
Remove deletes a comment.

DELETE /api/v1/comments/{commentID}

Response:
  - 200: Success: Comment deleted
  - 403: ErrForbidden: Caller is not the author
  - 404: ErrNotFound: Unknown comment
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := requestutil.UUIDParam(request, FieldCommentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.commentService.Delete(request.Context(), commentID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Comment deleted successfully")
}
