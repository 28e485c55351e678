// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engage

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the engagement HTTP endpoints.
//
// ToggleVideoLike and ToggleCommentLike are exported as plain handler funcs
// so the video and comment route trees can register them under their own
// path prefixes.
type Handler struct {
	engageService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{engageService: service}
}

// Routes returns the routes mounted under /channels.
//
// # Endpoints
//   - POST /{username}/subscribe : Toggle subscription (protected).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/{username}/subscribe", handler.toggleSubscription)
	})

	return router
}

// # Response Payloads

type likeResult struct {
	Liked bool `json:"liked"`
}

type subscriptionResult struct {
	Subscribed bool `json:"subscribed"`
}

// # Endpoint Handlers

/*
ToggleVideoLike flips the caller's like on a video.

POST /api/v1/videos/{videoID}/like

Response:
  - 200: {"liked": bool}
  - 404: ErrNotFound: Unknown video
*/
func (handler *Handler) ToggleVideoLike(writer http.ResponseWriter, request *http.Request) {
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

	liked, err := handler.engageService.ToggleVideoLike(request.Context(), userID, videoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, likeResult{Liked: liked}, "Video like toggled successfully")
}

/*
ToggleCommentLike flips the caller's like on a comment.

POST /api/v1/comments/{commentID}/like

Response:
  - 200: {"liked": bool}
  - 404: ErrNotFound: Unknown comment
*/
func (handler *Handler) ToggleCommentLike(writer http.ResponseWriter, request *http.Request) {
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

	liked, err := handler.engageService.ToggleCommentLike(request.Context(), userID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, likeResult{Liked: liked}, "Comment like toggled successfully")
}

/*
ToggleSubscription flips the caller's subscription to a channel.

POST /api/v1/channels/{username}/subscribe

Response:
  - 200: {"subscribed": bool}
  - 400: ErrInvalidJSON: Self-subscription attempt
  - 404: ErrNotFound: Unknown channel handle
*/
func (handler *Handler) toggleSubscription(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	username := requestutil.Param(request, FieldUsername)

	subscribed, err := handler.engageService.ToggleSubscription(request.Context(), userID, username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, subscriptionResult{Subscribed: subscribed}, "Subscription toggled successfully")
}
