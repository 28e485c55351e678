// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
HTTP delivery layer for the authentication lifecycle.

It implements the gateway for account creation, login, logout, and
refresh-token rotation.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface (multipart for registration).
  - Security: Handles JWT orchestration and token cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/

package auth

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
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (Registration, Login,
// Logout, Refresh).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register      : Creates a new account (multipart).
//   - POST /login         : Authenticates and sets token cookies.
//   - POST /refresh-token : Rotates the refresh token.
//   - POST /logout        : Revokes the live refresh token (protected).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refreshToken)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/users/register

Description: Accepts a multipart form with profile fields plus a required
avatar file and an optional cover image, checks for identity conflicts, and
persists a new user profile to the database.

Request:
  - Form fields: username, email, fullname, password
  - Files: avatar (required), coverImage (optional)

Response:
  - 201: User: Created user profile (password and token fields omitted)
  - 400: ErrInvalidJSON: Bad input, validation failure, or upload failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {

	// ── 1. Parse the multipart form (bounded) ─────────────────────────────
	if err := request.ParseMultipartForm(constants.MaxImageUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Request must be multipart/form-data"))
		return
	}

	username := strings.TrimSpace(request.FormValue(FieldUsername))
	email := strings.TrimSpace(request.FormValue(FieldEmail))
	fullName := strings.TrimSpace(request.FormValue(FieldFullName))
	password := request.FormValue(FieldPassword)

	// ── 2. Validate text fields ───────────────────────────────────────────
	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MinLen(FieldUsername, username, MinUsernameLength).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Username(FieldUsername, strings.ToLower(username)).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldFullName, fullName).
		Required(FieldPassword, password).
		MinLen(FieldPassword, password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Collect file parts ─────────────────────────────────────────────
	input := RegisterInput{
		Username: username,
		Email:    email,
		FullName: fullName,
		Password: password,
	}

	if avatarFile, avatarHeader, err := request.FormFile(FieldAvatar); err == nil {
		defer func() { _ = avatarFile.Close() }()
		input.Avatar = &FileInput{Filename: avatarHeader.Filename, Content: avatarFile}
	}

	if coverFile, coverHeader, err := request.FormFile(FieldCoverImage); err == nil {
		defer func() { _ = coverFile.Close() }()
		input.CoverImage = &FileInput{Filename: coverHeader.Filename, Content: coverFile}
	}

	// ── 4. Delegate to the service ────────────────────────────────────────
	user, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user, "User registered successfully")
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/users/login

Description: Verifies credentials by username or email, issues the JWT
access/refresh pair, and injects both as secure cookies into the response.

Request:
  - Body: loginRequest (Username or Email, Password)

Response:
  - 200: Session: User profile plus both tokens
  - 400: ErrInvalidJSON: Neither username nor email supplied
  - 404: ErrNotFound: No account matches the identifier
  - 401: ErrUnauthorized: Wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// At least one identifier is mandatory.
	if strings.TrimSpace(input.Username) == "" && strings.TrimSpace(input.Email) == "" {
		respond.Error(writer, request, apperr.ValidationError("Username or email is required"))
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username: strings.TrimSpace(input.Username),
		Email:    strings.TrimSpace(input.Email),
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookies(writer, session)

	respond.OK(writer, map[string]any{
		FieldUser:         session.User,
		FieldAccessToken:  session.AccessToken,
		FieldRefreshToken: session.RefreshToken,
	}, "User logged in successfully")
}

/*
Logout terminates the current user session.

POST /api/v1/users/logout

Description: Clears the stored refresh-token digest (revocation) and expires
both security cookies on the client.

Response:
  - 200: Success: Session terminated
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearSessionCookies(writer)

	respond.OK(writer, nil, "User logged out successfully")
}

/*
RefreshToken issues a new token pair using a valid refresh token.

POST /api/v1/users/refresh-token

Description: Reads the refresh token from the cookie (JSON body fallback),
rotates it atomically, and issues a fresh access/refresh pair. A stale,
revoked, or forged token all yield the same 401.

Response:
  - 200: Tokens: New access and refresh tokens
  - 401: ErrUnauthorized: Missing, invalid, stale, or revoked refresh token
*/
func (handler *Handler) refreshToken(writer http.ResponseWriter, request *http.Request) {

	// Cookie first; JSON body as a fallback for non-browser clients.
	presented := ""
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var input refreshTokenRequest
		if err := requestutil.DecodeJSON(request, &input); err == nil {
			presented = input.RefreshToken
		}
	}

	if presented == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
		return
	}

	session, err := handler.authService.RefreshSession(request.Context(), presented)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookies(writer, session)

	respond.OK(writer, map[string]any{
		FieldAccessToken:  session.AccessToken,
		FieldRefreshToken: session.RefreshToken,
	}, "Access token refreshed successfully")
}

// # Cookie Helpers

// setSessionCookies injects both token cookies as httpOnly + secure.
func setSessionCookies(writer http.ResponseWriter, session *LoginSession) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    session.AccessToken,
		Path:     constants.SessionCookiePath,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.SessionCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookies expires both token cookies on the client.
func clearSessionCookies(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		http.SetCookie(writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     constants.SessionCookiePath,
			MaxAge:   -1,
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
