// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/middleware"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

// newTestServer mounts the auth routes behind the real authentication middleware.
func newTestServer(t *testing.T) (*httptest.Server, *Service) {
	t.Helper()

	tokenService, err := sec.NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", "vidora.test")
	require.NoError(t, err)

	service := NewService(newFakeUserRepository(), tokenService, &fakeUploader{})

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokenService))
	router.Mount("/users", NewHandler(service).Routes())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, service
}

// buildRegisterForm encodes a multipart registration request body.
func buildRegisterForm(t *testing.T, fields map[string]string, withAvatar bool) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	if withAvatar {
		part, err := writer.CreateFormFile(FieldAvatar, "avatar.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func defaultRegisterFields() map[string]string {
	return map[string]string{
		FieldUsername: "alice",
		FieldEmail:    "alice@example.com",
		FieldFullName: "Alice Example",
		FieldPassword: "correct-horse",
	}
}

func decodeEnvelope(t *testing.T, response *http.Response) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	return envelope
}

// # Registration Endpoint

func TestHTTPRegister_CreatesAccount(t *testing.T) {
	server, _ := newTestServer(t)

	body, contentType := buildRegisterForm(t, defaultRegisterFields(), true)
	response, err := http.Post(server.URL+"/users/register", contentType, body)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	assert.Equal(t, http.StatusCreated, response.StatusCode)

	envelope := decodeEnvelope(t, response)
	assert.Equal(t, true, envelope["success"])

	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", data["username"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "password_hash")
}

func TestHTTPRegister_ValidationFailures(t *testing.T) {
	server, _ := newTestServer(t)

	testCases := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{name: "empty username", mutate: func(fields map[string]string) { fields[FieldUsername] = "   " }},
		{name: "invalid email", mutate: func(fields map[string]string) { fields[FieldEmail] = "not-an-email" }},
		{name: "short password", mutate: func(fields map[string]string) { fields[FieldPassword] = "short" }},
		{name: "empty fullname", mutate: func(fields map[string]string) { fields[FieldFullName] = "" }},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fields := defaultRegisterFields()
			testCase.mutate(fields)

			body, contentType := buildRegisterForm(t, fields, true)
			response, err := http.Post(server.URL+"/users/register", contentType, body)
			require.NoError(t, err)
			defer func() { _ = response.Body.Close() }()

			assert.Equal(t, http.StatusBadRequest, response.StatusCode)

			envelope := decodeEnvelope(t, response)
			assert.Equal(t, false, envelope["success"])
			assert.NotNil(t, envelope["errors"], "the errors array must always be present")
		})
	}
}

func TestHTTPRegister_MissingAvatarIsBadRequest(t *testing.T) {
	server, _ := newTestServer(t)

	body, contentType := buildRegisterForm(t, defaultRegisterFields(), false)
	response, err := http.Post(server.URL+"/users/register", contentType, body)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestHTTPRegister_DuplicateIsConflict(t *testing.T) {
	server, service := newTestServer(t)
	_, err := service.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	body, contentType := buildRegisterForm(t, defaultRegisterFields(), true)
	response, err := http.Post(server.URL+"/users/register", contentType, body)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	assert.Equal(t, http.StatusConflict, response.StatusCode)
}

// # Login Endpoint

func TestHTTPLogin_SetsBothTokenCookies(t *testing.T) {
	server, service := newTestServer(t)
	_, err := service.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	response, err := http.Post(server.URL+"/users/login", "application/json",
		strings.NewReader(`{"username":"alice","password":"correct-horse"}`))
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	require.Equal(t, http.StatusOK, response.StatusCode)

	cookieNames := map[string]bool{}
	for _, cookie := range response.Cookies() {
		cookieNames[cookie.Name] = true
		assert.True(t, cookie.HttpOnly, "token cookies must be httpOnly")
		assert.True(t, cookie.Secure, "token cookies must be secure")
		assert.NotEmpty(t, cookie.Value)
	}
	assert.True(t, cookieNames[constants.AccessTokenCookieName])
	assert.True(t, cookieNames[constants.RefreshTokenCookieName])

	envelope := decodeEnvelope(t, response)
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data[FieldAccessToken])
	assert.NotEmpty(t, data[FieldRefreshToken])
}

func TestHTTPLogin_ErrorMapping(t *testing.T) {
	server, service := newTestServer(t)
	_, err := service.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	testCases := []struct {
		name       string
		payload    string
		wantStatus int
	}{
		{name: "no identifier", payload: `{"password":"correct-horse"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown user", payload: `{"username":"ghost","password":"correct-horse"}`, wantStatus: http.StatusNotFound},
		{name: "wrong password", payload: `{"username":"alice","password":"bad"}`, wantStatus: http.StatusUnauthorized},
		{name: "malformed json", payload: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			response, err := http.Post(server.URL+"/users/login", "application/json", strings.NewReader(testCase.payload))
			require.NoError(t, err)
			defer func() { _ = response.Body.Close() }()

			assert.Equal(t, testCase.wantStatus, response.StatusCode)
		})
	}
}

// # Refresh Endpoint

func TestHTTPRefreshToken_RotatesViaCookie(t *testing.T) {
	server, service := newTestServer(t)
	_, err := service.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	session, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	request, err := http.NewRequest(http.MethodPost, server.URL+"/users/refresh-token", nil)
	require.NoError(t, err)
	request.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookieName, Value: session.RefreshToken})

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	require.Equal(t, http.StatusOK, response.StatusCode)

	envelope := decodeEnvelope(t, response)
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data[FieldAccessToken])
	assert.NotEqual(t, session.RefreshToken, data[FieldRefreshToken])
}

func TestHTTPRefreshToken_BodyFallback(t *testing.T) {
	server, service := newTestServer(t)
	_, err := service.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	session, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	payload, err := json.Marshal(map[string]string{FieldRefreshToken: session.RefreshToken})
	require.NoError(t, err)

	response, err := http.Post(server.URL+"/users/refresh-token", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	assert.Equal(t, http.StatusOK, response.StatusCode)
}

func TestHTTPRefreshToken_MissingOrReplayed(t *testing.T) {
	server, service := newTestServer(t)
	_, err := service.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	session, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	// Consume the token once.
	_, err = service.RefreshSession(context.Background(), session.RefreshToken)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		cookie string
	}{
		{name: "missing token", cookie: ""},
		{name: "replayed token", cookie: session.RefreshToken},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			request, err := http.NewRequest(http.MethodPost, server.URL+"/users/refresh-token", nil)
			require.NoError(t, err)
			if testCase.cookie != "" {
				request.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookieName, Value: testCase.cookie})
			}

			response, err := http.DefaultClient.Do(request)
			require.NoError(t, err)
			defer func() { _ = response.Body.Close() }()

			assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
		})
	}
}

// # Logout Endpoint

func TestHTTPLogout_RequiresAuthentication(t *testing.T) {
	server, _ := newTestServer(t)

	response, err := http.Post(server.URL+"/users/logout", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}

func TestHTTPLogout_RevokesAndClearsCookies(t *testing.T) {
	server, service := newTestServer(t)
	_, err := service.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	session, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	request, err := http.NewRequest(http.MethodPost, server.URL+"/users/logout", nil)
	require.NoError(t, err)
	request.Header.Set("Authorization", "Bearer "+session.AccessToken)

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	require.Equal(t, http.StatusOK, response.StatusCode)

	for _, cookie := range response.Cookies() {
		assert.Empty(t, cookie.Value)
		assert.True(t, cookie.MaxAge < 0, "cookies must be expired on logout")
	}

	// The revoked refresh token must be dead.
	_, err = service.RefreshSession(context.Background(), session.RefreshToken)
	require.Error(t, err)
}
