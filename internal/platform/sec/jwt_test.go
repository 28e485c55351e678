// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/sec"
)

func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", "vidora.test")
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_RejectsBadSecrets verifies constructor guards.
*/
func TestNewTokenService_RejectsBadSecrets(t *testing.T) {
	tests := []struct {
		name          string
		accessSecret  string
		refreshSecret string
	}{
		{"empty_access", "", "refresh"},
		{"empty_refresh", "access", ""},
		{"identical_secrets", "same-secret", "same-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenService(tt.accessSecret, tt.refreshSecret, "vidora.test")
			assert.Error(t, err)
		})
	}
}

/*
TestAccessToken_RoundTrip verifies generation and verification of access tokens.
*/
func TestAccessToken_RoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "vidora.test", claims.Issuer)
}

/*
TestRefreshToken_RoundTrip verifies the refresh token carries only the user ID.
*/
func TestRefreshToken_RoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateRefreshToken("user-1", 30*24*time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyRefreshToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Empty(t, claims.Username, "refresh tokens are exchange credentials, not identity documents")
}

/*
TestTokenClasses_AreNotInterchangeable verifies the secret separation: an
access token must never verify as a refresh token and vice versa.
*/
func TestTokenClasses_AreNotInterchangeable(t *testing.T) {
	service := newTestTokenService(t)

	accessToken, err := service.GenerateAccessToken("user-1", "alice", 15*time.Minute)
	require.NoError(t, err)
	refreshToken, err := service.GenerateRefreshToken("user-1", time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(accessToken)
	assert.Error(t, err)

	_, err = service.VerifyAccessToken(refreshToken)
	assert.Error(t, err)
}

/*
TestVerify_ExpiredToken verifies that expired tokens are rejected.
*/
func TestVerify_ExpiredToken(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	assert.Error(t, err)
}

/*
TestVerify_GarbageToken verifies that malformed strings are rejected.
*/
func TestVerify_GarbageToken(t *testing.T) {
	service := newTestTokenService(t)

	tests := []string{"", "not-a-jwt", "aaaa.bbbb.cccc"}
	for _, garbage := range tests {
		_, err := service.VerifyAccessToken(garbage)
		assert.Error(t, err)
	}
}
