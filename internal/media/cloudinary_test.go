// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCloudinaryUploader_RequiresCredentials(t *testing.T) {
	testCases := []struct {
		name      string
		cloudName string
		apiKey    string
		apiSecret string
		wantErr   bool
	}{
		{name: "all present", cloudName: "demo", apiKey: "key", apiSecret: "secret", wantErr: false},
		{name: "missing cloud name", cloudName: "", apiKey: "key", apiSecret: "secret", wantErr: true},
		{name: "missing api key", cloudName: "demo", apiKey: "", apiSecret: "secret", wantErr: true},
		{name: "missing api secret", cloudName: "demo", apiKey: "key", apiSecret: "", wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := NewCloudinaryUploader(testCase.cloudName, testCase.apiKey, testCase.apiSecret)
			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCloudinaryUploader_Upload(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var capturedSignature string
	var capturedPath string

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		capturedPath = request.URL.Path

		require.NoError(t, request.ParseMultipartForm(1<<20))
		capturedSignature = request.FormValue("signature")
		assert.Equal(t, "key", request.FormValue("api_key"))

		file, header, err := request.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "avatar.png", header.Filename)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"secure_url":"https://cdn.example/avatar.png","public_id":"vidora/abc123","bytes":42}`))
	}))
	defer server.Close()

	uploader := &cloudinaryUploader{
		cloudName: "demo",
		apiKey:    "key",
		apiSecret: "secret",
		baseURL:   server.URL,
		client:    server.Client(),
		now:       func() time.Time { return fixedTime },
	}

	asset, err := uploader.Upload(context.Background(), KindImage, "avatar.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/avatar.png", asset.URL)
	assert.Equal(t, "vidora/abc123", asset.PublicID)
	assert.Equal(t, int64(42), asset.Bytes)
	assert.Equal(t, "/demo/image/upload", capturedPath)

	// The signature is the SHA-1 digest of the sorted params plus the secret.
	expectedPayload := "timestamp=" + "1772366400" + "secret"
	expectedDigest := sha1.Sum([]byte(expectedPayload))
	assert.Equal(t, hex.EncodeToString(expectedDigest[:]), capturedSignature)
}

func TestCloudinaryUploader_UploadProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusBadRequest)
		_, _ = writer.Write([]byte(`{"error":{"message":"Invalid image file"}}`))
	}))
	defer server.Close()

	uploader := &cloudinaryUploader{
		cloudName: "demo",
		apiKey:    "key",
		apiSecret: "secret",
		baseURL:   server.URL,
		client:    server.Client(),
		now:       time.Now,
	}

	_, err := uploader.Upload(context.Background(), KindImage, "broken.png", strings.NewReader("junk"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid image file")
}

func TestCloudinaryUploader_DestroyRoutesVideoKind(t *testing.T) {
	var capturedPath string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		capturedPath = request.URL.Path
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"result":"ok"}`))
	}))
	defer server.Close()

	uploader := &cloudinaryUploader{
		cloudName: "demo",
		apiKey:    "key",
		apiSecret: "secret",
		baseURL:   server.URL,
		client:    server.Client(),
		now:       time.Now,
	}

	err := uploader.Destroy(context.Background(), KindVideo, "vidora/clip42")
	require.NoError(t, err)
	assert.Equal(t, "/demo/video/destroy", capturedPath)
}
