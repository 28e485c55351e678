// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// defaultBaseURL is the Cloudinary-compatible REST endpoint root.
const defaultBaseURL = "https://api.cloudinary.com/v1_1"

// uploadTimeout bounds a single upload round-trip. Video files are large,
// so this is deliberately generous.
const uploadTimeout = 5 * time.Minute

// cloudinaryUploader implements [Uploader] against the Cloudinary upload API.
//
// # Signing
//
// Every request is signed: the non-file parameters are sorted by key, joined
// as key=value pairs with '&', the API secret is appended, and the SHA-1 hex
// digest of that string is sent as the "signature" parameter.
type cloudinaryUploader struct {
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	client    *http.Client
	now       func() time.Time
}

// NewCloudinaryUploader builds the production [Uploader].
//
// # Parameters
//   - cloudName: The provider account identifier.
//   - apiKey: Public API key.
//   - apiSecret: Secret used for request signing. Never logged.
func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (Uploader, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("media: cloud name, API key and API secret are all required")
	}

	return &cloudinaryUploader{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: uploadTimeout},
		now:       time.Now,
	}, nil
}

// uploadResponse is the subset of the provider's JSON payload we consume.
type uploadResponse struct {
	SecureURL string  `json:"secure_url"`
	PublicID  string  `json:"public_id"`
	Bytes     int64   `json:"bytes"`
	Duration  float64 `json:"duration"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload implements [Uploader].
func (uploader *cloudinaryUploader) Upload(ctx context.Context, kind Kind, filename string, file io.Reader) (*Asset, error) {

	// ── 1. Build the signed parameter set ─────────────────────────────────
	timestamp := strconv.FormatInt(uploader.now().Unix(), 10)
	params := map[string]string{
		"timestamp": timestamp,
	}
	signature := uploader.sign(params)

	// ── 2. Encode the multipart body ──────────────────────────────────────
	body := &strings.Builder{}
	writer := multipart.NewWriter(body)

	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("media: failed to encode field %q: %w", key, err)
		}
	}
	if err := writer.WriteField("api_key", uploader.apiKey); err != nil {
		return nil, fmt.Errorf("media: failed to encode api_key: %w", err)
	}
	if err := writer.WriteField("signature", signature); err != nil {
		return nil, fmt.Errorf("media: failed to encode signature: %w", err)
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("media: failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("media: failed to stream file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("media: failed to finalize body: %w", err)
	}

	// ── 3. Execute the request ────────────────────────────────────────────
	endpoint := fmt.Sprintf("%s/%s/%s/upload", uploader.baseURL, uploader.cloudName, resourceType(kind))
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body.String()))
	if err != nil {
		return nil, fmt.Errorf("media: failed to build request: %w", err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())

	response, err := uploader.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("media: upload request failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	// ── 4. Decode the provider's response ─────────────────────────────────
	var decoded uploadResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("media: failed to decode upload response: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		msg := decoded.Error.Message
		if msg == "" {
			msg = response.Status
		}
		return nil, fmt.Errorf("media: provider rejected upload: %s", msg)
	}

	return &Asset{
		URL:      decoded.SecureURL,
		PublicID: decoded.PublicID,
		Bytes:    decoded.Bytes,
		Duration: decoded.Duration,
	}, nil
}

// Destroy implements [Uploader].
func (uploader *cloudinaryUploader) Destroy(ctx context.Context, kind Kind, publicID string) error {
	timestamp := strconv.FormatInt(uploader.now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}
	signature := uploader.sign(params)

	body := &strings.Builder{}
	writer := multipart.NewWriter(body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("media: failed to encode field %q: %w", key, err)
		}
	}
	if err := writer.WriteField("api_key", uploader.apiKey); err != nil {
		return fmt.Errorf("media: failed to encode api_key: %w", err)
	}
	if err := writer.WriteField("signature", signature); err != nil {
		return fmt.Errorf("media: failed to encode signature: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("media: failed to finalize body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s/destroy", uploader.baseURL, uploader.cloudName, resourceType(kind))
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body.String()))
	if err != nil {
		return fmt.Errorf("media: failed to build request: %w", err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())

	response, err := uploader.client.Do(request)
	if err != nil {
		return fmt.Errorf("media: destroy request failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("media: provider rejected destroy: %s", response.Status)
	}

	return nil
}

// sign computes the SHA-1 request signature over the sorted parameter set.
func (uploader *cloudinaryUploader) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	payload := strings.Join(pairs, "&") + uploader.apiSecret
	digest := sha1.Sum([]byte(payload))

	return hex.EncodeToString(digest[:])
}

// resourceType maps an upload [Kind] to the provider's URL path segment.
func resourceType(kind Kind) string {
	if kind == KindVideo {
		return "video"
	}
	return "image"
}
