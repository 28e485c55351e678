// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
)

/*
TestUUIDParam verifies that ID path parameters are validated at the
transport boundary instead of failing deep in parameter encoding.
*/
func TestUUIDParam(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		isValid bool
	}{
		{"valid_v7", "01923456-789a-7bcd-8ef0-123456789abc", true},
		{"valid_v4", "c56a4180-65aa-42ec-a945-5fd21dec0538", true},
		{"uppercase_accepted", "C56A4180-65AA-42EC-A945-5FD21DEC0538", true},
		{"not_a_uuid", "not-a-uuid", false},
		{"numeric_id", "12345", false},
		{"wrong_shape_hex", "0123456789abcdef0123456789abcdef", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			var gotErr error

			router := chi.NewRouter()
			router.Get("/videos/{videoID}", func(writer http.ResponseWriter, request *http.Request) {
				gotID, gotErr = requestutil.UUIDParam(request, "videoID")
				writer.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/videos/"+tt.param, nil)
			router.ServeHTTP(httptest.NewRecorder(), req)

			if tt.isValid {
				require.NoError(t, gotErr)
				assert.Equal(t, tt.param, gotID)
			} else {
				require.Error(t, gotErr)
				appError := apperr.As(gotErr)
				require.NotNil(t, appError)
				assert.Equal(t, "VALIDATION_ERROR", appError.Code)
				assert.Empty(t, gotID)
			}
		})
	}
}
