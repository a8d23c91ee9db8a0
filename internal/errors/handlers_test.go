// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024-2025 UnderNET

package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undernetirc/totp-api/internal/auth/oath"
)

// setupTestContext creates a test echo context with proper headers
func setupTestContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Set request ID for logging
	c.Response().Header().Set(echo.HeaderXRequestID, "test-request-id")

	return c, rec
}

// captureLogOutput captures slog output for testing
func captureLogOutput(t *testing.T, fn func()) string {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	previous := slog.Default()
	slog.SetDefault(slog.New(handler))
	t.Cleanup(func() { slog.SetDefault(previous) })

	fn()

	return buf.String()
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
	return response
}

func TestHandleValidationError(t *testing.T) {
	t.Run("validator.ValidationErrors", func(t *testing.T) {
		c, rec := setupTestContext(http.MethodPost, "/generate-totp")

		validate := validator.New()
		type TestStruct struct {
			Secret string `validate:"required"`
			Digits int    `validate:"min=1"`
		}

		err := validate.Struct(TestStruct{Digits: 0})
		require.Error(t, err)

		logOutput := captureLogOutput(t, func() {
			require.NoError(t, HandleValidationError(c, err))
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		response := decodeResponse(t, rec)
		assert.Equal(t, ErrCodeValidation, response.Error.Code)
		assert.Equal(t, "Invalid input provided", response.Error.Message)

		details, ok := response.Error.Details.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "This field is required", details["Secret"])
		assert.Equal(t, "Must be at least 1", details["Digits"])

		assert.Contains(t, logOutput, "Validation error")
		assert.Contains(t, logOutput, "test-request-id")
	})

	t.Run("generic error", func(t *testing.T) {
		c, rec := setupTestContext(http.MethodPost, "/generate-totp")

		logOutput := captureLogOutput(t, func() {
			require.NoError(t, HandleValidationError(c, errors.New("secret is a required field")))
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		response := decodeResponse(t, rec)
		assert.Equal(t, ErrCodeValidation, response.Error.Code)
		assert.Equal(t, "secret is a required field", response.Error.Message)
		assert.Contains(t, logOutput, "Generic validation error")
	})
}

func TestHandleOTPError(t *testing.T) {
	t.Run("decode error", func(t *testing.T) {
		c, rec := setupTestContext(http.MethodPost, "/generate-totp")
		_, err := oath.DecodeSecret("ABC1")
		require.Error(t, err)

		logOutput := captureLogOutput(t, func() {
			require.NoError(t, HandleOTPError(c, err))
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		response := decodeResponse(t, rec)
		assert.Equal(t, ErrCodeInvalidSecret, response.Error.Code)
		details := response.Error.Details.(map[string]interface{})
		assert.Equal(t, "illegal character", details["cause"])
		assert.Equal(t, float64(3), details["position"])
		assert.Contains(t, logOutput, "Invalid secret")
		assert.NotContains(t, logOutput, "ABC1")
	})

	t.Run("empty key", func(t *testing.T) {
		c, rec := setupTestContext(http.MethodPost, "/generate-totp")
		_, err := oath.DecodeSecret("A")
		require.Error(t, err)

		require.NoError(t, HandleOTPError(c, err))

		response := decodeResponse(t, rec)
		assert.Equal(t, ErrCodeInvalidSecret, response.Error.Code)
		details := response.Error.Details.(map[string]interface{})
		assert.NotContains(t, details, "position")
	})

	t.Run("configuration error", func(t *testing.T) {
		c, rec := setupTestContext(http.MethodPost, "/generate-totp")
		_, err := oath.ParseAlgorithm("md5")
		require.Error(t, err)

		require.NoError(t, HandleOTPError(c, err))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		response := decodeResponse(t, rec)
		assert.Equal(t, ErrCodeInvalidConfig, response.Error.Code)
		assert.Equal(t, map[string]interface{}{"field": "algorithm"}, response.Error.Details)
	})

	t.Run("unexpected error", func(t *testing.T) {
		c, rec := setupTestContext(http.MethodPost, "/generate-totp")

		logOutput := captureLogOutput(t, func() {
			require.NoError(t, HandleOTPError(c, errors.New("boom")))
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		response := decodeResponse(t, rec)
		assert.Equal(t, ErrCodeInternal, response.Error.Code)
		assert.Contains(t, logOutput, "boom")
	})
}

func TestHandleBadRequestError(t *testing.T) {
	c, rec := setupTestContext(http.MethodPost, "/generate-totp")
	require.NoError(t, HandleBadRequestError(c, ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	response := decodeResponse(t, rec)
	assert.Equal(t, ErrCodeBadRequest, response.Error.Code)
	assert.Equal(t, "Bad request", response.Error.Message)
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", echo.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow},
		{"unsupported media type", echo.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, ErrCodeBadRequest},
		{"plain error", errors.New("unexpected"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := setupTestContext(http.MethodGet, "/missing")
			HTTPErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			response := decodeResponse(t, rec)
			assert.Equal(t, tt.code, response.Error.Code)
		})
	}
}
