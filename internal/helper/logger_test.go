// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

package helper

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRequestLogger(t *testing.T) {
	tests := []struct {
		name              string
		setupRequestID    bool
		requestID         string
		expectedRequestID string
	}{
		{
			name:              "with request ID header",
			setupRequestID:    true,
			requestID:         "test-request-123",
			expectedRequestID: "test-request-123",
		},
		{
			name:              "without request ID header",
			setupRequestID:    false,
			requestID:         "",
			expectedRequestID: "unknown",
		},
		{
			name:              "with empty request ID header",
			setupRequestID:    true,
			requestID:         "",
			expectedRequestID: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if tt.setupRequestID {
				c.Response().Header().Set(echo.HeaderXRequestID, tt.requestID)
			}

			logger := GetRequestLogger(c)
			assert.NotNil(t, logger)

			// Test that GetRequestID also works correctly
			requestID := GetRequestID(c)
			assert.Equal(t, tt.expectedRequestID, requestID)
		})
	}
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name           string
		requestID      string
		expectedResult string
	}{
		{
			name:           "valid request ID",
			requestID:      "valid-request-id-456",
			expectedResult: "valid-request-id-456",
		},
		{
			name:           "empty request ID",
			requestID:      "",
			expectedResult: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			c.Response().Header().Set(echo.HeaderXRequestID, tt.requestID)

			result := GetRequestID(c)
			assert.Equal(t, tt.expectedResult, result)
		})
	}
}

func TestGetTraceLoggerFallback(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1")
	c.Set("trace.id", "abc")
	c.Set("span.id", "def")

	GetTraceLogger(c).Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["requestID"])
	assert.Equal(t, "abc", entry["traceID"])
	assert.Equal(t, "def", entry["spanID"])
	assert.Equal(t, "", GetTraceID(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())))
	assert.Equal(t, "abc", GetTraceID(c))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug", "json")

	logger.Debug("generated", SecretLogKey, "JBSWY3DPEHPK3PXP", "error", errors.New("boom"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "generated", entry["msg"])
	assert.Equal(t, "JBSW************", entry[SecretLogKey])
	assert.NotContains(t, buf.String(), "JBSWY3DPEHPK3PXP")
	assert.Contains(t, buf.String(), "boom")
}

func TestNewLoggerLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "text")

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown", "secret", "abc")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "secret=****")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "****"},
		{"abcd", "****"},
		{"JBSWY3DP", "JBSW****"},
		{"ſıJBSWY", "ſıJB***"},
		{"ääää€", "ääää*"},
	}

	for _, tt := range tests {
		got := MaskSecret(slog.StringValue(tt.in)).String()
		assert.Equal(t, tt.want, got, tt.in)
		assert.True(t, utf8.ValidString(got), tt.in)
	}
}
