// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

package helper

import (
	"io"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	slogformatter "github.com/samber/slog-formatter"
	"go.opentelemetry.io/otel/trace"
)

// SecretLogKey is the attribute key whose value is always masked in log output
const SecretLogKey = "secret"

// NewLogger builds the process logger. format is "json" or "text", level is one of
// debug, info, warn, error (default info). error attributes are expanded into message and
// type, and values logged under SecretLogKey are masked.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(slogformatter.NewFormatterHandler(
		slogformatter.ErrorFormatter("error"),
		slogformatter.FormatByKey(SecretLogKey, MaskSecret),
	)(handler))
}

// ParseLogLevel converts a level name to a slog.Level, unknown names map to info
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MaskSecret keeps the first four characters of a secret and hides the rest
func MaskSecret(v slog.Value) slog.Value {
	r := []rune(v.String())
	if len(r) <= 4 {
		return slog.StringValue("****")
	}
	return slog.StringValue(string(r[:4]) + strings.Repeat("*", len(r)-4))
}

// GetRequestLogger returns a slog.Logger that automatically includes the request ID
// from the Echo context in all log entries. If no request ID is found, it uses "unknown".
func GetRequestLogger(c echo.Context) *slog.Logger {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = "unknown"
	}

	return slog.With("requestID", requestID)
}

// GetRequestID extracts the request ID from the Echo context.
// Returns "unknown" if no request ID is found.
func GetRequestID(c echo.Context) string {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = "unknown"
	}
	return requestID
}

// GetTraceLogger returns a slog.Logger that includes both request ID and trace context
// information (trace ID, span ID) for complete log correlation.
func GetTraceLogger(c echo.Context) *slog.Logger {
	// Start with request ID
	requestID := GetRequestID(c)
	logger := slog.With("requestID", requestID)

	// Add trace context if available
	span := trace.SpanFromContext(c.Request().Context())
	if span.SpanContext().IsValid() {
		logger = logger.With(
			"traceID", span.SpanContext().TraceID().String(),
			"spanID", span.SpanContext().SpanID().String(),
		)
		if span.SpanContext().TraceFlags().IsSampled() {
			logger = logger.With("traceSampled", true)
		}
		return logger
	}

	// Fall back to IDs stored on the echo context by the tracing middleware
	if traceID, ok := c.Get("trace.id").(string); ok && traceID != "" {
		logger = logger.With("traceID", traceID)
	}
	if spanID, ok := c.Get("span.id").(string); ok && spanID != "" {
		logger = logger.With("spanID", spanID)
	}

	return logger
}

// GetTraceID extracts the trace ID from the Echo context.
// Returns empty string if no trace ID is found.
func GetTraceID(c echo.Context) string {
	// First try to get from active span
	span := trace.SpanFromContext(c.Request().Context())
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}

	// Fallback to stored trace ID in Echo context
	if traceID, ok := c.Get("trace.id").(string); ok {
		return traceID
	}

	return ""
}
