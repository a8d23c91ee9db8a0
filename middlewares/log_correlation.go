// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package middlewares

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"
)

// LoggerContextKey is the echo context key holding the request scoped logger
const LoggerContextKey = "logger"

// LogCorrelationConfig holds configuration for log correlation middleware
type LogCorrelationConfig struct {
	// Skipper defines a function to skip middleware
	Skipper func(echo.Context) bool
	// Logger is the base logger to enhance with trace context
	Logger *slog.Logger
}

// LogCorrelation returns a middleware that logs every request with its trace context
func LogCorrelation() echo.MiddlewareFunc {
	return LogCorrelationWithConfig(LogCorrelationConfig{})
}

// LogCorrelationWithConfig returns a middleware with custom configuration
func LogCorrelationWithConfig(config LogCorrelationConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = func(echo.Context) bool { return false }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			base := config.Logger
			if base == nil {
				base = slog.Default()
			}
			logger := createTraceAwareLogger(c, base)
			c.Set(LoggerContextKey, logger)

			err := next(c)
			logRequestCompletion(c, logger, err)
			return err
		}
	}
}

// createTraceAwareLogger creates a logger with the request ID and trace context
func createTraceAwareLogger(c echo.Context, logger *slog.Logger) *slog.Logger {
	if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
		logger = logger.With("requestID", requestID)
	}

	span := trace.SpanFromContext(c.Request().Context())
	if span.SpanContext().IsValid() {
		return logger.With(
			"traceID", span.SpanContext().TraceID().String(),
			"spanID", span.SpanContext().SpanID().String(),
		)
	}

	if traceID, ok := c.Get("trace.id").(string); ok && traceID != "" {
		logger = logger.With("traceID", traceID)
	}
	return logger
}

// logRequestCompletion logs the request outcome. The request body is never logged.
func logRequestCompletion(c echo.Context, logger *slog.Logger, err error) {
	res := c.Response()
	attrs := []any{
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"status", res.Status,
		"size", res.Size,
	}
	if route := c.Path(); route != "" {
		attrs = append(attrs, "route", route)
	}

	switch {
	case err != nil:
		attrs = append(attrs, "error", err)
		logger.Error("Request completed with error", attrs...)
	case res.Status >= 500:
		logger.Error("Request completed with server error", attrs...)
	case res.Status >= 400:
		logger.Warn("Request completed with client error", attrs...)
	default:
		logger.Info("Request completed successfully", attrs...)
	}
}

// GetLoggerFromContext retrieves the trace-aware logger from Echo context
func GetLoggerFromContext(c echo.Context) *slog.Logger {
	if logger, ok := c.Get(LoggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return createTraceAwareLogger(c, slog.Default())
}
