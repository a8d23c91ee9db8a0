// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024-2025 UnderNET

package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/undernetirc/totp-api/internal/auth/oath"
)

// getRequestID extracts request ID from context for logging
func getRequestID(c echo.Context) string {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = "unknown"
	}
	return requestID
}

// HandleValidationError handles validation errors with detailed field-level information
func HandleValidationError(c echo.Context, err error) error {
	requestID := getRequestID(c)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make(map[string]string)
		for _, e := range validationErrors {
			details[e.Field()] = getValidationErrorMessage(e)
		}

		slog.Warn("Validation error",
			"requestID", requestID,
			"path", c.Request().URL.Path,
			"method", c.Request().Method,
			"errors", details)

		return c.JSON(http.StatusBadRequest, NewErrorResponse(
			ErrCodeValidation,
			"Invalid input provided",
			details,
		))
	}

	// Generic validation error
	slog.Warn("Generic validation error",
		"requestID", requestID,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error())

	return c.JSON(http.StatusBadRequest, NewErrorResponse(
		ErrCodeValidation,
		err.Error(),
		nil,
	))
}

// HandleOTPError maps code generation failures to client responses. Decode and
// configuration errors are caller mistakes, anything else is an internal error.
func HandleOTPError(c echo.Context, err error) error {
	requestID := getRequestID(c)

	var decErr *oath.DecodeError
	if errors.As(err, &decErr) {
		slog.Warn("Invalid secret",
			"requestID", requestID,
			"path", c.Request().URL.Path,
			"cause", decErr.Cause,
			"position", decErr.Pos)

		details := map[string]interface{}{"cause": decErr.Cause}
		if decErr.Pos >= 0 {
			details["position"] = decErr.Pos
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse(
			ErrCodeInvalidSecret,
			"Secret must be valid Base32 (letters A-Z and digits 2-7)",
			details,
		))
	}

	var cfgErr *oath.ConfigurationError
	if errors.As(err, &cfgErr) {
		slog.Warn("Invalid OTP configuration",
			"requestID", requestID,
			"path", c.Request().URL.Path,
			"field", cfgErr.Field,
			"reason", cfgErr.Reason)

		return c.JSON(http.StatusBadRequest, NewErrorResponse(
			ErrCodeInvalidConfig,
			fmt.Sprintf("Invalid %s: %s", cfgErr.Field, cfgErr.Reason),
			map[string]string{"field": cfgErr.Field},
		))
	}

	return HandleInternalError(c, err, "An error occurred while generating the code")
}

// HandleBadRequestError handles malformed request errors
func HandleBadRequestError(c echo.Context, message string) error {
	if message == "" {
		message = "Bad request"
	}

	requestID := getRequestID(c)
	slog.Warn("Bad request",
		"requestID", requestID,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"message", message)

	return c.JSON(http.StatusBadRequest, NewErrorResponse(
		ErrCodeBadRequest,
		message,
		nil,
	))
}

// HandleInternalError handles unexpected internal server errors
func HandleInternalError(c echo.Context, err error, message string) error {
	if message == "" {
		message = "Internal server error"
	}

	requestID := getRequestID(c)
	slog.Error("Internal server error",
		"requestID", requestID,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error(),
		"publicMessage", message)

	return c.JSON(http.StatusInternalServerError, NewErrorResponse(
		ErrCodeInternal,
		message,
		nil,
	))
}

// HTTPErrorHandler renders errors that escape handlers (routing misses, panics recovered
// by middleware, binder failures) using the same envelope as handled errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := ErrCodeInternal
	status := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprintf("%v", he.Message)
		switch status {
		case http.StatusNotFound:
			code = ErrCodeNotFound
		case http.StatusMethodNotAllowed:
			code = ErrCodeMethodNotAllow
		case http.StatusBadRequest:
			code = ErrCodeBadRequest
		default:
			if status < http.StatusInternalServerError {
				code = ErrCodeBadRequest
			}
		}
	}

	if status >= http.StatusInternalServerError {
		slog.Error("Unhandled error",
			"requestID", getRequestID(c),
			"path", c.Request().URL.Path,
			"error", err.Error())
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, NewErrorResponse(code, message, nil))
	}
	if writeErr != nil {
		slog.Error("Failed to write error response", "error", writeErr.Error())
	}
}

// getValidationErrorMessage converts validator field errors to human-readable messages
func getValidationErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be no more than %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "base32secret":
		return "Must contain only letters A-Z and digits 2-7, optionally followed by '=' padding"
	case "otpalgorithm":
		return "Must be one of SHA1, SHA256, SHA512"
	default:
		return fmt.Sprintf("Invalid value for %s", fe.Field())
	}
}
