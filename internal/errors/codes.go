// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024-2025 UnderNET

// Package errors provides consistent error handling and response formatting for the API
package errors

// Error codes for consistent error identification
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeInvalidSecret  = "INVALID_SECRET"
	ErrCodeInvalidConfig  = "INVALID_CONFIGURATION"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeMethodNotAllow = "METHOD_NOT_ALLOWED"
)
