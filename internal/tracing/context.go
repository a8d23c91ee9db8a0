// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package tracing

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/undernetirc/totp-api/internal/auth/oath"
)

// Error categories attached to failed spans
const (
	ErrorCategoryValidation = "validation"
	ErrorCategoryInternal   = "internal"
)

// TracedContext wraps a context and span to provide convenient tracing methods
type TracedContext struct {
	context.Context
	span trace.Span
}

// NewTracedContext creates a new TracedContext from a context
// If the context doesn't have a span, it uses a no-op span
func NewTracedContext(ctx context.Context) *TracedContext {
	return &TracedContext{
		Context: ctx,
		span:    trace.SpanFromContext(ctx),
	}
}

// Span returns the underlying span
func (tc *TracedContext) Span() trace.Span {
	return tc.span
}

func (tc *TracedContext) recording() bool {
	return tc.span != nil && tc.span.IsRecording()
}

// AddStringAttr adds a string attribute
func (tc *TracedContext) AddStringAttr(key, value string) {
	if tc.recording() {
		tc.span.SetAttributes(attribute.String(key, value))
	}
}

// AddIntAttr adds an int attribute
func (tc *TracedContext) AddIntAttr(key string, value int) {
	if tc.recording() {
		tc.span.SetAttributes(attribute.Int(key, value))
	}
}

// AddBoolAttr adds a bool attribute
func (tc *TracedContext) AddBoolAttr(key string, value bool) {
	if tc.recording() {
		tc.span.SetAttributes(attribute.Bool(key, value))
	}
}

// RecordError records an error in the span with automatic categorization
func (tc *TracedContext) RecordError(err error) {
	if !tc.recording() || err == nil {
		return
	}

	tc.span.RecordError(err)
	tc.span.SetStatus(codes.Error, err.Error())
	tc.span.SetAttributes(
		attribute.String("error.category", categorizeError(err)),
		attribute.String("error.type", fmt.Sprintf("%T", err)),
	)
}

// MarkSuccess marks the current operation as successful
func (tc *TracedContext) MarkSuccess() {
	if tc.recording() {
		tc.span.SetStatus(codes.Ok, "")
		tc.span.SetAttributes(attribute.Bool("operation.success", true))
	}
}

// categorizeError separates caller mistakes from server faults
func categorizeError(err error) string {
	if errors.Is(err, oath.ErrDecode) || errors.Is(err, oath.ErrConfiguration) {
		return ErrorCategoryValidation
	}
	return ErrorCategoryInternal
}
