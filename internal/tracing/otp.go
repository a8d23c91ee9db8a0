// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

// Package tracing provides span helpers for code generation
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/undernetirc/totp-api/internal/auth/oath"
)

const tracerName = "github.com/undernetirc/totp-api/internal/tracing"

// TraceGeneration runs fn inside an "otp.generate" span carrying the
// generation parameters. The secret itself is never recorded, only its length.
func TraceGeneration(tc *TracedContext, cfg oath.Config, secretLen int, fn func(*TracedContext) error) error {
	ctx, span := otel.Tracer(tracerName).Start(tc, "otp.generate",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("otp.algorithm", string(cfg.Algorithm)),
			attribute.Int("otp.digits", cfg.Digits),
			attribute.Int64("otp.period", int64(cfg.Period)), // nolint:gosec // period is a small configured value
			attribute.Int("otp.secret_length", secretLen),
		),
	)
	defer span.End()

	child := &TracedContext{Context: ctx, span: span}
	if err := fn(child); err != nil {
		child.RecordError(err)
		return err
	}
	child.MarkSuccess()
	return nil
}
