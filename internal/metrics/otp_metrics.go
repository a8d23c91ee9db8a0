// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

// Package metrics provides code generation metrics collection
package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/undernetirc/totp-api/internal/auth/oath"
)

// Failure reasons reported on otp_generation_failures_total
const (
	ReasonInvalidSecret = "invalid_secret"
	ReasonInvalidConfig = "invalid_configuration"
	ReasonInternal      = "internal"
)

// OTPMetrics holds the code generation metric instruments
type OTPMetrics struct {
	generated metric.Int64Counter
	failures  metric.Int64Counter
	duration  metric.Float64Histogram
	source    string
}

// OTPMetricsConfig holds configuration for code generation metrics
type OTPMetricsConfig struct {
	Meter metric.Meter
	// Source distinguishes callers, e.g. "http" or "cli"
	Source string
}

// NewOTPMetrics creates a new code generation metrics collector
func NewOTPMetrics(config OTPMetricsConfig) (*OTPMetrics, error) {
	if config.Meter == nil {
		return nil, fmt.Errorf("meter cannot be nil")
	}

	m := &OTPMetrics{source: config.Source}

	var err error
	m.generated, err = config.Meter.Int64Counter(
		"otp_codes_generated_total",
		metric.WithDescription("Total number of one-time codes generated"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create codes generated counter: %w", err)
	}

	m.failures, err = config.Meter.Int64Counter(
		"otp_generation_failures_total",
		metric.WithDescription("Total number of failed code generations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation failures counter: %w", err)
	}

	m.duration, err = config.Meter.Float64Histogram(
		"otp_generation_duration_ms",
		metric.WithDescription("Code generation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation duration histogram: %w", err)
	}

	return m, nil
}

// RecordGeneration records the outcome of one code generation. A nil receiver is a no-op.
func (m *OTPMetrics) RecordGeneration(ctx context.Context, cfg oath.Config, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("algorithm", string(cfg.Algorithm)),
		attribute.Int("digits", cfg.Digits),
		attribute.Int64("period", int64(cfg.Period)), // nolint:gosec // period is a small configured value
		attribute.String("result", getResultString(err == nil)),
		attribute.String("source", m.source),
	}

	durationMs := float64(duration.Nanoseconds()) / 1e6
	m.duration.Record(ctx, durationMs, metric.WithAttributes(attrs...))

	if err != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", FailureReason(err)),
			attribute.String("source", m.source),
		))
		return
	}
	m.generated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// FailureReason classifies a generation error
func FailureReason(err error) string {
	switch {
	case errors.Is(err, oath.ErrDecode):
		return ReasonInvalidSecret
	case errors.Is(err, oath.ErrConfiguration):
		return ReasonInvalidConfig
	default:
		return ReasonInternal
	}
}

// getResultString converts a boolean success to a string result
func getResultString(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
