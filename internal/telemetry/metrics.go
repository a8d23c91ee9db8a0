// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RegisterMetricsEndpoint exposes the provider's Prometheus registry on the configured path
func RegisterMetricsEndpoint(e *echo.Echo, provider *Provider) error {
	if provider == nil || !provider.IsEnabled() || !provider.config.PrometheusEnabled {
		return nil
	}
	if provider.registry == nil {
		return fmt.Errorf("metric provider not initialized in telemetry provider")
	}

	handler := promhttp.HandlerFor(provider.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		Timeout:           5 * time.Second,
	})
	e.GET(provider.config.PrometheusEndpoint, echo.WrapHandler(handler))

	return nil
}

// HealthMetrics provides health-related metrics
type HealthMetrics struct {
	healthCounter metric.Int64Counter
	startTime     time.Time
}

// NewHealthMetrics creates health-related metrics
func NewHealthMetrics(meter metric.Meter, serviceName, serviceVersion string) (*HealthMetrics, error) {
	healthCounter, err := meter.Int64Counter(
		"health_checks_total",
		metric.WithDescription("Total number of health checks"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health counter: %w", err)
	}

	uptimeGauge, err := meter.Float64ObservableGauge(
		"uptime_seconds",
		metric.WithDescription("Service uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create uptime gauge: %w", err)
	}

	versionInfo, err := meter.Int64ObservableGauge(
		"version_info",
		metric.WithDescription("Service version information"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create version info gauge: %w", err)
	}

	hm := &HealthMetrics{
		healthCounter: healthCounter,
		startTime:     time.Now(),
	}

	_, err = meter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			o.ObserveFloat64(uptimeGauge, time.Since(hm.startTime).Seconds())
			o.ObserveInt64(versionInfo, 1,
				metric.WithAttributes(
					attribute.String("service", serviceName),
					attribute.String("version", serviceVersion),
				),
			)
			return nil
		},
		uptimeGauge,
		versionInfo,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register health callbacks: %w", err)
	}

	return hm, nil
}

// RecordHealthCheck records a health check metric. A nil receiver is a no-op.
func (hm *HealthMetrics) RecordHealthCheck(ctx context.Context, status string) {
	if hm == nil {
		return
	}
	hm.healthCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}
