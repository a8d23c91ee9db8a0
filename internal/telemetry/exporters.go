// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package telemetry

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newOTLPTraceExporter creates an OTLP HTTP trace exporter
func newOTLPTraceExporter(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.OTLPEndpoint),
	}

	if config.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	} else {
		opts = append(opts, otlptracehttp.WithTLSClientConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
		}))
	}

	return otlptracehttp.New(ctx, opts...)
}

// newPrometheusReader creates a Prometheus metric reader backed by its own registry
func newPrometheusReader() (*prometheus.Registry, sdkmetric.Reader, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reader, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, err
	}
	return registry, reader, nil
}

// ValidateExporterConfig validates the exporter configuration
func ValidateExporterConfig(config *Config) error {
	if !config.Enabled {
		return nil
	}

	if config.OTLPEndpoint == "localhost" || config.OTLPEndpoint == "127.0.0.1" {
		return fmt.Errorf("OTLP endpoint must include a port")
	}

	if config.TracingSampleRate < 0.0 || config.TracingSampleRate > 1.0 {
		return fmt.Errorf("tracing sample rate must be between 0.0 and 1.0, got %f", config.TracingSampleRate)
	}

	if config.PrometheusEnabled && config.PrometheusEndpoint == "" {
		return fmt.Errorf("prometheus is enabled but no endpoint path is configured")
	}

	return nil
}
