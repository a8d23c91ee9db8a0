// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

// Package telemetry provides OpenTelemetry initialization and management
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// DefaultShutdownTimeout is the default timeout for telemetry shutdown
const DefaultShutdownTimeout = 10 * time.Second

// Provider manages OpenTelemetry providers and their lifecycle
type Provider struct {
	traceProvider  *sdktrace.TracerProvider
	metricProvider *sdkmetric.MeterProvider
	registry       *prometheus.Registry
	resource       *resource.Resource
	config         *Config
}

// Config holds the telemetry configuration
type Config struct {
	Enabled            bool
	ServiceName        string
	ServiceVersion     string
	OTLPEndpoint       string
	OTLPInsecure       bool
	PrometheusEnabled  bool
	PrometheusEndpoint string
	TracingEnabled     bool
	TracingSampleRate  float64
	MetricsEnabled     bool
}

// NewProvider creates a new telemetry provider with the given configuration
func NewProvider(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		return nil, errors.New("telemetry config cannot be nil")
	}

	provider := &Provider{config: config}
	if !config.Enabled {
		return provider, nil
	}

	res, err := provider.createResource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	provider.resource = res

	if config.TracingEnabled {
		tp, err := provider.createTraceProvider(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace provider: %w", err)
		}
		provider.traceProvider = tp
		otel.SetTracerProvider(tp)
	}

	if config.MetricsEnabled {
		mp, err := provider.createMetricProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create metric provider: %w", err)
		}
		provider.metricProvider = mp
		otel.SetMeterProvider(mp)
	}

	slog.Info("OpenTelemetry initialized",
		"service", config.ServiceName,
		"version", config.ServiceVersion,
		"tracing", config.TracingEnabled,
		"metrics", config.MetricsEnabled,
		"sample_rate", config.TracingSampleRate)

	return provider, nil
}

// Shutdown gracefully shuts down all telemetry providers
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || !p.IsEnabled() {
		return nil
	}

	var errs []error
	if p.traceProvider != nil {
		if err := p.traceProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown trace provider: %w", err))
		}
	}
	if p.metricProvider != nil {
		if err := p.metricProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown metric provider: %w", err))
		}
	}

	return errors.Join(errs...)
}

// ShutdownWithTimeout shuts down the provider, giving up after timeout
func ShutdownWithTimeout(provider *Provider, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return provider.Shutdown(ctx)
}

// GetTracer returns a tracer for the given name
func (p *Provider) GetTracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if p.traceProvider == nil {
		return otel.GetTracerProvider().Tracer(name, opts...)
	}
	return p.traceProvider.Tracer(name, opts...)
}

// GetTracerProvider returns the SDK tracer provider, or the global one when tracing is off
func (p *Provider) GetTracerProvider() trace.TracerProvider {
	if p.traceProvider == nil {
		return otel.GetTracerProvider()
	}
	return p.traceProvider
}

// GetMeter returns a meter for the given name. A provider without metrics hands out a no-op meter.
func (p *Provider) GetMeter(name string, opts ...metric.MeterOption) metric.Meter {
	if p.metricProvider == nil {
		return noop.NewMeterProvider().Meter(name, opts...)
	}
	return p.metricProvider.Meter(name, opts...)
}

// IsEnabled returns whether telemetry is enabled
func (p *Provider) IsEnabled() bool {
	return p.config != nil && p.config.Enabled
}

// GetResource returns the telemetry resource
func (p *Provider) GetResource() *resource.Resource {
	return p.resource
}

// createTraceProvider creates and configures the trace provider
func (p *Provider) createTraceProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(p.resource),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(p.config.TracingSampleRate))),
	}

	if p.config.OTLPEndpoint != "" {
		exporter, err := newOTLPTraceExporter(ctx, p.config)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(512),
		))
	}

	return sdktrace.NewTracerProvider(opts...), nil
}

// createMetricProvider creates the meter provider and its Prometheus reader
func (p *Provider) createMetricProvider() (*sdkmetric.MeterProvider, error) {
	opts := []sdkmetric.Option{
		sdkmetric.WithResource(p.resource),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "otp_generation_duration_ms"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
				},
			},
		)),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "http_request_duration_ms"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
				},
			},
		)),
	}

	if p.config.PrometheusEnabled {
		registry, reader, err := newPrometheusReader()
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus reader: %w", err)
		}
		p.registry = registry
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	return sdkmetric.NewMeterProvider(opts...), nil
}
