// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestRegisterMetricsEndpoint_Disabled(t *testing.T) {
	e := echo.New()
	provider := &Provider{config: &Config{Enabled: false}}

	if err := RegisterMetricsEndpoint(e, provider); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(e.Routes()) != 0 {
		t.Errorf("Expected no routes, got %d", len(e.Routes()))
	}
}

func TestRegisterMetricsEndpoint_MissingRegistry(t *testing.T) {
	e := echo.New()
	provider := &Provider{config: &Config{Enabled: true, PrometheusEnabled: true, PrometheusEndpoint: "/metrics"}}

	if err := RegisterMetricsEndpoint(e, provider); err == nil {
		t.Error("Expected error when the metric provider is not initialized")
	}
}

func TestRegisterMetricsEndpoint_Serves(t *testing.T) {
	config := &Config{
		Enabled:            true,
		ServiceName:        "test-service",
		ServiceVersion:     "1.0.0",
		MetricsEnabled:     true,
		PrometheusEnabled:  true,
		PrometheusEndpoint: "/metrics",
	}
	provider, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	hm, err := NewHealthMetrics(provider.GetMeter("test"), "test-service", "1.0.0")
	if err != nil {
		t.Fatalf("Failed to create health metrics: %v", err)
	}
	hm.RecordHealthCheck(context.Background(), "OK")

	e := echo.New()
	if err := RegisterMetricsEndpoint(e, provider); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"health_checks_total", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected metrics output to contain %q", want)
		}
	}
}

func TestHealthMetrics_NilSafe(t *testing.T) {
	var hm *HealthMetrics
	hm.RecordHealthCheck(context.Background(), "OK")

	hm, err := NewHealthMetrics(noop.NewMeterProvider().Meter("test"), "svc", "v1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	hm.RecordHealthCheck(context.Background(), "OK")
}
