// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

package telemetry

import (
	"context"
	"fmt"

	"github.com/undernetirc/totp-api/internal/config"
)

// LoadConfigFromViper loads telemetry configuration from Viper
func LoadConfigFromViper() (*Config, error) {
	cfg := &Config{
		Enabled:            config.TelemetryEnabled.GetBool(),
		ServiceName:        config.TelemetryServiceName.GetString(),
		ServiceVersion:     config.TelemetryServiceVersion.GetString(),
		OTLPEndpoint:       config.TelemetryOTLPEndpoint.GetString(),
		OTLPInsecure:       config.TelemetryOTLPInsecure.GetBool(),
		PrometheusEnabled:  config.TelemetryPrometheusEnabled.GetBool(),
		PrometheusEndpoint: config.TelemetryPrometheusEndpoint.GetString(),
		TracingEnabled:     config.TelemetryTracingEnabled.GetBool(),
		TracingSampleRate:  config.TelemetryTracingSampleRate.GetFloat64(),
		MetricsEnabled:     config.TelemetryMetricsEnabled.GetBool(),
	}

	if err := ValidateExporterConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid telemetry configuration: %w", err)
	}

	return cfg, nil
}

// Initialize sets up OpenTelemetry from the loaded configuration
func Initialize(ctx context.Context) (*Provider, error) {
	cfg, err := LoadConfigFromViper()
	if err != nil {
		return nil, fmt.Errorf("failed to load telemetry configuration: %w", err)
	}

	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry provider: %w", err)
	}

	return provider, nil
}
