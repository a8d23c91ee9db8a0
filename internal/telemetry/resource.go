// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// createResource creates an OpenTelemetry resource with service information
func (p *Provider) createResource(ctx context.Context) (*resource.Resource, error) {
	attributes := []attribute.KeyValue{
		semconv.ServiceNameKey.String(p.config.ServiceName),
		semconv.ServiceVersionKey.String(p.config.ServiceVersion),
		semconv.ProcessRuntimeNameKey.String("go"),
		semconv.ProcessRuntimeVersionKey.String(runtime.Version()),
		attribute.String("environment", detectEnvironment()),
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(attributes...),
		resource.WithFromEnv(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	return res, nil
}

// detectEnvironment attempts to detect the deployment environment
func detectEnvironment() string {
	for _, key := range []string{"ENVIRONMENT", "ENV", "DEPLOYMENT_ENV"} {
		if env := os.Getenv(key); env != "" {
			return env
		}
	}

	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "kubernetes"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return "docker"
	}

	return "development"
}
