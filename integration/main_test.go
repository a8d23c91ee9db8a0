//go:build integration

// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package integration

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/undernetirc/totp-api/internal/config"
	"github.com/undernetirc/totp-api/internal/telemetry"
	"github.com/undernetirc/totp-api/routes"
)

var (
	baseURL string
	client  = &http.Client{Timeout: 5 * time.Second}
)

func TestMain(m *testing.M) {
	config.DefaultConfig()
	config.ServiceHost.Set("127.0.0.1")
	config.ServicePort.Set("0")
	// the 64 byte SHA512 key is 103 characters of Base32
	config.TotpMaxSecretLength.Set(128)

	ctx := context.Background()
	provider, err := telemetry.NewProvider(ctx, &telemetry.Config{
		Enabled:            true,
		ServiceName:        "totp-api-integration",
		MetricsEnabled:     true,
		PrometheusEnabled:  true,
		PrometheusEndpoint: "/metrics",
		TracingEnabled:     true,
		TracingSampleRate:  1.0,
	})
	if err != nil {
		log.Fatalf("failed to create telemetry provider: %s", err)
	}

	e := routes.NewEcho()
	if err := routes.LoadRoutesWithOptions(routes.NewRouteService(e, provider), false); err != nil {
		log.Fatalf("failed to load routes: %s", err)
	}
	go func() {
		if err := e.Start(config.GetServerAddress()); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %s", err)
		}
	}()

	addr, err := waitForListener(e, 5*time.Second)
	if err != nil {
		log.Fatal(err)
	}
	baseURL = "http://" + addr

	code := m.Run()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	_ = e.Shutdown(shutdownCtx)
	_ = provider.Shutdown(shutdownCtx)
	cancel()

	os.Exit(code)
}

func waitForListener(e *echo.Echo, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if addr := e.ListenerAddr(); addr != nil {
			return addr.String(), nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return "", fmt.Errorf("server did not start within %s", timeout)
}
