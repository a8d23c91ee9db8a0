// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Command totp-api serves TOTP generation over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/undernetirc/totp-api/internal/config"
	"github.com/undernetirc/totp-api/internal/globals"
	"github.com/undernetirc/totp-api/internal/helper"
	"github.com/undernetirc/totp-api/internal/telemetry"
	"github.com/undernetirc/totp-api/routes"
)

var (
	Version     = "0.0.1-dev"
	BuildDate   string
	BuildCommit string
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	versionFlag := flag.Bool("version", false, "print version and exit")

	flag.Parse()

	if *versionFlag {
		if BuildCommit == "" {
			BuildCommit = "unknown"
		}

		globals.LogAndExit(fmt.Sprintf("Version %s %s %s", Version, BuildCommit, BuildDate), 0)
	}

	// Initialize configuration
	config.InitConfig(*configPath)

	level := config.LogLevel.GetString()
	if config.ServiceDevMode.GetBool() {
		level = "debug"
	}
	slog.SetDefault(helper.NewLogger(os.Stdout, level, config.LogFormat.GetString()))

	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.Initialize(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := telemetry.ShutdownWithTimeout(provider, telemetry.DefaultShutdownTimeout); err != nil {
			slog.Warn("Failed to shutdown telemetry", "error", err)
		}
	}()

	e := routes.NewEcho()
	if err := routes.LoadRoutesWithOptions(routes.NewRouteService(e, provider), false); err != nil {
		return err
	}

	slog.Info("Starting server", "address", config.GetServerAddress(), "version", Version)
	return serve(ctx, e, config.GetServerAddress())
}

// serve runs e on address until ctx is done or the server fails. Routes must already be
// registered.
func serve(ctx context.Context, e *echo.Echo, address string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(address)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return e.Shutdown(shutdownCtx)
}
