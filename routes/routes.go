// SPDX-License-Identifier: MIT
// SPDX-FileCopyRightText: Copyright (c) 2023 UnderNET

// Package routes defines the routes for the echo server.
package routes

import (
	"os"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/mvrilo/go-redoc"
	echoredoc "github.com/mvrilo/go-redoc/echo"
	"github.com/twinj/uuid"

	"github.com/undernetirc/totp-api/internal/config"
	"github.com/undernetirc/totp-api/internal/docs"
	apierrors "github.com/undernetirc/totp-api/internal/errors"
	"github.com/undernetirc/totp-api/internal/helper"
	"github.com/undernetirc/totp-api/internal/telemetry"
	"github.com/undernetirc/totp-api/middlewares"
)

// RouteService is a struct that holds the echo instance, the versioned API group
// and the telemetry provider
type RouteService struct {
	e                 *echo.Echo
	routerGroup       *echo.Group
	telemetryProvider *telemetry.Provider
}

// NewRouteService creates a new RouteService. telemetryProvider may be nil.
func NewRouteService(e *echo.Echo, telemetryProvider *telemetry.Provider) *RouteService {
	return &RouteService{
		e:                 e,
		telemetryProvider: telemetryProvider,
	}
}

// NewEcho creates the echo instance with the validator, error handler, request IDs,
// CORS and the API documentation
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetOutput(os.Stdout)
	if config.ServiceDevMode.GetBool() {
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.INFO)
	}
	e.Validator = helper.NewValidator()
	e.HTTPErrorHandler = apierrors.HTTPErrorHandler

	// Middlewares
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewV4().String() },
	}))
	e.Use(middleware.BodyLimit("16K"))

	// CORS
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: config.ServiceCorsAllowOrigins.GetStringSlice(),
		AllowMethods: config.ServiceCorsAllowMethods.GetStringSlice(),
		MaxAge:       config.ServiceCorsMaxAge.GetInt(),
	}))

	// API documentation
	doc := redoc.Redoc{
		DocsPath: "/docs",
		SpecPath: "/swagger.json",
		SpecFile: "swagger.json",
		SpecFS:   &docs.SwaggerFS,
		Title:    "TOTP API Documentation",
	}
	e.Use(echoredoc.New(doc))

	return e
}

// LoadRoutesWithOptions loads the routes for the echo server, starting it when startServer is set
func LoadRoutesWithOptions(r *RouteService, startServer bool) error {
	metricsPath := config.TelemetryPrometheusEndpoint.GetString()
	skipInfra := func(c echo.Context) bool {
		return c.Path() == metricsPath || c.Path() == "/health-check"
	}

	if r.telemetryProvider != nil && r.telemetryProvider.IsEnabled() {
		middlewares.SetupGlobalPropagator()

		if config.TelemetryTracingEnabled.GetBool() {
			r.e.Use(middlewares.HTTPTracingWithConfig(middlewares.HTTPTracingConfig{
				TracerProvider: r.telemetryProvider.GetTracerProvider(),
				ServiceName:    config.TelemetryServiceName.GetString(),
				Skipper:        skipInfra,
			}))
		}

		if config.TelemetryMetricsEnabled.GetBool() {
			r.e.Use(middlewares.HTTPInstrumentationWithConfig(middlewares.HTTPInstrumentationConfig{
				Meter:       r.telemetryProvider.GetMeter("totp-api-http"),
				ServiceName: config.TelemetryServiceName.GetString(),
				Skipper:     skipInfra,
			}))
		}

		if err := telemetry.RegisterMetricsEndpoint(r.e, r.telemetryProvider); err != nil {
			log.Warnf("Failed to register metrics endpoint: %v", err)
		}
	}

	// Log correlation runs after tracing so the span is available
	r.e.Use(middlewares.LogCorrelationWithConfig(middlewares.LogCorrelationConfig{
		Skipper: skipInfra,
	}))

	prefixV1 := strings.Join([]string{config.ServiceAPIPrefix.GetString(), "v1"}, "/")
	r.routerGroup = r.e.Group("/" + strings.TrimPrefix(prefixV1, "/"))

	// Load routes using reflection by looking for methods ending in "Routes"
	reflType := reflect.TypeOf(r)
	for i := 0; i < reflType.NumMethod(); i++ {
		method := reflType.Method(i)
		if strings.HasSuffix(method.Name, "Routes") {
			reflect.ValueOf(r).MethodByName(method.Name).Call(nil)
		}
	}

	if startServer {
		if err := r.e.Start(config.GetServerAddress()); err != nil {
			return err
		}
	}

	return nil
}
