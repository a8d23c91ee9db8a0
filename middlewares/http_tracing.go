// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package middlewares

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// HTTPTracingConfig holds configuration for HTTP tracing middleware
type HTTPTracingConfig struct {
	// Skipper defines a function to skip middleware
	Skipper func(echo.Context) bool
	// TracerProvider is the OpenTelemetry tracer provider
	TracerProvider trace.TracerProvider
	// ServiceName is used for span naming and attributes
	ServiceName string
	// Propagator is used for trace context propagation
	Propagator propagation.TextMapPropagator
}

// HTTPTracing returns a middleware that opens a server span per request and
// stores its IDs on the echo context for log correlation
func HTTPTracing(tracerProvider trace.TracerProvider, serviceName string) echo.MiddlewareFunc {
	return HTTPTracingWithConfig(HTTPTracingConfig{
		TracerProvider: tracerProvider,
		ServiceName:    serviceName,
	})
}

// HTTPTracingWithConfig returns a middleware with custom configuration
func HTTPTracingWithConfig(config HTTPTracingConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = func(echo.Context) bool { return false }
	}
	if config.ServiceName == "" {
		config.ServiceName = "totp-api"
	}
	if config.Propagator == nil {
		config.Propagator = otel.GetTextMapPropagator()
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}

	base := otelecho.Middleware(
		config.ServiceName,
		otelecho.WithTracerProvider(config.TracerProvider),
		otelecho.WithPropagators(config.Propagator),
		otelecho.WithSkipper(config.Skipper),
	)

	enhance := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			span := trace.SpanFromContext(c.Request().Context())
			if !span.IsRecording() {
				return next(c)
			}

			sc := span.SpanContext()
			c.Set("trace.id", sc.TraceID().String())
			c.Set("span.id", sc.SpanID().String())
			if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
				span.SetAttributes(attribute.String("http.request_id", requestID))
			}

			err := next(c)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return err
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return base(enhance(next))
	}
}

// SetupGlobalPropagator configures the global trace propagator
func SetupGlobalPropagator() {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}
