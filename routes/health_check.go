// SPDX-License-Identifier: MIT
// SPDX-FileCopyRightText: Copyright (c) 2023 UnderNET

package routes

import (
	"github.com/labstack/gommon/log"

	"github.com/undernetirc/totp-api/controllers"
	"github.com/undernetirc/totp-api/internal/config"
	"github.com/undernetirc/totp-api/internal/telemetry"
)

// HealthCheckRoutes Adds health check endpoint to determine if the service is up (useful for load balancers or k8s)
func (r *RouteService) HealthCheckRoutes() {
	log.Info("Loading health check routes")

	var recorder controllers.HealthRecorder
	if r.telemetryProvider != nil && r.telemetryProvider.IsEnabled() {
		hm, err := telemetry.NewHealthMetrics(
			r.telemetryProvider.GetMeter("totp-api-health"),
			config.TelemetryServiceName.GetString(),
			config.TelemetryServiceVersion.GetString(),
		)
		if err != nil {
			log.Warnf("Failed to create health metrics: %v", err)
		} else {
			recorder = hm
		}
	}

	c := controllers.NewHealthCheckController(recorder)
	r.e.GET("/health-check", c.HealthCheck)
}
