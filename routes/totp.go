// SPDX-License-Identifier: MIT
// SPDX-FileCopyRightText: Copyright (c) 2025 UnderNET

package routes

import (
	"github.com/labstack/gommon/log"

	"github.com/undernetirc/totp-api/controllers"
	"github.com/undernetirc/totp-api/internal/auth/oath"
	"github.com/undernetirc/totp-api/internal/config"
	"github.com/undernetirc/totp-api/internal/metrics"
)

// TOTPRoutes registers the code generation endpoints: the unversioned
// /generate-totp kept for existing clients and the versioned /totp group.
func (r *RouteService) TOTPRoutes() {
	log.Info("Loading TOTP routes")

	alg, err := oath.ParseAlgorithm(config.TotpAlgorithm.GetString())
	if err != nil {
		log.Fatalf("invalid TOTP defaults: %s", err)
	}
	defaults := oath.Config{
		Period:    config.TotpPeriod.GetUint64(),
		Digits:    config.TotpDigits.GetInt(),
		Algorithm: alg,
	}
	if err := defaults.Validate(); err != nil {
		log.Fatalf("invalid TOTP defaults: %s", err)
	}

	var otpMetrics *metrics.OTPMetrics
	if r.telemetryProvider != nil && r.telemetryProvider.IsEnabled() {
		m, err := metrics.NewOTPMetrics(metrics.OTPMetricsConfig{
			Meter:  r.telemetryProvider.GetMeter("totp-api-otp"),
			Source: "http",
		})
		if err != nil {
			log.Warnf("Failed to create OTP metrics: %v", err)
		} else {
			otpMetrics = m
		}
	}

	c := controllers.NewTOTPController(controllers.TOTPControllerConfig{
		Defaults:        defaults,
		MaxSecretLength: config.TotpMaxSecretLength.GetInt(),
		Metrics:         otpMetrics,
	})

	r.e.POST("/generate-totp", c.GenerateTOTP)

	router := r.routerGroup.Group("/totp")
	router.POST("", c.GenerateTOTP)
}
