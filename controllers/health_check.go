// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthRecorder records health check outcomes
type HealthRecorder interface {
	RecordHealthCheck(ctx context.Context, status string)
}

type HealthCheckController struct {
	recorder HealthRecorder
}

// NewHealthCheckController creates a health check controller. recorder may be nil.
func NewHealthCheckController(recorder HealthRecorder) *HealthCheckController {
	return &HealthCheckController{recorder: recorder}
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}

// HealthCheck reports that the service is up. The engine has no external dependencies,
// so the service is healthy whenever it can answer.
func (ctr *HealthCheckController) HealthCheck(c echo.Context) error {
	resp := &HealthCheckResponse{Status: "OK"}

	if ctr.recorder != nil {
		ctr.recorder.RecordHealthCheck(c.Request().Context(), resp.Status)
	}

	return c.JSON(http.StatusOK, resp)
}
