// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/labstack/echo/v4"

	"github.com/undernetirc/totp-api/internal/auth/oath"
	"github.com/undernetirc/totp-api/internal/auth/oath/totp"
	apierrors "github.com/undernetirc/totp-api/internal/errors"
	"github.com/undernetirc/totp-api/internal/helper"
	"github.com/undernetirc/totp-api/internal/metrics"
	"github.com/undernetirc/totp-api/internal/tracing"
)

// DefaultMaxSecretLength is the number of characters kept from an incoming secret
const DefaultMaxSecretLength = 100

// TOTPControllerConfig holds the dependencies of TOTPController
type TOTPControllerConfig struct {
	// Defaults fill in parameters the request leaves out
	Defaults oath.Config
	// MaxSecretLength truncates secrets after whitespace removal
	MaxSecretLength int
	// Clock returns the current time, time.Now when nil
	Clock func() time.Time
	// Metrics may be nil
	Metrics *metrics.OTPMetrics
}

// TOTPController serves code generation
type TOTPController struct {
	defaults        oath.Config
	maxSecretLength int
	now             func() time.Time
	metrics         *metrics.OTPMetrics
}

// NewTOTPController returns a new TOTPController
func NewTOTPController(cfg TOTPControllerConfig) *TOTPController {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.MaxSecretLength <= 0 {
		cfg.MaxSecretLength = DefaultMaxSecretLength
	}
	return &TOTPController{
		defaults:        cfg.Defaults.WithDefaults(),
		maxSecretLength: cfg.MaxSecretLength,
		now:             cfg.Clock,
		metrics:         cfg.Metrics,
	}
}

// GenerateTOTPRequest is the request body of the generate endpoints. Omitted parameters
// take the configured defaults, explicit zero values are rejected.
type GenerateTOTPRequest struct {
	Secret    string  `json:"secret"              validate:"required,base32secret"  extensions:"x-order=0"`
	Period    *uint64 `json:"period,omitempty"                                      extensions:"x-order=1"`
	Digits    *int    `json:"digits,omitempty"                                      extensions:"x-order=2"`
	Algorithm string  `json:"algorithm,omitempty" validate:"omitempty,otpalgorithm" extensions:"x-order=3"`
}

// GenerateTOTPResponse is the response body of the generate endpoints
type GenerateTOTPResponse struct {
	Token     string `json:"token"      extensions:"x-order=0"`
	Period    uint64 `json:"period"     extensions:"x-order=1"`
	Digits    int    `json:"digits"     extensions:"x-order=2"`
	Algorithm string `json:"algorithm"  extensions:"x-order=3"`
	ExpiresIn uint64 `json:"expires_in" extensions:"x-order=4"`
	Counter   uint64 `json:"counter"    extensions:"x-order=5"`
}

// GenerateTOTP returns the code for the current time step
// @Summary Generate a TOTP code
// @Description Generates the RFC 6238 code for a Base32 secret at the current time.
// @Description Whitespace in the secret is ignored and the secret is truncated to the configured length.
// @Tags totp
// @Accept json
// @Produce json
// @Param data body GenerateTOTPRequest true "Secret and optional parameters"
// @Success 200 {object} GenerateTOTPResponse
// @Failure 400 {object} errors.ErrorResponse "Invalid secret or parameters"
// @Failure 500 {object} errors.ErrorResponse "Internal server error"
// @Router /v1/totp [post]
func (ctr *TOTPController) GenerateTOTP(c echo.Context) error {
	req := new(GenerateTOTPRequest)
	if ok, err := ctr.bindRequest(c, req); !ok {
		return err
	}

	cfg, err := ctr.requestConfig(req)
	if err != nil {
		ctr.metrics.RecordGeneration(c.Request().Context(), ctr.defaults, 0, err)
		return apierrors.HandleOTPError(c, err)
	}

	logger := helper.GetTraceLogger(c)
	logger.Debug("Generating code", helper.SecretLogKey, req.Secret, "algorithm", cfg.Algorithm)

	var resp *GenerateTOTPResponse
	start := time.Now()
	err = tracing.TraceGeneration(tracing.NewTracedContext(c.Request().Context()), cfg, len(req.Secret),
		func(tc *tracing.TracedContext) error {
			now := ctr.now()
			token, err := totp.Generate(req.Secret, cfg, now)
			if err != nil {
				return err
			}
			counter := totp.Counter(now, cfg.Period)
			tc.AddStringAttr("otp.counter", strconv.FormatUint(counter, 10))

			resp = &GenerateTOTPResponse{
				Token:     token,
				Period:    cfg.Period,
				Digits:    cfg.Digits,
				Algorithm: string(cfg.Algorithm),
				ExpiresIn: totp.Remaining(now, cfg.Period),
				Counter:   counter,
			}
			return nil
		})
	ctr.metrics.RecordGeneration(c.Request().Context(), cfg, time.Since(start), err)
	if err != nil {
		return apierrors.HandleOTPError(c, err)
	}

	logger.Info("Generated code", "algorithm", cfg.Algorithm, "digits", cfg.Digits, "expiresIn", resp.ExpiresIn)
	return c.JSON(http.StatusOK, resp)
}

// bindRequest decodes the body into req, cleans the secret in place and validates.
// When ok is false the error response has already been written and err is its write error.
func (ctr *TOTPController) bindRequest(c echo.Context, req *GenerateTOTPRequest) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, apierrors.HandleBadRequestError(c, "Invalid request body")
	}

	req.Secret = ctr.cleanSecret(req.Secret)

	if err := c.Validate(req); err != nil {
		return false, apierrors.HandleValidationError(c, err)
	}
	return true, nil
}

// cleanSecret removes all whitespace and keeps at most maxSecretLength characters
func (ctr *TOTPController) cleanSecret(secret string) string {
	secret = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, secret)

	if runes := []rune(secret); len(runes) > ctr.maxSecretLength {
		secret = string(runes[:ctr.maxSecretLength])
	}
	return secret
}

// requestConfig merges the request parameters over the configured defaults
func (ctr *TOTPController) requestConfig(req *GenerateTOTPRequest) (oath.Config, error) {
	cfg := ctr.defaults
	if req.Period != nil {
		cfg.Period = *req.Period
	}
	if req.Digits != nil {
		cfg.Digits = *req.Digits
	}
	if req.Algorithm != "" {
		alg, err := oath.ParseAlgorithm(req.Algorithm)
		if err != nil {
			return cfg, err
		}
		cfg.Algorithm = alg
	}
	return cfg, cfg.Validate()
}
