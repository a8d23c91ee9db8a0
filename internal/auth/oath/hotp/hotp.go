// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Package hotp provides the counter-based one-time password (HOTP) implementation TOTP is
// built on.
package hotp

import (
	"crypto/hmac"

	"github.com/undernetirc/totp-api/internal/auth/oath"
)

type HOTP struct {
	oath.OTP
}

// New creates a new HOTP instance. The Period field of cfg is ignored.
func New(secret string, cfg oath.Config) (*HOTP, error) {
	if cfg.Period == 0 {
		cfg.Period = oath.DefaultPeriod
	}
	otp, err := oath.New(secret, cfg)
	if err != nil {
		return nil, err
	}
	return &HOTP{OTP: otp}, nil
}

// Generate returns the code for secret at counter.
func Generate(secret string, counter uint64, cfg oath.Config) (string, error) {
	h, err := New(secret, cfg)
	if err != nil {
		return "", err
	}
	return h.Generate(counter), nil
}

func (h *HOTP) Generate(counter uint64) string {
	return h.GenerateOTP(counter)
}

func (h *HOTP) Validate(otp string, counter uint64) bool {
	return hmac.Equal([]byte(otp), []byte(h.Generate(counter)))
}
