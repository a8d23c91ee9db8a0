// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Package totp provides a time-based one-time password (TOTP) implementation.
//
// The current time is always supplied by the caller; nothing in this package reads the clock.
package totp

import (
	"crypto/hmac"
	"math"
	"time"

	"github.com/undernetirc/totp-api/internal/auth/oath"
)

// TOTP represents a Time-based One-Time Password
type TOTP struct {
	oath.OTP
	skew uint8
}

// New creates a new TOTP instance. cfg is validated as is, call cfg.WithDefaults() first
// to fill in zero fields.
func New(secret string, cfg oath.Config, skew uint8) (*TOTP, error) {
	otp, err := oath.New(secret, cfg)
	if err != nil {
		return nil, err
	}
	return &TOTP{OTP: otp, skew: skew}, nil
}

// Generate returns the code for secret at now.
func Generate(secret string, cfg oath.Config, now time.Time) (string, error) {
	t, err := New(secret, cfg, 0)
	if err != nil {
		return "", err
	}
	return t.GenerateCustom(now), nil
}

// Counter returns floor(unix(now) / period). Instants before the Unix epoch map to 0.
// period must be greater than 0.
func Counter(now time.Time, period uint64) uint64 {
	return unixSeconds(now) / period
}

// Remaining returns how long the code generated at now stays valid, in whole seconds.
// The result is always in [1, period].
func Remaining(now time.Time, period uint64) uint64 {
	return period - unixSeconds(now)%period
}

func unixSeconds(t time.Time) uint64 {
	if t.Unix() < 0 {
		return 0
	}
	return uint64(t.Unix()) // nolint:gosec // checked for negative values above
}

// GenerateCustom generates a new TOTP with a custom time.
func (totp *TOTP) GenerateCustom(t time.Time) string {
	return totp.GenerateOTP(totp.Counter(t))
}

// Counter returns the time step counter for t.
func (totp *TOTP) Counter(t time.Time) uint64 {
	return Counter(t, totp.Config().Period)
}

// Remaining returns the seconds until the code for t expires.
func (totp *TOTP) Remaining(t time.Time) uint64 {
	return Remaining(t, totp.Config().Period)
}

// ValidateCustom checks if the provided OTP is valid at t, allowing skew steps of clock
// drift in both directions.
func (totp *TOTP) ValidateCustom(otp string, t time.Time) bool {
	counter := totp.Counter(t)

	counters := make([]uint64, 0, 2*int(totp.skew)+1)
	counters = append(counters, counter)

	var i uint8
	for i = 1; i <= totp.skew && i != 0; i++ {
		delta := uint64(i)
		if counter >= delta {
			counters = append(counters, counter-delta)
		}
		if delta <= math.MaxUint64-counter {
			counters = append(counters, counter+delta)
		}
	}

	valid := false
	for _, c := range counters {
		if hmac.Equal([]byte(otp), []byte(totp.GenerateOTP(c))) {
			valid = true
		}
	}
	return valid
}
