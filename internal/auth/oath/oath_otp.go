// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Package oath implements the HMAC-based one-time password core shared by HOTP (RFC 4226)
// and TOTP (RFC 6238): secret decoding, counter encoding and dynamic truncation.
//
// Everything in this package is a pure function of its inputs and is safe for concurrent use.
package oath

import (
	"encoding/binary"
	"fmt"
)

// pow10 holds 10^n for every supported digit count.
var pow10 = [MaxDigits + 1]uint64{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000, 10000000000,
}

// OTP is a decoded secret bound to a validated configuration.
type OTP struct {
	key []byte
	cfg Config
}

// New decodes secret and validates cfg. Zero config fields are not defaulted.
func New(secret string, cfg Config) (OTP, error) {
	if err := cfg.Validate(); err != nil {
		return OTP{}, err
	}
	key, err := DecodeSecret(secret)
	if err != nil {
		return OTP{}, err
	}
	return OTP{key: key, cfg: cfg}, nil
}

// GenerateOTP returns the code for the given moving factor. otp must come from New.
func (otp OTP) GenerateOTP(counter uint64) string {
	msg := EncodeCounter(counter)
	// cfg was validated by New, Truncate cannot fail here
	code, err := Truncate(otp.key, msg[:], otp.cfg.Algorithm, otp.cfg.Digits)
	if err != nil {
		panic(err)
	}
	return code
}

// Config returns the configuration the OTP was created with.
func (otp OTP) Config() Config {
	return otp.cfg
}

// EncodeCounter encodes counter as 8 big-endian bytes.
func EncodeCounter(counter uint64) [8]byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], counter)
	return buf
}

// Truncate computes HMAC(alg, key, msg) and applies RFC 4226 dynamic truncation,
// returning a zero-padded decimal code of exactly digits characters.
func Truncate(key, msg []byte, alg Algorithm, digits int) (string, error) {
	if err := validateDigits(digits); err != nil {
		return "", err
	}
	s, err := hmacSum(alg, key, msg)
	if err != nil {
		return "", err
	}

	o := s[len(s)-1] & 0xf
	v := binary.BigEndian.Uint32(s[o:o+4]) & 0x7fffffff
	code := uint64(v) % pow10[digits]

	return fmt.Sprintf("%0*d", digits, code), nil
}
