// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package oath

import (
	"crypto/hmac"

	// SHA1 is required by RFC 4226 (HOTP) and RFC 6238 (TOTP)
	// nolint:gosec // SHA1 is used as part of HMAC-SHA1 which is still secure for this use case
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"strings"
)

// Algorithm is the HMAC hash function used to derive codes.
type Algorithm string

const (
	AlgorithmSHA1   Algorithm = "SHA1"
	AlgorithmSHA256 Algorithm = "SHA256"
	AlgorithmSHA512 Algorithm = "SHA512"
)

// Defaults from RFC 6238 as deployed by common authenticator apps.
const (
	DefaultPeriod    uint64 = 30
	DefaultDigits           = 6
	DefaultAlgorithm        = AlgorithmSHA1

	MinDigits = 1
	MaxDigits = 10
)

// ParseAlgorithm converts names such as "sha1", "SHA-256" or "Sha512" to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.Map(upperASCII, strings.ReplaceAll(strings.TrimSpace(name), "-", ""))
	switch Algorithm(n) {
	case AlgorithmSHA1, AlgorithmSHA256, AlgorithmSHA512:
		return Algorithm(n), nil
	}
	return "", &ConfigurationError{Field: "algorithm", Value: name, Reason: "must be one of SHA1, SHA256, SHA512"}
}

// New returns the hash constructor for the algorithm.
func (a Algorithm) New() (func() hash.Hash, error) {
	switch a {
	case AlgorithmSHA1:
		return sha1.New, nil
	case AlgorithmSHA256:
		return sha256.New, nil
	case AlgorithmSHA512:
		return sha512.New, nil
	}
	return nil, &ConfigurationError{Field: "algorithm", Value: string(a), Reason: "must be one of SHA1, SHA256, SHA512"}
}

// Config holds the parameters shared by HOTP and TOTP generation.
type Config struct {
	// Period is the TOTP time step in seconds. Ignored by HOTP.
	Period uint64
	// Digits is the length of the generated code.
	Digits int
	// Algorithm is the HMAC hash function.
	Algorithm Algorithm
}

// DefaultConfig returns a 30 second, 6 digit, HMAC-SHA1 configuration.
func DefaultConfig() Config {
	return Config{Period: DefaultPeriod, Digits: DefaultDigits, Algorithm: DefaultAlgorithm}
}

// WithDefaults returns a copy of c where zero fields are replaced by their defaults.
func (c Config) WithDefaults() Config {
	if c.Period == 0 {
		c.Period = DefaultPeriod
	}
	if c.Digits == 0 {
		c.Digits = DefaultDigits
	}
	if c.Algorithm == "" {
		c.Algorithm = DefaultAlgorithm
	}
	return c
}

// Validate checks every field and returns a *ConfigurationError for the first invalid one.
func (c Config) Validate() error {
	if c.Period == 0 {
		return &ConfigurationError{Field: "period", Value: c.Period, Reason: "must be greater than 0"}
	}
	if err := validateDigits(c.Digits); err != nil {
		return err
	}
	if _, err := c.Algorithm.New(); err != nil {
		return err
	}
	return nil
}

func validateDigits(digits int) error {
	if digits < MinDigits || digits > MaxDigits {
		return &ConfigurationError{Field: "digits", Value: digits, Reason: "must be between 1 and 10"}
	}
	return nil
}

// hmacSum computes HMAC(alg, key, msg).
func hmacSum(alg Algorithm, key, msg []byte) ([]byte, error) {
	newHash, err := alg.New()
	if err != nil {
		return nil, err
	}
	h := hmac.New(newHash, key)
	h.Write(msg)
	return h.Sum(nil), nil
}
