// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// Package testutils provides shared unit test functions
package testutils

import (
	"encoding/base32"
	"strings"
	"time"

	"github.com/undernetirc/totp-api/internal/auth/oath"
)

// RFC 6238 appendix B keys, ASCII "1234567890" repeated to the hash output size
const (
	SHA1Key   = "12345678901234567890"
	SHA256Key = "12345678901234567890123456789012"
	SHA512Key = "1234567890123456789012345678901234567890123456789012345678901234"
)

// Vector is one row of the RFC 6238 appendix B table (8 digits, 30 second steps)
type Vector struct {
	Unix   int64
	SHA1   string
	SHA256 string
	SHA512 string
}

// RFC6238Vectors is the RFC 6238 appendix B test table
var RFC6238Vectors = []Vector{
	{59, "94287082", "46119246", "90693936"},
	{1111111109, "07081804", "68084774", "25091201"},
	{1111111111, "14050471", "67062674", "99943326"},
	{1234567890, "89005924", "91819424", "93441116"},
	{2000000000, "69279037", "90698825", "38618901"},
	{20000000000, "65353130", "77737706", "47863826"},
}

// Code returns the expected code for alg
func (v Vector) Code(alg oath.Algorithm) string {
	switch alg {
	case oath.AlgorithmSHA256:
		return v.SHA256
	case oath.AlgorithmSHA512:
		return v.SHA512
	default:
		return v.SHA1
	}
}

// Secret returns the unpadded Base32 form of the RFC 6238 key for alg
func Secret(alg oath.Algorithm) string {
	key := SHA1Key
	switch alg {
	case oath.AlgorithmSHA256:
		key = SHA256Key
	case oath.AlgorithmSHA512:
		key = SHA512Key
	}
	return EncodeSecret([]byte(key))
}

// EncodeSecret returns key as unpadded upper case Base32
func EncodeSecret(key []byte) string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(key), "=")
}

// FixedClock returns a clock stopped at unix seconds
func FixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}
