// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package testutils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/undernetirc/totp-api/internal/auth/oath"
)

func TestSecret(t *testing.T) {
	assert.Equal(t, "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", Secret(oath.AlgorithmSHA1))
	assert.Equal(t, "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZA", Secret(oath.AlgorithmSHA256))
	assert.NotContains(t, Secret(oath.AlgorithmSHA512), "=")
}

func TestVectorCode(t *testing.T) {
	v := RFC6238Vectors[0]
	assert.Equal(t, "94287082", v.Code(oath.AlgorithmSHA1))
	assert.Equal(t, "46119246", v.Code(oath.AlgorithmSHA256))
	assert.Equal(t, "90693936", v.Code(oath.AlgorithmSHA512))
}

func TestFixedClock(t *testing.T) {
	assert.Equal(t, int64(59), FixedClock(59)().Unix())
}
