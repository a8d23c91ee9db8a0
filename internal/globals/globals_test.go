// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package globals

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogAndExit(t *testing.T) {
	var got []int
	exit = func(code int) { got = append(got, code) }
	t.Cleanup(func() { exit = os.Exit })

	LogAndExit("done", 0)
	LogAndExit("failed", 1)

	assert.Equal(t, []int{0, 1}, got)
}
