// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// Package globals contains global variables and functions
package globals

import (
	"fmt"
	"io"
	"os"
)

// exit is swapped out by tests
var exit = os.Exit

// LogAndExit prints a message and exits with a given code. Messages for non-zero
// codes go to stderr.
func LogAndExit(message string, code int) {
	var w io.Writer = os.Stdout
	if code != 0 {
		w = os.Stderr
	}
	fmt.Fprintln(w, message)
	exit(code)
}
