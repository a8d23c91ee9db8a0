// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package oath

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode matches any *DecodeError via errors.Is.
	ErrDecode = errors.New("oath: invalid base32 secret")
	// ErrConfiguration matches any *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("oath: invalid configuration")
)

// DecodeError is returned when a secret is not valid Base32 or decodes to no key bytes.
type DecodeError struct {
	// Cause is a human readable description of the problem.
	Cause string
	// Char is the offending character, zero when the error is not about a single character.
	Char rune
	// Pos is the byte offset of Char in the normalized secret, -1 when not applicable.
	Pos int
}

func (e *DecodeError) Error() string {
	if e.Char != 0 {
		return fmt.Sprintf("oath: invalid base32 secret: %s %q at position %d", e.Cause, e.Char, e.Pos)
	}
	return fmt.Sprintf("oath: invalid base32 secret: %s", e.Cause)
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// ConfigurationError names the configuration field that holds an unsupported value.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("oath: invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
