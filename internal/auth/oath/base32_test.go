// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package oath

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase32(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"empty", "", []byte{}},
		{"padded", "MY======", []byte("f")},
		{"unpadded", "MZXW6", []byte("foo")},
		{"lower case", "mzxw6ytboi", []byte("foobar")},
		{"mixed case", "MzXw6YtBoI", []byte("foobar")},
		{"incomplete trailing bits", "MZXW6Y", []byte("foo")},
		{"single char", "A", []byte{}},
		{"rfc secret", rfcSeed, []byte("12345678901234567890")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase32(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBase32InvalidCharacters(t *testing.T) {
	tests := []struct {
		input string
		char  rune
		pos   int
	}{
		{"12345678", '1', 0},
		{"ABCDEFG0", '0', 7},
		{"ABC8", '8', 3},
		{"AB CD", ' ', 2},
		{"ABé", 'é', 2},
		{"AB=CD", '=', 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := DecodeBase32(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)

			var decErr *DecodeError
			require.True(t, errors.As(err, &decErr))
			assert.Equal(t, tt.char, decErr.Char)
			assert.Equal(t, tt.pos, decErr.Pos)
		})
	}
}

func TestDecodeBase32RoundTrip(t *testing.T) {
	encodings := map[string]*base32.Encoding{
		"std":       base32.StdEncoding,
		"nopadding": base32.StdEncoding.WithPadding(base32.NoPadding),
	}

	for name, enc := range encodings {
		t.Run(name, func(t *testing.T) {
			for size := 0; size <= 70; size++ {
				data := make([]byte, size)
				_, err := rand.Read(data)
				require.NoError(t, err)

				encoded := enc.EncodeToString(data)

				got, err := DecodeBase32(encoded)
				require.NoError(t, err)
				assert.Equal(t, data, got, "size %d", size)

				got, err = DecodeBase32(strings.ToLower(encoded))
				require.NoError(t, err)
				assert.Equal(t, data, got, "size %d lower case", size)
			}
		})
	}
}

func TestNormalizeSecret(t *testing.T) {
	assert.Equal(t, "GEZDGNBV", NormalizeSecret(" gezd gnbv\t"))
	assert.Equal(t, "GEZDGNBV", NormalizeSecret("GEZD\nGNBV\r\n"))
	assert.Equal(t, "", NormalizeSecret(" \t "))
	assert.Equal(t, "ſJBSWY3DP", NormalizeSecret("ſjbswy3dp"))
	assert.Equal(t, "ıA", NormalizeSecret("ı a"))
}

func TestDecodeSecret(t *testing.T) {
	key, err := DecodeSecret("gezd gnbv gy3t qojq gezd gnbv gy3t qojq")
	require.NoError(t, err)
	assert.Equal(t, []byte("12345678901234567890"), key)

	for _, input := range []string{"", "   ", "A", "====="} {
		_, err := DecodeSecret(input)
		var decErr *DecodeError
		require.True(t, errors.As(err, &decErr), "input %q", input)
		assert.Equal(t, -1, decErr.Pos)
	}

	// Unicode case mapping folds these onto Base32 letters
	for _, input := range []string{"ſſſſſſſſ", "ıJBSWY3DP"} {
		_, err := DecodeSecret(input)
		assert.ErrorIs(t, err, ErrDecode, "input %q", input)
	}

	_, err = DecodeSecret("jbswſ")
	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, 'ſ', decErr.Char)
	assert.Equal(t, 4, decErr.Pos)
}
