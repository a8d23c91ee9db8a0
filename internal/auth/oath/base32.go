// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package oath

import (
	"strings"
	"unicode"
)

const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// base32Values maps an ASCII byte to its 5-bit value, 0xFF marks bytes outside the alphabet.
var base32Values = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = 0xFF
	}
	for i := 0; i < len(base32Alphabet); i++ {
		c := base32Alphabet[i]
		t[c] = byte(i)
		t[unicode.ToLower(rune(c))&0xFF] = byte(i)
	}
	return t
}()

// NormalizeSecret removes all whitespace from s and upper-cases ASCII letters. Other
// characters are left as they are so the decoder can reject them.
func NormalizeSecret(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return upperASCII(r)
	}, s)
}

// upperASCII upper-cases a-z only. unicode.ToUpper maps runes such as 'ſ' and 'ı' onto
// ASCII letters.
func upperASCII(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

// DecodeBase32 decodes an RFC 4648 Base32 string. Input is case-insensitive and may end in
// any number of '=' padding characters. Trailing bits that do not complete a byte are
// discarded, so unpadded secrets of any length are accepted.
func DecodeBase32(s string) ([]byte, error) {
	data := strings.TrimRight(s, "=")

	out := make([]byte, 0, len(data)*5/8)
	var buffer uint32
	var bits uint

	for i := 0; i < len(data); i++ {
		c := data[i]
		v := base32Values[c]
		if v == 0xFF {
			if c == '=' {
				return nil, &DecodeError{Cause: "padding before end of input", Char: '=', Pos: i}
			}
			r := rune(c)
			if c >= 0x80 {
				r = []rune(s[i:])[0]
			}
			return nil, &DecodeError{Cause: "illegal character", Char: r, Pos: i}
		}

		buffer = buffer<<5 | uint32(v)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buffer>>bits))
			buffer &= 1<<bits - 1
		}
	}

	return out, nil
}

// DecodeSecret normalizes and decodes a Base32 secret into key bytes.
// A secret that yields no key bytes is rejected.
func DecodeSecret(secret string) ([]byte, error) {
	key, err := DecodeBase32(NormalizeSecret(secret))
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, &DecodeError{Cause: "secret decodes to zero key bytes", Pos: -1}
	}
	return key, nil
}
