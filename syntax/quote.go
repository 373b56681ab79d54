// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Skarn string and rune literal quoting.
//
// The escape set is deliberately small: \0 \a \b \f \n \r \t \v \\ \' \"
// and \xXX, \uXXXX hexadecimal escapes.

import (
	"fmt"
	"strconv"
	"strings"
)

// unquote interprets a double-quoted Skarn string literal,
// including the quotes, returning its contents.
func unquote(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("not a string literal: %s", raw)
	}
	return unquoteBody(raw[1 : len(raw)-1])
}

// unquoteRune interprets a single-quoted Skarn rune literal,
// including the quotes, returning the rune it denotes.
func unquoteRune(raw string) (rune, error) {
	if len(raw) < 2 || raw[0] != '\'' || raw[len(raw)-1] != '\'' {
		return 0, fmt.Errorf("not a rune literal: %s", raw)
	}
	s, err := unquoteBody(raw[1 : len(raw)-1])
	if err != nil {
		return 0, err
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("rune literal %s denotes %d runes", raw, len(runes))
	}
	return runes[0], nil
}

func unquoteBody(s string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		if i+1 == len(s) {
			return "", fmt.Errorf("truncated escape")
		}
		switch e := s[i+1]; e {
		case '0':
			sb.WriteByte(0)
			i += 2
		case 'a':
			sb.WriteByte('\a')
			i += 2
		case 'b':
			sb.WriteByte('\b')
			i += 2
		case 'f':
			sb.WriteByte('\f')
			i += 2
		case 'n':
			sb.WriteByte('\n')
			i += 2
		case 'r':
			sb.WriteByte('\r')
			i += 2
		case 't':
			sb.WriteByte('\t')
			i += 2
		case 'v':
			sb.WriteByte('\v')
			i += 2
		case '\\', '\'', '"':
			sb.WriteByte(e)
			i += 2
		case 'x', 'u':
			n := 2
			if e == 'u' {
				n = 4
			}
			if i+2+n > len(s) {
				return "", fmt.Errorf("truncated \\%c escape", e)
			}
			v, err := strconv.ParseUint(s[i+2:i+2+n], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid \\%c escape", e)
			}
			sb.WriteRune(rune(v))
			i += 2 + n
		default:
			return "", fmt.Errorf("invalid escape \\%c", e)
		}
	}
	return sb.String(), nil
}

// Quote returns a Skarn string literal denoting s.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\x%02x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
