// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
)

func scan(src interface{}) (tokens string, err error) {
	sc, err := newScanner("foo.sk", src)
	if err != nil {
		return "", err
	}

	defer sc.recover(&err)

	var buf bytes.Buffer
	var val tokenValue
	for {
		tok := sc.nextToken(&val)

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		switch tok {
		case EOF:
			buf.WriteString("EOF")
		case IDENT:
			buf.WriteString(val.raw)
		case INT:
			if strings.HasPrefix(val.suffix, "u") || val.suffix == "z" {
				fmt.Fprintf(&buf, "%d%s", val.uint, val.suffix)
			} else {
				fmt.Fprintf(&buf, "%d%s", val.int, val.suffix)
			}
		case STRING:
			fmt.Fprintf(&buf, "%q", val.string)
		case RUNE:
			fmt.Fprintf(&buf, "%q", []rune(val.string)[0])
		default:
			buf.WriteString(tok.String())
		}
		if tok == EOF {
			break
		}
	}
	return buf.String(), nil
}

func TestScanner(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{``, "EOF"},
		{`x`, "x EOF"},
		{`x.y`, "x . y EOF"},
		{`io::println`, "io :: println EOF"},
		{`let x: int = 1;`, "let x : int = 1 ; EOF"},
		{`0`, "0 EOF"},
		{`123`, "123 EOF"},
		{`0x7f`, "127 EOF"},
		{`0o17`, "15 EOF"},
		{`0b1011`, "11 EOF"},
		{`10u8`, "10u8 EOF"},
		{`1i64`, "1i64 EOF"},
		{`0z`, "0z EOF"},
		{`18446744073709551615u64`, "18446744073709551615u64 EOF"},
		{`"hello"`, `"hello" EOF`},
		{`"a\nb"`, `"a\nb" EOF`},
		{`"\x41B"`, `"AB" EOF`},
		{`'a'`, `'a' EOF`},
		{`'\''`, `'\'' EOF`},
		{`'\n'`, `'\n' EOF`},
		{`x[1..2]`, "x [ 1 .. 2 ] EOF"},
		{`xs...`, "xs ... EOF"},
		{`a => b`, "a => b EOF"},
		{`a == b != c`, "a == b != c EOF"},
		{`a <= b >= c`, "a <= b >= c EOF"},
		{`a << b >> c`, "a << b >> c EOF"},
		{`a && b || c ^^ d`, "a && b || c ^^ d EOF"},
		{`!a & ~b | c ^ d`, "! a & ~ b | c ^ d EOF"},
		{`&&&`, "&& & EOF"},
		{"x // comment\ny", "x y EOF"},
		{"// a file of comments\n", "EOF"},
		{"fn f() void = { 0; };", "fn f ( ) void = { 0 ; } ; EOF"},
		{"nullable *int", "nullable * int EOF"},
		{"if else for switch case break continue defer return",
			"if else for switch case break continue defer return EOF"},
		{"assert abort len size offset as is",
			"assert abort len size offset as is EOF"},
		{`@symbol("rt.abort")`, `@ symbol ( "rt.abort" ) EOF`},
		// errors
		{`$`, `foo.sk:1:1: unexpected input character '$'`},
		{`"unterminated`, `foo.sk:1:1: unexpected EOF in string`},
		{"\"newline\nin string\"", `foo.sk:1:1: unexpected newline in string`},
		{`'ab'`, `foo.sk:1:1: rune literal 'ab' denotes 2 runes`},
		{`0x`, `foo.sk:1:1: invalid int literal "0x"`},
		{`9223372036854775808i64`, `foo.sk:1:1: int literal "9223372036854775808i64" overflows i64`},
		{`18446744073709551616`, `foo.sk:1:1: invalid int literal "18446744073709551616"`},
	} {
		got, err := scan(test.input)
		if err != nil {
			got = err.(Error).Error()
		}
		if test.want != got {
			t.Errorf("scan `%s` = [%s], want [%s]", test.input, got, test.want)
		}
	}
}

// TestReadline exercises the scanner in REPL mode, where input arrives
// one line at a time.
func TestReadline(t *testing.T) {
	lines := []string{"x +\n", "1\n"}
	readline := func() ([]byte, error) {
		if len(lines) == 0 {
			return nil, io.EOF
		}
		line := lines[0]
		lines = lines[1:]
		return []byte(line), nil
	}
	got, err := scan(readline)
	if err != nil {
		t.Fatal(err)
	}
	if want := "x + 1 EOF"; got != want {
		t.Errorf("scan readline = [%s], want [%s]", got, want)
	}
}
