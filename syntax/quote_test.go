// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "testing"

func TestUnquote(t *testing.T) {
	for _, test := range []struct {
		raw, want, wantErr string
	}{
		{`""`, "", ""},
		{`"hello"`, "hello", ""},
		{`"a\nb"`, "a\nb", ""},
		{`"a\tb"`, "a\tb", ""},
		{`"\a\b\f\v\r"`, "\a\b\f\v\r", ""},
		{`"\0"`, "\x00", ""},
		{`"\\"`, `\`, ""},
		{`"\""`, `"`, ""},
		{`"\'"`, "'", ""},
		{`"\x41"`, "A", ""},
		{`"\xff"`, "ÿ", ""},
		{`"ж"`, "ж", ""},
		{`"日本語"`, "日本語", ""},
		// errors
		{`"\q"`, "", `invalid escape \q`},
		{`"\x4"`, "", `truncated \x escape`},
		{`"\u123"`, "", `truncated \u escape`},
		{`"\xzz"`, "", `invalid \x escape`},
		{`hello`, "", "not a string literal: hello"},
	} {
		got, err := unquote(test.raw)
		switch {
		case test.wantErr != "":
			if err == nil {
				t.Errorf("unquote(%s) = %q, want error %q", test.raw, got, test.wantErr)
			} else if err.Error() != test.wantErr {
				t.Errorf("unquote(%s) error %q, want %q", test.raw, err, test.wantErr)
			}
		case err != nil:
			t.Errorf("unquote(%s) failed: %v", test.raw, err)
		case got != test.want:
			t.Errorf("unquote(%s) = %q, want %q", test.raw, got, test.want)
		}
	}
}

func TestUnquoteRune(t *testing.T) {
	for _, test := range []struct {
		raw     string
		want    rune
		wantErr string
	}{
		{`'a'`, 'a', ""},
		{`'\n'`, '\n', ""},
		{`'\''`, '\'', ""},
		{`'\\'`, '\\', ""},
		{`'\x41'`, 'A', ""},
		{`'ж'`, 'ж', ""},
		{`'ж'`, 'ж', ""},
		// errors
		{`'ab'`, 0, "rune literal 'ab' denotes 2 runes"},
		{`''`, 0, "rune literal '' denotes 0 runes"},
		{`'a`, 0, "not a rune literal: 'a"},
	} {
		got, err := unquoteRune(test.raw)
		switch {
		case test.wantErr != "":
			if err == nil {
				t.Errorf("unquoteRune(%s) = %q, want error %q", test.raw, got, test.wantErr)
			} else if err.Error() != test.wantErr {
				t.Errorf("unquoteRune(%s) error %q, want %q", test.raw, err, test.wantErr)
			}
		case err != nil:
			t.Errorf("unquoteRune(%s) failed: %v", test.raw, err)
		case got != test.want:
			t.Errorf("unquoteRune(%s) = %q, want %q", test.raw, got, test.want)
		}
	}
}

func TestQuote(t *testing.T) {
	for _, test := range []struct {
		s, want string
	}{
		{``, `""`},
		{`hello`, `"hello"`},
		{"a\nb", `"a\nb"`},
		{"tab\there", `"tab\there"`},
		{`back\slash`, `"back\\slash"`},
		{`say "hi"`, `"say \"hi\""`},
		{"\x00", `"\0"`},
		{"\x1b", `"\x1b"`},
		{"日本語", `"日本語"`},
	} {
		if got := Quote(test.s); got != test.want {
			t.Errorf("Quote(%q) = %s, want %s", test.s, got, test.want)
		}
	}

	// round trip
	for _, s := range []string{"", "x", "a\nb\x00c\x7f", `\" tricky `, "日本語"} {
		unquoted, err := unquote(Quote(s))
		if err != nil {
			t.Errorf("unquote(Quote(%q)) failed: %v", s, err)
		} else if unquoted != s {
			t.Errorf("unquote(Quote(%q)) = %q", s, unquoted)
		}
	}
}
