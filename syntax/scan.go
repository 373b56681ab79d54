// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A scanner for Skarn source, closely following the conventions of the
// scanners in the Go standard library: a pull-style tokenizer that
// reports positions as (line, col) pairs, 1-based.

import (
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A Position describes the location of a rune of input.
type Position struct {
	file *string // filename (indirect for compactness)
	Line int32   // 1-based line number; 0 if line unknown
	Col  int32   // 1-based column (rune) number; 0 if column unknown
}

// MakePosition returns position with the specified components.
func MakePosition(file *string, line, col int32) Position {
	return Position{file, line, col}
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.file != nil }

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != nil {
		return *p.file
	}
	return "<invalid>"
}

func (p Position) String() string {
	file := p.Filename()
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
		}
		return fmt.Sprintf("%s:%d", file, p.Line)
	}
	return file
}

func (p Position) add(s string) Position {
	if n := strings.Count(s, "\n"); n > 0 {
		p.Line += int32(n)
		s = s[strings.LastIndex(s, "\n")+1:]
		p.Col = 1
	}
	p.Col += int32(utf8.RuneCountInString(s))
	return p
}

// A Token represents a lexical token.
type Token int8

const (
	ILLEGAL Token = iota
	EOF

	IDENT  // x
	INT    // 123, 0x7f, 10u8
	STRING // "foo"
	RUNE   // 'a'

	// Punctuation
	LPAREN     // (
	RPAREN     // )
	LBRACK     // [
	RBRACK     // ]
	LBRACE     // {
	RBRACE     // }
	DOT        // .
	DOTDOT     // ..
	ELLIPSIS   // ...
	COMMA      // ,
	SEMI       // ;
	COLON      // :
	COLONCOLON // ::
	AT         // @
	CASEARROW  // =>

	// Operators
	EQ      // =
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	AMP     // &
	PIPE    // |
	CARET   // ^
	LTLT    // <<
	GTGT    // >>
	AMPAMP  // &&
	PIPE2   // ||
	CARET2  // ^^
	EQL     // ==
	NEQ     // !=
	LT      // <
	GT      // >
	LE      // <=
	GE      // >=
	NOT     // !
	TILDE   // ~

	// Keywords
	ABORT
	AS
	ASSERT
	BREAK
	CASE
	CONST
	CONTINUE
	DEFER
	ELSE
	ENUM
	EXPORT
	FALSE
	FN
	FOR
	IF
	IS
	LEN
	LET
	NULL
	NULLABLE
	OFFSET
	RETURN
	SIZE
	STATIC
	STRUCT
	SWITCH
	TRUE
	TYPE
	UNION
	USE

	maxToken
)

func (tok Token) String() string { return tokenNames[tok] }

var tokenNames = [...]string{
	ILLEGAL:    "illegal token",
	EOF:        "end of file",
	IDENT:      "identifier",
	INT:        "int literal",
	STRING:     "string literal",
	RUNE:       "rune literal",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACK:     "[",
	RBRACK:     "]",
	LBRACE:     "{",
	RBRACE:     "}",
	DOT:        ".",
	DOTDOT:     "..",
	ELLIPSIS:   "...",
	COMMA:      ",",
	SEMI:       ";",
	COLON:      ":",
	COLONCOLON: "::",
	AT:         "@",
	CASEARROW:  "=>",
	EQ:         "=",
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	PERCENT:    "%",
	AMP:        "&",
	PIPE:       "|",
	CARET:      "^",
	LTLT:       "<<",
	GTGT:       ">>",
	AMPAMP:     "&&",
	PIPE2:      "||",
	CARET2:     "^^",
	EQL:        "==",
	NEQ:        "!=",
	LT:         "<",
	GT:         ">",
	LE:         "<=",
	GE:         ">=",
	NOT:        "!",
	TILDE:      "~",
	ABORT:      "abort",
	AS:         "as",
	ASSERT:     "assert",
	BREAK:      "break",
	CASE:       "case",
	CONST:      "const",
	CONTINUE:   "continue",
	DEFER:      "defer",
	ELSE:       "else",
	ENUM:       "enum",
	EXPORT:     "export",
	FALSE:      "false",
	FN:         "fn",
	FOR:        "for",
	IF:         "if",
	IS:         "is",
	LEN:        "len",
	LET:        "let",
	NULL:       "null",
	NULLABLE:   "nullable",
	OFFSET:     "offset",
	RETURN:     "return",
	SIZE:       "size",
	STATIC:     "static",
	STRUCT:     "struct",
	SWITCH:     "switch",
	TRUE:       "true",
	TYPE:       "type",
	UNION:      "union",
	USE:        "use",
}

var keywordToken = func() map[string]Token {
	m := make(map[string]Token)
	for tok := ABORT; tok < maxToken; tok++ {
		m[tokenNames[tok]] = tok
	}
	return m
}()

// tokenValue records the position and value associated with each token.
type tokenValue struct {
	raw    string   // raw text of token
	int    int64    // decoded int (signed literal forms)
	uint   uint64   // decoded int (unsigned literal forms)
	suffix string   // integer literal type suffix ("" if none)
	string string   // decoded string or rune
	pos    Position // start position of token
}

type scanner struct {
	rest      []byte
	token     []byte // token being scanned
	pos       Position
	depth     int // nesting of [ ] { } ( )
	readline  func() ([]byte, error)
	eof       bool
	lastToken Token // for error recovery in the REPL
}

func newScanner(filename string, src interface{}) (*scanner, error) {
	sc := &scanner{
		pos: MakePosition(&filename, 1, 1),
	}

	if readline, ok := src.(func() ([]byte, error)); ok {
		sc.readline = readline
	} else {
		data, err := readSource(filename, src)
		if err != nil {
			return nil, err
		}
		sc.rest = data
	}
	return sc, nil
}

func readSource(filename string, src interface{}) ([]byte, error) {
	switch src := src.(type) {
	case string:
		return []byte(src), nil
	case []byte:
		return src, nil
	case io.Reader:
		return ioutil.ReadAll(src)
	case nil:
		return ioutil.ReadFile(filename)
	default:
		return nil, fmt.Errorf("invalid source: %T", src)
	}
}

// An Error describes the nature and position of a scanner or parser error.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// errorf is called to report an error.
// errorf does not return: it panics.
func (sc *scanner) errorf(pos Position, format string, args ...interface{}) {
	panic(Error{pos, fmt.Sprintf(format, args...)})
}

func (sc *scanner) recover(err *error) {
	// The scanner and parser panic both for routine errors like
	// syntax errors and for programmer bugs like array index
	// errors.  Turn both into error returns.  Catching bug panics
	// is especially important when processing many files.
	switch e := recover().(type) {
	case nil:
		// no panic
	case Error:
		*err = e
	case error:
		*err = Error{sc.pos, e.Error()}
	default:
		*err = Error{sc.pos, fmt.Sprintf("internal error: %v", e)}
	}
}

// peekRune returns the next rune in the input without consuming it.
// Newlines in Unix, DOS, or Mac format are treated as one rune, '\n'.
func (sc *scanner) peekRune() rune {
	if len(sc.rest) == 0 {
		if !sc.readLine() {
			return 0
		}
	}

	switch sc.rest[0] {
	case '\r':
		return '\n'
	case '\n':
		return '\n'
	}

	r, _ := utf8.DecodeRune(sc.rest)
	return r
}

// readRune consumes and returns the next rune in the input.
func (sc *scanner) readRune() rune {
	if len(sc.rest) == 0 {
		if !sc.readLine() {
			sc.errorf(sc.pos, "internal scanner error: readRune at EOF")
		}
	}

	// fast path: ASCII
	if b := sc.rest[0]; b < utf8.RuneSelf {
		sc.rest = sc.rest[1:]
		if b == '\r' {
			if len(sc.rest) > 0 && sc.rest[0] == '\n' {
				sc.rest = sc.rest[1:]
			}
			b = '\n'
		}
		if b == '\n' {
			sc.pos.Line++
			sc.pos.Col = 1
		} else {
			sc.pos.Col++
		}
		return rune(b)
	}

	r, size := utf8.DecodeRune(sc.rest)
	sc.rest = sc.rest[size:]
	sc.pos.Col++
	return r
}

// readLine attempts to obtain another line of input from the
// readline function (REPL mode), reporting whether any is available.
func (sc *scanner) readLine() bool {
	if sc.readline == nil || sc.eof {
		return false
	}
	line, err := sc.readline()
	if err != nil {
		sc.eof = true
		if err != io.EOF {
			sc.errorf(sc.pos, "%v", err)
		}
		return false
	}
	sc.rest = line
	return len(line) > 0
}

func (sc *scanner) startToken(val *tokenValue) {
	sc.token = sc.rest
	val.raw = ""
	val.pos = sc.pos
}

// nextToken is called by the parser to obtain the next input token.
// It returns the token value and sets val to the data associated with
// the token.
func (sc *scanner) nextToken(val *tokenValue) Token {
	tok := sc.scan(val)
	sc.lastToken = tok
	return tok
}

func (sc *scanner) scan(val *tokenValue) Token {
	// Skip spaces and comments.
	for {
		if len(sc.rest) == 0 && !sc.readLine() {
			val.pos = sc.pos
			return EOF
		}
		c := sc.peekRune()
		if c == 0 {
			val.pos = sc.pos
			return EOF
		}
		if c == ' ' || c == '\t' || c == '\n' {
			sc.readRune()
			continue
		}
		if c == '/' && len(sc.rest) > 1 && sc.rest[1] == '/' {
			for len(sc.rest) > 0 && sc.peekRune() != '\n' {
				sc.readRune()
			}
			continue
		}
		break
	}

	sc.startToken(val)
	c := sc.peekRune()

	// identifier or keyword
	if isIdentStart(c) {
		return sc.scanIdent(val)
	}

	// int literal
	if isdigit(c) {
		return sc.scanNumber(val)
	}

	switch c {
	case '"':
		return sc.scanString(val)
	case '\'':
		return sc.scanRuneLit(val)
	}

	// punctuation and operators
	sc.readRune()
	switch c {
	case '(':
		sc.depth++
		return LPAREN
	case ')':
		sc.depth--
		return RPAREN
	case '[':
		sc.depth++
		return LBRACK
	case ']':
		sc.depth--
		return RBRACK
	case '{':
		sc.depth++
		return LBRACE
	case '}':
		sc.depth--
		return RBRACE
	case ',':
		return COMMA
	case ';':
		return SEMI
	case '@':
		return AT
	case '~':
		return TILDE
	case '+':
		return PLUS
	case '-':
		return MINUS
	case '*':
		return STAR
	case '/':
		return SLASH
	case '%':
		return PERCENT
	case '.':
		if sc.peekRune() == '.' {
			sc.readRune()
			if sc.peekRune() == '.' {
				sc.readRune()
				return ELLIPSIS
			}
			return DOTDOT
		}
		return DOT
	case ':':
		if sc.peekRune() == ':' {
			sc.readRune()
			return COLONCOLON
		}
		return COLON
	case '=':
		switch sc.peekRune() {
		case '=':
			sc.readRune()
			return EQL
		case '>':
			sc.readRune()
			return CASEARROW
		}
		return EQ
	case '!':
		if sc.peekRune() == '=' {
			sc.readRune()
			return NEQ
		}
		return NOT
	case '<':
		switch sc.peekRune() {
		case '<':
			sc.readRune()
			return LTLT
		case '=':
			sc.readRune()
			return LE
		}
		return LT
	case '>':
		switch sc.peekRune() {
		case '>':
			sc.readRune()
			return GTGT
		case '=':
			sc.readRune()
			return GE
		}
		return GT
	case '&':
		if sc.peekRune() == '&' {
			sc.readRune()
			return AMPAMP
		}
		return AMP
	case '|':
		if sc.peekRune() == '|' {
			sc.readRune()
			return PIPE2
		}
		return PIPE
	case '^':
		if sc.peekRune() == '^' {
			sc.readRune()
			return CARET2
		}
		return CARET
	}

	sc.errorf(val.pos, "unexpected input character %#q", c)
	panic("unreachable")
}

func (sc *scanner) scanIdent(val *tokenValue) Token {
	var sb strings.Builder
	for len(sc.rest) > 0 && isIdent(sc.peekRune()) {
		sb.WriteRune(sc.readRune())
	}
	val.raw = sb.String()
	if tok, ok := keywordToken[val.raw]; ok {
		return tok
	}
	return IDENT
}

// integer literal suffixes, longest first so that e.g. "u8" is
// not mistaken for "u" followed by junk.
var intSuffixes = []string{
	"i16", "i32", "i64", "i8",
	"u16", "u32", "u64", "u8",
	"i", "u", "z",
}

func (sc *scanner) scanNumber(val *tokenValue) Token {
	var sb strings.Builder
	base := 10
	if sc.peekRune() == '0' {
		sb.WriteRune(sc.readRune())
		switch sc.peekRune() {
		case 'x', 'X':
			sb.WriteRune(sc.readRune())
			base = 16
		case 'o', 'O':
			sb.WriteRune(sc.readRune())
			base = 8
		case 'b', 'B':
			sb.WriteRune(sc.readRune())
			base = 2
		}
	}
	digits := "0123456789"
	if base == 16 {
		digits = "0123456789abcdefABCDEF"
	}
	for len(sc.rest) > 0 && strings.ContainsRune(digits, sc.peekRune()) {
		sb.WriteRune(sc.readRune())
	}
	raw := sb.String()

	// optional type suffix
	for _, suf := range intSuffixes {
		if sc.hasPrefix(suf) && !isIdent(sc.peekRuneAt(len(suf))) {
			for range suf {
				sc.readRune()
			}
			val.suffix = suf
			break
		}
	}

	val.raw = raw + val.suffix
	text := raw
	if base != 10 {
		text = raw[2:]
	}
	u, err := parseUint(text, base)
	if err != nil {
		sc.errorf(val.pos, "invalid int literal %q", val.raw)
	}
	val.uint = u
	val.int = int64(u)
	if strings.HasPrefix(val.suffix, "i") && u >= 1<<63 {
		sc.errorf(val.pos, "int literal %q overflows %s", val.raw, val.suffix)
	}
	return INT
}

func parseUint(s string, base int) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	var u uint64
	for _, c := range s {
		var d uint64
		switch {
		case '0' <= c && c <= '9':
			d = uint64(c - '0')
		case 'a' <= c && c <= 'f':
			d = uint64(c-'a') + 10
		case 'A' <= c && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			return 0, fmt.Errorf("bad digit")
		}
		if d >= uint64(base) {
			return 0, fmt.Errorf("bad digit")
		}
		next := u*uint64(base) + d
		if next < u {
			return 0, fmt.Errorf("overflow")
		}
		u = next
	}
	return u, nil
}

func (sc *scanner) hasPrefix(s string) bool {
	return len(sc.rest) >= len(s) && string(sc.rest[:len(s)]) == s
}

// peekRuneAt returns the rune at byte offset i, or 0 at end of input.
// Used only for ASCII lookahead past literal suffixes.
func (sc *scanner) peekRuneAt(i int) rune {
	if i >= len(sc.rest) {
		return 0
	}
	r, _ := utf8.DecodeRune(sc.rest[i:])
	return r
}

func (sc *scanner) scanString(val *tokenValue) Token {
	var raw strings.Builder
	raw.WriteRune(sc.readRune()) // opening '"'
	for {
		if len(sc.rest) == 0 && !sc.readLine() {
			sc.errorf(val.pos, "unexpected EOF in string")
		}
		c := sc.readRune()
		raw.WriteRune(c)
		if c == '"' {
			break
		}
		if c == '\n' {
			sc.errorf(val.pos, "unexpected newline in string")
		}
		if c == '\\' {
			if len(sc.rest) == 0 && !sc.readLine() {
				sc.errorf(val.pos, "unexpected EOF in string")
			}
			raw.WriteRune(sc.readRune())
		}
	}
	val.raw = raw.String()
	s, err := unquote(val.raw)
	if err != nil {
		sc.errorf(val.pos, "%v", err)
	}
	val.string = s
	return STRING
}

func (sc *scanner) scanRuneLit(val *tokenValue) Token {
	var raw strings.Builder
	raw.WriteRune(sc.readRune()) // opening '\''
	for {
		if len(sc.rest) == 0 && !sc.readLine() {
			sc.errorf(val.pos, "unexpected EOF in rune literal")
		}
		c := sc.readRune()
		raw.WriteRune(c)
		if c == '\'' {
			break
		}
		if c == '\\' {
			if len(sc.rest) == 0 && !sc.readLine() {
				sc.errorf(val.pos, "unexpected EOF in rune literal")
			}
			raw.WriteRune(sc.readRune())
		}
	}
	val.raw = raw.String()
	r, err := unquoteRune(val.raw)
	if err != nil {
		sc.errorf(val.pos, "%v", err)
	}
	val.string = string(r)
	return RUNE
}

func isIdentStart(c rune) bool {
	return 'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		c == '_' ||
		unicode.IsLetter(c)
}

func isIdent(c rune) bool {
	return isdigit(c) || isIdentStart(c)
}

func isdigit(c rune) bool { return '0' <= c && c <= '9' }
