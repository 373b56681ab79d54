// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides a read/check/print loop for Skarn.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// Each input is parsed as a declaration if it begins with one, and as
// an expression otherwise. Declarations are checked and added to the
// session's scope so later inputs can refer to them; expressions are
// checked and their resolved types printed.
package repl // import "go.skarn.net/repl"

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"go.skarn.net/check"
	"go.skarn.net/syntax"
	"go.skarn.net/tree"
)

// REPL executes a read, check, print loop against the given checker.
func REPL(c *check.Checker) {
	rl, err := readline.New("> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rcp(rl, c); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rcp reads, checks, and prints one item.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Skarn errors are printed.
func rcp(rl *readline.Instance, c *check.Checker) error {
	eof := false

	// readline returns EOF, ErrInterrupted, or a line including "\n".
	rl.SetPrompt("> ")
	readline := func() ([]byte, error) {
		line, err := rl.Readline()
		rl.SetPrompt(". ")
		if err != nil {
			if err == io.EOF {
				eof = true
			}
			return nil, err
		}
		return []byte(line + "\n"), nil
	}

	line, err := readline()
	if err != nil {
		if eof {
			return io.EOF
		}
		return err
	}
	if strings.TrimSpace(string(line)) == "" {
		return nil
	}

	// Replay the first line, then hand the scanner the readline
	// function so a declaration may continue across lines.
	first := line
	src := func() ([]byte, error) {
		if first != nil {
			l := first
			first = nil
			return l, nil
		}
		return readline()
	}

	if startsDecl(string(line)) {
		decl, err := syntax.ParseDecl("<stdin>", src)
		if err != nil {
			if eof {
				return io.EOF
			}
			PrintError(err)
			return nil
		}
		d, err := c.Decl(decl)
		if err != nil {
			PrintError(err)
			return nil
		}
		if d != nil {
			fmt.Printf("%s: %s\n", d.Object().Ident, d.Object().Type)
		}
		return nil
	}

	expr, err := syntax.ParseExpr("<stdin>", src)
	if err != nil {
		if eof {
			return io.EOF
		}
		PrintError(err)
		return nil
	}
	x, err := c.Expr(expr)
	if err != nil {
		PrintError(err)
		return nil
	}
	printResult(x)
	return nil
}

// startsDecl reports whether the input begins a top-level
// declaration rather than an expression. "let" and "const" are
// expressions inside a function but declarations at the top level,
// which is where the REPL operates.
func startsDecl(src string) bool {
	first := strings.Fields(src)
	if len(first) == 0 {
		return false
	}
	switch strings.TrimPrefix(first[0], "export") {
	case "", "fn", "let", "const", "type":
		return true
	}
	return strings.HasPrefix(first[0], "@")
}

func printResult(x tree.Expr) {
	if c, ok := x.(*tree.Constant); ok && c.Value != nil {
		fmt.Printf("%v: %s\n", c.Value, c.Result())
		return
	}
	fmt.Printf("%s\n", x.Result())
}

// PrintError prints an error to stderr. Checker error lists are
// printed one diagnostic per line.
func PrintError(err error) {
	if errs, ok := err.(check.ErrorList); ok {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
