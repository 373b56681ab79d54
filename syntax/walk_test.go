// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"go.skarn.net/syntax"
)

func TestWalk(t *testing.T) {
	f, err := syntax.Parse("walk.sk", `
const max: int = 100;

fn clamp(x: int) int =
	if (x > max) max
	else x;
`)
	if err != nil {
		t.Fatal(err)
	}

	// Print the tree in outline form, one node per line,
	// with indentation reflecting depth.
	var buf bytes.Buffer
	var depth int
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			depth--
			return true
		}
		fmt.Fprintf(&buf, "%s%s\n",
			strings.Repeat("  ", depth),
			strings.TrimPrefix(fmt.Sprintf("%T", n), "*syntax."))
		depth++
		return true
	})

	got := buf.String()
	want := `
File
  ConstDecl
    Ident
    NamedType
      Ident
    Literal
  FuncDecl
    Ident
    FuncType
      NamedType
        Ident
      NamedType
        Ident
    IfExpr
      BinaryExpr
        Ident
        Ident
      Ident
      Ident
`[1:]
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// TestWalkHalt verifies that returning false prunes the subtree.
func TestWalkHalt(t *testing.T) {
	e, err := syntax.ParseExpr("walk.sk", `f(g(x), y)`)
	if err != nil {
		t.Fatal(err)
	}
	var idents []string
	syntax.Walk(e, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.Ident:
			idents = append(idents, n.Name)
		case *syntax.CallExpr:
			// Skip nested calls' arguments.
			if id, ok := n.Fn.(*syntax.Ident); ok && id.Name == "g" {
				idents = append(idents, id.Name+"(...)")
				return false
			}
		}
		return true
	})
	got := strings.Join(idents, " ")
	if want := "f g(...) y"; got != want {
		t.Errorf("idents = %q, want %q", got, want)
	}
}
