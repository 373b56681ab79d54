// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree_test

import (
	"testing"

	"go.skarn.net/tree"
	"go.skarn.net/types"
)

func TestScopeShadowing(t *testing.T) {
	root := tree.NewScope(nil)
	root.Insert(&tree.Object{Kind: tree.DeclObject, Ident: "x", Type: types.IntType})

	inner := tree.NewScope(root)
	if obj := inner.Lookup("x"); obj == nil || obj.Type != types.IntType {
		t.Fatalf("Lookup(x) in inner scope = %v, want int declaration", obj)
	}

	shadow := &tree.Object{Kind: tree.BindObject, Ident: "x", Type: types.StrType}
	inner.Insert(shadow)
	if obj := inner.Lookup("x"); obj != shadow {
		t.Errorf("Lookup(x) after shadowing = %v, want the binding", obj)
	}
	if obj := root.Lookup("x"); obj == shadow {
		t.Errorf("shadowing leaked into the outer scope")
	}
	if obj := inner.LookupLocal("x"); obj != shadow {
		t.Errorf("LookupLocal(x) = %v, want the binding", obj)
	}
	if root.LookupLocal("y") != nil {
		t.Errorf("LookupLocal(y) found an object")
	}

	// Shadowing within a single scope.
	again := &tree.Object{Kind: tree.BindObject, Ident: "x", Type: types.BoolType}
	inner.Insert(again)
	if obj := inner.Lookup("x"); obj != again {
		t.Errorf("same-scope rebinding: Lookup(x) = %v, want the new binding", obj)
	}
	if n := len(inner.Objects()); n != 2 {
		t.Errorf("inner.Objects() has %d entries, want 2", n)
	}
}

func TestLookupLoop(t *testing.T) {
	root := tree.NewScope(nil)
	outer := tree.NewScope(root)
	outer.Loop, outer.Label = true, "outer"
	body := tree.NewScope(outer)
	inner := tree.NewScope(body)
	inner.Loop = true

	if got := inner.LookupLoop(""); got != inner {
		t.Errorf("LookupLoop(\"\") = %v, want innermost loop", got)
	}
	if got := inner.LookupLoop("outer"); got != outer {
		t.Errorf("LookupLoop(outer) = %v, want labelled loop", got)
	}
	if got := inner.LookupLoop("missing"); got != nil {
		t.Errorf("LookupLoop(missing) = %v, want nil", got)
	}
	if got := root.LookupLoop(""); got != nil {
		t.Errorf("LookupLoop outside any loop = %v, want nil", got)
	}
}
