// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check_test

import (
	"strings"
	"testing"

	"go.skarn.net/check"
	"go.skarn.net/internal/chunkedfile"
	"go.skarn.net/syntax"
	"go.skarn.net/tree"
	"go.skarn.net/types"
)

// checkFile parses and checks src, failing the test on any error.
func checkFile(t *testing.T, src string) *tree.Unit {
	t.Helper()
	f, err := syntax.Parse("test.sk", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	unit, err := check.File(f)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	return unit
}

// checkErr parses and checks src, which must fail, and returns the
// first error.
func checkErr(t *testing.T, src string) check.Error {
	t.Helper()
	f, err := syntax.Parse("test.sk", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	unit, err := check.File(f)
	if err == nil {
		t.Fatalf("check unexpectedly succeeded")
	}
	if unit != nil {
		t.Fatalf("check failed but returned a unit")
	}
	return err.(check.ErrorList)[0]
}

// body returns the body of the sole function declaration in the unit.
func body(t *testing.T, unit *tree.Unit) tree.Expr {
	t.Helper()
	for _, d := range unit.Decls {
		if fn, ok := d.(*tree.FuncDecl); ok {
			return fn.Body
		}
	}
	t.Fatal("no function declaration in unit")
	return nil
}

func TestBindingLowering(t *testing.T) {
	// The literal 5 defaults to int; binding it to an i64 must
	// insert exactly one implicit cast.
	unit := checkFile(t, "fn f() void = { let x: i64 = 5; };")
	list := body(t, unit).(*tree.List)
	bind := list.Exprs[0].(*tree.Bindings).Bindings[0]
	if bind.Obj.Type != types.I64Type {
		t.Errorf("binding type = %s, want i64", bind.Obj.Type)
	}
	cast, ok := bind.Init.(*tree.Cast)
	if !ok {
		t.Fatalf("initializer is %T, want implicit cast", bind.Init)
	}
	if cast.Result() != types.I64Type {
		t.Errorf("cast result = %s, want i64", cast.Result())
	}
	inner, ok := cast.Value.(*tree.Constant)
	if !ok {
		t.Fatalf("cast wraps %T, want constant", cast.Value)
	}
	if inner.Result() != types.IntType || inner.Value != int64(5) {
		t.Errorf("wrapped constant = %v %s, want int 5", inner.Value, inner.Result())
	}

	// With matching types no cast is introduced.
	unit = checkFile(t, "fn f() void = { let x: int = 5; };")
	list = body(t, unit).(*tree.List)
	bind = list.Exprs[0].(*tree.Bindings).Bindings[0]
	if _, ok := bind.Init.(*tree.Constant); !ok {
		t.Errorf("initializer is %T, want the raw constant", bind.Init)
	}
}

func TestShadowing(t *testing.T) {
	unit := checkFile(t, `
fn f() int = {
	let x: int = 1;
	{
		let x: str = "s";
		assert(len(x) == 0z);
	};
	x;
};`)
	list := body(t, unit).(*tree.List)
	inner := list.Exprs[1].(*tree.List)
	innerBind := inner.Exprs[0].(*tree.Bindings).Bindings[0]
	if innerBind.Obj.Type != types.StrType {
		t.Errorf("inner binding type = %s, want str", innerBind.Obj.Type)
	}
	// The trailing x resolves to the outer binding.
	access := list.Exprs[2].(*tree.Access)
	if access.Obj.Type != types.IntType {
		t.Errorf("outer access type = %s, want int", access.Obj.Type)
	}
	outerBind := list.Exprs[0].(*tree.Bindings).Bindings[0]
	if access.Obj != outerBind.Obj {
		t.Errorf("trailing x does not resolve to the outer binding")
	}
}

func TestAssignabilityGate(t *testing.T) {
	e := checkErr(t, `fn f() void = { let x: str = 5; };`)
	if e.Kind != check.ErrType {
		t.Errorf("error kind = %v, want type error", e.Kind)
	}
	if !strings.Contains(e.Msg, "not assignable") {
		t.Errorf("unexpected message: %s", e.Msg)
	}
}

func TestVariadicLowering(t *testing.T) {
	unit := checkFile(t, `
fn sum(vals: int...) int = 0;
fn f() int = sum(1, 2, 3);
`)
	var call *tree.Call
	for _, d := range unit.Decls {
		fn := d.(*tree.FuncDecl)
		if c, ok := fn.Body.(*tree.Call); ok {
			call = c
		}
	}
	if call == nil {
		t.Fatal("no call in unit")
	}
	if len(call.Args) != 1 {
		t.Fatalf("call has %d arguments, want 1 collected argument", len(call.Args))
	}
	cast, ok := call.Args[0].(*tree.Cast)
	if !ok {
		t.Fatalf("variadic argument is %T, want cast to slice", call.Args[0])
	}
	if cast.Result().Dealias().Storage != types.Slice {
		t.Errorf("variadic argument type = %s, want a slice", cast.Result())
	}
	arr, ok := cast.Value.(*tree.Array)
	if !ok {
		t.Fatalf("cast wraps %T, want array literal", cast.Value)
	}
	at := arr.Result().Dealias()
	if at.Storage != types.Array || at.Array.Len != 3 || at.Array.Elem != types.IntType {
		t.Errorf("collected array type = %s, want [3]int", arr.Result())
	}

	// The variadic slot itself requires at least one argument.
	e := checkErr(t, "fn sum(vals: int...) int = 0;\nfn f() int = sum();")
	if e.Kind != check.ErrArity || !strings.Contains(e.Msg, "not enough") {
		t.Errorf("empty variadic call: got %v %q", e.Kind, e.Msg)
	}
}

func TestArrayElementLowering(t *testing.T) {
	// Elements assignable to the established element type are
	// accepted and lowered, not required to match by identity.
	unit := checkFile(t, "fn f() [3]i64 = [1, 2, 3];")
	arr := body(t, unit).(*tree.Array)
	at := arr.Result().Dealias()
	if at.Storage != types.Array || at.Array.Elem != types.I64Type {
		t.Fatalf("array type = %s, want [3]i64", arr.Result())
	}
	for i, el := range arr.Exprs {
		if el.Result() != types.I64Type {
			t.Errorf("element %d has type %s, want i64", i, el.Result())
		}
	}
	if _, ok := arr.Exprs[0].(*tree.Cast); !ok {
		t.Errorf("element 0 is %T, want an implicit cast from int", arr.Exprs[0])
	}
}

func TestSpreadArgument(t *testing.T) {
	unit := checkFile(t, `
fn sum(vals: int...) int = 0;
fn f() int = {
	let xs: []int = [1, 2, 3];
	sum(xs...);
};`)
	var fn *tree.FuncDecl
	for _, d := range unit.Decls {
		if d.Object().Ident == "f" {
			fn = d.(*tree.FuncDecl)
		}
	}
	if fn == nil {
		t.Fatal("no declaration of f")
	}
	list := fn.Body.(*tree.List)
	call := list.Exprs[1].(*tree.Call)
	if len(call.Args) != 1 {
		t.Fatalf("call has %d arguments, want the forwarded slice", len(call.Args))
	}
	// The spread slice is forwarded unchanged, not collected.
	if _, ok := call.Args[0].(*tree.Access); !ok {
		t.Errorf("spread argument is %T, want the slice access", call.Args[0])
	}
}

func TestArity(t *testing.T) {
	const decl = "fn two(a: int, b: int) void;\n"
	e := checkErr(t, decl+"fn f() void = two(1, 2, 3);")
	if e.Kind != check.ErrArity || !strings.Contains(e.Msg, "too many") {
		t.Errorf("three args: got %v %q", e.Kind, e.Msg)
	}
	e = checkErr(t, decl+"fn f() void = two(1);")
	if e.Kind != check.ErrArity || !strings.Contains(e.Msg, "not enough") {
		t.Errorf("one arg: got %v %q", e.Kind, e.Msg)
	}
}

func TestLoopLabelResolution(t *testing.T) {
	unit := checkFile(t, `
fn f() void = {
	for :outer (true) {
		for (true) {
			break :outer;
		};
	};
};`)
	list := body(t, unit).(*tree.List)
	outer := list.Exprs[0].(*tree.For)
	innerList := outer.Body.(*tree.List)
	inner := innerList.Exprs[0].(*tree.For)
	branch := inner.Body.(*tree.List).Exprs[0].(*tree.Branch)
	if branch.Target != outer.Scope {
		t.Errorf("break :outer targets %q, want the outer loop", branch.Target.Label)
	}
	if !branch.Terminates() {
		t.Errorf("break does not diverge")
	}

	// Unlabeled break resolves to the nearest loop.
	unit = checkFile(t, `
fn f() void = {
	for :outer (true) {
		for (true) {
			break;
		};
	};
};`)
	list = body(t, unit).(*tree.List)
	outer = list.Exprs[0].(*tree.For)
	inner = outer.Body.(*tree.List).Exprs[0].(*tree.For)
	branch = inner.Body.(*tree.List).Exprs[0].(*tree.Branch)
	if branch.Target != inner.Scope {
		t.Errorf("unlabeled break targets the wrong loop")
	}
}

func TestLoopLabelUniqueness(t *testing.T) {
	e := checkErr(t, `
fn f() void = {
	for :outer (true) {
		for :outer (true) {
			break;
		};
	};
};`)
	if e.Kind != check.ErrLabel || !strings.Contains(e.Msg, "duplicates") {
		t.Errorf("got %v %q, want label uniqueness error", e.Kind, e.Msg)
	}

	// Distinct labels, or an unlabeled inner loop, are fine.
	checkFile(t, `
fn f() void = {
	for :outer (true) {
		for :inner (true) {
			break :outer;
		};
	};
};`)
}

func TestIfTyping(t *testing.T) {
	// Neither branch diverges: types must be identical.
	unit := checkFile(t, "fn f() int = if (true) 1 else 2;")
	ife := body(t, unit).(*tree.If)
	if ife.Result() != types.IntType || ife.Terminates() {
		t.Errorf("if = %s/%t, want int/false", ife.Result(), ife.Terminates())
	}

	// Exactly one branch diverges: the other's type wins.
	unit = checkFile(t, "fn f() int = if (true) return 1 else 2;")
	ife = body(t, unit).(*tree.If)
	if ife.Result() != types.IntType || ife.Terminates() {
		t.Errorf("one-armed divergence: %s/%t, want int/false", ife.Result(), ife.Terminates())
	}

	// Both diverge: void, diverging.
	unit = checkFile(t, "fn f() int = { if (true) return 1 else return 2; };")
	list := body(t, unit).(*tree.List)
	ife = list.Exprs[0].(*tree.If)
	if ife.Result() != types.VoidType || !ife.Terminates() {
		t.Errorf("two-armed divergence: %s/%t, want void/true", ife.Result(), ife.Terminates())
	}

	// Mismatched non-diverging branches fail.
	e := checkErr(t, `fn f() void = { if (true) 1 else "s"; };`)
	if e.Kind != check.ErrType || !strings.Contains(e.Msg, "mismatched branch types") {
		t.Errorf("got %v %q", e.Kind, e.Msg)
	}
}

func TestSwitchArmTypes(t *testing.T) {
	// Non-diverging arms of different types fail; no union is formed.
	e := checkErr(t, `
fn f() void = {
	switch (1) {
	case 1 => 2;
	case => "s";
	};
};`)
	if e.Kind != check.ErrType || !strings.Contains(e.Msg, "mismatched case types") {
		t.Errorf("got %v %q", e.Kind, e.Msg)
	}

	// All arms diverging makes the switch diverge.
	unit := checkFile(t, `
fn f() int = {
	switch (1) {
	case 1 => return 1;
	case => return 2;
	};
};`)
	list := body(t, unit).(*tree.List)
	sw := list.Exprs[0].(*tree.Switch)
	if !sw.Terminates() || sw.Result() != types.VoidType {
		t.Errorf("diverging switch = %s/%t, want void/true", sw.Result(), sw.Terminates())
	}
}

func TestConstantInlining(t *testing.T) {
	unit := checkFile(t, `
const limit: int = 32;
fn f() int = limit;
`)
	x := body(t, unit)
	c, ok := x.(*tree.Constant)
	if !ok {
		t.Fatalf("constant access checked to %T, want inlined constant", x)
	}
	if c.Value != int64(32) {
		t.Errorf("inlined value = %v, want 32", c.Value)
	}
}

func TestEnumExpansion(t *testing.T) {
	unit := checkFile(t, `
type color = enum u8 { RED, GREEN = 10, BLUE };
fn f() color = color::BLUE;
`)
	x := body(t, unit)
	c, ok := x.(*tree.Constant)
	if !ok {
		t.Fatalf("enum access checked to %T, want inlined constant", x)
	}
	if c.Value != uint64(11) {
		t.Errorf("color::BLUE = %v, want 11", c.Value)
	}
	if c.Result().Storage != types.Alias || c.Result().Alias.Ident != "color" {
		t.Errorf("enum constant type = %s, want the color alias", c.Result())
	}
}

func TestForwardReference(t *testing.T) {
	checkFile(t, `
fn f() int = g();
fn g() int = 1;
`)
}

func TestDeferNesting(t *testing.T) {
	e := checkErr(t, `
fn cleanup() void;
fn f() void = {
	defer defer cleanup();
};`)
	if !strings.Contains(e.Msg, "defer within a defer") {
		t.Errorf("got %q", e.Msg)
	}
}

func TestStaticBindingSymbols(t *testing.T) {
	unit := checkFile(t, `
fn f() int = {
	static let a: int = 1;
	static let b: int = 2;
	a + b;
};`)
	list := body(t, unit).(*tree.List)
	a := list.Exprs[0].(*tree.Bindings).Bindings[0].Obj
	b := list.Exprs[1].(*tree.Bindings).Bindings[0].Obj
	if a.Kind != tree.DeclObject || b.Kind != tree.DeclObject {
		t.Fatalf("static bindings are not declarations")
	}
	if a.Symbol == "" || a.Symbol == b.Symbol {
		t.Errorf("static symbols %q and %q are not unique", a.Symbol, b.Symbol)
	}
}

func TestNamespace(t *testing.T) {
	f, err := syntax.Parse("test.sk", `
fn hello() int = 1;
fn f() int = hello();
`)
	if err != nil {
		t.Fatal(err)
	}
	c := check.NewChecker()
	c.Ns = "greet"
	unit, err := c.File(f)
	if err != nil {
		t.Fatal(err)
	}
	obj := unit.Decls[0].Object()
	if obj.Ident != "greet::hello" || obj.Symbol != "greet.hello" {
		t.Errorf("declaration = %q/%q, want greet::hello/greet.hello", obj.Ident, obj.Symbol)
	}
}

func TestCheckErrors(t *testing.T) {
	filename := "testdata/errors.sk"
	for _, chunk := range chunkedfile.Read(filename, t) {
		f, err := syntax.Parse(filename, chunk.Source)
		if err != nil {
			t.Error(err)
			continue
		}
		if _, err := check.File(f); err != nil {
			for _, e := range err.(check.ErrorList) {
				chunk.GotError(int(e.Pos.Line), e.Msg)
			}
		}
		chunk.Done()
	}
}
