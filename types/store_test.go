// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.skarn.net/syntax"
	"go.skarn.net/types"
)

func TestCanonicalization(t *testing.T) {
	st := types.NewStore()

	p1 := st.LookupPointer(types.IntType, false)
	p2 := st.LookupPointer(types.IntType, false)
	if p1 != p2 {
		t.Errorf("LookupPointer returned distinct handles for *int")
	}
	if np := st.LookupPointer(types.IntType, true); np == p1 {
		t.Errorf("nullable *int and *int share a handle")
	}

	a1 := st.LookupArray(types.U8Type, 4)
	a2 := st.LookupArray(types.U8Type, 4)
	if a1 != a2 {
		t.Errorf("LookupArray returned distinct handles for [4]u8")
	}
	if a3 := st.LookupArray(types.U8Type, 8); a3 == a1 {
		t.Errorf("[8]u8 and [4]u8 share a handle")
	}
	if a1.SizeOf != 4 {
		t.Errorf("[4]u8 size = %d, want 4", a1.SizeOf)
	}

	s1 := st.LookupSlice(types.IntType)
	s2 := st.LookupSlice(types.IntType)
	if s1 != s2 {
		t.Errorf("LookupSlice returned distinct handles for []int")
	}

	f1 := st.LookupFunc([]*types.Type{types.IntType}, types.VoidType, types.NoVariadism)
	f2 := st.LookupFunc([]*types.Type{types.IntType}, types.VoidType, types.NoVariadism)
	if f1 != f2 {
		t.Errorf("LookupFunc returned distinct handles for fn(int) void")
	}
	f3 := st.LookupFunc([]*types.Type{s1}, types.VoidType, types.SkarnVariadism)
	if f3 == f1 {
		t.Errorf("variadic and fixed function types share a handle")
	}
}

func TestWithFlags(t *testing.T) {
	st := types.NewStore()

	if ci := st.WithFlags(types.IntType, types.FlagConst); ci != types.BuiltinConst(types.Int) {
		t.Errorf("const int is not the const builtin singleton")
	}
	if st.WithFlags(types.ConstStrType, 0) != types.StrType {
		t.Errorf("stripping const from const str does not yield str")
	}

	p := st.LookupPointer(types.IntType, false)
	cp := st.WithFlags(p, types.FlagConst)
	if cp == p {
		t.Errorf("const *int and *int share a handle")
	}
	if cp2 := st.WithFlags(p, types.FlagConst); cp2 != cp {
		t.Errorf("WithFlags returned distinct handles for const *int")
	}
	if st.WithFlags(cp, 0) != p {
		t.Errorf("stripping const from const *int does not yield *int")
	}
}

func TestResolve(t *testing.T) {
	st := types.NewStore()
	st.EvalLen = func(e syntax.Expr) (uint64, error) {
		return uint64(e.(*syntax.Literal).Value.(int64)), nil
	}

	for _, test := range []struct {
		src  string
		want string
	}{
		{"int", "int"},
		{"*str", "*str"},
		{"nullable *u8", "nullable *u8"},
		{"const int", "const int"},
		{"[3]u8", "[3]u8"},
		{"[*]u8", "[*]u8"},
		{"[]int", "[]int"},
		{"struct { x: int, y: int }", "struct { x: int, y: int }"},
		{"union { a: u32, b: rune }", "union { a: u32, b: rune }"},
		{"(int | str)", "(int | str)"},
		{"fn(int, str) bool", "fn(int, str) bool"},
		{"fn([]int...) void", "fn([]int...) void"},
	} {
		te, err := parseType(test.src)
		if err != nil {
			t.Errorf("%s: parse: %v", test.src, err)
			continue
		}
		typ, err := st.Resolve(te)
		if err != nil {
			t.Errorf("%s: resolve: %v", test.src, err)
			continue
		}
		if got := typ.String(); got != test.want {
			t.Errorf("Resolve(%s) = %s, want %s", test.src, got, test.want)
		}

		again, err := st.Resolve(te)
		if err != nil || again != typ {
			t.Errorf("%s: second resolve is not the same handle", test.src)
		}
	}
}

// parseType parses src as a type expression by wrapping it in a
// global declaration.
func parseType(src string) (syntax.TypeExpr, error) {
	decl, err := syntax.ParseDecl("x.sk", "let x: "+src+" = 0;")
	if err != nil {
		return nil, err
	}
	return decl.(*syntax.GlobalDecl).Type, nil
}

func TestAssignable(t *testing.T) {
	st := types.NewStore()
	intp := st.LookupPointer(types.IntType, false)
	nintp := st.LookupPointer(types.IntType, true)
	strp := st.LookupPointer(types.StrType, false)
	tagged := st.LookupTagged([]*types.Type{types.IntType, types.StrType})
	arr := st.LookupArray(types.IntType, 3)
	slice := st.LookupSlice(types.IntType)
	named := st.LookupAlias("my::error", types.StrType)

	for _, test := range []struct {
		to, from *types.Type
		want     bool
	}{
		{types.IntType, types.IntType, true},
		{types.VoidType, types.IntType, true}, // discard

		// Widening is implicit; narrowing is not.
		{types.I64Type, types.IntType, true},
		{types.Builtin(types.I8), types.IntType, false},
		{types.I64Type, types.Builtin(types.U32), true},
		{types.U64Type, types.IntType, false}, // sign change
		{types.IntType, types.BoolType, false},
		{types.StrType, types.ConstStrType, true},
		{intp, intp, true},
		{nintp, intp, true},
		{intp, nintp, false},
		{nintp, types.NullType, true},
		{intp, types.NullType, false},
		{intp, strp, false},
		{tagged, types.IntType, true},
		{tagged, types.StrType, true},
		{tagged, types.BoolType, false},
		{slice, arr, true},
		{arr, slice, false},
		{named, types.StrType, true}, // aliases are transparent
		{types.StrType, named, true},
	} {
		if got := st.Assignable(test.to, test.from); got != test.want {
			t.Errorf("Assignable(%s, %s) = %t, want %t", test.to, test.from, got, test.want)
		}
	}
}

func TestCastable(t *testing.T) {
	st := types.NewStore()
	intp := st.LookupPointer(types.IntType, false)
	strp := st.LookupPointer(types.StrType, false)
	tagged := st.LookupTagged([]*types.Type{types.IntType, types.StrType})

	for _, test := range []struct {
		to, from *types.Type
		want     bool
	}{
		{types.Builtin(types.I8), types.I64Type, true}, // narrowing is explicit
		{types.RuneType, types.U64Type, true},
		{types.IntType, types.BoolType, false},
		{strp, intp, true},
		{types.Builtin(types.Uintptr), intp, true},
		{intp, types.Builtin(types.Uintptr), true},
		{types.IntType, tagged, true}, // member extraction
		{tagged, types.IntType, true},
		{types.BoolType, tagged, false},
	} {
		if got := st.Castable(test.to, test.from); got != test.want {
			t.Errorf("Castable(%s, %s) = %t, want %t", test.to, test.from, got, test.want)
		}
	}
}

func TestDereference(t *testing.T) {
	st := types.NewStore()
	intp := st.LookupPointer(types.IntType, false)
	nintp := st.LookupPointer(types.IntType, true)
	intpp := st.LookupPointer(intp, false)

	if got := intp.Dereference(); got != types.IntType {
		t.Errorf("(*int).Dereference() = %v, want int", got)
	}
	if got := intpp.Dereference(); got != types.IntType {
		t.Errorf("(**int).Dereference() = %v, want int", got)
	}
	if got := nintp.Dereference(); got != nil {
		t.Errorf("(nullable *int).Dereference() = %v, want nil", got)
	}
	if got := types.IntType.Dereference(); got != types.IntType {
		t.Errorf("int.Dereference() = %v, want int", got)
	}
}

func TestFieldByName(t *testing.T) {
	st := types.NewStore()
	typ := st.LookupStruct(false, []*types.StructField{
		{Name: "x", Type: types.IntType},
		{Name: "y", Type: types.U64Type},
	})

	f := typ.FieldByName("y")
	if f == nil || f.Type != types.U64Type {
		t.Fatalf("FieldByName(y) = %v", f)
	}
	if f.Offset != 8 {
		t.Errorf("y offset = %d, want 8", f.Offset)
	}
	if typ.FieldByName("z") != nil {
		t.Errorf("FieldByName(z) found a field")
	}
}

func TestStructLayout(t *testing.T) {
	st := types.NewStore()

	// Field offsets honor each field's natural alignment.
	typ := st.LookupStruct(false, []*types.StructField{
		{Name: "tag", Type: types.U8Type},
		{Name: "count", Type: types.U64Type},
		{Name: "flag", Type: types.BoolType},
	})

	sameType := cmp.Comparer(func(a, b *types.Type) bool { return a == b })
	want := []*types.StructField{
		{Name: "tag", Type: types.U8Type, Offset: 0},
		{Name: "count", Type: types.U64Type, Offset: 8},
		{Name: "flag", Type: types.BoolType, Offset: 16},
	}
	if diff := cmp.Diff(want, typ.Struct.Fields, sameType); diff != "" {
		t.Errorf("struct layout mismatch (-want +got):\n%s", diff)
	}
	if typ.SizeOf != 24 {
		t.Errorf("struct size = %d, want 24", typ.SizeOf)
	}
	if typ.AlignOf != 8 {
		t.Errorf("struct align = %d, want 8", typ.AlignOf)
	}

	// A union overlays its members at offset zero and sizes to the widest.
	u := st.LookupStruct(true, []*types.StructField{
		{Name: "word", Type: types.U64Type},
		{Name: "byte", Type: types.U8Type},
	})
	wantU := []*types.StructField{
		{Name: "word", Type: types.U64Type, Offset: 0},
		{Name: "byte", Type: types.U8Type, Offset: 0},
	}
	if diff := cmp.Diff(wantU, u.Struct.Fields, sameType); diff != "" {
		t.Errorf("union layout mismatch (-want +got):\n%s", diff)
	}
	if u.SizeOf != 8 {
		t.Errorf("union size = %d, want 8", u.SizeOf)
	}
}
