// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Type expressions. These describe the unresolved, syntactic form of a
// type; the types package resolves them to canonical type handles.

// A TypeExpr is a Skarn type expression.
type TypeExpr interface {
	Node
	typeExpr()
}

func (*ArrayType) typeExpr()       {}
func (*ConstType) typeExpr()       {}
func (*EnumType) typeExpr()        {}
func (*FuncType) typeExpr()        {}
func (*NamedType) typeExpr()       {}
func (*PointerType) typeExpr()     {}
func (*SliceType) typeExpr()       {}
func (*StructType) typeExpr()      {}
func (*TaggedUnionType) typeExpr() {}

// A NamedType refers to a builtin type or a declared type alias by
// (possibly qualified) name.
type NamedType struct {
	Name *Ident
}

func (x *NamedType) Span() (start, end Position) { return x.Name.Span() }

// A ConstType marks its underlying type as const: const T.
type ConstType struct {
	ConstPos Position
	T        TypeExpr
}

func (x *ConstType) Span() (start, end Position) {
	_, end = x.T.Span()
	return x.ConstPos, end
}

// A PointerType represents *T or nullable *T.
type PointerType struct {
	StartPos Position // position of NULLABLE or '*'
	Nullable bool
	Referent TypeExpr
}

func (x *PointerType) Span() (start, end Position) {
	_, end = x.Referent.Span()
	return x.StartPos, end
}

// An ArrayType represents [N]T, or [*]T for an array of undefined
// length (Len == nil).
type ArrayType struct {
	Lbrack Position
	Len    Expr // nil for [*]T
	Elem   TypeExpr
}

func (x *ArrayType) Span() (start, end Position) {
	_, end = x.Elem.Span()
	return x.Lbrack, end
}

// A SliceType represents []T.
type SliceType struct {
	Lbrack Position
	Elem   TypeExpr
}

func (x *SliceType) Span() (start, end Position) {
	_, end = x.Elem.Span()
	return x.Lbrack, end
}

// A Field is one member of a struct or union type.
type Field struct {
	NamePos Position
	Name    string
	Type    TypeExpr
}

// A StructType represents struct { a: T, b: U } or, with Union set,
// union { a: T, b: U }.
type StructType struct {
	Keyword Position
	Union   bool
	Fields  []*Field
	Rbrace  Position
}

func (x *StructType) Span() (start, end Position) {
	return x.Keyword, x.Rbrace.add("}")
}

// A TaggedUnionType represents a closed set of alternatives: (T | U).
type TaggedUnionType struct {
	Lparen  Position
	Members []TypeExpr
	Rparen  Position
}

func (x *TaggedUnionType) Span() (start, end Position) {
	return x.Lparen, x.Rparen.add(")")
}

// An EnumValue is one enumerator of an enum type. Value is optional;
// an absent value is one greater than the previous enumerator's.
type EnumValue struct {
	NamePos Position
	Name    string
	Value   Expr // optional
}

// An EnumType represents enum { A = 1, B, C } with an optional
// underlying integer storage: enum u8 { ... }.
type EnumType struct {
	Keyword Position
	Storage *Ident // optional underlying integer type name
	Values  []*EnumValue
	Rbrace  Position
}

func (x *EnumType) Span() (start, end Position) {
	return x.Keyword, x.Rbrace.add("}")
}

// The variadism of a function type.
type Variadism int8

const (
	NoVariadism    Variadism = iota
	CVariadism               // fn (x: int, ...): prototype-only, C convention
	SkarnVariadism           // fn (x: int...): trailing args collected into a slice
)

func (v Variadism) String() string { return [...]string{"fixed", "c", "variadic"}[v] }

// A Param is one parameter of a function type. The name may be empty
// in a bare type expression; defined functions require names.
type Param struct {
	NamePos Position
	Name    string
	Type    TypeExpr
}

// A FuncType represents fn (params) result.
type FuncType struct {
	Fn        Position
	Params    []*Param
	Variadism Variadism
	Result    TypeExpr
}

func (x *FuncType) Span() (start, end Position) {
	_, end = x.Result.Span()
	return x.Fn, end
}
