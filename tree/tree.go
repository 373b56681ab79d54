// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tree defines the typed expression tree produced by type
// checking.
//
// Each node carries its result type, a divergence flag, and a
// back-pointer to the syntax it was checked from. The tree also owns
// the Scope and Object types of the symbol table; keeping them here,
// below both eval and check, avoids an import cycle between those
// packages.
package tree // import "go.skarn.net/tree"

import (
	"go.skarn.net/syntax"
	"go.skarn.net/types"
)

// A Unit is one fully checked translation unit.
type Unit struct {
	Ns    string // unit namespace, or ""
	Scope *Scope // unit-level declarations
	Decls []Decl
}

// A Decl is a checked top-level declaration.
type Decl interface {
	Object() *Object
}

// A FuncDecl is a checked function declaration.
type FuncDecl struct {
	Obj    *Object
	Export bool
	Flags  int // syntax.FuncInit | syntax.FuncFini | syntax.FuncTest
	Scope  *Scope
	Body   Expr // nil for a prototype
}

func (d *FuncDecl) Object() *Object { return d.Obj }

// A GlobalDecl is a checked global variable declaration.
type GlobalDecl struct {
	Obj    *Object
	Export bool
	Value  Expr // nil for a forward declaration
}

func (d *GlobalDecl) Object() *Object { return d.Obj }

// A TypeDecl is a checked type declaration.
type TypeDecl struct {
	Obj    *Object
	Export bool
}

func (d *TypeDecl) Object() *Object { return d.Obj }

// A ConstDecl is a checked constant declaration. The value lives on
// the object.
type ConstDecl struct {
	Obj    *Object
	Export bool
}

func (d *ConstDecl) Object() *Object { return d.Obj }

// An Expr is a checked expression.
type Expr interface {
	// Result is the expression's type.
	Result() *types.Type
	// Terminates reports whether evaluating the expression never
	// yields a value: it returns, aborts, or unconditionally
	// branches.
	Terminates() bool
	// Span returns the source extent of the expression.
	Span() (start, end syntax.Position)
	// Source returns the syntax the expression was checked from;
	// it may be synthesized, or nil.
	Source() syntax.Expr
}

// ExprInfo holds the fields common to every checked expression.
// It is embedded in each node kind.
type ExprInfo struct {
	Syntax syntax.Expr // provenance; may be synthesized
	Type   *types.Type
	Diverg bool
}

func (e *ExprInfo) Result() *types.Type { return e.Type }
func (e *ExprInfo) Terminates() bool    { return e.Diverg }
func (e *ExprInfo) Source() syntax.Expr { return e.Syntax }

func (e *ExprInfo) Span() (start, end syntax.Position) {
	if e.Syntax == nil {
		return syntax.Position{}, syntax.Position{}
	}
	return e.Syntax.Span()
}

// An Access reads an object: a binding, global, constant declaration
// without an inlined value, or function.
type Access struct {
	ExprInfo
	Obj *Object
}

// An Index reads one element of an array or slice.
type Index struct {
	ExprInfo
	Array Expr
	Index Expr
}

// A Field reads one field of a struct or union.
type Field struct {
	ExprInfo
	X     Expr
	Field *types.StructField
}

// An Assert aborts unless Cond holds. Cond is nil for an
// unconditional abort.
type Assert struct {
	ExprInfo
	Cond    Expr
	Message Expr
}

// An Assign stores RHS into the location named by LHS, through one
// pointer dereference if Indirect.
type Assign struct {
	ExprInfo
	LHS      Expr
	Indirect bool
	RHS      Expr
}

// A Binarithm applies a binary operator.
type Binarithm struct {
	ExprInfo
	Op  syntax.Token
	LHS Expr
	RHS Expr
}

// A Binding introduces one local object.
type Binding struct {
	Obj  *Object
	Init Expr
}

// Bindings is a binding expression: one or more comma-chained
// bindings. Its result is void.
type Bindings struct {
	ExprInfo
	Bindings []*Binding
}

// A Call invokes a function. Variadic arguments have already been
// collected into a trailing slice argument.
type Call struct {
	ExprInfo
	Fn   Expr
	Args []Expr
}

// A Cast converts, reinterprets, or tests its operand.
type Cast struct {
	ExprInfo
	Kind  syntax.CastKind
	Value Expr
	To    *types.Type
}

// A Constant is a compile-time value. Value is one of int64, uint64,
// string, bool, rune, nil (the null pointer), or []Expr for array
// constants.
type Constant struct {
	ExprInfo
	Value interface{}
}

// A Defer schedules an expression to run at scope exit.
type Defer struct {
	ExprInfo
	Deferred Expr
}

// A Branch is a break or continue, resolved to the loop scope it
// exits.
type Branch struct {
	ExprInfo
	Token  syntax.Token // BREAK | CONTINUE
	Target *Scope
}

// A For is a loop.
type For struct {
	ExprInfo
	Scope        *Scope
	Bindings     Expr // nil if absent
	Cond         Expr
	Afterthought Expr // nil if absent
	Body         Expr
}

// An If is a conditional expression.
type If struct {
	ExprInfo
	Cond Expr
	Then Expr
	Else Expr // nil if absent
}

// A List is a braced expression list with its own scope. Its result
// is the result of the final expression.
type List struct {
	ExprInfo
	Scope *Scope
	Exprs []Expr
}

// A Measure is a len, size, or offset operation.
type Measure struct {
	ExprInfo
	Op      syntax.MeasureOp
	Value   Expr        // len
	Operand *types.Type // size
}

// A Return exits the enclosing function.
type Return struct {
	ExprInfo
	Value Expr // nil for a bare return
}

// A Slice takes a subrange of an array or slice.
type Slice struct {
	ExprInfo
	Object Expr
	Lo     Expr // nil for the default bound
	Hi     Expr // nil for the default bound
}

// An Array is an array literal.
type Array struct {
	ExprInfo
	Exprs  []Expr
	Expand bool // final element fills the remainder
}

// A FieldValue initializes one field of a struct literal.
type FieldValue struct {
	Field *types.StructField
	Value Expr
}

// A Struct is a struct literal.
type Struct struct {
	ExprInfo
	Fields []*FieldValue
}

// A Case is one arm of a switch.
type Case struct {
	Options []Expr // empty for the default arm
	Value   Expr
}

// A Switch selects among cases by compile-time comparable options.
type Switch struct {
	ExprInfo
	Value Expr
	Cases []*Case
}

// A Unarithm applies a unary operator.
type Unarithm struct {
	ExprInfo
	Op syntax.Token
	X  Expr
}
