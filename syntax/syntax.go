// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides a Skarn parser and abstract syntax tree.
package syntax // import "go.skarn.net/syntax"

// A Node is a node in a Skarn syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A File represents a single Skarn source file: one sub-unit of a
// compilation unit.
type File struct {
	Path  string
	Decls []Decl
}

func (x *File) Span() (start, end Position) {
	if len(x.Decls) == 0 {
		return
	}
	start, _ = x.Decls[0].Span()
	_, end = x.Decls[len(x.Decls)-1].Span()
	return start, end
}

// An Ident represents a possibly namespace-qualified identifier.
// For "a::b::c", Name is "c" and Ns denotes "a::b".
type Ident struct {
	NamePos Position
	Name    string
	Ns      *Ident // optional
}

func (x *Ident) Span() (start, end Position) {
	if x.Ns != nil {
		start, _ = x.Ns.Span()
	} else {
		start = x.NamePos
	}
	return start, x.NamePos.add(x.Name)
}

// String returns the qualified form of the identifier, "a::b::c".
func (x *Ident) String() string {
	if x.Ns != nil {
		return x.Ns.String() + "::" + x.Name
	}
	return x.Name
}

// A Decl is a top-level declaration.
type Decl interface {
	Node
	decl()
}

func (*ConstDecl) decl()  {}
func (*FuncDecl) decl()   {}
func (*GlobalDecl) decl() {}
func (*TypeDecl) decl()   {}

// Function flag attributes: @init, @fini, @test.
const (
	FuncInit = 1 << iota
	FuncFini
	FuncTest
)

// A FuncDecl represents a function declaration:
//
//	export fn name(params...) result = body;
//
// A declaration with no body is a prototype.
type FuncDecl struct {
	StartPos Position // position of EXPORT, '@', or FN
	Export   bool
	Flags    int    // FuncInit|FuncFini|FuncTest
	Symbol   string // external linkage symbol from @symbol(""), or ""
	Name     *Ident
	Proto    *FuncType
	Body     Expr // nil for a prototype
}

func (x *FuncDecl) Span() (start, end Position) {
	if x.Body != nil {
		_, end = x.Body.Span()
	} else {
		_, end = x.Proto.Span()
	}
	return x.StartPos, end
}

// A GlobalDecl represents a module-scoped variable:
//
//	export let name: type = init;
//
// A declaration with no initializer is a forward declaration.
type GlobalDecl struct {
	StartPos Position
	Export   bool
	Symbol   string // external linkage symbol, or ""
	Name     *Ident
	Type     TypeExpr
	Init     Expr // nil for a forward declaration
}

func (x *GlobalDecl) Span() (start, end Position) {
	if x.Init != nil {
		_, end = x.Init.Span()
	} else {
		_, end = x.Type.Span()
	}
	return x.StartPos, end
}

// A ConstDecl represents a module-scoped compile-time constant:
//
//	export const name: type = value;
type ConstDecl struct {
	StartPos Position
	Export   bool
	Name     *Ident
	Type     TypeExpr
	Init     Expr
}

func (x *ConstDecl) Span() (start, end Position) {
	_, end = x.Init.Span()
	return x.StartPos, end
}

// A TypeDecl represents a named type:
//
//	export type name = type;
type TypeDecl struct {
	StartPos Position
	Export   bool
	Name     *Ident
	Type     TypeExpr
}

func (x *TypeDecl) Span() (start, end Position) {
	_, end = x.Type.Span()
	return x.StartPos, end
}

// An Expr is a Skarn expression.
type Expr interface {
	Node
	expr()
}

func (*ArrayLit) expr()    {}
func (*AssertExpr) expr()  {}
func (*AssignExpr) expr()  {}
func (*BinaryExpr) expr()  {}
func (*BindingExpr) expr() {}
func (*BranchExpr) expr()  {}
func (*CallExpr) expr()    {}
func (*CastExpr) expr()    {}
func (*DeferExpr) expr()   {}
func (*DotExpr) expr()     {}
func (*ForExpr) expr()     {}
func (*Ident) expr()       {}
func (*IfExpr) expr()      {}
func (*IndexExpr) expr()   {}
func (*ListExpr) expr()    {}
func (*Literal) expr()     {}
func (*MeasureExpr) expr() {}
func (*ReturnExpr) expr()  {}
func (*SliceExpr) expr()   {}
func (*StructLit) expr()   {}
func (*SwitchExpr) expr()  {}
func (*UnaryExpr) expr()   {}

// A Literal represents a scalar literal: integer, rune, string,
// true, false, or null.
type Literal struct {
	Token    Token // INT | RUNE | STRING | TRUE | FALSE | NULL
	TokenPos Position
	Raw      string      // uninterpreted text
	Suffix   string      // integer type suffix ("" if none)
	Value    interface{} // = int64 | uint64 | rune | string | bool | nil
}

func (x *Literal) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// An ArrayLit represents an array literal: [a, b, c] or [a...].
// Expand reports whether the final element is followed by "...",
// requesting that it fill the remainder of the destination array.
type ArrayLit struct {
	Lbrack Position
	Elems  []Expr
	Expand bool
	Rbrack Position
}

func (x *ArrayLit) Span() (start, end Position) {
	return x.Lbrack, x.Rbrack.add("]")
}

// A FieldInit is one field of a struct literal: name: type = value.
type FieldInit struct {
	NamePos Position
	Name    string
	Type    TypeExpr
	Init    Expr
}

// A StructLit represents an anonymous struct literal:
//
//	struct { x: int = 10, y: int = 20 }
type StructLit struct {
	StructPos Position
	Fields    []*FieldInit
	Rbrace    Position
}

func (x *StructLit) Span() (start, end Position) {
	return x.StructPos, x.Rbrace.add("}")
}

// An IndexExpr represents an element access: X[Y].
type IndexExpr struct {
	X      Expr
	Lbrack Position
	Y      Expr
	Rbrack Position
}

func (x *IndexExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Rbrack.add("]")
}

// A DotExpr represents a field selection: X.Name.
type DotExpr struct {
	X       Expr
	Dot     Position
	NamePos Position
	Name    string
}

func (x *DotExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.NamePos.add(x.Name)
}

// A SliceExpr represents a slicing operation: X[Lo..Hi].
// Lo and Hi are both optional.
type SliceExpr struct {
	X      Expr
	Lbrack Position
	Lo, Hi Expr
	Rbrack Position
}

func (x *SliceExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Rbrack.add("]")
}

// An AssertExpr represents assert(Cond), assert(Cond, Msg), or
// abort(Msg). An abort has no condition and always terminates.
type AssertExpr struct {
	Keyword Position
	Cond    Expr // nil for abort
	Msg     Expr // optional
	Rparen  Position
}

func (x *AssertExpr) Span() (start, end Position) {
	return x.Keyword, x.Rparen.add(")")
}

// An AssignExpr represents an assignment: LHS = RHS.
// If Indirect is set, the assignment stores through a pointer
// dereference: *LHS = RHS.
type AssignExpr struct {
	LHS      Expr // the object, with any leading '*' stripped
	OpPos    Position
	Indirect bool
	RHS      Expr
}

func (x *AssignExpr) Span() (start, end Position) {
	start, _ = x.LHS.Span()
	_, end = x.RHS.Span()
	return start, end
}

// A BinaryExpr represents a binary expression: X Op Y.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    Token
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}

// A UnaryExpr represents a unary expression: Op X.
type UnaryExpr struct {
	OpPos Position
	Op    Token // NOT | TILDE | PLUS | MINUS | AMP | STAR
	X     Expr
}

func (x *UnaryExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.OpPos, end
}

// A Binding is a single name introduced by a binding expression.
type Binding struct {
	NamePos Position
	Name    string
	Static  bool
	Const   bool
	Type    TypeExpr // optional; inferred from Init if nil
	Init    Expr
}

// A BindingExpr represents one or more comma-chained let bindings:
//
//	let x: int = 10, y = 20
type BindingExpr struct {
	LetPos   Position
	Bindings []*Binding
}

func (x *BindingExpr) Span() (start, end Position) {
	last := x.Bindings[len(x.Bindings)-1]
	_, end = last.Init.Span()
	return x.LetPos, end
}

// An Argument is one argument of a call. Spread marks a trailing
// "..." argument that forwards an existing slice to a variadic
// parameter rather than collecting loose values.
type Argument struct {
	Value  Expr
	Spread bool
}

// A CallExpr represents a function call: Fn(Args).
type CallExpr struct {
	Fn     Expr
	Lparen Position
	Args   []*Argument
	Rparen Position
}

func (x *CallExpr) Span() (start, end Position) {
	start, _ = x.Fn.Span()
	return start, x.Rparen.add(")")
}

// The kind of a cast expression.
type CastKind int8

const (
	Cast      CastKind = iota // value: type
	Assertion                 // value as type
	Test                      // value is type
)

func (k CastKind) String() string { return [...]string{"cast", "as", "is"}[k] }

// A CastExpr represents a cast, type assertion, or type test.
type CastExpr struct {
	X     Expr
	OpPos Position
	Kind  CastKind
	Type  TypeExpr
}

func (x *CastExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Type.Span()
	return start, end
}

// A DeferExpr represents a deferred expression: defer X.
type DeferExpr struct {
	Defer Position
	X     Expr
}

func (x *DeferExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.Defer, end
}

// A BranchExpr transfers control out of a loop: break or continue,
// optionally labeled.
type BranchExpr struct {
	TokenPos Position
	Token    Token  // BREAK | CONTINUE
	Label    string // optional
}

func (x *BranchExpr) Span() (start, end Position) {
	end = x.TokenPos.add(tokenNames[x.Token])
	if x.Label != "" {
		end = end.add(" :" + x.Label)
	}
	return x.TokenPos, end
}

// A ForExpr represents a loop:
//
//	for :label (bindings; cond; afterthought) body
type ForExpr struct {
	For          Position
	Label        string // optional
	LabelPos     Position
	Bindings     *BindingExpr // optional
	Cond         Expr
	Afterthought Expr // optional
	Body         Expr
}

func (x *ForExpr) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.For, end
}

// An IfExpr represents a conditional: if (Cond) True else False.
type IfExpr struct {
	If    Position
	Cond  Expr
	True  Expr
	False Expr // optional
}

func (x *IfExpr) Span() (start, end Position) {
	if x.False != nil {
		_, end = x.False.Span()
	} else {
		_, end = x.True.Span()
	}
	return x.If, end
}

// A ListExpr represents a block of expressions evaluated in order in
// a new lexical scope: { a; b; c; }. Its value is the final
// expression's value.
type ListExpr struct {
	Lbrace Position
	Exprs  []Expr
	Rbrace Position
}

func (x *ListExpr) Span() (start, end Position) {
	return x.Lbrace, x.Rbrace.add("}")
}

// The operation of a measure expression.
type MeasureOp int8

const (
	Len    MeasureOp = iota // len(expr)
	Size                    // size(type)
	Offset                  // offset(expr) (reserved)
)

func (op MeasureOp) String() string { return [...]string{"len", "size", "offset"}[op] }

// A MeasureExpr represents len(X), size(Type), or offset(X).
type MeasureExpr struct {
	Keyword Position
	Op      MeasureOp
	X       Expr     // Len, Offset
	Type    TypeExpr // Size
	Rparen  Position
}

func (x *MeasureExpr) Span() (start, end Position) {
	return x.Keyword, x.Rparen.add(")")
}

// A ReturnExpr returns from a function: return Result.
type ReturnExpr struct {
	Return Position
	Result Expr // optional
}

func (x *ReturnExpr) Span() (start, end Position) {
	if x.Result == nil {
		return x.Return, x.Return.add("return")
	}
	_, end = x.Result.Span()
	return x.Return, end
}

// A Case is one arm of a switch expression. An empty Options list
// denotes the default arm.
type Case struct {
	CasePos Position
	Options []Expr
	Body    Expr
}

// A SwitchExpr represents a multi-way branch:
//
//	switch (value) { case a, b => x; case => y; }
type SwitchExpr struct {
	Switch Position
	Value  Expr
	Cases  []*Case
	Rbrace Position
}

func (x *SwitchExpr) Span() (start, end Position) {
	return x.Switch, x.Rbrace.add("}")
}
