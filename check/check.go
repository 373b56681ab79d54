// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package check implements the Skarn semantic analysis phase.
//
// Checking consumes the untyped syntax tree of one compilation unit
// and produces a tree.Unit: a flat list of typed top-level
// declarations whose expression trees carry resolved types and
// divergence flags. All static semantics are enforced here: scoping,
// type compatibility, nullability, constant evaluability, and
// control-flow legality.
//
// Violations do not abort the pass. Each is recorded and the
// offending expression is poisoned with the invalid type so checking
// can continue; if any were recorded, the unit is withheld and the
// accumulated ErrorList returned instead. The first entry is always
// the first violation in source order.
package check // import "go.skarn.net/check"

import (
	"fmt"
	"strings"

	"go.skarn.net/eval"
	"go.skarn.net/syntax"
	"go.skarn.net/tree"
	"go.skarn.net/types"
)

// ErrorKind classifies a diagnostic.
type ErrorKind int8

const (
	ErrUnresolved  ErrorKind = iota // unknown identifier or label
	ErrKind                         // type used as value, or vice versa
	ErrNullability                  // operation through a nullable pointer
	ErrType                         // operand or assignment type mismatch
	ErrArity                        // wrong number of call arguments
	ErrLabel                        // loop label violation
	ErrConstant                     // constant required but not evaluable
	ErrField                        // unknown or mismatched struct field
	ErrCast                         // invalid cast or tagged-union assertion
	ErrUnsupported                  // recognized form without semantics
)

// An Error describes one semantic violation.
type Error struct {
	Pos  syntax.Position
	Kind ErrorKind
	Msg  string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// An ErrorList is a non-empty list of errors in source order.
type ErrorList []Error

func (e ErrorList) Error() string { return e[0].Error() }

// A Checker holds the state of one semantic analysis pass. A Checker
// may check several files in sequence; earlier declarations remain
// visible, which is what the REPL relies on.
type Checker struct {
	// Ns is the namespace prefix applied to unqualified top-level
	// declarations, or "".
	Ns string

	store *types.Store
	root  *tree.Scope

	scope     *tree.Scope
	fnResult  *types.Type // nil outside a function body
	deferring bool
	nstatic   int // synthesized static binding symbols
	errors    ErrorList
}

// NewChecker returns a Checker with an empty top-level scope.
func NewChecker() *Checker {
	c := &Checker{
		store: types.NewStore(),
		root:  tree.NewScope(nil),
	}
	c.scope = c.root
	c.store.LookupIdent = c.resolveTypeIdent
	c.store.EvalLen = c.evalArrayLen
	return c
}

// File checks a parsed file in a fresh checker. On success it
// returns the checked unit; on failure the unit is nil and the error
// is an ErrorList.
func File(f *syntax.File) (*tree.Unit, error) {
	return NewChecker().File(f)
}

// File checks one parsed file against the checker's accumulated
// top-level scope.
func (c *Checker) File(f *syntax.File) (unit *tree.Unit, err error) {
	c.errors = nil
	c.scope = c.root

	// Pass 1: register every top-level signature so later
	// declarations can forward-reference earlier ones, and
	// evaluate constants immediately.
	for _, d := range f.Decls {
		c.scan(d)
	}

	// Pass 2: check bodies and initializers.
	unit = &tree.Unit{Ns: c.Ns, Scope: c.root}
	for _, d := range f.Decls {
		if decl := c.checkDecl(d); decl != nil {
			unit.Decls = append(unit.Decls, decl)
		}
	}

	if len(c.errors) > 0 {
		return nil, c.errors
	}
	return unit, nil
}

// Expr checks a single expression against the checker's top-level
// scope, for interactive use.
func (c *Checker) Expr(e syntax.Expr) (tree.Expr, error) {
	c.errors = nil
	c.scope = c.root
	x := c.expr(e, nil)
	if len(c.errors) > 0 {
		return nil, c.errors
	}
	return x, nil
}

// Decl scans and checks a single declaration against the checker's
// top-level scope, for interactive use.
func (c *Checker) Decl(d syntax.Decl) (tree.Decl, error) {
	c.errors = nil
	c.scope = c.root
	c.scan(d)
	decl := c.checkDecl(d)
	if len(c.errors) > 0 {
		return nil, c.errors
	}
	return decl, nil
}

func (c *Checker) errorf(kind ErrorKind, pos syntax.Position, format string, args ...interface{}) {
	c.errors = append(c.errors, Error{pos, kind, fmt.Sprintf(format, args...)})
}

// invalid returns a poisoned expression so checking can continue
// after an error.
func (c *Checker) invalid(e syntax.Expr) tree.Expr {
	x := &tree.Constant{}
	x.Syntax = e
	x.Type = types.InvalidType
	return x
}

func (c *Checker) pushScope() *tree.Scope {
	c.scope = tree.NewScope(c.scope)
	return c.scope
}

func (c *Checker) popScope() {
	c.scope = c.scope.Parent()
}

// lookup resolves a possibly-qualified identifier, trying the
// checker's namespace prefix for unqualified names that miss.
func (c *Checker) lookup(id *syntax.Ident) *tree.Object {
	if obj := c.scope.Lookup(id.String()); obj != nil {
		return obj
	}
	if id.Ns == nil && c.Ns != "" {
		return c.scope.Lookup(c.Ns + "::" + id.Name)
	}
	return nil
}

// qualify returns the full declaration name for a top-level ident.
func (c *Checker) qualify(id *syntax.Ident) string {
	if id.Ns == nil && c.Ns != "" {
		return c.Ns + "::" + id.Name
	}
	return id.String()
}

// mangle derives the default linkage symbol from a qualified name.
func mangle(ident string) string {
	return strings.ReplaceAll(ident, "::", ".")
}

// resolveTypeIdent is the store's named-type callback. Failures are
// recorded here and poisoned so type resolution never aborts.
func (c *Checker) resolveTypeIdent(id *syntax.Ident) (*types.Type, error) {
	obj := c.lookup(id)
	if obj == nil {
		c.errorf(ErrUnresolved, syntax.Start(id), "unresolved type %s", id)
		return types.InvalidType, nil
	}
	if obj.Kind != tree.TypeObject {
		c.errorf(ErrKind, syntax.Start(id), "%s is not a type", id)
		return types.InvalidType, nil
	}
	return obj.Type, nil
}

// evalArrayLen is the store's array-length callback.
func (c *Checker) evalArrayLen(e syntax.Expr) (uint64, error) {
	x := c.expr(e, types.SizeType)
	if x.Result() == types.InvalidType {
		return 0, nil
	}
	if !x.Result().IsInteger() {
		c.errorf(ErrType, syntax.Start(e), "array length must be an integer")
		return 0, nil
	}
	cv, err := eval.Expr(x)
	if err != nil {
		c.errorf(ErrConstant, syntax.Start(e), "array length is not a constant expression")
		return 0, nil
	}
	n, ok := eval.AsUint(cv)
	if !ok {
		c.errorf(ErrType, syntax.Start(e), "array length is negative")
		return 0, nil
	}
	return n, nil
}

// resolveType resolves a syntax type expression, reporting and
// poisoning failures.
func (c *Checker) resolveType(te syntax.TypeExpr) *types.Type {
	t, err := c.store.Resolve(te)
	if err != nil {
		c.errorf(ErrType, syntax.Start(te), "%v", err)
		return types.InvalidType
	}
	return t
}

// scan registers a declaration's signature in the current scope.
// Constants are evaluated immediately; they may not forward-reference
// later declarations.
func (c *Checker) scan(d syntax.Decl) {
	switch d := d.(type) {
	case *syntax.FuncDecl:
		ident := c.qualify(d.Name)
		symbol := d.Symbol
		if symbol == "" {
			symbol = mangle(ident)
		}
		ftype := c.resolveProto(d.Proto)
		c.scope.Insert(&tree.Object{
			Kind:   tree.DeclObject,
			Ident:  ident,
			Symbol: symbol,
			Type:   ftype,
		})

	case *syntax.GlobalDecl:
		ident := c.qualify(d.Name)
		symbol := d.Symbol
		if symbol == "" {
			symbol = mangle(ident)
		}
		t := c.resolveType(d.Type)
		c.scope.Insert(&tree.Object{
			Kind:   tree.DeclObject,
			Ident:  ident,
			Symbol: symbol,
			Type:   t,
		})

	case *syntax.ConstDecl:
		ident := c.qualify(d.Name)
		t := c.resolveType(d.Type)
		init := c.expr(d.Init, t)
		if !c.store.Assignable(t, init.Result()) {
			c.errorf(ErrType, syntax.Start(d.Init),
				"initializer of type %s is not assignable to %s", init.Result(), t)
		}
		init = c.lower(t, init)
		var value interface{}
		if cv, err := eval.Expr(init); err == nil {
			value = cv.Value
		} else if init.Result() != types.InvalidType {
			c.errorf(ErrConstant, syntax.Start(d.Init),
				"constant initializer is not a constant expression")
		}
		c.scope.Insert(&tree.Object{
			Kind:  tree.ConstObject,
			Ident: ident,
			Type:  t,
			Value: value,
		})

	case *syntax.TypeDecl:
		ident := c.qualify(d.Name)
		t := c.resolveType(d.Type)
		alias := c.store.LookupAlias(ident, t)
		c.scope.Insert(&tree.Object{
			Kind:  tree.TypeObject,
			Ident: ident,
			Type:  alias,
		})
		if under := t.Dealias(); under.Storage == types.Enum {
			c.scanEnum(ident, alias, under)
		}
	}
}

// scanEnum expands an enum type's values into scoped constants named
// type::value, typed as the enum itself.
func (c *Checker) scanEnum(ident string, alias, enum *types.Type) {
	signed := enum.IsSigned()
	for _, v := range enum.Enum.Values {
		var value interface{}
		if signed {
			value = int64(v.Value)
		} else {
			value = v.Value
		}
		c.scope.Insert(&tree.Object{
			Kind:  tree.ConstObject,
			Ident: ident + "::" + v.Name,
			Type:  alias,
			Value: value,
		})
	}
}

// resolveProto builds a function type from a prototype. For native
// variadism the recorded final parameter type is the element type;
// call and body checking derive the slice from it.
func (c *Checker) resolveProto(proto *syntax.FuncType) *types.Type {
	params := make([]*types.Type, len(proto.Params))
	for i, p := range proto.Params {
		params[i] = c.resolveType(p.Type)
	}
	result := types.VoidType
	if proto.Result != nil {
		result = c.resolveType(proto.Result)
	}
	return c.store.LookupFunc(params, result, types.Variadism(proto.Variadism))
}

// checkDecl fully checks one declaration, or returns nil for pure
// forward declarations.
func (c *Checker) checkDecl(d syntax.Decl) tree.Decl {
	switch d := d.(type) {
	case *syntax.FuncDecl:
		return c.checkFunction(d)

	case *syntax.GlobalDecl:
		if d.Init == nil {
			return nil
		}
		obj := c.scope.Lookup(c.qualify(d.Name))
		init := c.expr(d.Init, obj.Type)
		if !c.store.Assignable(obj.Type, init.Result()) {
			c.errorf(ErrType, syntax.Start(d.Init),
				"initializer of type %s is not assignable to %s", init.Result(), obj.Type)
		}
		init = c.lower(obj.Type, init)
		if _, err := eval.Expr(init); err != nil && init.Result() != types.InvalidType {
			c.errorf(ErrConstant, syntax.Start(d.Init),
				"global initializer is not a constant expression")
		}
		return &tree.GlobalDecl{Obj: obj, Export: d.Export, Value: init}

	case *syntax.ConstDecl:
		return &tree.ConstDecl{
			Obj:    c.scope.Lookup(c.qualify(d.Name)),
			Export: d.Export,
		}

	case *syntax.TypeDecl:
		return &tree.TypeDecl{
			Obj:    c.scope.Lookup(c.qualify(d.Name)),
			Export: d.Export,
		}
	}
	return nil
}

func (c *Checker) checkFunction(d *syntax.FuncDecl) tree.Decl {
	obj := c.scope.Lookup(c.qualify(d.Name))
	if d.Body == nil {
		return nil // prototype
	}
	ftype := obj.Type
	if ftype.Storage != types.Function {
		return nil // prototype failed to resolve
	}
	fn := ftype.Func
	if fn.Variadism == types.CVariadism {
		c.errorf(ErrUnsupported, d.StartPos,
			"C-style variadism requires a prototype")
	}

	if d.Flags != 0 {
		if fn.Result != types.VoidType {
			c.errorf(ErrType, d.StartPos,
				"@init, @fini, and @test functions must return void")
		}
		if d.Export {
			c.errorf(ErrType, d.StartPos,
				"@init, @fini, and @test functions cannot be exported")
		}
	}

	scope := c.pushScope()
	defer c.popScope()
	for i, p := range d.Proto.Params {
		if p.Name == "" {
			c.errorf(ErrUnresolved, p.NamePos, "parameters must be named")
			continue
		}
		t := fn.Params[i]
		if i == len(fn.Params)-1 && fn.Variadism == types.SkarnVariadism {
			t = c.store.LookupSlice(t)
		}
		scope.Insert(&tree.Object{Kind: tree.BindObject, Ident: p.Name, Type: t})
	}

	savedResult := c.fnResult
	c.fnResult = fn.Result
	defer func() { c.fnResult = savedResult }()

	body := c.expr(d.Body, fn.Result)
	if !body.Terminates() {
		if !c.store.Assignable(fn.Result, body.Result()) {
			c.errorf(ErrType, syntax.Start(d.Body),
				"function body of type %s is not assignable to result type %s",
				body.Result(), fn.Result)
		}
		body = c.lower(fn.Result, body)
	}

	return &tree.FuncDecl{
		Obj:    obj,
		Export: d.Export,
		Flags:  d.Flags,
		Scope:  scope,
		Body:   body,
	}
}
