// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import (
	"fmt"

	"go.skarn.net/eval"
	"go.skarn.net/syntax"
	"go.skarn.net/tree"
	"go.skarn.net/types"
)

// expr checks one expression. The hint, when non-nil, steers literal
// defaulting and inference; the caller must still verify
// assignability. The result is never nil: failures are recorded and
// poisoned.
func (c *Checker) expr(e syntax.Expr, hint *types.Type) tree.Expr {
	switch e := e.(type) {
	case *syntax.Ident:
		return c.checkAccess(e)
	case *syntax.Literal:
		return c.checkLiteral(e)
	case *syntax.ArrayLit:
		return c.checkArrayLit(e, hint)
	case *syntax.IndexExpr:
		return c.checkIndex(e)
	case *syntax.DotExpr:
		return c.checkField(e)
	case *syntax.SliceExpr:
		return c.checkSlice(e)
	case *syntax.AssertExpr:
		return c.checkAssert(e)
	case *syntax.AssignExpr:
		return c.checkAssign(e)
	case *syntax.BinaryExpr:
		return c.checkBinarithm(e)
	case *syntax.UnaryExpr:
		return c.checkUnarithm(e)
	case *syntax.BindingExpr:
		return c.checkBinding(e)
	case *syntax.CallExpr:
		return c.checkCall(e)
	case *syntax.CastExpr:
		return c.checkCast(e)
	case *syntax.DeferExpr:
		return c.checkDefer(e)
	case *syntax.BranchExpr:
		return c.checkBranch(e)
	case *syntax.ForExpr:
		return c.checkFor(e)
	case *syntax.IfExpr:
		return c.checkIf(e, hint)
	case *syntax.ListExpr:
		return c.checkList(e, hint)
	case *syntax.MeasureExpr:
		return c.checkMeasure(e)
	case *syntax.ReturnExpr:
		return c.checkReturn(e)
	case *syntax.StructLit:
		return c.checkStructLit(e)
	case *syntax.SwitchExpr:
		return c.checkSwitch(e)
	}
	panic(fmt.Sprintf("unexpected expression %T", e))
}

// lower wraps x in an implicit cast to the required type, unless its
// result is already that exact type. The wrapped expression's
// divergence is preserved.
func (c *Checker) lower(to *types.Type, x tree.Expr) tree.Expr {
	if x.Result() == to || x.Result() == types.InvalidType || to == types.InvalidType {
		return x
	}
	cast := &tree.Cast{Kind: syntax.Cast, Value: x, To: to}
	cast.Syntax = x.Source()
	cast.Type = to
	cast.Diverg = x.Terminates()
	return cast
}

func (c *Checker) checkAccess(e *syntax.Ident) tree.Expr {
	obj := c.lookup(e)
	if obj == nil {
		msg := fmt.Sprintf("unresolved identifier %s", e)
		if s := c.suggest(e.String()); s != "" {
			msg += fmt.Sprintf(" (did you mean %s?)", s)
		}
		c.errorf(ErrUnresolved, syntax.Start(e), "%s", msg)
		return c.invalid(e)
	}
	switch obj.Kind {
	case tree.ConstObject:
		// Inline the constant's value.
		x := &tree.Constant{Value: obj.Value}
		x.Syntax = e
		x.Type = obj.Type
		return x
	case tree.TypeObject:
		c.errorf(ErrKind, syntax.Start(e), "expected value, found type %s", e)
		return c.invalid(e)
	}
	x := &tree.Access{Obj: obj}
	x.Syntax = e
	x.Type = obj.Type
	return x
}

func (c *Checker) checkLiteral(e *syntax.Literal) tree.Expr {
	x := &tree.Constant{Value: e.Value}
	x.Syntax = e
	switch e.Token {
	case syntax.INT:
		s, ok := types.StorageForSuffix(e.Suffix)
		if !ok {
			c.errorf(ErrType, e.TokenPos, "invalid integer suffix %q", e.Suffix)
			return c.invalid(e)
		}
		x.Type = types.Builtin(s)
	case syntax.STRING:
		x.Type = types.ConstStrType
	case syntax.RUNE:
		x.Type = types.RuneType
	case syntax.TRUE, syntax.FALSE:
		x.Type = types.BoolType
	case syntax.NULL:
		x.Type = types.NullType
	default:
		panic("unexpected literal token")
	}
	return x
}

func (c *Checker) checkArrayLit(e *syntax.ArrayLit, hint *types.Type) tree.Expr {
	var elem *types.Type
	var hintLen = types.SizeUndefined
	if hint != nil {
		switch h := hint.Dealias(); h.Storage {
		case types.Array:
			elem = h.Array.Elem
			hintLen = h.Array.Len
		case types.Slice:
			elem = h.Array.Elem
		}
	}

	exprs := make([]tree.Expr, len(e.Elems))
	for i, el := range e.Elems {
		x := c.expr(el, elem)
		if elem == nil {
			elem = x.Result() // first element establishes the type
		} else if !c.store.Assignable(elem, x.Result()) {
			c.errorf(ErrType, syntax.Start(el),
				"array element of type %s does not match type %s", x.Result(), elem)
		} else {
			x = c.lower(elem, x)
		}
		exprs[i] = x
	}
	if elem == nil {
		c.errorf(ErrType, e.Lbrack, "cannot infer the type of an empty array")
		return c.invalid(e)
	}

	length := uint64(len(exprs))
	if e.Expand {
		if hintLen == types.SizeUndefined {
			c.errorf(ErrType, e.Lbrack,
				"array expansion requires a destination of fixed length")
		} else if hintLen < length {
			c.errorf(ErrType, e.Lbrack,
				"array expansion into a shorter array")
		} else {
			length = hintLen
		}
	}

	x := &tree.Array{Exprs: exprs, Expand: e.Expand}
	x.Syntax = e
	x.Type = c.store.LookupArray(elem, length)
	return x
}

func (c *Checker) checkIndex(e *syntax.IndexExpr) tree.Expr {
	arr := c.expr(e.X, nil)
	atype := arr.Result().Dereference()
	if atype == nil {
		c.errorf(ErrNullability, syntax.Start(e.X),
			"cannot index through a nullable pointer")
		return c.invalid(e)
	}
	if atype == types.InvalidType {
		return c.invalid(e)
	}
	if atype.Storage != types.Array && atype.Storage != types.Slice {
		c.errorf(ErrType, syntax.Start(e.X), "cannot index type %s", arr.Result())
		return c.invalid(e)
	}

	index := c.expr(e.Y, types.SizeType)
	if !index.Result().IsInteger() && index.Result() != types.InvalidType {
		c.errorf(ErrType, syntax.Start(e.Y),
			"non-integer index of type %s", index.Result())
	}
	index = c.lower(types.SizeType, index)

	x := &tree.Index{Array: arr, Index: index}
	x.Syntax = e
	x.Type = c.store.WithFlags(atype.Array.Elem, atype.Array.Elem.Flags|atype.Flags)
	return x
}

func (c *Checker) checkField(e *syntax.DotExpr) tree.Expr {
	obj := c.expr(e.X, nil)
	stype := obj.Result().Dereference()
	if stype == nil {
		c.errorf(ErrNullability, syntax.Start(e.X),
			"cannot select a field through a nullable pointer")
		return c.invalid(e)
	}
	if stype == types.InvalidType {
		return c.invalid(e)
	}
	if stype.Storage != types.Struct && stype.Storage != types.Union {
		c.errorf(ErrType, syntax.Start(e.X),
			"cannot select a field of non-struct type %s", obj.Result())
		return c.invalid(e)
	}
	field := stype.FieldByName(e.Name)
	if field == nil {
		c.errorf(ErrField, e.NamePos, "no field %s in type %s", e.Name, obj.Result())
		return c.invalid(e)
	}
	x := &tree.Field{X: obj, Field: field}
	x.Syntax = e
	x.Type = field.Type
	return x
}

func (c *Checker) checkSlice(e *syntax.SliceExpr) tree.Expr {
	obj := c.expr(e.X, nil)
	atype := obj.Result().Dereference()
	if atype == nil {
		c.errorf(ErrNullability, syntax.Start(e.X),
			"cannot slice through a nullable pointer")
		return c.invalid(e)
	}
	if atype == types.InvalidType {
		return c.invalid(e)
	}
	if atype.Storage != types.Array && atype.Storage != types.Slice {
		c.errorf(ErrType, syntax.Start(e.X), "cannot slice type %s", obj.Result())
		return c.invalid(e)
	}

	bound := func(b syntax.Expr) tree.Expr {
		if b == nil {
			return nil
		}
		x := c.expr(b, types.SizeType)
		if !x.Result().IsInteger() && x.Result() != types.InvalidType {
			c.errorf(ErrType, syntax.Start(b),
				"non-integer slice bound of type %s", x.Result())
		}
		return c.lower(types.SizeType, x)
	}

	x := &tree.Slice{Object: obj, Lo: bound(e.Lo), Hi: bound(e.Hi)}
	x.Syntax = e
	x.Type = c.store.LookupSlice(atype.Array.Elem)
	return x
}

func (c *Checker) checkAssert(e *syntax.AssertExpr) tree.Expr {
	x := &tree.Assert{}
	x.Syntax = e
	x.Type = types.VoidType

	if e.Cond != nil {
		cond := c.expr(e.Cond, types.BoolType)
		if s := cond.Result().Dealias().Storage; s != types.Bool && s != types.Invalid {
			c.errorf(ErrType, syntax.Start(e.Cond),
				"non-boolean assertion condition of type %s", cond.Result())
		}
		x.Cond = cond
	} else {
		x.Diverg = true // abort
	}

	if e.Msg != nil {
		msg := c.expr(e.Msg, types.ConstStrType)
		if s := msg.Result().Dealias().Storage; s != types.Str && s != types.Invalid {
			c.errorf(ErrType, syntax.Start(e.Msg),
				"assertion message must be a string, not %s", msg.Result())
		}
		x.Message = msg
	} else {
		msg := &tree.Constant{Value: fmt.Sprintf("assertion failed: %s", e.Keyword)}
		msg.Type = types.ConstStrType
		x.Message = msg
	}
	return x
}

func (c *Checker) checkAssign(e *syntax.AssignExpr) tree.Expr {
	lhs := c.expr(e.LHS, nil)

	target := lhs.Result()
	if e.Indirect {
		ptype := target.Dealias()
		if ptype.Storage != types.Pointer {
			if ptype != types.InvalidType {
				c.errorf(ErrType, syntax.Start(e.LHS),
					"cannot assign through non-pointer type %s", target)
			}
			return c.invalid(e)
		}
		if ptype.Pointer.Nullable {
			c.errorf(ErrNullability, syntax.Start(e.LHS),
				"cannot assign through a nullable pointer")
			return c.invalid(e)
		}
		target = ptype.Pointer.Referent
	} else {
		switch lhs.(type) {
		case *tree.Access, *tree.Index, *tree.Field:
		default:
			if lhs.Result() != types.InvalidType {
				c.errorf(ErrType, syntax.Start(e.LHS),
					"cannot assign to this expression")
			}
			return c.invalid(e)
		}
		if target.Flags&types.FlagConst != 0 {
			c.errorf(ErrType, syntax.Start(e.LHS), "cannot assign to const object")
		}
	}

	rhs := c.expr(e.RHS, target)
	if !c.store.Assignable(target, rhs.Result()) {
		c.errorf(ErrType, syntax.Start(e.RHS),
			"value of type %s is not assignable to %s", rhs.Result(), target)
	}
	rhs = c.lower(target, rhs)

	x := &tree.Assign{LHS: lhs, Indirect: e.Indirect, RHS: rhs}
	x.Syntax = e
	x.Type = types.VoidType
	return x
}

// comparison tokens yield bool; the rest yield the operand type.
func comparison(op syntax.Token) bool {
	switch op {
	case syntax.EQL, syntax.NEQ, syntax.LT, syntax.GT, syntax.LE, syntax.GE,
		syntax.AMPAMP, syntax.PIPE2, syntax.CARET2:
		return true
	}
	return false
}

func (c *Checker) checkBinarithm(e *syntax.BinaryExpr) tree.Expr {
	lhs := c.expr(e.X, nil)
	rhs := c.expr(e.Y, lhs.Result())

	ls := lhs.Result().Dealias().Storage
	rs := rhs.Result().Dealias().Storage
	if ls != rs && ls != types.Invalid && rs != types.Invalid {
		// Mixed-storage promotion is intentionally undefined; operands
		// must agree.
		c.errorf(ErrType, e.OpPos,
			"mismatched operand types %s and %s", lhs.Result(), rhs.Result())
	}
	switch e.Op {
	case syntax.AMPAMP, syntax.PIPE2, syntax.CARET2:
		if ls != types.Bool && ls != types.Invalid {
			c.errorf(ErrType, e.OpPos,
				"logical operand of non-boolean type %s", lhs.Result())
		}
	}

	x := &tree.Binarithm{Op: e.Op, LHS: lhs, RHS: rhs}
	x.Syntax = e
	if comparison(e.Op) {
		x.Type = types.BoolType
	} else {
		x.Type = lhs.Result()
	}
	return x
}

func (c *Checker) checkUnarithm(e *syntax.UnaryExpr) tree.Expr {
	operand := c.expr(e.X, nil)
	t := operand.Result()
	td := t.Dealias()

	x := &tree.Unarithm{Op: e.Op, X: operand}
	x.Syntax = e
	x.Type = t

	if td == types.InvalidType {
		return x
	}
	switch e.Op {
	case syntax.NOT:
		if td.Storage != types.Bool {
			c.errorf(ErrType, e.OpPos, "cannot negate non-boolean type %s", t)
		}
		x.Type = types.BoolType
	case syntax.TILDE:
		if !td.IsInteger() || td.IsSigned() {
			c.errorf(ErrType, e.OpPos,
				"cannot complement non-unsigned type %s", t)
		}
	case syntax.PLUS, syntax.MINUS:
		if !td.IsNumeric() || !td.IsSigned() {
			c.errorf(ErrType, e.OpPos,
				"unary %s requires a signed numeric operand, not %s", e.Op, t)
		}
	case syntax.AMP:
		x.Type = c.store.LookupPointer(t, false)
	case syntax.STAR:
		if td.Storage != types.Pointer {
			c.errorf(ErrType, e.OpPos, "cannot dereference type %s", t)
			return c.invalid(e)
		}
		if td.Pointer.Nullable {
			c.errorf(ErrNullability, e.OpPos,
				"cannot dereference a nullable pointer")
			return c.invalid(e)
		}
		x.Type = td.Pointer.Referent
	default:
		panic("unexpected unary operator")
	}
	return x
}

func (c *Checker) checkBinding(e *syntax.BindingExpr) tree.Expr {
	x := &tree.Bindings{}
	x.Syntax = e
	x.Type = types.VoidType

	for _, b := range e.Bindings {
		var t *types.Type
		if b.Type != nil {
			t = c.resolveType(b.Type)
		}
		init := c.expr(b.Init, t)
		if t == nil {
			t = init.Result()
		}
		if t.SizeOf == 0 || t.SizeOf == types.SizeUndefined {
			if t != types.InvalidType {
				c.errorf(ErrType, b.NamePos,
					"cannot create a binding of zero or undefined size")
			}
			t = types.InvalidType
		}
		if !c.store.Assignable(t, init.Result()) {
			c.errorf(ErrType, syntax.Start(b.Init),
				"initializer of type %s is not assignable to %s", init.Result(), t)
		}
		init = c.lower(t, init)
		if b.Const {
			t = c.store.WithFlags(t, t.Flags|types.FlagConst)
		}

		obj := &tree.Object{Kind: tree.BindObject, Ident: b.Name, Type: t}
		if b.Static {
			if _, err := eval.Expr(init); err != nil && t != types.InvalidType {
				c.errorf(ErrConstant, syntax.Start(b.Init),
					"static binding initializer is not a constant expression")
			}
			obj.Kind = tree.DeclObject
			obj.Symbol = fmt.Sprintf("static.%d", c.nstatic)
			c.nstatic++
		}
		c.scope.Insert(obj)
		x.Bindings = append(x.Bindings, &tree.Binding{Obj: obj, Init: init})
	}
	return x
}

func (c *Checker) checkCall(e *syntax.CallExpr) tree.Expr {
	fn := c.expr(e.Fn, nil)
	ftype := fn.Result().Dereference()
	if ftype == nil {
		c.errorf(ErrNullability, syntax.Start(e.Fn),
			"cannot call through a nullable pointer")
		return c.invalid(e)
	}
	if ftype == types.InvalidType {
		return c.invalid(e)
	}
	if ftype.Storage != types.Function {
		c.errorf(ErrType, syntax.Start(e.Fn),
			"cannot call non-function type %s", fn.Result())
		return c.invalid(e)
	}

	params := ftype.Func.Params
	x := &tree.Call{Fn: fn}
	x.Syntax = e
	x.Type = ftype.Func.Result

	switch ftype.Func.Variadism {
	case types.SkarnVariadism:
		// The variadic slot itself needs at least one argument.
		fixed := len(params) - 1
		if len(e.Args) <= fixed {
			c.errorf(ErrArity, e.Rparen, "not enough arguments for call")
			return x
		}
		for i := 0; i < fixed; i++ {
			x.Args = append(x.Args, c.argument(e.Args[i], params[i]))
		}
		elem := params[fixed]
		slice := c.store.LookupSlice(elem)
		rest := e.Args[fixed:]
		if len(rest) == 1 && rest[0].Spread {
			// Forward an existing slice unchanged.
			x.Args = append(x.Args, c.argument(rest[0], slice))
			return x
		}
		for _, a := range rest {
			if a.Spread {
				c.errorf(ErrType, syntax.Start(a.Value),
					"spread argument must be the only variadic argument")
			}
		}
		x.Args = append(x.Args, c.lowerVariadic(e, rest, elem, slice))
		return x

	case types.CVariadism:
		if len(e.Args) < len(params) {
			c.errorf(ErrArity, e.Rparen, "not enough arguments for call")
			return x
		}
		for i, a := range e.Args {
			if i < len(params) {
				x.Args = append(x.Args, c.argument(a, params[i]))
			} else {
				// Extra foreign arguments pass through unchecked.
				x.Args = append(x.Args, c.expr(a.Value, nil))
			}
		}
		return x
	}

	if len(e.Args) > len(params) {
		c.errorf(ErrArity, e.Rparen, "too many arguments for call")
		return x
	}
	if len(e.Args) < len(params) {
		c.errorf(ErrArity, e.Rparen, "not enough arguments for call")
		return x
	}
	for i, a := range e.Args {
		x.Args = append(x.Args, c.argument(a, params[i]))
	}
	return x
}

// argument checks one call argument against its parameter type and
// lowers it.
func (c *Checker) argument(a *syntax.Argument, param *types.Type) tree.Expr {
	x := c.expr(a.Value, param)
	if !c.store.Assignable(param, x.Result()) {
		c.errorf(ErrType, syntax.Start(a.Value),
			"argument of type %s is not assignable to parameter type %s",
			x.Result(), param)
	}
	return c.lower(param, x)
}

// lowerVariadic collects trailing arguments into one synthesized
// array literal of the parameter's element type, checked as a whole
// and cast to the parameter's slice type.
func (c *Checker) lowerVariadic(call *syntax.CallExpr, rest []*syntax.Argument, elem, slice *types.Type) tree.Expr {
	lit := &syntax.ArrayLit{Lbrack: call.Rparen, Rbrack: call.Rparen}
	for _, a := range rest {
		lit.Elems = append(lit.Elems, a.Value)
	}
	arr := c.expr(lit, c.store.LookupArray(elem, uint64(len(rest))))
	return c.lower(slice, arr)
}

func (c *Checker) checkCast(e *syntax.CastExpr) tree.Expr {
	to := c.resolveType(e.Type)
	value := c.expr(e.X, to)
	from := value.Result()

	x := &tree.Cast{Kind: e.Kind, Value: value, To: to}
	x.Syntax = e
	x.Type = to

	switch e.Kind {
	case syntax.Cast:
		if !c.store.Castable(to, from) {
			c.errorf(ErrCast, e.OpPos, "cannot cast %s to %s", from, to)
		}
	case syntax.Assertion, syntax.Test:
		fromD := from.Dealias()
		if fromD == types.InvalidType || to == types.InvalidType {
			break
		}
		if fromD.Storage != types.TaggedUnion {
			c.errorf(ErrCast, e.OpPos,
				"type assertion requires a tagged union, not %s", from)
			break
		}
		member := false
		for _, m := range fromD.Tagged {
			if m == to {
				member = true
				break
			}
		}
		if !member {
			c.errorf(ErrCast, e.OpPos, "type %s is not a member of %s", to, from)
		}
	}
	if e.Kind == syntax.Test {
		x.Type = types.BoolType
	}
	return x
}

func (c *Checker) checkDefer(e *syntax.DeferExpr) tree.Expr {
	if c.deferring {
		c.errorf(ErrType, e.Defer, "cannot defer within a defer")
		return c.invalid(e)
	}
	c.deferring = true
	defer func() { c.deferring = false }()
	deferred := c.expr(e.X, nil)

	x := &tree.Defer{Deferred: deferred}
	x.Syntax = e
	x.Type = types.VoidType
	return x
}

func (c *Checker) checkBranch(e *syntax.BranchExpr) tree.Expr {
	target := c.scope.LookupLoop(e.Label)
	if target == nil {
		if e.Label != "" {
			c.errorf(ErrLabel, e.TokenPos, "unknown label %s", e.Label)
		} else {
			c.errorf(ErrLabel, e.TokenPos, "%s outside of a loop", e.Token)
		}
		return c.invalid(e)
	}
	x := &tree.Branch{Token: e.Token, Target: target}
	x.Syntax = e
	x.Type = types.VoidType
	x.Diverg = true
	return x
}

func (c *Checker) checkFor(e *syntax.ForExpr) tree.Expr {
	if e.Label != "" {
		if enclosing := c.scope.LookupLoop(e.Label); enclosing != nil {
			c.errorf(ErrLabel, e.LabelPos,
				"label %s duplicates an enclosing loop label", e.Label)
		}
	}

	scope := c.pushScope()
	defer c.popScope()
	scope.Loop = true
	scope.Label = e.Label

	x := &tree.For{Scope: scope}
	x.Syntax = e
	x.Type = types.VoidType

	if e.Bindings != nil {
		x.Bindings = c.expr(e.Bindings, nil)
	}
	cond := c.expr(e.Cond, types.BoolType)
	if s := cond.Result().Dealias().Storage; s != types.Bool && s != types.Invalid {
		c.errorf(ErrType, syntax.Start(e.Cond),
			"non-boolean loop condition of type %s", cond.Result())
	}
	x.Cond = cond
	if e.Afterthought != nil {
		x.Afterthought = c.expr(e.Afterthought, nil)
	}
	x.Body = c.expr(e.Body, nil)
	return x
}

func (c *Checker) checkIf(e *syntax.IfExpr, hint *types.Type) tree.Expr {
	cond := c.expr(e.Cond, types.BoolType)
	if s := cond.Result().Dealias().Storage; s != types.Bool && s != types.Invalid {
		c.errorf(ErrType, syntax.Start(e.Cond),
			"non-boolean condition of type %s", cond.Result())
	}

	x := &tree.If{Cond: cond}
	x.Syntax = e
	x.Then = c.expr(e.True, hint)

	if e.False == nil {
		x.Type = types.VoidType
		x.Diverg = x.Then.Terminates()
		return x
	}

	x.Else = c.expr(e.False, hint)
	tt, ft := x.Then.Terminates(), x.Else.Terminates()
	switch {
	case tt && ft:
		x.Type = types.VoidType
		x.Diverg = true
	case tt:
		x.Type = x.Else.Result()
	case ft:
		x.Type = x.Then.Result()
	default:
		if x.Then.Result() != x.Else.Result() &&
			x.Then.Result() != types.InvalidType && x.Else.Result() != types.InvalidType {
			c.errorf(ErrType, e.If,
				"mismatched branch types %s and %s", x.Then.Result(), x.Else.Result())
		}
		x.Type = x.Then.Result()
	}
	return x
}

func (c *Checker) checkList(e *syntax.ListExpr, hint *types.Type) tree.Expr {
	scope := c.pushScope()
	defer c.popScope()

	x := &tree.List{Scope: scope}
	x.Syntax = e
	x.Type = types.VoidType
	for i, child := range e.Exprs {
		var h *types.Type
		if i == len(e.Exprs)-1 {
			h = hint
		}
		checked := c.expr(child, h)
		x.Exprs = append(x.Exprs, checked)
		if i == len(e.Exprs)-1 {
			x.Type = checked.Result()
			x.Diverg = checked.Terminates()
		}
	}
	return x
}

func (c *Checker) checkMeasure(e *syntax.MeasureExpr) tree.Expr {
	x := &tree.Measure{Op: e.Op}
	x.Syntax = e
	x.Type = types.SizeType

	switch e.Op {
	case syntax.Len:
		value := c.expr(e.X, nil)
		atype := value.Result().Dereference()
		if atype == nil {
			c.errorf(ErrNullability, syntax.Start(e.X),
				"cannot measure through a nullable pointer")
			return c.invalid(e)
		}
		switch atype.Storage {
		case types.Array:
			if atype.Array.Len == types.SizeUndefined {
				c.errorf(ErrType, syntax.Start(e.X),
					"cannot take the length of an unbounded array")
			}
		case types.Slice, types.Str, types.Invalid:
		default:
			c.errorf(ErrType, syntax.Start(e.X),
				"cannot take the length of type %s", value.Result())
		}
		x.Value = value

	case syntax.Size:
		x.Operand = c.resolveType(e.Type)

	case syntax.Offset:
		c.errorf(ErrUnsupported, e.Keyword, "offset is not supported")
		return c.invalid(e)
	}
	return x
}

func (c *Checker) checkReturn(e *syntax.ReturnExpr) tree.Expr {
	x := &tree.Return{}
	x.Syntax = e
	x.Type = types.VoidType
	x.Diverg = true

	if c.fnResult == nil {
		c.errorf(ErrType, e.Return, "cannot return outside of a function")
		return x
	}
	if e.Result != nil {
		value := c.expr(e.Result, c.fnResult)
		if !c.store.Assignable(c.fnResult, value.Result()) {
			c.errorf(ErrType, syntax.Start(e.Result),
				"return value of type %s is not assignable to result type %s",
				value.Result(), c.fnResult)
		}
		x.Value = c.lower(c.fnResult, value)
	} else if c.fnResult != types.VoidType && c.fnResult != types.InvalidType {
		c.errorf(ErrType, e.Return, "missing return value")
	}
	return x
}

func (c *Checker) checkStructLit(e *syntax.StructLit) tree.Expr {
	// First pass: check each initializer against its annotated type
	// and assemble the synthetic struct type.
	fields := make([]*types.StructField, len(e.Fields))
	values := make([]tree.Expr, len(e.Fields))
	for i, f := range e.Fields {
		ft := c.resolveType(f.Type)
		values[i] = c.expr(f.Init, ft)
		fields[i] = &types.StructField{Name: f.Name, Type: ft}
	}
	stype := c.store.LookupStruct(false, fields)

	// Second pass: validate each field against the resolved type.
	x := &tree.Struct{}
	x.Syntax = e
	x.Type = stype
	for i, f := range e.Fields {
		field := stype.FieldByName(f.Name)
		if field == nil {
			c.errorf(ErrField, f.NamePos, "no field %s in type %s", f.Name, stype)
			continue
		}
		v := values[i]
		if !c.store.Assignable(field.Type, v.Result()) {
			c.errorf(ErrField, syntax.Start(f.Init),
				"value of type %s is not assignable to field %s", v.Result(), f.Name)
		}
		x.Fields = append(x.Fields, &tree.FieldValue{
			Field: field,
			Value: c.lower(field.Type, v),
		})
	}
	return x
}

func (c *Checker) checkSwitch(e *syntax.SwitchExpr) tree.Expr {
	value := c.expr(e.Value, nil)
	vt := value.Result()

	x := &tree.Switch{Value: value}
	x.Syntax = e

	var rtype *types.Type
	diverges := true
	for _, sc := range e.Cases {
		arm := &tree.Case{}
		for _, opt := range sc.Options {
			o := c.expr(opt, vt)
			if o.Result() != vt && o.Result() != types.InvalidType && vt != types.InvalidType {
				c.errorf(ErrType, syntax.Start(opt),
					"case option of type %s does not match %s", o.Result(), vt)
			}
			if _, err := eval.Expr(o); err != nil && o.Result() != types.InvalidType {
				c.errorf(ErrConstant, syntax.Start(opt),
					"case option is not a constant expression")
			}
			arm.Options = append(arm.Options, o)
		}

		body := c.expr(sc.Body, nil)
		arm.Value = body
		x.Cases = append(x.Cases, arm)

		if !body.Terminates() {
			diverges = false
			if rtype == nil {
				rtype = body.Result()
			} else if body.Result() != rtype &&
				body.Result() != types.InvalidType && rtype != types.InvalidType {
				c.errorf(ErrType, syntax.Start(sc.Body),
					"mismatched case types %s and %s", body.Result(), rtype)
			}
		}
	}

	if diverges && len(x.Cases) > 0 {
		x.Type = types.VoidType
		x.Diverg = true
	} else if rtype != nil {
		x.Type = rtype
	} else {
		x.Type = types.VoidType
	}
	return x
}
