// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eval computes the values of compile-time constant
// expressions over the checked tree.
package eval // import "go.skarn.net/eval"

import (
	"errors"
	"fmt"

	"go.skarn.net/syntax"
	"go.skarn.net/tree"
	"go.skarn.net/types"
)

// ErrNotConstant reports an expression that cannot be evaluated at
// compile time.
var ErrNotConstant = errors.New("expression is not compile-time constant")

// Expr evaluates e to a constant. The result carries e's type and
// provenance.
func Expr(e tree.Expr) (*tree.Constant, error) {
	switch e := e.(type) {
	case *tree.Constant:
		return e, nil

	case *tree.Access:
		if e.Obj.Kind != tree.ConstObject {
			return nil, ErrNotConstant
		}
		return constant(e, e.Obj.Value), nil

	case *tree.Unarithm:
		return unarithm(e)

	case *tree.Binarithm:
		return binarithm(e)

	case *tree.Cast:
		return cast(e)

	case *tree.Array:
		elems := make([]tree.Expr, len(e.Exprs))
		for i, x := range e.Exprs {
			c, err := Expr(x)
			if err != nil {
				return nil, err
			}
			elems[i] = c
		}
		return constant(e, elems), nil
	}
	return nil, ErrNotConstant
}

// constant wraps a value in a Constant node carrying e's type and
// syntax.
func constant(e tree.Expr, value interface{}) *tree.Constant {
	c := &tree.Constant{Value: value}
	c.Type = e.Result()
	c.Syntax = e.Source()
	return c
}

func unarithm(e *tree.Unarithm) (*tree.Constant, error) {
	x, err := Expr(e.X)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case syntax.NOT:
		b, ok := x.Value.(bool)
		if !ok {
			return nil, ErrNotConstant
		}
		return constant(e, !b), nil
	case syntax.PLUS:
		return constant(e, x.Value), nil
	case syntax.MINUS:
		i, ok := signed(x)
		if !ok {
			return nil, ErrNotConstant
		}
		return truncate(e, uint64(-i))
	case syntax.TILDE:
		u, ok := bits(x)
		if !ok {
			return nil, ErrNotConstant
		}
		return truncate(e, ^u)
	}
	return nil, ErrNotConstant
}

func binarithm(e *tree.Binarithm) (*tree.Constant, error) {
	lc, err := Expr(e.LHS)
	if err != nil {
		return nil, err
	}
	rc, err := Expr(e.RHS)
	if err != nil {
		return nil, err
	}

	// Logical operators work on bools.
	if lb, ok := lc.Value.(bool); ok {
		rb, ok := rc.Value.(bool)
		if !ok {
			return nil, ErrNotConstant
		}
		switch e.Op {
		case syntax.AMPAMP:
			return constant(e, lb && rb), nil
		case syntax.PIPE2:
			return constant(e, lb || rb), nil
		case syntax.CARET2:
			return constant(e, lb != rb), nil
		case syntax.EQL:
			return constant(e, lb == rb), nil
		case syntax.NEQ:
			return constant(e, lb != rb), nil
		}
		return nil, ErrNotConstant
	}

	l, lok := bits(lc)
	r, rok := bits(rc)
	if !lok || !rok {
		return nil, ErrNotConstant
	}
	isSigned := lc.Result().IsSigned()

	switch e.Op {
	case syntax.EQL:
		return constant(e, l == r), nil
	case syntax.NEQ:
		return constant(e, l != r), nil
	case syntax.LT, syntax.GT, syntax.LE, syntax.GE:
		var less, eq bool
		if isSigned {
			less = int64(l) < int64(r)
			eq = l == r
		} else {
			less = l < r
			eq = l == r
		}
		switch e.Op {
		case syntax.LT:
			return constant(e, less), nil
		case syntax.LE:
			return constant(e, less || eq), nil
		case syntax.GT:
			return constant(e, !less && !eq), nil
		case syntax.GE:
			return constant(e, !less), nil
		}
	}

	var v uint64
	switch e.Op {
	case syntax.PLUS:
		v = l + r
	case syntax.MINUS:
		v = l - r
	case syntax.STAR:
		v = l * r
	case syntax.SLASH:
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		if isSigned {
			v = uint64(int64(l) / int64(r))
		} else {
			v = l / r
		}
	case syntax.PERCENT:
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		if isSigned {
			v = uint64(int64(l) % int64(r))
		} else {
			v = l % r
		}
	case syntax.AMP:
		v = l & r
	case syntax.PIPE:
		v = l | r
	case syntax.CARET:
		v = l ^ r
	case syntax.LTLT:
		v = l << (r & 63)
	case syntax.GTGT:
		if isSigned {
			v = uint64(int64(l) >> (r & 63))
		} else {
			v = l >> (r & 63)
		}
	default:
		return nil, ErrNotConstant
	}
	return truncate(e, v)
}

func cast(e *tree.Cast) (*tree.Constant, error) {
	if e.Kind != syntax.Cast {
		return nil, ErrNotConstant
	}
	x, err := Expr(e.Value)
	if err != nil {
		return nil, err
	}
	to := e.To.Dealias()
	if !to.IsInteger() && to.Storage != types.Rune {
		if to == x.Result() {
			return constant(e, x.Value), nil
		}
		return nil, ErrNotConstant
	}
	u, ok := bits(x)
	if !ok {
		return nil, ErrNotConstant
	}
	return truncate(e, u)
}

// truncate reduces a raw bit pattern to the width and signedness of
// e's result type and wraps it in a Constant.
func truncate(e tree.Expr, v uint64) (*tree.Constant, error) {
	t := e.Result().Dealias()
	width := t.SizeOf
	if width == 0 || width == types.SizeUndefined {
		return nil, ErrNotConstant
	}
	if width < 8 {
		v &= 1<<(width*8) - 1
	}
	if t.IsSigned() {
		if width < 8 {
			// sign-extend
			shift := 64 - width*8
			return constant(e, int64(v)<<shift>>shift), nil
		}
		return constant(e, int64(v)), nil
	}
	if t.Storage == types.Rune {
		return constant(e, rune(v)), nil
	}
	return constant(e, v), nil
}

// bits extracts a constant's value as a raw bit pattern.
func bits(c *tree.Constant) (uint64, bool) {
	switch v := c.Value.(type) {
	case int64:
		return uint64(v), true
	case uint64:
		return v, true
	case rune:
		return uint64(uint32(v)), true
	}
	return 0, false
}

// signed extracts a constant's value as a signed integer.
func signed(c *tree.Constant) (int64, bool) {
	u, ok := bits(c)
	return int64(u), ok
}

// AsUint returns a constant's value as an unsigned quantity, for use
// as an array length or similar. Negative values are rejected.
func AsUint(c *tree.Constant) (uint64, bool) {
	switch v := c.Value.(type) {
	case uint64:
		return v, true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	}
	return 0, false
}
