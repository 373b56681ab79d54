// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself recursively for each
// non-nil child of n, then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *File:
		for _, decl := range n.Decls {
			Walk(decl, f)
		}

	case *FuncDecl:
		Walk(n.Name, f)
		Walk(n.Proto, f)
		if n.Body != nil {
			Walk(n.Body, f)
		}

	case *GlobalDecl:
		Walk(n.Name, f)
		Walk(n.Type, f)
		if n.Init != nil {
			Walk(n.Init, f)
		}

	case *ConstDecl:
		Walk(n.Name, f)
		Walk(n.Type, f)
		Walk(n.Init, f)

	case *TypeDecl:
		Walk(n.Name, f)
		Walk(n.Type, f)

	case *Ident, *Literal:
		// leaf

	case *ArrayLit:
		for _, elem := range n.Elems {
			Walk(elem, f)
		}

	case *StructLit:
		for _, field := range n.Fields {
			Walk(field.Type, f)
			Walk(field.Init, f)
		}

	case *IndexExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *DotExpr:
		Walk(n.X, f)

	case *SliceExpr:
		Walk(n.X, f)
		if n.Lo != nil {
			Walk(n.Lo, f)
		}
		if n.Hi != nil {
			Walk(n.Hi, f)
		}

	case *AssertExpr:
		if n.Cond != nil {
			Walk(n.Cond, f)
		}
		if n.Msg != nil {
			Walk(n.Msg, f)
		}

	case *AssignExpr:
		Walk(n.LHS, f)
		Walk(n.RHS, f)

	case *BinaryExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *UnaryExpr:
		Walk(n.X, f)

	case *BindingExpr:
		for _, b := range n.Bindings {
			if b.Type != nil {
				Walk(b.Type, f)
			}
			Walk(b.Init, f)
		}

	case *CallExpr:
		Walk(n.Fn, f)
		for _, arg := range n.Args {
			Walk(arg.Value, f)
		}

	case *CastExpr:
		Walk(n.X, f)
		Walk(n.Type, f)

	case *DeferExpr:
		Walk(n.X, f)

	case *BranchExpr:
		// leaf

	case *ForExpr:
		if n.Bindings != nil {
			Walk(n.Bindings, f)
		}
		Walk(n.Cond, f)
		if n.Afterthought != nil {
			Walk(n.Afterthought, f)
		}
		Walk(n.Body, f)

	case *IfExpr:
		Walk(n.Cond, f)
		Walk(n.True, f)
		if n.False != nil {
			Walk(n.False, f)
		}

	case *ListExpr:
		for _, x := range n.Exprs {
			Walk(x, f)
		}

	case *MeasureExpr:
		if n.X != nil {
			Walk(n.X, f)
		}
		if n.Type != nil {
			Walk(n.Type, f)
		}

	case *ReturnExpr:
		if n.Result != nil {
			Walk(n.Result, f)
		}

	case *SwitchExpr:
		Walk(n.Value, f)
		for _, c := range n.Cases {
			for _, opt := range c.Options {
				Walk(opt, f)
			}
			Walk(c.Body, f)
		}

	case *NamedType:
		Walk(n.Name, f)

	case *ConstType:
		Walk(n.T, f)

	case *PointerType:
		Walk(n.Referent, f)

	case *ArrayType:
		if n.Len != nil {
			Walk(n.Len, f)
		}
		Walk(n.Elem, f)

	case *SliceType:
		Walk(n.Elem, f)

	case *StructType:
		for _, field := range n.Fields {
			Walk(field.Type, f)
		}

	case *TaggedUnionType:
		for _, m := range n.Members {
			Walk(m, f)
		}

	case *EnumType:
		for _, v := range n.Values {
			if v.Value != nil {
				Walk(v.Value, f)
			}
		}

	case *FuncType:
		for _, param := range n.Params {
			Walk(param.Type, f)
		}
		Walk(n.Result, f)

	default:
		panic(n)
	}

	f(nil)
}
