// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"fmt"
	"strings"

	"go.skarn.net/syntax"
)

// A Store interns types so that structural equality coincides with
// pointer equality. Stores are not safe for concurrent use; check one
// unit per store.
//
// Resolving named types and array lengths requires help from the
// caller, supplied as callbacks. A nil callback makes the
// corresponding type expressions unresolvable.
type Store struct {
	// LookupIdent resolves a type name against the current scope.
	LookupIdent func(id *syntax.Ident) (*Type, error)

	// EvalLen evaluates an array length expression to a constant.
	EvalLen func(e syntax.Expr) (uint64, error)

	types map[string]*Type
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{types: make(map[string]*Type)}
}

// intern returns the canonical handle for key, creating it with make
// on first sight.
func (st *Store) intern(key string, make func() *Type) *Type {
	if t, ok := st.types[key]; ok {
		return t
	}
	t := make()
	st.types[key] = t
	return t
}

// key renders a canonical handle as a map key. Component types are
// already canonical, so their addresses identify them.
func key(parts ...interface{}) string {
	var sb strings.Builder
	for i, p := range parts {
		if i > 0 {
			sb.WriteByte('|')
		}
		if t, ok := p.(*Type); ok {
			fmt.Fprintf(&sb, "%p", t)
		} else {
			fmt.Fprintf(&sb, "%v", p)
		}
	}
	return sb.String()
}

// LookupPointer returns the canonical pointer type *referent (or
// nullable *referent).
func (st *Store) LookupPointer(referent *Type, nullable bool) *Type {
	return st.intern(key("ptr", nullable, referent), func() *Type {
		return &Type{
			Storage: Pointer,
			SizeOf:  wordSize,
			AlignOf: wordSize,
			Pointer: &PointerInfo{Referent: referent, Nullable: nullable},
		}
	})
}

// LookupArray returns the canonical array type [length]elem. Pass
// SizeUndefined for an unbounded array [*]elem.
func (st *Store) LookupArray(elem *Type, length uint64) *Type {
	return st.intern(key("array", length, elem), func() *Type {
		size := SizeUndefined
		if length != SizeUndefined && elem.SizeOf != SizeUndefined {
			size = length * elem.SizeOf
		}
		return &Type{
			Storage: Array,
			SizeOf:  size,
			AlignOf: elem.AlignOf,
			Array:   &ArrayInfo{Elem: elem, Len: length},
		}
	})
}

// LookupSlice returns the canonical slice type []elem.
func (st *Store) LookupSlice(elem *Type) *Type {
	return st.intern(key("slice", elem), func() *Type {
		return &Type{
			Storage: Slice,
			SizeOf:  3 * wordSize,
			AlignOf: wordSize,
			Array:   &ArrayInfo{Elem: elem, Len: SizeUndefined},
		}
	})
}

// LookupTagged returns the canonical tagged union over members.
// Member order is significant.
func (st *Store) LookupTagged(members []*Type) *Type {
	parts := make([]interface{}, 0, len(members)+1)
	parts = append(parts, "tagged")
	for _, m := range members {
		parts = append(parts, m)
	}
	return st.intern(key(parts...), func() *Type {
		size, align := uint64(0), uint64(wordSize)
		for _, m := range members {
			if m.SizeOf == SizeUndefined {
				size = SizeUndefined
				break
			}
			if m.SizeOf > size {
				size = m.SizeOf
			}
		}
		if size != SizeUndefined {
			size += wordSize // tag word
		}
		return &Type{
			Storage: TaggedUnion,
			SizeOf:  size,
			AlignOf: align,
			Tagged:  members,
		}
	})
}

// LookupStruct returns the canonical struct (or union) over fields.
// Field offsets are computed here; the caller supplies names and
// types only.
func (st *Store) LookupStruct(union bool, fields []*StructField) *Type {
	storage := Struct
	if union {
		storage = Union
	}
	parts := make([]interface{}, 0, 2*len(fields)+1)
	parts = append(parts, storage)
	for _, f := range fields {
		parts = append(parts, f.Name, f.Type)
	}
	return st.intern(key(parts...), func() *Type {
		size, align := uint64(0), uint64(1)
		laid := make([]*StructField, len(fields))
		for i, f := range fields {
			fa := f.Type.AlignOf
			if fa == 0 {
				fa = 1
			}
			if fa > align {
				align = fa
			}
			lf := &StructField{Name: f.Name, Type: f.Type}
			if size == SizeUndefined || f.Type.SizeOf == SizeUndefined {
				size = SizeUndefined
			} else if union {
				if f.Type.SizeOf > size {
					size = f.Type.SizeOf
				}
			} else {
				size = (size + fa - 1) / fa * fa
				lf.Offset = size
				size += f.Type.SizeOf
			}
			laid[i] = lf
		}
		if size != SizeUndefined {
			size = (size + align - 1) / align * align
		}
		return &Type{
			Storage: storage,
			SizeOf:  size,
			AlignOf: align,
			Struct:  &StructInfo{Fields: laid},
		}
	})
}

// LookupEnum returns the canonical enum type with the given
// underlying storage and values.
func (st *Store) LookupEnum(storage Storage, values []*EnumValue) *Type {
	parts := make([]interface{}, 0, 2*len(values)+2)
	parts = append(parts, "enum", storage)
	for _, v := range values {
		parts = append(parts, v.Name, v.Value)
	}
	return st.intern(key(parts...), func() *Type {
		under := Builtin(storage)
		return &Type{
			Storage: Enum,
			SizeOf:  under.SizeOf,
			AlignOf: under.AlignOf,
			Enum:    &EnumInfo{Storage: storage, Values: values},
		}
	})
}

// LookupFunc returns the canonical function type.
func (st *Store) LookupFunc(params []*Type, result *Type, variadism Variadism) *Type {
	parts := make([]interface{}, 0, len(params)+3)
	parts = append(parts, "fn", variadism)
	for _, p := range params {
		parts = append(parts, p)
	}
	parts = append(parts, result)
	return st.intern(key(parts...), func() *Type {
		return &Type{
			Storage: Function,
			SizeOf:  SizeUndefined,
			AlignOf: wordSize,
			Func:    &FuncInfo{Result: result, Params: params, Variadism: variadism},
		}
	})
}

// LookupAlias returns the canonical alias type for a named type
// declaration.
func (st *Store) LookupAlias(ident string, secret *Type) *Type {
	return st.intern(key("alias", ident), func() *Type {
		return &Type{
			Storage: Alias,
			SizeOf:  secret.SizeOf,
			AlignOf: secret.AlignOf,
			Alias:   &AliasInfo{Ident: ident, Secret: secret},
		}
	})
}

// WithFlags returns t with exactly the given qualifier flags.
func (st *Store) WithFlags(t *Type, flags Flags) *Type {
	if t.Flags == flags {
		return t
	}
	base := t
	if t.Flags != 0 {
		if t.Storage <= Null {
			base = Builtin(t.Storage)
		} else {
			base = t.base
		}
	}
	if flags == 0 {
		return base
	}
	if base.Storage <= Null && flags == FlagConst {
		return BuiltinConst(base.Storage)
	}
	return st.intern(key("flags", flags, base), func() *Type {
		u := *base
		u.Flags = flags
		u.base = base
		return &u
	})
}

// Resolve converts a syntax type expression to its canonical type.
func (st *Store) Resolve(e syntax.TypeExpr) (*Type, error) {
	switch e := e.(type) {
	case *syntax.NamedType:
		if e.Name.Ns == nil {
			if s, ok := builtinNames[e.Name.Name]; ok {
				return Builtin(s), nil
			}
		}
		if st.LookupIdent == nil {
			return nil, fmt.Errorf("unknown type %s", e.Name)
		}
		return st.LookupIdent(e.Name)

	case *syntax.ConstType:
		t, err := st.Resolve(e.T)
		if err != nil {
			return nil, err
		}
		return st.WithFlags(t, t.Flags|FlagConst), nil

	case *syntax.PointerType:
		ref, err := st.Resolve(e.Referent)
		if err != nil {
			return nil, err
		}
		return st.LookupPointer(ref, e.Nullable), nil

	case *syntax.ArrayType:
		elem, err := st.Resolve(e.Elem)
		if err != nil {
			return nil, err
		}
		length := SizeUndefined
		if e.Len != nil {
			if st.EvalLen == nil {
				return nil, fmt.Errorf("array length must be constant")
			}
			length, err = st.EvalLen(e.Len)
			if err != nil {
				return nil, err
			}
		}
		return st.LookupArray(elem, length), nil

	case *syntax.SliceType:
		elem, err := st.Resolve(e.Elem)
		if err != nil {
			return nil, err
		}
		return st.LookupSlice(elem), nil

	case *syntax.StructType:
		fields := make([]*StructField, len(e.Fields))
		for i, f := range e.Fields {
			ft, err := st.Resolve(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = &StructField{Name: f.Name, Type: ft}
		}
		return st.LookupStruct(e.Union, fields), nil

	case *syntax.TaggedUnionType:
		members := make([]*Type, len(e.Members))
		for i, m := range e.Members {
			mt, err := st.Resolve(m)
			if err != nil {
				return nil, err
			}
			members[i] = mt
		}
		return st.LookupTagged(members), nil

	case *syntax.EnumType:
		storage := Int
		if e.Storage != nil {
			s, ok := builtinNames[e.Storage.Name]
			if !ok || !Builtin(s).IsInteger() {
				return nil, fmt.Errorf("invalid enum storage %s", e.Storage.Name)
			}
			storage = s
		}
		values := make([]*EnumValue, len(e.Values))
		var next uint64
		for i, v := range e.Values {
			val := next
			if v.Value != nil {
				if st.EvalLen == nil {
					return nil, fmt.Errorf("enum value must be constant")
				}
				u, err := st.EvalLen(v.Value)
				if err != nil {
					return nil, err
				}
				val = u
			}
			values[i] = &EnumValue{Name: v.Name, Value: val}
			next = val + 1
		}
		return st.LookupEnum(storage, values), nil

	case *syntax.FuncType:
		params := make([]*Type, len(e.Params))
		for i, p := range e.Params {
			pt, err := st.Resolve(p.Type)
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		result := VoidType
		if e.Result != nil {
			r, err := st.Resolve(e.Result)
			if err != nil {
				return nil, err
			}
			result = r
		}
		return st.LookupFunc(params, result, Variadism(e.Variadism)), nil
	}
	return nil, fmt.Errorf("unexpected type expression %T", e)
}

// Assignable reports whether a value of type from may be assigned to
// a location of type to, possibly via an implicit cast.
func (st *Store) Assignable(to, from *Type) bool {
	if to == InvalidType || from == InvalidType {
		return true // suppress cascades
	}
	toD := st.WithFlags(to.Dealias(), 0)
	fromD := st.WithFlags(from.Dealias(), 0)
	if toD == fromD {
		return true
	}
	if toD.Storage == Void {
		return true // assignment to void discards the value
	}

	switch toD.Storage {
	case TaggedUnion:
		for _, m := range toD.Tagged {
			if st.WithFlags(m.Dealias(), 0) == fromD {
				return true
			}
		}
		return false

	case Pointer:
		if fromD.Storage == Null {
			return toD.Pointer.Nullable
		}
		if fromD.Storage != Pointer {
			return false
		}
		if !toD.Pointer.Nullable && fromD.Pointer.Nullable {
			return false
		}
		return toD.Pointer.Referent == fromD.Pointer.Referent
	case Slice:
		// Arrays of the same member type convert implicitly.
		return fromD.Storage == Array && fromD.Array.Elem == toD.Array.Elem
	}

	if toD.IsInteger() && fromD.IsInteger() &&
		toD.Storage != Enum && fromD.Storage != Enum {
		if toD.IsSigned() != fromD.IsSigned() {
			// Unsigned widens into a strictly larger signed type.
			return !fromD.IsSigned() && toD.SizeOf > fromD.SizeOf
		}
		return toD.SizeOf >= fromD.SizeOf
	}
	return false
}

// Castable reports whether a value of type from may be explicitly
// cast to type to.
func (st *Store) Castable(to, from *Type) bool {
	if to == InvalidType || from == InvalidType {
		return true
	}
	toD := st.WithFlags(to.Dealias(), 0)
	fromD := st.WithFlags(from.Dealias(), 0)
	if toD == fromD {
		return true
	}

	// Tagged union membership, either direction.
	if toD.Storage == TaggedUnion {
		for _, m := range toD.Tagged {
			if st.WithFlags(m.Dealias(), 0) == fromD {
				return true
			}
		}
	}
	if fromD.Storage == TaggedUnion {
		for _, m := range fromD.Tagged {
			if st.WithFlags(m.Dealias(), 0) == toD {
				return true
			}
		}
		return false
	}

	numeric := func(t *Type) bool {
		return t.IsInteger() || t.Storage == Rune
	}
	switch {
	case numeric(toD) && numeric(fromD):
		return true
	case toD.Storage == Pointer && fromD.Storage == Pointer:
		return true
	case toD.Storage == Pointer && fromD.Storage == Null:
		return true
	case toD.Storage == Uintptr && fromD.Storage == Pointer,
		toD.Storage == Pointer && fromD.Storage == Uintptr:
		return true
	case toD.Storage == Slice && fromD.Storage == Array:
		return toD.Array.Elem == fromD.Array.Elem
	}
	return false
}
