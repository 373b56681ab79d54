// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types defines the Skarn type system and its canonicalizing
// store.
//
// Every type is represented by a *Type obtained from a Store (or from
// the package-level builtin singletons). The store guarantees that two
// structurally identical types are the same handle, so type equality
// throughout the compiler is pointer equality, never a deep
// comparison.
package types // import "go.skarn.net/types"

import (
	"fmt"
	"strings"
)

// Storage is the structural kind of a type.
type Storage int8

const (
	Invalid Storage = iota // placeholder for failed checks

	Bool
	I8
	I16
	I32
	I64
	Int
	U8
	U16
	U32
	U64
	Uint
	Size
	Uintptr
	Rune
	Str
	Void
	Null

	Alias
	Array
	Enum
	Function
	Pointer
	Slice
	Struct
	TaggedUnion
	Union
)

var storageNames = [...]string{
	Invalid:     "invalid",
	Bool:        "bool",
	I8:          "i8",
	I16:         "i16",
	I32:         "i32",
	I64:         "i64",
	Int:         "int",
	U8:          "u8",
	U16:         "u16",
	U32:         "u32",
	U64:         "u64",
	Uint:        "uint",
	Size:        "size",
	Uintptr:     "uintptr",
	Rune:        "rune",
	Str:         "str",
	Void:        "void",
	Null:        "null",
	Alias:       "alias",
	Array:       "array",
	Enum:        "enum",
	Function:    "function",
	Pointer:     "pointer",
	Slice:       "slice",
	Struct:      "struct",
	TaggedUnion: "tagged union",
	Union:       "union",
}

func (s Storage) String() string { return storageNames[s] }

// Flags qualify a type without changing its storage.
type Flags uint8

const (
	FlagConst Flags = 1 << iota
)

// SizeUndefined marks types whose size is not knowable: unbounded
// arrays, functions, and the like.
const SizeUndefined = ^uint64(0)

// Word size of the target, in bytes. Only 64-bit targets are
// supported.
const wordSize = 8

// A Type is a canonical Skarn type descriptor. Handles are interned:
// use == to compare types.
type Type struct {
	Storage Storage
	Flags   Flags
	SizeOf  uint64 // SizeUndefined if not knowable
	AlignOf uint64

	// Payload, keyed by Storage:
	Pointer *PointerInfo // Pointer
	Array   *ArrayInfo   // Array, Slice (Len ignored for Slice)
	Struct  *StructInfo  // Struct, Union
	Tagged  []*Type      // TaggedUnion
	Enum    *EnumInfo    // Enum
	Func    *FuncInfo    // Function
	Alias   *AliasInfo   // Alias

	base *Type // unflagged variant; nil when Flags == 0
}

// PointerInfo is the payload of a pointer type.
type PointerInfo struct {
	Referent *Type
	Nullable bool
}

// ArrayInfo is the payload of an array or slice type. For arrays,
// Len may be SizeUndefined ([*]T); for slices it is always
// SizeUndefined.
type ArrayInfo struct {
	Elem *Type
	Len  uint64
}

// A StructField is one member of a struct or union type.
type StructField struct {
	Name   string
	Type   *Type
	Offset uint64
}

// StructInfo is the payload of a struct or union type.
type StructInfo struct {
	Fields []*StructField
}

// An EnumValue is one enumerator of an enum type.
type EnumValue struct {
	Name  string
	Value uint64 // bit pattern; interpret per the enum's storage
}

// EnumInfo is the payload of an enum type.
type EnumInfo struct {
	Storage Storage // underlying integer storage
	Values  []*EnumValue
}

// Variadism describes a function type's trailing-argument convention.
type Variadism int8

const (
	NoVariadism    Variadism = iota
	CVariadism               // foreign convention; prototypes only
	SkarnVariadism           // trailing arguments collected into a slice
)

// FuncInfo is the payload of a function type.
type FuncInfo struct {
	Result    *Type
	Params    []*Type
	Variadism Variadism
}

// AliasInfo is the payload of a named type alias.
type AliasInfo struct {
	Ident  string // qualified declaration name
	Secret *Type  // underlying type
}

// Dealias resolves a chain of named aliases to the underlying type.
func (t *Type) Dealias() *Type {
	for t.Storage == Alias {
		t = t.Alias.Secret
	}
	return t
}

// Dereference dealiases t and strips non-nullable pointers, returning
// the eventual referent. It returns nil if that would require
// dereferencing a nullable pointer.
func (t *Type) Dereference() *Type {
	t = t.Dealias()
	for t.Storage == Pointer {
		if t.Pointer.Nullable {
			return nil
		}
		t = t.Pointer.Referent.Dealias()
	}
	return t
}

// FieldByName returns the named field of a struct or union type, or
// nil if there is no such field.
func (t *Type) FieldByName(name string) *StructField {
	t = t.Dealias()
	if t.Struct == nil {
		return nil
	}
	for _, f := range t.Struct.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// IsInteger reports whether t's storage is an integer kind.
// Enums count; rune does not.
func (t *Type) IsInteger() bool {
	switch t.Dealias().Storage {
	case I8, I16, I32, I64, Int, U8, U16, U32, U64, Uint, Size, Uintptr, Enum:
		return true
	}
	return false
}

// IsSigned reports whether t is a signed integer type.
func (t *Type) IsSigned() bool {
	t = t.Dealias()
	switch t.Storage {
	case I8, I16, I32, I64, Int:
		return true
	case Enum:
		switch t.Enum.Storage {
		case I8, I16, I32, I64, Int:
			return true
		}
	}
	return false
}

// IsNumeric reports whether t may appear as an arithmetic operand.
func (t *Type) IsNumeric() bool {
	return t.IsInteger()
}

// String returns a readable rendering of the type.
func (t *Type) String() string {
	var sb strings.Builder
	t.writeTo(&sb)
	return sb.String()
}

func (t *Type) writeTo(sb *strings.Builder) {
	if t.Flags&FlagConst != 0 {
		sb.WriteString("const ")
	}
	switch t.Storage {
	case Alias:
		sb.WriteString(t.Alias.Ident)
	case Pointer:
		if t.Pointer.Nullable {
			sb.WriteString("nullable ")
		}
		sb.WriteString("*")
		t.Pointer.Referent.writeTo(sb)
	case Array:
		if t.Array.Len == SizeUndefined {
			sb.WriteString("[*]")
		} else {
			fmt.Fprintf(sb, "[%d]", t.Array.Len)
		}
		t.Array.Elem.writeTo(sb)
	case Slice:
		sb.WriteString("[]")
		t.Array.Elem.writeTo(sb)
	case Struct, Union:
		if t.Storage == Union {
			sb.WriteString("union { ")
		} else {
			sb.WriteString("struct { ")
		}
		for i, f := range t.Struct.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			f.Type.writeTo(sb)
		}
		sb.WriteString(" }")
	case TaggedUnion:
		sb.WriteString("(")
		for i, m := range t.Tagged {
			if i > 0 {
				sb.WriteString(" | ")
			}
			m.writeTo(sb)
		}
		sb.WriteString(")")
	case Enum:
		fmt.Fprintf(sb, "enum %s", storageNames[t.Enum.Storage])
	case Function:
		sb.WriteString("fn(")
		for i, p := range t.Func.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.writeTo(sb)
			if i == len(t.Func.Params)-1 && t.Func.Variadism == SkarnVariadism {
				sb.WriteString("...")
			}
		}
		if t.Func.Variadism == CVariadism {
			if len(t.Func.Params) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("...")
		}
		sb.WriteString(") ")
		t.Func.Result.writeTo(sb)
	default:
		sb.WriteString(storageNames[t.Storage])
	}
}

// scalarSizes maps scalar storages to their byte sizes.
var scalarSizes = map[Storage]uint64{
	Bool:    1,
	I8:      1,
	I16:     2,
	I32:     4,
	I64:     8,
	Int:     wordSize,
	U8:      1,
	U16:     2,
	U32:     4,
	U64:     8,
	Uint:    wordSize,
	Size:    wordSize,
	Uintptr: wordSize,
	Rune:    4,
	Str:     3 * wordSize, // data, length, capacity
	Void:    0,
	Null:    wordSize,
	Invalid: 0,
}

// builtin singletons, plain and const-flagged, indexed by storage.
var builtins, constBuiltins = func() (b, cb [Null + 1]*Type) {
	for s := Invalid; s <= Null; s++ {
		size := scalarSizes[s]
		align := size
		if align > wordSize {
			align = wordSize
		}
		b[s] = &Type{Storage: s, SizeOf: size, AlignOf: align}
		cb[s] = &Type{Storage: s, Flags: FlagConst, SizeOf: size, AlignOf: align}
	}
	return
}()

// Builtin returns the canonical builtin type for a scalar storage.
func Builtin(s Storage) *Type { return builtins[s] }

// BuiltinConst returns the const-qualified builtin for a scalar
// storage.
func BuiltinConst(s Storage) *Type { return constBuiltins[s] }

// Handy singletons for the most common builtins.
var (
	InvalidType  = Builtin(Invalid)
	BoolType     = Builtin(Bool)
	IntType      = Builtin(Int)
	UintType     = Builtin(Uint)
	SizeType     = Builtin(Size)
	StrType      = Builtin(Str)
	ConstStrType = BuiltinConst(Str)
	RuneType     = Builtin(Rune)
	VoidType     = Builtin(Void)
	NullType     = Builtin(Null)
	I64Type      = Builtin(I64)
	U8Type       = Builtin(U8)
	U64Type      = Builtin(U64)
)

// builtinNames maps type-expression identifiers to scalar storages.
var builtinNames = map[string]Storage{
	"bool":    Bool,
	"i8":      I8,
	"i16":     I16,
	"i32":     I32,
	"i64":     I64,
	"int":     Int,
	"u8":      U8,
	"u16":     U16,
	"u32":     U32,
	"u64":     U64,
	"uint":    Uint,
	"size":    Size,
	"uintptr": Uintptr,
	"rune":    Rune,
	"str":     Str,
	"void":    Void,
}

// StorageForSuffix returns the storage selected by an integer literal
// suffix, or Int for the empty suffix.
func StorageForSuffix(suffix string) (Storage, bool) {
	switch suffix {
	case "":
		return Int, true
	case "i":
		return Int, true
	case "u":
		return Uint, true
	case "z":
		return Size, true
	case "i8":
		return I8, true
	case "i16":
		return I16, true
	case "i32":
		return I32, true
	case "i64":
		return I64, true
	case "u8":
		return U8, true
	case "u16":
		return U16, true
	case "u32":
		return U32, true
	case "u64":
		return U64, true
	}
	return Invalid, false
}
