// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import "go.skarn.net/types"

// ObjectKind discriminates the kinds of named objects.
type ObjectKind int8

const (
	ConstObject ObjectKind = iota // constant declaration
	BindObject                    // local binding
	DeclObject                    // function or global
	TypeObject                    // type declaration
)

var objectKindNames = [...]string{
	ConstObject: "constant",
	BindObject:  "binding",
	DeclObject:  "declaration",
	TypeObject:  "type",
}

func (k ObjectKind) String() string { return objectKindNames[k] }

// An Object is a named entity in some scope.
type Object struct {
	Kind   ObjectKind
	Ident  string // qualified name, e.g. "io::write"
	Symbol string // linkage symbol for declarations, or ""
	Type   *types.Type
	Value  interface{} // constant value, for ConstObject
}

// A Scope is one level of the lexical symbol table. Loop scopes
// additionally carry a label so break and continue can name them.
type Scope struct {
	parent  *Scope
	Loop    bool
	Label   string // loop label, or ""
	objects map[string]*Object
	named   []*Object // insertion order
}

// NewScope returns a scope nested in parent; parent may be nil for
// the root.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, objects: make(map[string]*Object)}
}

// Parent returns the enclosing scope, or nil.
func (s *Scope) Parent() *Scope { return s.parent }

// Insert binds obj.Ident in s. A name already bound in s is
// shadowed; the previous object remains reachable only through
// expressions already checked.
func (s *Scope) Insert(obj *Object) {
	s.objects[obj.Ident] = obj
	s.named = append(s.named, obj)
}

// Lookup resolves ident against s and its ancestors, innermost
// first. It returns nil if the name is unbound.
func (s *Scope) Lookup(ident string) *Object {
	for ; s != nil; s = s.parent {
		if obj, ok := s.objects[ident]; ok {
			return obj
		}
	}
	return nil
}

// LookupLocal resolves ident in s only, without consulting
// ancestors.
func (s *Scope) LookupLocal(ident string) *Object {
	return s.objects[ident]
}

// Objects returns the scope's objects in insertion order, including
// shadowed ones.
func (s *Scope) Objects() []*Object { return s.named }

// LookupLoop returns the nearest enclosing loop scope matching
// label, or the nearest loop scope if label is empty. It returns nil
// if there is no such loop.
func (s *Scope) LookupLoop(label string) *Scope {
	for ; s != nil; s = s.parent {
		if s.Loop && (label == "" || s.Label == label) {
			return s
		}
	}
	return nil
}
