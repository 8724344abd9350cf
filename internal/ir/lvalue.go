package ir

import "github.com/tiro-lang/tiro/internal/strtab"

// LValue is a mutable storage location. It is a closed sum type: the
// variants below are the only types implementing this interface, and code
// consuming an LValue is expected to switch over all of them.
type LValue interface {
	lvalueNode()
}

// ParamLValue reads or writes a function parameter slot.
type ParamLValue struct {
	Param ParamId
}

func (ParamLValue) lvalueNode() {}

// ClosureLValue addresses a slot in a closure environment. Levels counts
// outward traversals through enclosing environments; Index selects within
// the level reached.
type ClosureLValue struct {
	Env    LocalId
	Levels uint32
	Index  uint32
}

func (ClosureLValue) lvalueNode() {}

// ModuleLValue addresses a module-level variable.
type ModuleLValue struct {
	Member ModuleMemberId
}

func (ModuleLValue) lvalueNode() {}

// FieldLValue addresses a named property of an object.
type FieldLValue struct {
	Object LocalId
	Name   strtab.InternedString
}

func (FieldLValue) lvalueNode() {}

// TupleFieldLValue addresses a tuple element by position.
type TupleFieldLValue struct {
	Object LocalId
	Index  uint32
}

func (TupleFieldLValue) lvalueNode() {}

// IndexLValue addresses an array/map element by a dynamic index value.
type IndexLValue struct {
	Object LocalId
	Index  LocalId
}

func (IndexLValue) lvalueNode() {}
