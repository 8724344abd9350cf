package ir

import "github.com/tiro-lang/tiro/internal/strtab"

// AggregateType tags the active member of the Aggregate sum type.
type AggregateType uint8

const (
	AggregateMethod AggregateType = iota
	AggregateIteratorNext
)

func (t AggregateType) String() string {
	switch t {
	case AggregateMethod:
		return "Method"
	case AggregateIteratorNext:
		return "IteratorNext"
	default:
		return "Unknown"
	}
}

// Aggregate is a compile-time-only grouping of values that cannot itself be
// materialized at runtime; it exists so GetAggregateMember can fetch one of
// several related values (e.g. a method's instance and function pointer)
// without a real runtime allocation.
type Aggregate interface {
	aggregateNode()
	Type() AggregateType
}

// MethodAggregate groups the receiver and function of a method call.
type MethodAggregate struct {
	Instance LocalId
	Function strtab.InternedString
}

func (MethodAggregate) aggregateNode()      {}
func (MethodAggregate) Type() AggregateType { return AggregateMethod }

// IteratorNextAggregate groups the "did this produce a value" flag and the
// produced value from advancing an iterator.
type IteratorNextAggregate struct {
	Iterator LocalId
}

func (IteratorNextAggregate) aggregateNode()      {}
func (IteratorNextAggregate) Type() AggregateType { return AggregateIteratorNext }

// AggregateMember identifies a member of an aggregate. All aggregate types
// share this single namespace (spec §3); callers must ensure the member
// matches the aggregate's actual type, which AggregateTypeOf lets them
// check. Numbering matches original_source's function.hpp exactly
// (MethodInstance starts at 1) since nothing depends on it starting at 0,
// and preserving it keeps this module's dumps comparable to the original's.
type AggregateMember uint8

const (
	MemberMethodInstance AggregateMember = iota + 1
	MemberMethodFunction
	MemberIteratorNextValid
	MemberIteratorNextValue
)

func (m AggregateMember) String() string {
	switch m {
	case MemberMethodInstance:
		return "MethodInstance"
	case MemberMethodFunction:
		return "MethodFunction"
	case MemberIteratorNextValid:
		return "IteratorNextValid"
	case MemberIteratorNextValue:
		return "IteratorNextValue"
	default:
		return "Unknown"
	}
}

// AggregateTypeOf returns the aggregate type a given member belongs to.
// Panics on an unknown member — not a type the caller could have gotten
// from user input, only from a broken IR construction.
func AggregateTypeOf(m AggregateMember) AggregateType {
	switch m {
	case MemberMethodInstance, MemberMethodFunction:
		return AggregateMethod
	case MemberIteratorNextValid, MemberIteratorNextValue:
		return AggregateIteratorNext
	default:
		invariantf("ir: unknown aggregate member")
		return 0
	}
}
