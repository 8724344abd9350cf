package ir

// RValue is a defining expression: the right-hand side of a Local's
// definition. It is a closed sum type; the variants below are the only
// types implementing this interface.
type RValue interface {
	rvalueNode()
}

// UseLValueRValue reads the current value of a mutable storage location.
type UseLValueRValue struct {
	Value LValue
}

func (UseLValueRValue) rvalueNode() {}

// UseLocalRValue reads the value already held by another local — used to
// give a second name to an existing SSA value.
type UseLocalRValue struct {
	Local LocalId
}

func (UseLocalRValue) rvalueNode() {}

// PhiRValue points at a Phi record holding one operand per predecessor of
// the defining block.
type PhiRValue struct {
	Phi PhiId
}

func (PhiRValue) rvalueNode() {}

// Phi0RValue is the placeholder SSA construction installs for a local
// before all of its block's predecessors are known. It must be replaced by
// overwriting Local.Value directly before the function is considered
// sealed; it is never valid input to an analysis. RemovePhi does not accept
// a Phi0 local, since PhiCount counts only PhiRValue definitions.
type Phi0RValue struct{}

func (Phi0RValue) rvalueNode() {}

// ConstantRValue wraps a compile-time-known value.
type ConstantRValue struct {
	Value Constant
}

func (ConstantRValue) rvalueNode() {}

// OuterEnvironmentRValue reads the closure environment captured by the
// enclosing function.
type OuterEnvironmentRValue struct{}

func (OuterEnvironmentRValue) rvalueNode() {}

// BinaryOpRValue applies a binary operator to two operands.
type BinaryOpRValue struct {
	Op    BinaryOp
	Left  LocalId
	Right LocalId
}

func (BinaryOpRValue) rvalueNode() {}

// UnaryOpRValue applies a unary operator to one operand.
type UnaryOpRValue struct {
	Op      UnaryOp
	Operand LocalId
}

func (UnaryOpRValue) rvalueNode() {}

// CallRValue calls a function value with an argument list.
type CallRValue struct {
	Func LocalId
	Args LocalListId
}

func (CallRValue) rvalueNode() {}

// AggregateRValue materializes a compile-time aggregate grouping.
type AggregateRValue struct {
	Value Aggregate
}

func (AggregateRValue) rvalueNode() {}

// GetAggregateMemberRValue reads one named member out of an aggregate. The
// member must belong to the aggregate's actual type (spec §3); liveness
// treats this as a use of Aggregate directly (spec §4.6, §9).
type GetAggregateMemberRValue struct {
	Aggregate LocalId
	Member    AggregateMember
}

func (GetAggregateMemberRValue) rvalueNode() {}

// MethodCallRValue calls a method value (typically produced by
// GetAggregateMember on a MethodAggregate) with an argument list.
type MethodCallRValue struct {
	Method LocalId
	Args   LocalListId
}

func (MethodCallRValue) rvalueNode() {}

// MakeEnvironmentRValue allocates a new closure environment with room for
// Size captured slots, chained to Parent.
type MakeEnvironmentRValue struct {
	Parent LocalId
	Size   uint32
}

func (MakeEnvironmentRValue) rvalueNode() {}

// MakeClosureRValue pairs a function with the environment it should
// capture.
type MakeClosureRValue struct {
	Env  LocalId
	Func LocalId
}

func (MakeClosureRValue) rvalueNode() {}

// MakeIteratorRValue obtains an iterator over a container value.
type MakeIteratorRValue struct {
	Container LocalId
}

func (MakeIteratorRValue) rvalueNode() {}

// RecordRValue materializes a compile-time-known record.
type RecordRValue struct {
	Record RecordId
}

func (RecordRValue) rvalueNode() {}

// ContainerRValue constructs a runtime container (array, tuple, set, or
// map) from an argument list.
type ContainerRValue struct {
	Type ContainerType
	Args LocalListId
}

func (ContainerRValue) rvalueNode() {}

// FormatRValue builds a string via interpolation of an argument list.
type FormatRValue struct {
	Args LocalListId
}

func (FormatRValue) rvalueNode() {}

// ErrorRValue is a placeholder defining expression for a local that
// corresponds to ill-formed source (spec §7.2). It is never valid in a
// correctly compiled program but keeps the IR structurally well-formed so
// later analyses do not need to special-case missing values.
type ErrorRValue struct{}

func (ErrorRValue) rvalueNode() {}
