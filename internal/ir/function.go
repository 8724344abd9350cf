package ir

import "github.com/tiro-lang/tiro/internal/strtab"

// SourceRange is an opaque span attached to blocks and locals. The middle
// end never interprets it; it exists only to be carried through to
// diagnostics produced by the surrounding compiler (spec §1 Non-goals).
type SourceRange struct {
	Start uint32
	End   uint32
}

// FunctionType distinguishes ordinary functions from closures.
type FunctionType uint8

const (
	FunctionNormal FunctionType = iota
	FunctionClosure
)

func (t FunctionType) String() string {
	switch t {
	case FunctionNormal:
		return "Normal"
	case FunctionClosure:
		return "Closure"
	default:
		return "Unknown"
	}
}

// Param is a function parameter. Parameters appear in source order; the
// i-th parameter is referenced by ParamId(i).
type Param struct {
	Name strtab.InternedString
}

// Local is an SSA value slot. Name is only meaningful when Named is true —
// compiler temporaries are nameless. Value is the local's defining
// expression; the SSA invariant is that exactly one Stmt::Define across the
// whole function names this LocalId.
type Local struct {
	Name   strtab.InternedString
	Named  bool
	Value  RValue
	Source SourceRange
}

// Phi is the operand list of a phi node. The k-th operand is the value
// flowing in from the k-th predecessor of the block that defines the phi.
type Phi struct {
	Operands []LocalId
}

// LocalList is an ordered, shareable list of LocalId, used for call
// arguments, container constructors, and format arguments.
type LocalList struct {
	Items []LocalId
}

// RecordField is one entry of a Record's ordered field list.
type RecordField struct {
	Name  strtab.InternedString
	Value LocalId
}

// Record is an ordered mapping from field name to LocalId with unique keys,
// used for compile-time-known record aggregates.
type Record struct {
	Fields []RecordField
}

// Block is a basic block: an ordered statement list followed by exactly one
// terminator, plus the bookkeeping the SSA-construction algorithm needs.
type Block struct {
	Label strtab.InternedString
	Named bool

	Sealed bool
	Filled bool

	Predecessors []BlockId
	Stmts        []Stmt
	Terminator   Terminator

	Source SourceRange
}

// PredecessorCount returns len(Predecessors); duplicates count individually,
// since a branch whose two arms target the same block contributes two
// predecessor entries.
func (b *Block) PredecessorCount() int {
	return len(b.Predecessors)
}

// Function owns one control-flow graph and all the entities it references:
// six index-addressed arenas plus the entry/exit block ids.
type Function struct {
	Name       strtab.InternedString
	Kind       FunctionType
	TypeParams []strtab.InternedString

	entry BlockId
	exit  BlockId

	blocks     arena[Block]
	params     arena[Param]
	locals     arena[Local]
	phis       arena[Phi]
	localLists arena[LocalList]
	records    arena[Record]
}

// NewFunction creates a function with its entry and exit blocks already
// allocated. The entry block has no predecessors and no terminator; the
// exit block is already terminated with Exit. Both blocks carry the
// symbolic labels "entry" and "exit", interned into table, so dumps always
// identify them by name rather than by bare id.
func NewFunction(table *strtab.StringTable, name strtab.InternedString, kind FunctionType) *Function {
	f := &Function{Name: name, Kind: kind}
	f.entry = BlockId(f.blocks.push(Block{
		Label:      table.Intern("entry"),
		Named:      true,
		Terminator: None{},
	}))
	f.exit = BlockId(f.blocks.push(Block{
		Label:      table.Intern("exit"),
		Named:      true,
		Terminator: Exit{},
		Filled:     true,
		Sealed:     true,
	}))
	return f
}

// Entry returns the id of the function's single entry block.
func (f *Function) Entry() BlockId { return f.entry }

// Exit returns the id of the function's single exit block. Return,
// AssertFail, and Never terminators must all target this block.
func (f *Function) Exit() BlockId { return f.exit }

// NumBlocks returns the number of blocks allocated so far, including
// unreachable ones.
func (f *Function) NumBlocks() int { return f.blocks.len() }

// NumParams returns the number of parameters.
func (f *Function) NumParams() int { return f.params.len() }

// NumLocals returns the number of locals allocated so far.
func (f *Function) NumLocals() int { return f.locals.len() }

// Block returns a mutable pointer to the block identified by id. Panics on
// an out-of-range id — that is a program bug, never a user-facing error.
func (f *Function) Block(id BlockId) *Block { return f.blocks.at(uint32(id)) }

// Param returns a mutable pointer to the parameter identified by id.
func (f *Function) Param(id ParamId) *Param { return f.params.at(uint32(id)) }

// Local returns a mutable pointer to the local identified by id.
func (f *Function) Local(id LocalId) *Local { return f.locals.at(uint32(id)) }

// Phi returns a mutable pointer to the phi identified by id.
func (f *Function) Phi(id PhiId) *Phi { return f.phis.at(uint32(id)) }

// LocalListOf returns a mutable pointer to the local list identified by id.
func (f *Function) LocalListOf(id LocalListId) *LocalList { return f.localLists.at(uint32(id)) }

// RecordOf returns a mutable pointer to the record identified by id.
func (f *Function) RecordOf(id RecordId) *Record { return f.records.at(uint32(id)) }

// PushBlock allocates a new, unsealed, unfilled block with no predecessors
// and no terminator (Terminator is None until set).
func (f *Function) PushBlock(label strtab.InternedString, named bool, source SourceRange) BlockId {
	return BlockId(f.blocks.push(Block{
		Label:      label,
		Named:      named,
		Terminator: None{},
		Source:     source,
	}))
}

// PushParam allocates a new parameter and returns its id. Parameters must be
// pushed in source order.
func (f *Function) PushParam(name strtab.InternedString) ParamId {
	return ParamId(f.params.push(Param{Name: name}))
}

// PushLocal allocates a new local with the given defining expression and
// returns its id. The caller is responsible for appending a matching
// Stmt{Kind: Define} to exactly one block.
func (f *Function) PushLocal(name strtab.InternedString, named bool, value RValue, source SourceRange) LocalId {
	return LocalId(f.locals.push(Local{Name: name, Named: named, Value: value, Source: source}))
}

// PushPhi allocates a new phi record with the given operand list.
func (f *Function) PushPhi(operands []LocalId) PhiId {
	cp := make([]LocalId, len(operands))
	copy(cp, operands)
	return PhiId(f.phis.push(Phi{Operands: cp}))
}

// PushLocalList allocates a new, independently addressable operand list.
func (f *Function) PushLocalList(items []LocalId) LocalListId {
	cp := make([]LocalId, len(items))
	copy(cp, items)
	return LocalListId(f.localLists.push(LocalList{Items: cp}))
}

// PushRecord allocates a new record. Panics if two fields share a name —
// the caller (lowering) is required to have already rejected duplicate
// field names as a semantic error before reaching the IR.
func (f *Function) PushRecord(fields []RecordField) RecordId {
	seen := make(map[strtab.InternedString]struct{}, len(fields))
	cp := make([]RecordField, len(fields))
	for i, field := range fields {
		if _, dup := seen[field.Name]; dup {
			invariantf("ir: duplicate field name in record")
		}
		seen[field.Name] = struct{}{}
		cp[i] = field
	}
	return RecordId(f.records.push(Record{Fields: cp}))
}
