package ir

import "fmt"

// Every arena-resident entity is referred to by a type-safe 32-bit
// identifier. The six id types below are intentionally distinct Go types —
// a BlockId may not be used where a LocalId is expected, even though both
// are backed by uint32.

const invalidID = ^uint32(0)

// BlockId identifies a Block within a Function's block arena.
type BlockId uint32

// InvalidBlockId is the sentinel representing "no block".
const InvalidBlockId = BlockId(invalidID)

// Valid reports whether id is something other than the sentinel.
func (id BlockId) Valid() bool { return id != InvalidBlockId }

func (id BlockId) String() string {
	if !id.Valid() {
		return "$<invalid>"
	}
	return fmt.Sprintf("$%d", uint32(id))
}

// ParamId identifies a Param within a Function's parameter arena.
type ParamId uint32

// InvalidParamId is the sentinel representing "no parameter".
const InvalidParamId = ParamId(invalidID)

func (id ParamId) Valid() bool { return id != InvalidParamId }

// LocalId identifies a Local within a Function's local arena.
type LocalId uint32

// InvalidLocalId is the sentinel representing "no local".
const InvalidLocalId = LocalId(invalidID)

func (id LocalId) Valid() bool { return id != InvalidLocalId }

func (id LocalId) String() string {
	if !id.Valid() {
		return "%<invalid>"
	}
	return fmt.Sprintf("%%%d", uint32(id))
}

// PhiId identifies a Phi within a Function's phi arena.
type PhiId uint32

// InvalidPhiId is the sentinel representing "no phi".
const InvalidPhiId = PhiId(invalidID)

func (id PhiId) Valid() bool { return id != InvalidPhiId }

// LocalListId identifies a LocalList within a Function's local-list arena.
type LocalListId uint32

// InvalidLocalListId is the sentinel representing "no local list".
const InvalidLocalListId = LocalListId(invalidID)

func (id LocalListId) Valid() bool { return id != InvalidLocalListId }

// RecordId identifies a Record within a Function's record arena.
type RecordId uint32

// InvalidRecordId is the sentinel representing "no record".
const InvalidRecordId = RecordId(invalidID)

func (id RecordId) Valid() bool { return id != InvalidRecordId }

// ModuleMemberId identifies a module-level variable. Ownership of the
// module symbol table lives outside the middle end (name resolution is an
// external collaborator per spec §1); the IR only ever stores this id
// opaquely inside LValue.Module.
type ModuleMemberId uint32

// InvalidModuleMemberId is the sentinel representing "no module member".
const InvalidModuleMemberId = ModuleMemberId(invalidID)

func (id ModuleMemberId) Valid() bool { return id != InvalidModuleMemberId }
