package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiro-lang/tiro/internal/ir"
	"github.com/tiro-lang/tiro/internal/strtab"
)

func TestNewFunctionAllocatesEntryAndExit(t *testing.T) {
	table := strtab.New()
	fn := ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)

	require.Equal(t, 2, fn.NumBlocks())
	assert.NotEqual(t, fn.Entry(), fn.Exit())

	entry := fn.Block(fn.Entry())
	assert.False(t, entry.Sealed)
	assert.False(t, entry.Filled)
	assert.IsType(t, ir.None{}, entry.Terminator)
	assert.True(t, entry.Named)
	assert.Equal(t, "entry", table.Value(entry.Label))

	exit := fn.Block(fn.Exit())
	assert.True(t, exit.Sealed)
	assert.True(t, exit.Filled)
	assert.IsType(t, ir.Exit{}, exit.Terminator)
	assert.Equal(t, "exit", table.Value(exit.Label))
}

func TestPushLocalAndPushParam(t *testing.T) {
	table := strtab.New()
	fn := ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)

	p := fn.PushParam(table.Intern("x"))
	assert.Equal(t, 1, fn.NumParams())
	assert.Equal(t, "x", table.Value(fn.Param(p).Name))

	l := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.NewIntegerConstant(0)}, ir.SourceRange{})
	assert.Equal(t, 1, fn.NumLocals())
	assert.False(t, fn.Local(l).Named)
}

func TestPushRecordRejectsDuplicateFields(t *testing.T) {
	table := strtab.New()
	fn := ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)

	name := table.Intern("x")
	l := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.NullConstant}, ir.SourceRange{})

	assert.Panics(t, func() {
		fn.PushRecord([]ir.RecordField{{Name: name, Value: l}, {Name: name, Value: l}})
	})
}

func TestPushPhiAndPushLocalListCopyInput(t *testing.T) {
	table := strtab.New()
	fn := ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)

	l := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.NullConstant}, ir.SourceRange{})
	operands := []ir.LocalId{l}
	phiID := fn.PushPhi(operands)
	operands[0] = ir.InvalidLocalId // mutate the caller's slice after the call

	assert.Equal(t, l, fn.Phi(phiID).Operands[0])

	items := []ir.LocalId{l, l}
	listID := fn.PushLocalList(items)
	items[0] = ir.InvalidLocalId

	assert.Equal(t, l, fn.LocalListOf(listID).Items[0])
}

func TestOutOfRangeAccessPanics(t *testing.T) {
	table := strtab.New()
	fn := ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)

	assert.Panics(t, func() { fn.Block(ir.BlockId(100)) })
	assert.Panics(t, func() { fn.Local(ir.LocalId(100)) })
	assert.Panics(t, func() { fn.Param(ir.ParamId(100)) })
}
