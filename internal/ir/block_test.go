package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiro-lang/tiro/internal/ir"
	"github.com/tiro-lang/tiro/internal/strtab"
)

func TestInsertStmtsShiftsTail(t *testing.T) {
	table := strtab.New()
	fn := ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)
	entry := fn.Entry()

	a := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.NewIntegerConstant(1)}, ir.SourceRange{})
	b := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.NewIntegerConstant(2)}, ir.SourceRange{})
	c := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.NewIntegerConstant(3)}, ir.SourceRange{})

	fn.AppendStmt(entry, ir.DefineStmt(a))
	fn.AppendStmt(entry, ir.DefineStmt(c))
	fn.InsertStmt(entry, 1, ir.DefineStmt(b))

	got := fn.Block(entry).Stmts
	require.Len(t, got, 3)
	assert.Equal(t, a, got[0].Local)
	assert.Equal(t, b, got[1].Local)
	assert.Equal(t, c, got[2].Local)
}

func TestRemoveStmtsIfPreservesOrder(t *testing.T) {
	table := strtab.New()
	fn := ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)
	entry := fn.Entry()

	keep := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.NewIntegerConstant(1)}, ir.SourceRange{})
	drop := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.NewIntegerConstant(2)}, ir.SourceRange{})

	fn.AppendStmt(entry, ir.DefineStmt(drop))
	fn.AppendStmt(entry, ir.DefineStmt(keep))
	fn.AppendStmt(entry, ir.DefineStmt(drop))

	fn.RemoveStmtsIf(entry, func(s ir.Stmt) bool { return s.Local == drop })

	got := fn.Block(entry).Stmts
	require.Len(t, got, 1)
	assert.Equal(t, keep, got[0].Local)
}

func TestAppendAndReplacePredecessor(t *testing.T) {
	table := strtab.New()
	fn := ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)
	target := fn.PushBlock(strtab.Invalid, false, ir.SourceRange{})

	fn.AppendPredecessor(target, ir.BlockId(0))
	fn.AppendPredecessor(target, ir.BlockId(0))
	require.Equal(t, []ir.BlockId{0, 0}, fn.Block(target).Predecessors)

	fn.ReplacePredecessor(target, ir.BlockId(0), ir.BlockId(5))
	assert.Equal(t, []ir.BlockId{5, 0}, fn.Block(target).Predecessors)
}

func TestPhiCountStopsAtFirstNonPhi(t *testing.T) {
	table := strtab.New()
	fn := ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)
	block := fn.PushBlock(strtab.Invalid, false, ir.SourceRange{})
	fn.AppendPredecessor(block, fn.Entry())
	fn.AppendPredecessor(block, fn.Entry())

	p1 := fn.PushLocal(strtab.Invalid, false, nil, ir.SourceRange{})
	phi1 := fn.PushPhi([]ir.LocalId{ir.InvalidLocalId, ir.InvalidLocalId})
	fn.Local(p1).Value = ir.PhiRValue{Phi: phi1}
	fn.AppendStmt(block, ir.DefineStmt(p1))

	ordinary := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.NewIntegerConstant(1)}, ir.SourceRange{})
	fn.AppendStmt(block, ir.DefineStmt(ordinary))

	p2 := fn.PushLocal(strtab.Invalid, false, nil, ir.SourceRange{})
	phi2 := fn.PushPhi([]ir.LocalId{ir.InvalidLocalId, ir.InvalidLocalId})
	fn.Local(p2).Value = ir.PhiRValue{Phi: phi2}
	fn.AppendStmt(block, ir.DefineStmt(p2))

	assert.Equal(t, 1, fn.PhiCount(block))
}

func TestRemovePhiPreservesLocalIdentityAndOrder(t *testing.T) {
	table := strtab.New()
	fn := ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)
	block := fn.PushBlock(strtab.Invalid, false, ir.SourceRange{})
	fn.AppendPredecessor(block, fn.Entry())
	fn.AppendPredecessor(block, fn.Entry())

	makePhi := func() ir.LocalId {
		l := fn.PushLocal(strtab.Invalid, false, nil, ir.SourceRange{})
		phi := fn.PushPhi([]ir.LocalId{ir.InvalidLocalId, ir.InvalidLocalId})
		fn.Local(l).Value = ir.PhiRValue{Phi: phi}
		fn.AppendStmt(block, ir.DefineStmt(l))
		return l
	}

	p1 := makePhi()
	p2 := makePhi()
	p3 := makePhi()

	ordinary := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.NewIntegerConstant(9)}, ir.SourceRange{})
	fn.AppendStmt(block, ir.DefineStmt(ordinary))

	newValue := ir.ConstantRValue{Value: ir.NewIntegerConstant(42)}
	fn.RemovePhi(block, p2, newValue)

	stmts := fn.Block(block).Stmts
	require.Len(t, stmts, 4)
	assert.Equal(t, p1, stmts[0].Local)
	assert.Equal(t, p3, stmts[1].Local)
	assert.Equal(t, p2, stmts[2].Local)
	assert.Equal(t, ordinary, stmts[3].Local)
	assert.Equal(t, newValue, fn.Local(p2).Value)
	assert.Equal(t, 2, fn.PhiCount(block))
}

func TestRemovePhiRejectsPhiReplacement(t *testing.T) {
	table := strtab.New()
	fn := ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)
	block := fn.PushBlock(strtab.Invalid, false, ir.SourceRange{})
	fn.AppendPredecessor(block, fn.Entry())

	l := fn.PushLocal(strtab.Invalid, false, nil, ir.SourceRange{})
	phi := fn.PushPhi([]ir.LocalId{ir.InvalidLocalId})
	fn.Local(l).Value = ir.PhiRValue{Phi: phi}
	fn.AppendStmt(block, ir.DefineStmt(l))

	assert.Panics(t, func() {
		fn.RemovePhi(block, l, ir.PhiRValue{Phi: phi})
	})
}
