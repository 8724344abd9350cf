package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiro-lang/tiro/internal/ir"
	"github.com/tiro-lang/tiro/internal/ir/cfg"
	"github.com/tiro-lang/tiro/internal/strtab"
)

// buildLoop builds spec §8 Scenario 4: entry -> jump header; header phi
// (x = phi(0, x')) then branch _ body exit; body -> define x' = x + 1;
// jump header.
func buildLoop(table *strtab.StringTable) (fn *ir.Function, headerB, bodyB ir.BlockId, x, xPrime ir.LocalId) {
	fn = ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)
	headerB = fn.PushBlock(strtab.Invalid, false, ir.SourceRange{})
	bodyB = fn.PushBlock(strtab.Invalid, false, ir.SourceRange{})

	fn.SetTerminator(fn.Entry(), ir.Jump{Target: headerB})
	fn.AppendPredecessor(headerB, fn.Entry())

	zero := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.NewIntegerConstant(0)}, ir.SourceRange{})
	fn.AppendStmt(fn.Entry(), ir.DefineStmt(zero))

	// xPrime's LocalId is reserved before body is built so the phi can
	// reference it; its defining rvalue is installed once body is known.
	xPrime = fn.PushLocal(strtab.Invalid, true, ir.Phi0RValue{}, ir.SourceRange{})

	phi := fn.PushPhi([]ir.LocalId{zero, xPrime})
	x = fn.PushLocal(strtab.Invalid, true, ir.PhiRValue{Phi: phi}, ir.SourceRange{})
	fn.AppendStmt(headerB, ir.DefineStmt(x))

	cond := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.TrueConstant}, ir.SourceRange{})
	fn.AppendStmt(headerB, ir.DefineStmt(cond))
	fn.SetTerminator(headerB, ir.Branch{Type: ir.BranchIfTrue, Value: cond, Target: bodyB, Fallthrough: fn.Exit()})
	fn.AppendPredecessor(bodyB, headerB)
	fn.AppendPredecessor(fn.Exit(), headerB)

	fn.Local(xPrime).Value = ir.BinaryOpRValue{Op: ir.BinaryPlus, Left: x, Right: x}
	fn.AppendStmt(bodyB, ir.DefineStmt(xPrime))
	fn.SetTerminator(bodyB, ir.Jump{Target: headerB})
	fn.AppendPredecessor(headerB, bodyB)

	return fn, headerB, bodyB, x, xPrime
}

func TestBuildLivenessOverLoop(t *testing.T) {
	table := strtab.New()
	fn, headerB, bodyB, x, xPrime := buildLoop(table)

	liveness := cfg.BuildLiveness(fn)

	assert.True(t, liveness.IsLiveIn(headerB, x))
	assert.True(t, liveness.IsLiveIn(bodyB, x))

	xPrimeRange, ok := liveness.LiveRange(xPrime)
	require.True(t, ok)
	assert.Equal(t, bodyB, xPrimeRange.Def.Block)
	assert.Equal(t, len(fn.Block(bodyB).Stmts), xPrimeRange.Def.End)
	assert.False(t, liveness.IsLiveIn(headerB, xPrime))
}

func TestLiveRangeIsDeadForUnusedValue(t *testing.T) {
	table := strtab.New()
	fn := ir.NewFunction(table, table.Intern("f"), ir.FunctionNormal)
	unused := fn.PushLocal(strtab.Invalid, false, ir.ConstantRValue{Value: ir.NewIntegerConstant(1)}, ir.SourceRange{})
	fn.AppendStmt(fn.Entry(), ir.DefineStmt(unused))
	fn.SetTerminator(fn.Entry(), ir.Jump{Target: fn.Exit()})
	fn.AppendPredecessor(fn.Exit(), fn.Entry())

	liveness := cfg.BuildLiveness(fn)
	r, ok := liveness.LiveRange(unused)
	require.True(t, ok)
	assert.True(t, r.IsDead())
}

func TestLiveInValuesSortedAndQueryableUnknownBlock(t *testing.T) {
	table := strtab.New()
	fn, headerB, bodyB, x, _ := buildLoop(table)
	liveness := cfg.BuildLiveness(fn)

	values := liveness.LiveInValues(headerB)
	for i := 1; i < len(values); i++ {
		assert.Less(t, values[i-1], values[i])
	}
	assert.Contains(t, values, x)

	assert.Empty(t, liveness.LiveInValues(ir.BlockId(9999)))
	assert.False(t, liveness.IsLiveIn(bodyB, ir.LocalId(9999)))
}
