package ir

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/tiro-lang/tiro/internal/strtab"
)

// CheckInvariants validates the universal, purely-structural invariants of
// spec §8 that do not require a dominator tree: the closed-id universe,
// exactly-one-Define per LocalId, phi operand/predecessor-count agreement,
// reachable blocks being terminated, same-block def-before-use ordering,
// and target == Function.Exit() for Return/AssertFail/Never. The one
// invariant this does not check — "a use in a different block is dominated
// by its definition" — needs a dominator tree, which lives one layer up in
// internal/ir/cfg; no function in this module checks it.
//
// Violations are program bugs (spec §7): the caller is expected to treat a
// non-nil result as fatal, not to recover from it. Every violation found is
// reported, not just the first, since a single malformed construction pass
// often produces several at once.
func (f *Function) CheckInvariants() error {
	var errs []error

	errs = append(errs, f.checkIdRanges()...)
	errs = append(errs, f.checkDefineUniqueness()...)
	errs = append(errs, f.checkPhiOperandCounts()...)
	errs = append(errs, f.checkTerminatedAndOrdered()...)
	errs = append(errs, f.checkExitTargets()...)

	return errors.Join(errs...)
}

// checkIdRanges verifies the closed-universe invariant: every BlockId and
// LocalId reachable from a block's predecessor list, terminator, or
// statements refers to an entity actually allocated in f.
func (f *Function) checkIdRanges() []error {
	var errs []error
	numBlocks, numLocals := f.NumBlocks(), f.NumLocals()

	checkBlock := func(context string, id BlockId) {
		if int(id) >= numBlocks {
			errs = append(errs, pkgerrors.Errorf("ir: %s references out-of-range block %d (have %d)", context, id, numBlocks))
		}
	}
	checkLocal := func(context string, id LocalId) {
		if int(id) >= numLocals {
			errs = append(errs, pkgerrors.Errorf("ir: %s references out-of-range local %d (have %d)", context, id, numLocals))
		}
	}

	for i := 0; i < numBlocks; i++ {
		id := BlockId(i)
		b := f.Block(id)
		for _, pred := range b.Predecessors {
			checkBlock(fmt.Sprintf("block %d predecessor list", i), pred)
		}
		for _, succ := range Successors(b.Terminator) {
			checkBlock(fmt.Sprintf("block %d terminator", i), succ)
		}
		for _, use := range TerminatorUses(b.Terminator) {
			checkLocal(fmt.Sprintf("block %d terminator", i), use)
		}
		for idx, s := range b.Stmts {
			context := fmt.Sprintf("block %d statement %d", i, idx)
			if s.Kind == StmtDefine {
				checkLocal(context, s.Local)
				for _, use := range f.RValueUses(f.Local(s.Local).Value) {
					checkLocal(context, use)
				}
			} else {
				checkLocal(context, s.Value)
				for _, use := range LValueUses(s.Target) {
					checkLocal(context, use)
				}
			}
		}
	}
	return errs
}

// checkDefineUniqueness verifies that every LocalId has exactly one
// Stmt::Define referencing it across the whole function.
func (f *Function) checkDefineUniqueness() []error {
	counts := make([]int, f.NumLocals())
	for i := 0; i < f.NumBlocks(); i++ {
		b := f.Block(BlockId(i))
		for _, s := range b.Stmts {
			if s.Kind == StmtDefine {
				if int(s.Local) >= len(counts) {
					return []error{pkgerrors.Errorf("ir: block %d defines out-of-range local %d", i, s.Local)}
				}
				counts[s.Local]++
			}
		}
	}

	var errs []error
	for local, n := range counts {
		if n != 1 {
			errs = append(errs, pkgerrors.Errorf("ir: local %d has %d defining statements, want exactly 1", local, n))
		}
	}
	return errs
}

// checkPhiOperandCounts verifies that every phi's operand count equals the
// predecessor count of the block that defines it.
func (f *Function) checkPhiOperandCounts() []error {
	var errs []error
	for i := 0; i < f.NumBlocks(); i++ {
		id := BlockId(i)
		b := f.Block(id)
		phiCount := f.PhiCount(id)
		for j := 0; j < phiCount; j++ {
			stmt := b.Stmts[j]
			phiRV, ok := f.Local(stmt.Local).Value.(PhiRValue)
			if !ok {
				continue
			}
			operands := f.Phi(phiRV.Phi).Operands
			if len(operands) != len(b.Predecessors) {
				errs = append(errs, pkgerrors.Errorf(
					"ir: block %d phi for local %d has %d operands, want %d (predecessor count)",
					i, stmt.Local, len(operands), len(b.Predecessors)))
			}
		}
	}
	return errs
}

// checkTerminatedAndOrdered verifies that every block reachable from entry
// has a non-None terminator, and that every LocalId used within a block is
// either defined earlier in that same block or defined in some other block
// (left for the caller's dominance check, since that needs a dominator
// tree this package does not build).
func (f *Function) checkTerminatedAndOrdered() []error {
	var errs []error
	reachable := blockOrder(f)

	for _, id := range reachable {
		b := f.Block(id)
		if _, isNone := b.Terminator.(None); isNone {
			errs = append(errs, pkgerrors.Errorf("ir: reachable block %d is unterminated", uint32(id)))
		}

		// Two passes: first record where each local is defined anywhere in
		// this block, then check uses against that full map. A single
		// forward-streaming pass could not distinguish "used before its
		// same-block definition" (a bug) from "defined in a different block
		// that dominates b" (legal, and not checked here at all).
		positions := make(map[LocalId]int)
		for idx, s := range b.Stmts {
			if s.Kind == StmtDefine {
				positions[s.Local] = idx
			}
		}
		for idx, s := range b.Stmts {
			for _, use := range f.Uses(s) {
				if definedAt, ok := positions[use]; ok && definedAt >= idx {
					errs = append(errs, pkgerrors.Errorf(
						"ir: block %d statement %d uses local %d before its definition at statement %d",
						uint32(id), idx, use, definedAt))
				}
			}
		}
	}
	return errs
}

// checkExitTargets verifies that every Return, AssertFail, and Never
// terminator targets Function.Exit().
func (f *Function) checkExitTargets() []error {
	var errs []error
	exit := f.Exit()
	for i := 0; i < f.NumBlocks(); i++ {
		id := BlockId(i)
		switch t := f.Block(id).Terminator.(type) {
		case Return:
			if t.Target != exit {
				errs = append(errs, pkgerrors.Errorf("ir: block %d Return targets %d, want exit block %d", i, t.Target, exit))
			}
		case AssertFail:
			if t.Target != exit {
				errs = append(errs, pkgerrors.Errorf("ir: block %d AssertFail targets %d, want exit block %d", i, t.Target, exit))
			}
		case Never:
			if t.Target != exit {
				errs = append(errs, pkgerrors.Errorf("ir: block %d Never targets %d, want exit block %d", i, t.Target, exit))
			}
		}
	}
	return errs
}

// Uses returns the LocalIds read by s: for Assign, the target's operands
// plus the stored value; for Define, the operands of the local's defining
// RValue (fetched from f.Local, since Stmt::Define carries no payload of its
// own). Used by checkTerminatedAndOrdered to find same-block use-before-def
// violations.
func (f *Function) Uses(s Stmt) []LocalId {
	switch s.Kind {
	case StmtAssign:
		return append(LValueUses(s.Target), s.Value)
	case StmtDefine:
		return f.RValueUses(f.Local(s.Local).Value)
	default:
		return nil
	}
}

// LValueUses returns the LocalIds an LValue reads to compute its address
// (the storage location itself, not any value stored through it).
func LValueUses(lv LValue) []LocalId {
	switch v := lv.(type) {
	case ClosureLValue:
		return []LocalId{v.Env}
	case FieldLValue:
		return []LocalId{v.Object}
	case TupleFieldLValue:
		return []LocalId{v.Object}
	case IndexLValue:
		return []LocalId{v.Object, v.Index}
	default:
		return nil
	}
}

// RValueUses returns the LocalIds rv operates on. PhiRValue and Phi0RValue
// are deliberately excluded: phi operands are uses at the end of the
// corresponding predecessor block, not at the phi's own definition site
// (spec §4.6), so same-block ordering does not apply to them.
func (f *Function) RValueUses(rv RValue) []LocalId {
	switch v := rv.(type) {
	case UseLValueRValue:
		return LValueUses(v.Value)
	case UseLocalRValue:
		return []LocalId{v.Local}
	case BinaryOpRValue:
		return []LocalId{v.Left, v.Right}
	case UnaryOpRValue:
		return []LocalId{v.Operand}
	case CallRValue:
		uses := []LocalId{v.Func}
		return append(uses, f.LocalListOf(v.Args).Items...)
	case GetAggregateMemberRValue:
		return []LocalId{v.Aggregate}
	case MethodCallRValue:
		uses := []LocalId{v.Method}
		return append(uses, f.LocalListOf(v.Args).Items...)
	case MakeEnvironmentRValue:
		return []LocalId{v.Parent}
	case MakeClosureRValue:
		return []LocalId{v.Env, v.Func}
	case MakeIteratorRValue:
		return []LocalId{v.Container}
	case RecordRValue:
		rec := f.RecordOf(v.Record)
		uses := make([]LocalId, len(rec.Fields))
		for i, field := range rec.Fields {
			uses[i] = field.Value
		}
		return uses
	case ContainerRValue:
		return append([]LocalId(nil), f.LocalListOf(v.Args).Items...)
	case FormatRValue:
		return append([]LocalId(nil), f.LocalListOf(v.Args).Items...)
	case AggregateRValue:
		switch agg := v.Value.(type) {
		case MethodAggregate:
			return []LocalId{agg.Instance}
		case IteratorNextAggregate:
			return []LocalId{agg.Iterator}
		}
		return nil
	default:
		return nil
	}
}

// CheckInvariants validates every function in m. table resolves each
// function's name for error messages; it plays no role in the checks
// themselves.
func (m *Module) CheckInvariants(table *strtab.StringTable) error {
	var errs []error
	for _, fn := range m.Functions {
		if err := fn.CheckInvariants(); err != nil {
			errs = append(errs, pkgerrors.Wrapf(err, "function %q", table.Value(fn.Name)))
		}
	}
	return errors.Join(errs...)
}
