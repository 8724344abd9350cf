package cfg

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tiro-lang/tiro/internal/ir"
	"github.com/tiro-lang/tiro/internal/strtab"
)

// SplitCriticalEdges finds every critical edge u -> v in fn — u has more
// than one successor and v has more than one predecessor — and inserts a
// fresh block w on the edge, so u transfers to w and w jumps unconditionally
// to v. Reports whether any edge was split, so callers know whether to
// re-run analyses built from fn's previous shape (dominator tree, liveness).
//
// A Branch terminator whose Target and Fallthrough both name the same
// critical v produces two distinct fresh blocks, one per edge, since each
// occurrence is a separate edge in the CFG even though they share an
// endpoint.
func SplitCriticalEdges(fn *ir.Function) bool {
	split := false

	// Captured once, up front: the set of predecessor counts is about to
	// change as we insert blocks, but whether a block *was* multi-
	// predecessor prior to this pass is exactly the property critical-edge
	// splitting cares about.
	inDegree := make([]int, fn.NumBlocks())
	for i := 0; i < fn.NumBlocks(); i++ {
		inDegree[i] = fn.Block(ir.BlockId(i)).PredecessorCount()
	}

	numOriginalBlocks := fn.NumBlocks()
	for i := 0; i < numOriginalBlocks; i++ {
		u := ir.BlockId(i)
		succs := ir.Successors(fn.Block(u).Terminator)
		if len(succs) < 2 {
			continue
		}

		for idx, v := range succs {
			if inDegree[v] < 2 {
				continue
			}

			w := fn.PushBlock(strtab.Invalid, false, ir.SourceRange{})
			fn.SetTerminator(w, ir.Jump{Target: v})
			fn.AppendPredecessor(w, u)

			// Positional, not ir.ReplaceTarget: a Branch whose Target and
			// Fallthrough both equal v must redirect them to two distinct
			// fresh blocks, one per occurrence, not both to the same one.
			fn.SetTerminator(u, replaceSuccessorAt(fn.Block(u).Terminator, idx, w))
			fn.ReplacePredecessor(v, u, w)

			split = true
			rpoLogger.WithFields(logrus.Fields{"from": fmt.Sprint(u), "to": fmt.Sprint(v), "via": fmt.Sprint(w)}).
				Debug("cfg: split critical edge")
		}
	}

	return split
}

// replaceSuccessorAt returns a copy of t with the successor at position
// index (in ir.Successors(t) order: for Branch, Target is 0 and
// Fallthrough is 1) redirected to next. Unlike ir.ReplaceTarget, which
// redirects every field matching a given old value, this redirects exactly
// one occurrence — required when Target and Fallthrough name the same
// block and each must be split independently.
func replaceSuccessorAt(t ir.Terminator, index int, next ir.BlockId) ir.Terminator {
	switch term := t.(type) {
	case ir.Jump:
		term.Target = next
		return term
	case ir.Branch:
		if index == 0 {
			term.Target = next
		} else {
			term.Fallthrough = next
		}
		return term
	case ir.Return:
		term.Target = next
		return term
	case ir.AssertFail:
		term.Target = next
		return term
	case ir.Never:
		term.Target = next
		return term
	default:
		return t
	}
}
