package cfg

import (
	"github.com/sirupsen/logrus"

	"github.com/tiro-lang/tiro/internal/ir"
)

// DominatorTree answers dominance queries over a function's CFG: which
// block is the immediate dominator of a given block, which blocks it
// immediately dominates, and whether one block dominates another.
// Unreachable blocks have no idom; queries involving them report "does not
// dominate / is not dominated" rather than panicking, since unreachable
// code is a normal (if unusual) state during incremental IR construction.
type DominatorTree struct {
	fn   *ir.Function
	idom []ir.BlockId // indexed by BlockId; InvalidBlockId if unreachable; entry maps to itself
	rpo  []ir.BlockId
	rpoN []int // rpo number per block, indexed by BlockId; -1 if unreachable

	children map[ir.BlockId][]ir.BlockId
}

// BuildDominatorTree computes the immediate dominator of every block
// reachable from fn.Entry() using the iterative data-flow algorithm of
// Cooper, Harvey, and Kennedy: blocks are numbered in reverse postorder,
// and idom(b) is refined by repeatedly intersecting the already-processed
// predecessors' current idom estimates until the whole function reaches a
// fixed point.
func BuildDominatorTree(fn *ir.Function) *DominatorTree {
	rpo := ReversePostorder(fn)

	rpoN := make([]int, fn.NumBlocks())
	for i := range rpoN {
		rpoN[i] = -1
	}
	for n, id := range rpo {
		rpoN[id] = n
	}

	idom := make([]ir.BlockId, fn.NumBlocks())
	for i := range idom {
		idom[i] = ir.InvalidBlockId
	}

	if len(rpo) == 0 {
		return &DominatorTree{fn: fn, idom: idom, rpo: rpo, rpoN: rpoN}
	}

	entry := fn.Entry()
	idom[entry] = entry

	intersect := func(a, b ir.BlockId) ir.BlockId {
		for a != b {
			for rpoN[a] > rpoN[b] {
				a = idom[a]
			}
			for rpoN[b] > rpoN[a] {
				b = idom[b]
			}
		}
		return a
	}

	changed := true
	iterations := 0
	for changed {
		changed = false
		iterations++
		for _, b := range rpo {
			if b == entry {
				continue
			}

			var newIdom ir.BlockId = ir.InvalidBlockId
			for _, pred := range fn.Block(b).Predecessors {
				if idom[pred] == ir.InvalidBlockId {
					continue // predecessor not processed yet this pass
				}
				if newIdom == ir.InvalidBlockId {
					newIdom = pred
					continue
				}
				newIdom = intersect(pred, newIdom)
			}

			if newIdom != ir.InvalidBlockId && newIdom != idom[b] {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	rpoLogger.WithFields(logrus.Fields{"blocks": len(rpo), "iterations": iterations}).
		Debug("cfg: dominator tree converged")

	return &DominatorTree{fn: fn, idom: idom, rpo: rpo, rpoN: rpoN}
}

// ImmediateDominator returns the immediate dominator of b, or
// ir.InvalidBlockId if b is unreachable. The entry block is its own
// immediate dominator, by convention.
func (t *DominatorTree) ImmediateDominator(b ir.BlockId) ir.BlockId {
	if int(b) >= len(t.idom) {
		return ir.InvalidBlockId
	}
	return t.idom[b]
}

// ImmediatelyDominated returns the blocks whose immediate dominator is b,
// computed once (by inverting the idom map) and cached on the tree.
func (t *DominatorTree) ImmediatelyDominated(b ir.BlockId) []ir.BlockId {
	if t.children == nil {
		t.children = make(map[ir.BlockId][]ir.BlockId, len(t.idom))
		entry := t.fn.Entry()
		for i, d := range t.idom {
			id := ir.BlockId(i)
			if d == ir.InvalidBlockId || id == entry {
				continue
			}
			t.children[d] = append(t.children[d], id)
		}
	}
	return t.children[b]
}

// Dominates reports whether a dominates b: walking b upward through idom
// reaches a (or a equals b). Returns false if either block is unreachable.
func (t *DominatorTree) Dominates(a, b ir.BlockId) bool {
	if int(a) >= len(t.idom) || int(b) >= len(t.idom) {
		return false
	}
	if t.idom[a] == ir.InvalidBlockId || t.idom[b] == ir.InvalidBlockId {
		return false
	}

	cur := b
	for {
		if cur == a {
			return true
		}
		next := t.idom[cur]
		if next == cur {
			// cur is the entry: its own idom, and a was not found above.
			return false
		}
		cur = next
	}
}

// DominatesStrict reports whether a dominates b and a != b.
func (t *DominatorTree) DominatesStrict(a, b ir.BlockId) bool {
	return a != b && t.Dominates(a, b)
}
