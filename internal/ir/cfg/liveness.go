package cfg

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/tiro-lang/tiro/internal/ir"
)

// DefinitionInterval is the statement range, within the defining block, over
// which an SSA value is live because of its own definition: from the
// Define's own position up to (and including) the last statement or
// terminator in the same block that reads it.
type DefinitionInterval struct {
	Block ir.BlockId
	Stmt  int // position of the defining Define within Block.Stmts
	End   int // position of the last same-block use; len(Stmts) means "at the terminator"
}

// LiveInInterval records that a value is live on entry to Block, extended
// to the last point within Block where it is still read.
type LiveInInterval struct {
	Block ir.BlockId
	End   int // len(Stmts) means the value is live through to the terminator (or a phi operand use of a successor)
}

// LiveRange is the complete liveness record for one SSA value: where it is
// defined, and every block it is live-in to.
type LiveRange struct {
	Def    DefinitionInterval
	LiveIn []LiveInInterval // sorted by Block
}

// IsDead reports whether the value is never read: its definition interval
// has zero length.
func (r LiveRange) IsDead() bool {
	return r.Def.Stmt == r.Def.End
}

// Liveness holds the per-value live ranges and per-block live-in sets
// computed by BuildLiveness. It is a read-only snapshot: mutating the
// function it was built from invalidates it, and nothing re-checks that.
type Liveness struct {
	fn     *ir.Function
	ranges []LiveRange         // indexed by LocalId
	has    []bool              // indexed by LocalId; false for locals BuildLiveness never saw a Define for
	liveIn [][]ir.LocalId      // indexed by BlockId, sorted by LocalId
	idx    []map[ir.LocalId]int // indexed by BlockId: LocalId -> index into ranges[local].LiveIn, scratch used only during construction
}

type workItem struct {
	local ir.LocalId
	block ir.BlockId
}

// BuildLiveness computes live ranges for every SSA value in fn by the
// single backward scan of spec §4.6: every local is pre-seeded with a
// zero-length definition interval at its defining site, then every operand
// in the function is visited in reverse execution order, extending either
// the definition interval (same-block use) or a live-in interval (use from
// an unknown block, resolved lazily), with newly created live-in intervals
// pushing the block's predecessors onto a worklist that drains until no
// further block gains a new live-in value.
//
// GetAggregateMember operands are normalized to the underlying aggregate by
// ir.RValueUses before this function ever sees them, so member access never
// produces its own live range.
func BuildLiveness(fn *ir.Function) *Liveness {
	numLocals := fn.NumLocals()
	numBlocks := fn.NumBlocks()

	l := &Liveness{
		fn:     fn,
		ranges: make([]LiveRange, numLocals),
		has:    make([]bool, numLocals),
		liveIn: make([][]ir.LocalId, numBlocks),
		idx:    make([]map[ir.LocalId]int, numBlocks),
	}

	defBlock := make([]ir.BlockId, numLocals)
	for i := range defBlock {
		defBlock[i] = ir.InvalidBlockId
	}

	// Step 1: pre-seed every local with a zero-length definition interval
	// at its defining site.
	for i := 0; i < numBlocks; i++ {
		b := fn.Block(ir.BlockId(i))
		for idx, s := range b.Stmts {
			if s.Kind != ir.StmtDefine {
				continue
			}
			defBlock[s.Local] = ir.BlockId(i)
			l.has[s.Local] = true
			l.ranges[s.Local] = LiveRange{Def: DefinitionInterval{
				Block: ir.BlockId(i),
				Stmt:  idx,
				End:   idx,
			}}
		}
	}

	var worklist []workItem

	recordUse := func(local ir.LocalId, block ir.BlockId, idx int) {
		if !local.Valid() || !l.has[local] {
			return
		}
		if defBlock[local] == block {
			d := &l.ranges[local].Def
			if idx > d.End {
				d.End = idx
			}
			return
		}

		if l.idx[block] == nil {
			l.idx[block] = make(map[ir.LocalId]int)
		}
		if pos, ok := l.idx[block][local]; ok {
			if idx > l.ranges[local].LiveIn[pos].End {
				l.ranges[local].LiveIn[pos].End = idx
			}
			return
		}

		l.ranges[local].LiveIn = append(l.ranges[local].LiveIn, LiveInInterval{Block: block, End: idx})
		l.idx[block][local] = len(l.ranges[local].LiveIn) - 1

		for _, pred := range fn.Block(block).Predecessors {
			worklist = append(worklist, workItem{local: local, block: pred})
		}
	}

	// Step 2: backward scan of every block's own operands. The terminator
	// is chronologically last, so it is visited before the block's
	// statements, which are then walked in reverse.
	for i := 0; i < numBlocks; i++ {
		block := ir.BlockId(i)
		b := fn.Block(block)
		n := len(b.Stmts)

		for _, use := range ir.TerminatorUses(b.Terminator) {
			recordUse(use, block, n)
		}
		for idx := n - 1; idx >= 0; idx-- {
			for _, use := range fn.Uses(b.Stmts[idx]) {
				recordUse(use, block, idx)
			}
		}
	}

	// Step 3: each phi operand is a use at the end of the corresponding
	// predecessor, not at the phi's own block.
	for i := 0; i < numBlocks; i++ {
		block := ir.BlockId(i)
		b := fn.Block(block)
		phiCount := fn.PhiCount(block)
		for j := 0; j < phiCount; j++ {
			phiRV, ok := fn.Local(b.Stmts[j].Local).Value.(ir.PhiRValue)
			if !ok {
				continue
			}
			operands := fn.Phi(phiRV.Phi).Operands
			for k, operand := range operands {
				if k >= len(b.Predecessors) {
					break
				}
				pred := b.Predecessors[k]
				recordUse(operand, pred, len(fn.Block(pred).Stmts))
			}
		}
	}

	// Step 4: drain the worklist, extending each propagated value's live
	// range across the full predecessor block and continuing upward until
	// no block gains a new live-in value. When propagation reaches the
	// value's own defining block, the value is live out of it: its
	// definition interval is extended to the terminator and propagation
	// stops there. Only a phi-defined value is also marked live-in to its
	// defining block (spec §8 Scenario 4: x is live-in to header through
	// the back edge); any other value is not live on entry to the block
	// that defines it.
	for len(worklist) > 0 {
		item := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if l.idx[item.block] != nil {
			if _, already := l.idx[item.block][item.local]; already {
				continue
			}
		}

		end := len(fn.Block(item.block).Stmts)
		if defBlock[item.local] == item.block {
			if d := &l.ranges[item.local].Def; end > d.End {
				d.End = end
			}
			if _, isPhi := fn.Local(item.local).Value.(ir.PhiRValue); !isPhi {
				continue
			}
		}
		if l.idx[item.block] == nil {
			l.idx[item.block] = make(map[ir.LocalId]int)
		}
		l.ranges[item.local].LiveIn = append(l.ranges[item.local].LiveIn, LiveInInterval{Block: item.block, End: end})
		l.idx[item.block][item.local] = len(l.ranges[item.local].LiveIn) - 1

		if defBlock[item.local] == item.block {
			continue
		}
		for _, pred := range fn.Block(item.block).Predecessors {
			worklist = append(worklist, workItem{local: item.local, block: pred})
		}
	}

	for local := range l.ranges {
		sort.Slice(l.ranges[local].LiveIn, func(a, b int) bool {
			return l.ranges[local].LiveIn[a].Block < l.ranges[local].LiveIn[b].Block
		})
	}

	for local, has := range l.has {
		if !has {
			continue
		}
		for _, in := range l.ranges[local].LiveIn {
			l.liveIn[in.Block] = append(l.liveIn[in.Block], ir.LocalId(local))
		}
	}
	for i := range l.liveIn {
		sort.Slice(l.liveIn[i], func(a, b int) bool { return l.liveIn[i][a] < l.liveIn[i][b] })
	}

	rpoLogger.WithFields(logrus.Fields{"blocks": numBlocks, "locals": numLocals}).
		Debug("cfg: liveness computed")

	l.idx = nil
	return l
}

// LiveRange returns the live range computed for local, and whether one was
// found (false for a LocalId that was never the target of a Define).
func (l *Liveness) LiveRange(local ir.LocalId) (LiveRange, bool) {
	if int(local) >= len(l.has) || !l.has[local] {
		return LiveRange{}, false
	}
	return l.ranges[local], true
}

// LiveInValues returns the LocalIds live on entry to block, sorted by
// LocalId for deterministic output.
func (l *Liveness) LiveInValues(block ir.BlockId) []ir.LocalId {
	if int(block) >= len(l.liveIn) {
		return nil
	}
	return l.liveIn[block]
}

// IsLiveIn reports whether local is live on entry to block.
func (l *Liveness) IsLiveIn(block ir.BlockId, local ir.LocalId) bool {
	for _, v := range l.LiveInValues(block) {
		if v == local {
			return true
		}
		if v > local {
			break
		}
	}
	return false
}

// LastUse returns the LocalIds whose last use (within their live range) is
// exactly at position stmt of block: a same-block value whose definition
// interval ends there, or a live-in value whose live-in interval ends
// there. stmt may equal len(block.Stmts) to query the terminator position.
func (l *Liveness) LastUse(block ir.BlockId, stmt int) []ir.LocalId {
	var out []ir.LocalId
	for local, has := range l.has {
		if !has {
			continue
		}
		r := l.ranges[local]
		if r.Def.Block == block && r.Def.End == stmt && r.Def.Stmt != stmt {
			out = append(out, ir.LocalId(local))
			continue
		}
		for _, in := range r.LiveIn {
			if in.Block == block && in.End == stmt {
				out = append(out, ir.LocalId(local))
				break
			}
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}
