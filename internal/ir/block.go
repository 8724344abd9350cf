package ir

// AppendStmt appends s to block's statement list. The caller is responsible
// for keeping the "phis are a contiguous prefix" invariant — appending a
// phi-defining Define after ordinary statements have already been appended
// is a caller bug.
func (f *Function) AppendStmt(block BlockId, s Stmt) {
	b := f.Block(block)
	b.Stmts = append(b.Stmts, s)
}

// InsertStmt inserts s at index within block's statement list, shifting
// later statements back by one.
func (f *Function) InsertStmt(block BlockId, index int, s Stmt) {
	f.InsertStmts(block, index, []Stmt{s})
}

// InsertStmts inserts stmts at index within block's statement list,
// preserving their relative order.
func (f *Function) InsertStmts(block BlockId, index int, stmts []Stmt) {
	if len(stmts) == 0 {
		return
	}
	b := f.Block(block)
	if index < 0 || index > len(b.Stmts) {
		invariantf("ir: statement insertion index %d out of range (block has %d statements)", index, len(b.Stmts))
	}
	grown := make([]Stmt, 0, len(b.Stmts)+len(stmts))
	grown = append(grown, b.Stmts[:index]...)
	grown = append(grown, stmts...)
	grown = append(grown, b.Stmts[index:]...)
	b.Stmts = grown
}

// RemoveStmtsIf removes every statement in block for which predicate
// returns true, preserving the relative order of the rest.
func (f *Function) RemoveStmtsIf(block BlockId, predicate func(Stmt) bool) {
	b := f.Block(block)
	kept := b.Stmts[:0]
	for _, s := range b.Stmts {
		if !predicate(s) {
			kept = append(kept, s)
		}
	}
	b.Stmts = kept
}

// PhiCount returns the length of the contiguous phi prefix of block's
// statement list: the number of leading Define statements whose local is
// defined by a phi.
func (f *Function) PhiCount(block BlockId) int {
	b := f.Block(block)
	count := 0
	for _, s := range b.Stmts {
		if !s.IsPhiDefine(f) {
			break
		}
		count++
	}
	return count
}

// AppendPredecessor unconditionally appends pred to block's predecessor
// list. Duplicates are permitted and meaningful: a conditional branch whose
// two arms both target block contributes two entries.
func (f *Function) AppendPredecessor(block BlockId, pred BlockId) {
	b := f.Block(block)
	b.Predecessors = append(b.Predecessors, pred)
}

// ReplacePredecessor overwrites the first occurrence of old in block's
// predecessor list with next. Any remaining duplicates of old are left
// untouched, matching spec §4.2 — a later transformation may rely on being
// able to retarget one occurrence at a time.
func (f *Function) ReplacePredecessor(block BlockId, old, next BlockId) {
	b := f.Block(block)
	for i, p := range b.Predecessors {
		if p == old {
			b.Predecessors[i] = next
			return
		}
	}
}

// SetTerminator replaces block's terminator. The caller is responsible for
// updating the predecessor lists of any newly or no-longer targeted blocks
// (spec §4.2: "predecessor bookkeeping is caller-driven").
func (f *Function) SetTerminator(block BlockId, t Terminator) {
	b := f.Block(block)
	b.Terminator = t
}

// RemovePhi demotes local from a phi to an ordinary value in place: it
// overwrites local's defining rvalue with newValue (which must not itself
// be a phi) and rotates its Define statement out of block's phi prefix to
// immediately follow the remaining phis. This preserves local's SSA
// identity — callers holding a LocalId referencing it keep referencing the
// same value — while keeping "phis are a contiguous prefix" true.
func (f *Function) RemovePhi(block BlockId, local LocalId, newValue RValue) {
	if _, isPhi := newValue.(PhiRValue); isPhi {
		invariantf("ir: RemovePhi's replacement value must not itself be a phi")
	}

	b := f.Block(block)
	phiCount := f.PhiCount(block)

	removedAt := -1
	for i := 0; i < phiCount; i++ {
		if b.Stmts[i].Kind == StmtDefine && b.Stmts[i].Local == local {
			removedAt = i
			break
		}
	}
	if removedAt == -1 {
		invariantf("ir: RemovePhi called with a local that is not a phi in this block")
	}

	f.Local(local).Value = newValue

	// Rotate the statement at removedAt to sit just after the remaining
	// phis (i.e. to index phiCount-1, since one phi statement is leaving
	// the prefix).
	stmt := b.Stmts[removedAt]
	copy(b.Stmts[removedAt:phiCount-1], b.Stmts[removedAt+1:phiCount])
	b.Stmts[phiCount-1] = stmt
}
