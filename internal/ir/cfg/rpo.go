// Package cfg implements the control-flow analyses and transformations that
// sit on top of the entity store and value model in internal/ir: reverse
// postorder traversal, the dominator tree, critical-edge splitting, and
// liveness. Each is a pure function (or lazily-computed read-only view) of
// a *ir.Function; none of them mutate the function except SplitCriticalEdges,
// which is explicit about doing so.
package cfg

import (
	"github.com/sirupsen/logrus"

	"github.com/tiro-lang/tiro/internal/ir"
)

// ReversePostorder computes block ids in an order where every block appears
// before its successors, with loop back-edges as the only exception. The
// entry block is always first; unreachable blocks never appear.
//
// The vector is computed once on first use of Order and memoized — callers
// that only need the vector should use ReversePostorder directly, this
// struct exists to let a caller reuse the same traversal across multiple
// analyses built from it without recomputing.
type ReversePostorderTraversal struct {
	fn    *ir.Function
	order []ir.BlockId
}

// NewReversePostorderTraversal builds a traversal rooted at fn.Entry(). The
// postorder vector is computed lazily on the first call to Order.
func NewReversePostorderTraversal(fn *ir.Function) *ReversePostorderTraversal {
	return &ReversePostorderTraversal{fn: fn}
}

// Order returns the reverse postorder block sequence, computing it on first
// use.
func (t *ReversePostorderTraversal) Order() []ir.BlockId {
	if t.order == nil {
		t.order = ReversePostorder(t.fn)
	}
	return t.order
}

// ReversePostorder computes fn's reverse postorder block sequence directly.
// Implemented as an iterative depth-first search that pushes each block onto
// a finished stack the moment all of its successors have been visited
// (postorder), then reverses the result.
func ReversePostorder(fn *ir.Function) []ir.BlockId {
	if fn.NumBlocks() == 0 {
		return nil
	}

	visited := make([]bool, fn.NumBlocks())
	var postorder []ir.BlockId

	type frame struct {
		id   ir.BlockId
		succ []ir.BlockId
		next int
	}

	start := fn.Entry()
	visited[start] = true
	stack := []frame{{id: start, succ: ir.Successors(fn.Block(start).Terminator)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.succ) {
			next := top.succ[top.next]
			top.next++
			if !visited[next] {
				visited[next] = true
				stack = append(stack, frame{id: next, succ: ir.Successors(fn.Block(next).Terminator)})
			}
			continue
		}
		postorder = append(postorder, top.id)
		stack = stack[:len(stack)-1]
	}

	rpo := make([]ir.BlockId, len(postorder))
	for i, id := range postorder {
		rpo[len(postorder)-1-i] = id
	}
	return rpo
}

var rpoLogger = logrus.StandardLogger()

// SetLogger overrides the logger used for debug-level tracing in this
// package (dominator-tree iteration counts, critical-edge splits). Intended
// for tests and for hosts that want traversal/analysis tracing routed to
// their own logrus instance; the package defaults to the standard logger.
func SetLogger(l *logrus.Logger) {
	rpoLogger = l
}
