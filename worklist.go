package egraph

import "github.com/cottand/egraph/util"

// Worklist accumulates candidate equalities discovered by a rewrite driver
// (pattern matches, simplification rules) so they can be drained into a
// single MergeBatch call instead of merging one pair at a time. This is
// the concrete type behind spec.md §6's "Pattern/rewrite driver: ...
// accumulates merge candidates into a worklist, and calls merge_batch until
// changed == false".
type Worklist[D any] struct {
	pending util.Stack[util.Pair[*Node[D], *Node[D]]]
}

// NewWorklist creates an empty Worklist.
func NewWorklist[D any]() *Worklist[D] {
	return &Worklist[D]{}
}

// Add queues a candidate pair for the next Drain.
func (w *Worklist[D]) Add(a, b *Node[D]) {
	w.pending.Push(util.NewPair(a, b))
}

// Pending reports how many pairs are queued.
func (w *Worklist[D]) Pending() int {
	return w.pending.Len()
}

// Drain hands every queued pair to g.MergeBatch in one call and empties the
// worklist, returning whether anything changed.
func (w *Worklist[D]) Drain(g *EGraph[D]) bool {
	return g.MergeBatch(w.pending.PopAll()...)
}
