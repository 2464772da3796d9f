package egraph

import "container/heap"

// CostFunc computes a node's own cost given the already-resolved costs of
// each of its children's e-classes. It must be strictly positive and
// strictly greater than every entry of childCosts (spec.md §4.4.4's
// monotonicity requirement) for Extract's result to be well-defined.
type CostFunc[D any] func(data D, childCosts []int) int

// DefaultCost is "one per node": minimum term size. Every node costs 1 plus
// the sum of its children's resolved costs.
func DefaultCost[D any](_ D, childCosts []int) int {
	total := 1
	for _, c := range childCosts {
		total += c
	}
	return total
}

// PerDataCost builds a CostFunc from a per-node cost that ignores children;
// the recursive sum over children is added automatically.
func PerDataCost[D any](dataCost func(D) int) CostFunc[D] {
	return func(data D, childCosts []int) int {
		total := dataCost(data)
		for _, c := range childCosts {
			total += c
		}
		return total
	}
}

// extractItem is a priority-queue entry: a candidate cost for becoming the
// representative of class, achieved by node.
type extractItem[D any] struct {
	class *Node[D]
	cost  int
	node  *Node[D]
}

type extractHeap[D any] []*extractItem[D]

func (h extractHeap[D]) Len() int            { return len(h) }
func (h extractHeap[D]) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h extractHeap[D]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *extractHeap[D]) Push(x any)         { *h = append(*h, x.(*extractItem[D])) }
func (h *extractHeap[D]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Extract is ExtractWith(DefaultCost[D]): the minimum term-size
// representative for every class.
func (g *EGraph[D]) Extract() map[*Node[D]]*Node[D] {
	return g.ExtractWith(DefaultCost[D])
}

// ExtractWith implements spec.md §4.4.4's Dijkstra-style bottom-up
// extraction: for every e-class root, a representative node minimizing
//
//	cost(n) = node_cost(n) + sum(cost(representative(child_class)))
//
// Extraction is read-only; merge must not be called while a caller is
// still consuming the returned map's Node handles' Children if it intends
// to re-walk representative chains, since a subsequent merge can change
// which node is a child's current root.
func (g *EGraph[D]) ExtractWith(cost CostFunc[D]) map[*Node[D]]*Node[D] {
	h := &extractHeap[D]{}
	bestCost := make(map[*Node[D]]int)
	bestNode := make(map[*Node[D]]*Node[D])
	settled := make(map[*Node[D]]bool)
	pending := make(map[*Node[D]]int)

	relax := func(class *Node[D], c int, node *Node[D]) {
		if cur, ok := bestCost[class]; ok && cur <= c {
			return
		}
		bestCost[class] = c
		bestNode[class] = node
		heap.Push(h, &extractItem[D]{class: class, cost: c, node: node})
	}

	for n := range g.nodeArena.All() {
		if !n.inHashcons || len(n.children) != 0 {
			continue
		}
		relax(g.Root(n), cost(n.data, nil), n)
	}

	for h.Len() > 0 {
		it := heap.Pop(h).(*extractItem[D])
		class := it.class
		if settled[class] || bestCost[class] != it.cost {
			continue // stale heap entry, superseded by a cheaper relax
		}
		settled[class] = true
		g.logger.Debug("settled class", "section", "egraph/extract", "class", class.id, "cost", it.cost)

		u := class.uses
		if u == nil {
			continue
		}
		for use := u; ; use = use.next {
			parent := use.parent
			if parent.inHashcons {
				if _, ok := pending[parent]; !ok {
					pending[parent] = len(parent.children)
				}
				pending[parent]--
				if pending[parent] == 0 {
					childCosts := make([]int, len(parent.children))
					ready := true
					for i, c := range parent.children {
						cc, ok := bestCost[g.Root(c)]
						if !ok {
							ready = false
							break
						}
						childCosts[i] = cc
					}
					if ready {
						relax(g.Root(parent), cost(parent.data, childCosts), parent)
					}
				}
			}
			if use.next == u {
				break
			}
		}
	}

	result := make(map[*Node[D]]*Node[D], len(settled))
	for class := range settled {
		result[class] = bestNode[class]
	}
	return result
}
