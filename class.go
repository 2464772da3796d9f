package egraph

import "iter"

// EClass is a handle to one e-class, identified by its current root. It is
// not a separate record — all observable e-class properties are read
// through the root (spec.md §3).
type EClass[D any] struct {
	graph *EGraph[D]
	root  *Node[D]
}

// ClassOf resolves n's current e-class.
func (g *EGraph[D]) ClassOf(n *Node[D]) EClass[D] {
	return EClass[D]{graph: g, root: g.Root(n)}
}

// Root returns the e-class's root node.
func (c EClass[D]) Root() *Node[D] {
	return c.root
}

// Iter traverses the down ring starting at the root's own down record,
// yielding each live node of the class exactly once (spec.md §4.4.3).
//
// The ring can also hold stale nodes: ones evicted from the hashcons
// because a structurally identical twin already occupied their key (see
// merge's congruence-discovery step). They are never reinserted and merge
// never removes them from the ring, so Iter skips them and, to amortize the
// cost of repeatedly walking over them, unsplices each one the first time
// it is encountered. The class root can itself be stale (a stale node that
// outranks its twin wins their union); it is skipped too, but stays in the
// ring because the ring is anchored at it.
func (c EClass[D]) Iter() iter.Seq[*Node[D]] {
	return func(yield func(*Node[D]) bool) {
		head := c.root.down
		if head == nil {
			return
		}
		lastLive := head
		cur := head
		for {
			next := cur.next
			if cur.node.inHashcons {
				lastLive = cur
				if !yield(cur.node) {
					return
				}
			} else if cur != head {
				lastLive.next = next
			}
			if next == head {
				return
			}
			cur = next
		}
	}
}

// Match restricts Iter to live nodes whose Data equals d, per the EGraph's
// Hasher.Equal.
func (c EClass[D]) Match(d D) iter.Seq[*Node[D]] {
	hasher := c.graph.cfg.Hasher
	return c.MatchFunc(func(nd D) bool { return hasher.Equal(nd, d) })
}

// MatchFunc restricts Iter to live nodes whose Data satisfies pred.
func (c EClass[D]) MatchFunc(pred func(D) bool) iter.Seq[*Node[D]] {
	return func(yield func(*Node[D]) bool) {
		for n := range c.Iter() {
			if pred(n.data) {
				if !yield(n) {
					return
				}
			}
		}
	}
}

// MatchKind restricts an EClass's Iter to live nodes whose Data maps, via
// kindOf, to want. This is the "kind equals K" form of spec.md §6's
// class_of(n).match(k); it is a free function rather than a method because
// Go forbids a method from introducing its own type parameter (K here),
// and K need not be related to D at all — e.g. D may be a rich struct and
// K the discriminant field it embeds.
func MatchKind[D any, K comparable](c EClass[D], kindOf func(D) K, want K) iter.Seq[*Node[D]] {
	return c.MatchFunc(func(d D) bool { return kindOf(d) == want })
}
