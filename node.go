package egraph

import "slices"

// downLink is one entry in a class root's cyclic membership ring: every
// live node whose root currently resolves to that class, plus any stale
// ones that EClass.Iter has not yet unspliced. Only a root node's down pointer is meaningful; a non-root node's
// down field is unused once it loses a union.
type downLink[D any] struct {
	node *Node[D]
	next *downLink[D]
}

// useLink is one entry in a class root's cyclic use ring: a (parent, slot)
// pair recording that parent.children[slot] refers to this class. Only a
// root node's uses pointer is meaningful.
type useLink[D any] struct {
	parent *Node[D]
	slot   int
	next   *useLink[D]
}

// Node is a handle to one term-shaped occurrence inside an EGraph. Handles
// returned by MakeNode/MakeLeaf remain dereferenceable for the lifetime of
// the EGraph that produced them (see EGraph.Root to canonicalize a handle
// after merges).
type Node[D any] struct {
	id   uint64
	data D

	// children has fixed length, set at construction. Contents are
	// rewritten in place during congruence-driven merges, always from one
	// class root to another (invariant I1).
	children []*Node[D]

	// Union-find.
	rank int
	up   *Node[D] // nil iff this node is currently a root

	// Class-membership and use rings, meaningful only while this node is a
	// root.
	down *downLink[D]
	uses *useLink[D]

	// Hashcons linkage. inHashcons tracks whether this exact node struct is
	// the current occupant of its (data, children) bucket slot.
	hcPrev     *Node[D]
	hcNext     *Node[D]
	hcBucket   int
	inHashcons bool
}

// Data returns the value this node was constructed with. It never changes
// after construction.
func (n *Node[D]) Data() D {
	return n.data
}

// Arity returns the number of children this node was constructed with.
func (n *Node[D]) Arity() int {
	return len(n.children)
}

// Children returns a defensive copy of the node's current child handles.
// Per invariant I1 every entry is a root node at the time it is read, but a
// later merge can still demote one of them — callers holding on to a
// returned handle across a merge should re-canonicalize with EGraph.Root.
func (n *Node[D]) Children() []*Node[D] {
	return slices.Clone(n.children)
}

// IsRoot reports whether this handle currently is the root of its class.
// Equivalent to, but cheaper than, comparing the handle against EGraph.Root.
func (n *Node[D]) IsRoot() bool {
	return n.up == nil
}

func spliceDownRing[D any](anchor, inserted *downLink[D]) *downLink[D] {
	if inserted == nil {
		return anchor
	}
	if anchor == nil {
		return inserted
	}
	tmp := anchor.next
	anchor.next = inserted.next
	inserted.next = tmp
	return anchor
}

// spliceUseRing splices inserted (a ring, possibly a singleton) into anchor
// right after anchor itself, mirroring the "insert_uses" rule of the
// reference implementation: only the two outgoing links at the splice point
// change, so any range captured from inserted before the splice remains
// walkable via unmodified forward links.
func spliceUseRing[D any](anchor, inserted *useLink[D]) *useLink[D] {
	if inserted == nil {
		return anchor
	}
	if anchor == nil {
		return inserted
	}
	tmp := anchor.next
	anchor.next = inserted.next
	inserted.next = tmp
	return anchor
}
