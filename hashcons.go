package egraph

import "github.com/benbjohnson/immutable"

// DefaultHashconsBuckets is the nominal bucket count spec.md §4.3 calls out
// for the reference implementation. This implementation does not resize
// (see DESIGN.md's open question decisions); callers expecting many distinct
// (data, children) keys should pass a larger HashconsBuckets via Config.
const DefaultHashconsBuckets = 1024

// hashcons is the open-hashed, chained-bucket table keyed by (data,
// child-root-identities) described in spec.md §4.3. Buckets are doubly
// linked through each Node's hcPrev/hcNext fields so erase is O(1) without
// rescanning the chain, the Go-idiomatic analogue of the reference
// implementation's pointer-to-pointer prev_bucket trick.
type hashcons[D any] struct {
	hasher  immutable.Hasher[D]
	buckets []*Node[D]
}

func newHashcons[D any](hasher immutable.Hasher[D], nBuckets int) *hashcons[D] {
	if nBuckets <= 0 {
		nBuckets = DefaultHashconsBuckets
	}
	return &hashcons[D]{
		hasher:  hasher,
		buckets: make([]*Node[D], nBuckets),
	}
}

// mixID folds a node id into a well-distributed 32-bit value (splitmix64's
// finalizer), used instead of hashing raw pointers so the hashcons never
// needs the unsafe package.
func mixID(id uint64) uint32 {
	x := id
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x = x ^ (x >> 31)
	return uint32(x)
}

func (h *hashcons[D]) bucketIndex(data D, children []*Node[D]) int {
	sum := h.hasher.Hash(data)
	sum ^= uint32(len(children))*2654435761 + 0x9e3779b9
	for _, c := range children {
		sum ^= mixID(c.id)
		sum = (sum << 13) | (sum >> 19)
		sum *= 0x85ebca6b
	}
	return int(sum % uint32(len(h.buckets)))
}

func equalChildren[D any](a, b []*Node[D]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// lookup implements spec.md §4.3's lookup(data, children): a linear scan of
// the bucket's chain comparing both data and child-identity sequence.
func (h *hashcons[D]) lookup(data D, children []*Node[D]) (*Node[D], bool) {
	idx := h.bucketIndex(data, children)
	for n := h.buckets[idx]; n != nil; n = n.hcNext {
		if len(n.children) == len(children) && h.hasher.Equal(n.data, data) && equalChildren(n.children, children) {
			return n, true
		}
	}
	return nil, false
}

// find re-derives a node's own bucket from its current data/children and
// looks for a (possibly different) occupant of that key — used by merge's
// congruence check after a child slot has been rewritten.
func (h *hashcons[D]) find(n *Node[D]) (*Node[D], bool) {
	return h.lookup(n.data, n.children)
}

// insert links node into the front of its bucket. Precondition: node is not
// currently in the hashcons.
func (h *hashcons[D]) insert(n *Node[D]) {
	idx := h.bucketIndex(n.data, n.children)
	n.hcBucket = idx
	n.hcPrev = nil
	n.hcNext = h.buckets[idx]
	if h.buckets[idx] != nil {
		h.buckets[idx].hcPrev = n
	}
	h.buckets[idx] = n
	n.inHashcons = true
}

// erase unlinks node from the hashcons. Precondition: node is currently in
// the hashcons.
func (h *hashcons[D]) erase(n *Node[D]) {
	if n.hcPrev != nil {
		n.hcPrev.hcNext = n.hcNext
	} else {
		h.buckets[n.hcBucket] = n.hcNext
	}
	if n.hcNext != nil {
		n.hcNext.hcPrev = n.hcPrev
	}
	n.hcPrev = nil
	n.hcNext = nil
	n.inHashcons = false
}
