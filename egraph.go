// Package egraph implements an e-graph: a data structure that compactly
// represents an exponentially large set of equivalent expression trees by
// sharing common subterms and grouping equivalent terms into equivalence
// classes (e-classes).
//
// The core provides hash-consed construction of term nodes over a
// caller-supplied data alphabet, union-based merging of e-classes with
// upward congruence closure, iteration over the nodes of an e-class with
// optional pattern filtering, and extraction of a minimum-cost
// representative term from each e-class under a caller-supplied cost
// function.
//
// The core is single-threaded and non-suspending: no method may be called
// concurrently on the same EGraph, merge may not be invoked from within an
// ongoing class iteration, and the core performs no I/O.
package egraph

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/benbjohnson/immutable"

	"github.com/cottand/egraph/internal/arena"
	"github.com/cottand/egraph/internal/log"
)

// Config carries construction-time options for an EGraph. Zero-valued
// fields are filled in with defaults by New/NewWithHasher.
type Config[D any] struct {
	// Hasher supplies equality and hashing for the Data alphabet. Required
	// unless the EGraph is built with New, which derives one automatically
	// for comparable D.
	Hasher immutable.Hasher[D]
	// SlabBytes sizes the node/down/use arenas (see internal/arena). Zero
	// selects arena.DefaultSlabBytes.
	SlabBytes int
	// HashconsBuckets sizes the hashcons's fixed bucket table. Zero selects
	// DefaultHashconsBuckets.
	HashconsBuckets int
	// Logger receives Debug-level diagnostics tagged with a "section"
	// attribute ("egraph/hashcons", "egraph/merge", "egraph/extract"). Nil
	// selects internal/log.DefaultLogger.
	Logger *slog.Logger
}

// Option mutates a Config; pass zero or more to New/NewWithHasher.
type Option[D any] func(*Config[D])

// WithSlabBytes overrides the arena slab size.
func WithSlabBytes[D any](n int) Option[D] {
	return func(c *Config[D]) { c.SlabBytes = n }
}

// WithHashconsBuckets overrides the hashcons bucket count.
func WithHashconsBuckets[D any](n int) Option[D] {
	return func(c *Config[D]) { c.HashconsBuckets = n }
}

// WithLogger overrides the diagnostic logger.
func WithLogger[D any](l *slog.Logger) Option[D] {
	return func(c *Config[D]) { c.Logger = l }
}

// WithHasher overrides the Data hasher. Needed with New only when the
// comparable-derived default hasher is not what's wanted (e.g. Data embeds
// a position field that should not participate in hashcons equality).
func WithHasher[D any](h immutable.Hasher[D]) Option[D] {
	return func(c *Config[D]) { c.Hasher = h }
}

// nodePtrHasher gives immutable.Map a pointer-identity Hasher for the roots
// set, keyed on each Node's monotonic id rather than its memory address so
// hashing never needs the unsafe package.
type nodePtrHasher[D any] struct{}

func (nodePtrHasher[D]) Hash(n *Node[D]) uint32 {
	return mixID(n.id)
}

func (nodePtrHasher[D]) Equal(a, b *Node[D]) bool {
	return a == b
}

// EGraph is the opaque e-graph value described by spec.md §6. It owns three
// arenas (node, down-ring, use-ring records), a hashcons, and the set of
// current class roots. It is not safe for concurrent use.
type EGraph[D any] struct {
	cfg Config[D]

	nodeArena *arena.Arena[Node[D]]
	downArena *arena.Arena[downLink[D]]
	useArena  *arena.Arena[useLink[D]]

	hc     *hashcons[D]
	roots  *immutable.Map[*Node[D], struct{}]
	nextID uint64

	logger *slog.Logger
}

func newEGraph[D any](cfg Config[D]) *EGraph[D] {
	if cfg.SlabBytes <= 0 {
		cfg.SlabBytes = arena.DefaultSlabBytes
	}
	if cfg.HashconsBuckets <= 0 {
		cfg.HashconsBuckets = DefaultHashconsBuckets
	}
	if cfg.Logger == nil {
		cfg.Logger = log.DefaultLogger
	}
	if cfg.Hasher == nil {
		panic("egraph: Config.Hasher is required")
	}
	return &EGraph[D]{
		cfg:       cfg,
		nodeArena: arena.New[Node[D]](cfg.SlabBytes),
		downArena: arena.New[downLink[D]](cfg.SlabBytes),
		useArena:  arena.New[useLink[D]](cfg.SlabBytes),
		hc:        newHashcons[D](cfg.Hasher, cfg.HashconsBuckets),
		roots:     immutable.NewMap[*Node[D], struct{}](nodePtrHasher[D]{}),
		logger:    cfg.Logger,
	}
}

// New creates an EGraph for a comparable Data alphabet, deriving a default
// Hasher from D's dynamic type the same way immutable.NewHasher does.
// Options may still override Hasher, e.g. to ignore fields that shouldn't
// participate in hashcons equality.
func New[D comparable](opts ...Option[D]) *EGraph[D] {
	var zero D
	cfg := Config[D]{Hasher: immutable.NewHasher(zero)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newEGraph(cfg)
}

// NewWithHasher creates an EGraph for a Data alphabet that need not be
// comparable (e.g. it contains a slice or map), given an explicit Hasher.
func NewWithHasher[D any](hasher immutable.Hasher[D], opts ...Option[D]) *EGraph[D] {
	cfg := Config[D]{Hasher: hasher}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newEGraph(cfg)
}

// Root returns the current root of n's e-class, performing union-find path
// compression along the way (spec.md §4.2).
func (g *EGraph[D]) Root(n *Node[D]) *Node[D] {
	root := n
	for root.up != nil {
		root = root.up
	}
	cur := n
	for cur.up != nil {
		next := cur.up
		cur.up = root
		cur = next
	}
	return root
}

// MakeLeaf constructs a childless node, equivalent to MakeNode(data, nil).
func (g *EGraph[D]) MakeLeaf(data D) *Node[D] {
	return g.MakeNode(data, nil)
}

// MakeNode implements spec.md §4.4.1. Every entry of children must
// currently be a root (a precondition violation panics, per §7); results of
// an earlier MakeNode/MakeLeaf or of Root satisfy this automatically.
//
// If an equal (data, children) node already exists, its current root is
// returned (hash-consing, invariant I4) — a previous merge may have demoted
// the hashconsed node itself, so the returned handle is always canonical.
// Otherwise a new node is allocated, spliced into its children's use rings,
// and inserted into both the hashcons and the roots set.
func (g *EGraph[D]) MakeNode(data D, children []*Node[D]) *Node[D] {
	for i, c := range children {
		if c.up != nil {
			panic(fmt.Sprintf("egraph: MakeNode precondition violated: child at index %d is not a root", i))
		}
	}

	if existing, ok := g.hc.lookup(data, children); ok {
		root := g.Root(existing)
		g.logger.Debug("hashcons hit", "section", "egraph/hashcons", "arity", len(children))
		return root
	}

	n := g.nodeArena.Alloc()
	n.id = g.nextID
	g.nextID++
	n.data = data
	n.children = append([]*Node[D](nil), children...)
	n.rank = 0
	n.up = nil
	n.uses = nil

	d := g.downArena.Alloc()
	d.node = n
	d.next = d
	n.down = d

	for i, c := range n.children {
		u := g.useArena.Alloc()
		u.parent = n
		u.slot = i
		u.next = u
		c.uses = spliceUseRing(c.uses, u)
	}

	g.hc.insert(n)
	g.roots = g.roots.Set(n, struct{}{})

	g.logger.Debug("made node", "section", "egraph/hashcons", "id", n.id, "arity", len(n.children))
	return n
}

// Roots iterates the current set of class roots, in implementation-defined
// order. Contains exactly the live e-class roots (spec.md §6).
func (g *EGraph[D]) Roots() iter.Seq[*Node[D]] {
	return func(yield func(*Node[D]) bool) {
		itr := g.roots.Iterator()
		for !itr.Done() {
			k, _, _ := itr.Next()
			if !yield(k) {
				return
			}
		}
	}
}

// NodeCount reports how many nodes have ever been allocated, including
// stale ones that are no longer in the hashcons.
func (g *EGraph[D]) NodeCount() int {
	return g.nodeArena.Len()
}

// ClassCount reports the number of currently live e-classes.
func (g *EGraph[D]) ClassCount() int {
	return g.roots.Len()
}
