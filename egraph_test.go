package egraph_test

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottand/egraph"
	"github.com/cottand/egraph/util"
)

func leaf(t *testing.T, g *egraph.EGraph[string], s string) *egraph.Node[string] {
	t.Helper()
	return g.MakeLeaf(s)
}

// Scenario 1: hashcons dedup.
func TestHashconsDedup(t *testing.T) {
	g := egraph.New[string]()

	x1 := leaf(t, g, "X")
	x2 := leaf(t, g, "X")
	assert.Same(t, x1, x2, "two leaves built from the same data must hashcons to the same node")

	y := leaf(t, g, "Y")

	fx1 := g.MakeNode("F", []*egraph.Node[string]{x1})
	fx2 := g.MakeNode("F", []*egraph.Node[string]{x1})
	assert.Same(t, fx1, fx2, "F(X) built twice must coincide")

	fy := g.MakeNode("F", []*egraph.Node[string]{y})
	assert.NotEqual(t, fx1, fy, "F(X) and F(Y) must not coincide")

	gx := g.MakeNode("G", []*egraph.Node[string]{x1})
	assert.NotEqual(t, fx1, gx, "F(X) and G(X) must not coincide")

	z := leaf(t, g, "Z")
	hxy1 := g.MakeNode("H", []*egraph.Node[string]{x1, z})
	hxy2 := g.MakeNode("H", []*egraph.Node[string]{x1, z})
	assert.Same(t, hxy1, hxy2, "H(X,Z) built twice must coincide")

	hx := g.MakeNode("H", []*egraph.Node[string]{x1})
	assert.NotEqual(t, hxy1, hx, "H(X,Z) and H(X) must not coincide")
}

// Scenario 2: transitivity.
func TestMergeTransitivity(t *testing.T) {
	g := egraph.New[string]()
	x := leaf(t, g, "X")
	y := leaf(t, g, "Y")
	z := leaf(t, g, "Z")

	g.Merge(x, y)
	assert.Equal(t, g.Root(x), g.Root(y))

	g.Merge(y, z)
	assert.Equal(t, g.Root(x), g.Root(y))
	assert.Equal(t, g.Root(y), g.Root(z))
	assert.Equal(t, g.Root(x), g.Root(z))
}

// Scenario 3: congruence discovered via merging before the parents exist.
func TestCongruenceMergeBefore(t *testing.T) {
	g := egraph.New[string]()
	x := leaf(t, g, "X")
	y := leaf(t, g, "Y")
	a := leaf(t, g, "A")
	b := leaf(t, g, "B")

	g.Merge(x, y)

	// MakeNode requires root children, so canonicalize the merged leaves first.
	fx := g.MakeNode("F", []*egraph.Node[string]{g.Root(x)})
	fy := g.MakeNode("F", []*egraph.Node[string]{g.Root(y)})
	assert.Same(t, fx, fy, "F(X) and F(Y) must coincide once X and Y are merged before either is built")

	g.Merge(fx, a)
	g.Merge(fy, b)
	assert.Equal(t, g.Root(a), g.Root(b), "A and B must merge because F(X) == F(Y)")
}

// Scenario 4: congruence discovered after the parents already exist and
// have been separately merged with distinct classes.
func TestCongruenceMergeAfter(t *testing.T) {
	g := egraph.New[string]()
	x := leaf(t, g, "X")
	y := leaf(t, g, "Y")
	a := leaf(t, g, "A")
	b := leaf(t, g, "B")

	fx := g.MakeNode("F", []*egraph.Node[string]{x})
	fy := g.MakeNode("F", []*egraph.Node[string]{y})
	require.NotEqual(t, fx, fy)

	g.Merge(fx, a)
	g.Merge(fy, b)
	require.NotEqual(t, g.Root(a), g.Root(b))

	g.Merge(x, y)

	assert.Equal(t, g.Root(fx), g.Root(fy), "merging X and Y must propagate to F(X) == F(Y)")
	assert.Equal(t, g.Root(a), g.Root(b), "merging X and Y must propagate up through F to A == B")
}

// Scenario 5: two-level congruence propagation.
func TestTwoLevelCongruence(t *testing.T) {
	g := egraph.New[string]()
	x := leaf(t, g, "X")
	y := leaf(t, g, "Y")
	a := leaf(t, g, "A")
	b := leaf(t, g, "B")

	fx := g.MakeNode("F", []*egraph.Node[string]{x})
	fy := g.MakeNode("F", []*egraph.Node[string]{y})
	gfx := g.MakeNode("G", []*egraph.Node[string]{fx})
	gfy := g.MakeNode("G", []*egraph.Node[string]{fy})

	g.Merge(gfx, a)
	g.Merge(gfy, b)

	g.Merge(x, y)

	assert.Equal(t, g.Root(gfx), g.Root(gfy), "G(F(X)) == G(F(Y)) must follow from X == Y")
	assert.Equal(t, g.Root(a), g.Root(b), "A == B must follow transitively through two congruence levels")
}

// Scenario 6: match iteration counts are independent of which node in the
// class the query starts from.
func TestMatchIterationCounts(t *testing.T) {
	g := egraph.New[string]()
	x := leaf(t, g, "X")
	y := leaf(t, g, "Y")

	a := g.MakeNode("F", []*egraph.Node[string]{x})
	b := g.MakeNode("F", []*egraph.Node[string]{y})
	c := g.MakeNode("G", []*egraph.Node[string]{x})

	g.Merge(a, b)
	g.Merge(a, c)

	for _, start := range []*egraph.Node[string]{a, b, c} {
		class := g.ClassOf(start)
		assert.Len(t, countAll(class.Match("F")), 2, "match(F) must be 2 regardless of query node")
		assert.Len(t, countAll(class.Match("G")), 1, "match(G) must be 1 regardless of query node")
		assert.Len(t, countAll(class.Match("X")), 0, "match(X) must be 0: X is never itself a data tag here")
	}
}

func countAll(seq iter.Seq[*egraph.Node[string]]) []*egraph.Node[string] {
	var out []*egraph.Node[string]
	for n := range seq {
		out = append(out, n)
	}
	return out
}

// P1: hashcons idempotence.
func TestHashconsIdempotence(t *testing.T) {
	g := egraph.New[string]()
	x := leaf(t, g, "X")

	a := g.MakeNode("F", []*egraph.Node[string]{x})
	b := g.MakeNode("F", []*egraph.Node[string]{x})
	assert.Equal(t, g.Root(a), g.Root(b))
}

// P2: equivalence (reflexive, symmetric, transitive) after a sequence of merges.
func TestEquivalenceProperties(t *testing.T) {
	g := egraph.New[string]()
	x := leaf(t, g, "X")
	y := leaf(t, g, "Y")
	z := leaf(t, g, "Z")

	assert.Equal(t, g.Root(x), g.Root(x), "reflexivity")

	g.Merge(x, y)
	assert.Equal(t, g.Root(y), g.Root(x), "symmetry")

	g.Merge(y, z)
	assert.Equal(t, g.Root(x), g.Root(z), "transitivity")
}

// Round-trip laws.
func TestRootIsIdempotent(t *testing.T) {
	g := egraph.New[string]()
	x := leaf(t, g, "X")
	y := leaf(t, g, "Y")
	g.Merge(x, y)

	r := g.Root(x)
	assert.Equal(t, r, g.Root(r))
}

func TestSecondIdenticalMergeIsNoOp(t *testing.T) {
	g := egraph.New[string]()
	x := leaf(t, g, "X")
	y := leaf(t, g, "Y")

	assert.True(t, g.MergeBatch(util.NewPair(x, y)))
	assert.False(t, g.MergeBatch(util.NewPair(x, y)), "merging an already-equal pair again must report no change")
}

// P6: handle stability — an old handle remains dereferenceable, and usable
// as a query root, across merges that demote it.
func TestHandleStabilityAcrossMerge(t *testing.T) {
	g := egraph.New[string]()
	x := leaf(t, g, "X")
	y := leaf(t, g, "Y")

	g.Merge(x, y)

	assert.Equal(t, "X", x.Data())
	assert.Equal(t, "Y", y.Data())
	assert.Equal(t, g.Root(x), g.Root(y))
}

func TestSelfMergeIsNoOp(t *testing.T) {
	g := egraph.New[string]()
	x := leaf(t, g, "X")
	assert.False(t, g.MergeBatch(util.NewPair(x, x)))
}
