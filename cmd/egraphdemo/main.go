// Command egraphdemo is a minimal worked example of the egraph package's
// public API. spec.md §1 treats example drivers as an external collaborator
// outside the core's scope, so this intentionally stays thin: build a
// handful of nodes, run a couple of merges, extract the cheapest term per
// class, and print what came out.
package main

import (
	"fmt"

	"github.com/cottand/egraph"
)

// kind is the Data alphabet: a plain string symbol, so egraph.New's
// comparable-derived default Hasher applies directly.
type kind = string

func main() {
	g := egraph.New[kind]()

	x := g.MakeLeaf("X")
	y := g.MakeLeaf("Y")
	a := g.MakeLeaf("A")
	b := g.MakeLeaf("B")

	fx := g.MakeNode("F", []*egraph.Node[kind]{x})
	fy := g.MakeNode("F", []*egraph.Node[kind]{y})

	g.Merge(fx, a)
	g.Merge(fy, b)

	fmt.Printf("before merging X and Y: root(A) == root(B): %v\n", g.Root(a) == g.Root(b))

	g.Merge(x, y)

	fmt.Printf("after merging X and Y: root(F(X)) == root(F(Y)): %v\n", g.Root(fx) == g.Root(fy))
	fmt.Printf("after merging X and Y: root(A) == root(B): %v\n", g.Root(a) == g.Root(b))

	reps := g.Extract()
	fmt.Printf("extracted %d representative terms across %d classes\n", len(reps), g.ClassCount())
	for class, rep := range reps {
		fmt.Printf("  class(%s) -> %v (arity %d)\n", class.Data(), rep.Data(), rep.Arity())
	}
}
