package egraph

import "github.com/cottand/egraph/util"

// Merge unions a's and b's e-classes and closes the result under upward
// congruence (spec.md §4.4.2). After Merge returns, Root(a) == Root(b) and
// every congruent consequence has been reached.
func (g *EGraph[D]) Merge(a, b *Node[D]) {
	g.MergeBatch(util.NewPair(a, b))
}

// MergeBatch drains a worklist of pending pairs to fixpoint under upward
// congruence closure, returning whether any e-classes were actually merged.
// Processing order within one drain is an implementation detail (here:
// LIFO) and must not affect the terminal equivalence relation.
func (g *EGraph[D]) MergeBatch(pairs ...util.Pair[*Node[D], *Node[D]]) bool {
	var pending util.Stack[util.Pair[*Node[D], *Node[D]]]
	for _, p := range pairs {
		pending.Push(p)
	}

	changed := false
	for {
		pair, ok := pending.Pop()
		if !ok {
			break
		}
		a := g.Root(pair.Fst)
		b := g.Root(pair.Snd)
		if a == b {
			continue
		}

		// Choose the higher-ranked root; ties go to the second operand.
		winner, loser := b, a
		if a.rank > b.rank {
			winner, loser = a, b
		}

		loser.up = winner
		if loser.rank == winner.rank {
			winner.rank++
		}
		g.roots = g.roots.Delete(loser)
		changed = true

		winner.down = spliceDownRing(winner.down, loser.down)
		loser.down = nil

		loserUses := loser.uses
		loser.uses = nil
		var firstUse, lastUse *useLink[D]
		if loserUses != nil {
			firstUse = loserUses.next
			lastUse = loserUses
		}
		winner.uses = spliceUseRing(winner.uses, loserUses)

		g.logger.Debug("merged classes", "section", "egraph/merge", "winner", winner.id, "loser", loser.id)

		if firstUse == nil {
			continue
		}
		for use := firstUse; ; use = use.next {
			parent := use.parent
			if parent.inHashcons {
				g.hc.erase(parent)
				parent.children[use.slot] = winner
				if other, ok := g.hc.find(parent); ok {
					g.logger.Debug("upward congruence discovered", "section", "egraph/merge", "parent", parent.id, "other", other.id)
					pending.Push(util.NewPair(parent, other))
					// parent stays evicted: it is now a stale duplicate of other.
				} else {
					g.hc.insert(parent)
				}
			}
			if use == lastUse {
				break
			}
		}
	}

	return changed
}
