package egraph

import (
	"fmt"

	"github.com/pkg/errors"
)

// IndexOutOfRangeError is returned by Node.At when the requested child slot
// is not within [0, Arity()). Per spec.md §7 this is the one misuse the
// core reports as a runtime error rather than a precondition panic: the
// index is frequently learned from elsewhere (a pattern match, a parsed
// term position) rather than asserted by the immediate caller.
type IndexOutOfRangeError struct {
	Index, Arity int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("egraph: child index %d out of range for node with arity %d", e.Index, e.Arity)
}

// At returns the child at index i, or an error wrapping *IndexOutOfRangeError
// (with a stack trace attached by pkg/errors) if i is out of range.
func (n *Node[D]) At(i int) (*Node[D], error) {
	if i < 0 || i >= len(n.children) {
		return nil, errors.WithStack(&IndexOutOfRangeError{Index: i, Arity: len(n.children)})
	}
	return n.children[i], nil
}
