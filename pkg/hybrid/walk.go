package hybrid

import (
	"iter"

	"github.com/vango-dev/hybrids/pkg/dom"
)

// structuralParent is the next node up: a shadow root continues at its
// host, every other node at its parent.
func structuralParent(n *dom.Node) *dom.Node {
	switch n.Kind {
	case dom.KindShadowRoot:
		return n.Host()
	default:
		return n.Parent()
	}
}

// Ancestors yields the element ancestors of n, nearest first. Shadow
// boundaries are transparent. The sequence ends at the document or at the
// root of a detached subtree and reflects the tree at iteration time.
func Ancestors(n *dom.Node) iter.Seq[*dom.Node] {
	return func(yield func(*dom.Node) bool) {
		if n == nil {
			return
		}
		for p := structuralParent(n); p != nil; p = structuralParent(p) {
			if p.Kind != dom.KindElement {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}
