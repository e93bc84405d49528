package vtest

import (
	"github.com/vango-dev/hybrids/pkg/dom"
	"github.com/vango-dev/hybrids/pkg/hybrid"
)

// Detach moves host into a new detached fragment, which disconnects it.
// The fragment is returned so the element can be reattached later.
func (h *Harness) Detach(host *hybrid.Host) *dom.Node {
	h.tb.Helper()
	frag := dom.NewFragment()
	h.append(frag, host.Node())
	return frag
}

// Reattach appends host under parent, or under the document when parent
// is nil.
func (h *Harness) Reattach(host *hybrid.Host, parent *dom.Node) {
	h.tb.Helper()
	if parent == nil {
		parent = h.doc
	}
	h.append(parent, host.Node())
}

// Move moves host under the element of another host.
func (h *Harness) Move(host, newParent *hybrid.Host) {
	h.tb.Helper()
	h.append(newParent.Node(), host.Node())
}

// Remove removes host from its parent.
func (h *Harness) Remove(host *hybrid.Host) {
	host.Node().Remove()
}
