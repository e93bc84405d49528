package dom

import "errors"

var (
	// ErrHierarchy is returned when an insertion would produce an invalid tree.
	ErrHierarchy = errors.New("dom: hierarchy request error")

	// ErrNotFound is returned when a reference node is not a child.
	ErrNotFound = errors.New("dom: node not found")

	// ErrNotSupported is returned for operations invalid on a node kind.
	ErrNotSupported = errors.New("dom: operation not supported")

	// ErrShadowAttached is returned when an element already has a shadow root.
	ErrShadowAttached = errors.New("dom: shadow root already attached")

	// ErrAlreadyUpgraded is returned when an element already has a lifecycle.
	ErrAlreadyUpgraded = errors.New("dom: element already upgraded")
)

// canHaveChildren reports whether nodes of kind k accept children.
func canHaveChildren(k Kind) bool {
	switch k {
	case KindElement, KindFragment, KindShadowRoot, KindDocument:
		return true
	}
	return false
}

// AppendChild inserts child as the last child of n.
// A fragment is emptied into n instead.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertBefore(child, nil)
}

// Append appends every node in order, stopping at the first error.
func (n *Node) Append(children ...*Node) error {
	for _, c := range children {
		if err := n.AppendChild(c); err != nil {
			return err
		}
	}
	return nil
}

// InsertBefore inserts child before ref. A nil ref appends.
// If child is already in a tree it is moved: a connected child is
// disconnected from its old position before being connected again.
func (n *Node) InsertBefore(child, ref *Node) error {
	if child == nil || !canHaveChildren(n.Kind) {
		return ErrHierarchy
	}
	switch child.Kind {
	case KindDocument, KindShadowRoot:
		return ErrHierarchy
	}
	if child.isShadowIncludingAncestorOf(n) {
		return ErrHierarchy
	}
	if ref != nil && ref.parent != n {
		return ErrNotFound
	}
	if ref == child {
		ref = nextSibling(child)
	}

	if child.Kind == KindFragment {
		for _, c := range child.Children() {
			if err := n.InsertBefore(c, ref); err != nil {
				return err
			}
		}
		return nil
	}

	if child.parent != nil {
		child.parent.detach(child)
	}

	idx := len(n.children)
	if ref != nil {
		idx = indexOf(n.children, ref)
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	child.parent = n

	if n.IsConnected() {
		notify(child, true)
	}
	return nil
}

// RemoveChild removes child from n. A connected child receives
// Disconnected callbacks for its whole shadow-including subtree.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.parent != n {
		return ErrNotFound
	}
	n.detach(child)
	return nil
}

// Remove removes n from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.detach(n)
	}
}

// detach unlinks child and fires disconnect callbacks when it was connected.
func (n *Node) detach(child *Node) {
	wasConnected := child.IsConnected()
	idx := indexOf(n.children, child)
	n.children = append(n.children[:idx], n.children[idx+1:]...)
	child.parent = nil
	if wasConnected {
		notify(child, false)
	}
}

// notify fires lifecycle callbacks for root and its shadow-including
// descendants in tree order. The targets are collected first so callbacks
// may mutate the tree.
func notify(root *Node, connected bool) {
	var targets []Lifecycle
	root.Walk(func(n *Node) bool {
		if n.lifecycle != nil {
			targets = append(targets, n.lifecycle)
		}
		return true
	})
	for _, l := range targets {
		if connected {
			l.Connected()
		} else {
			l.Disconnected()
		}
	}
}

func indexOf(nodes []*Node, target *Node) int {
	for i, n := range nodes {
		if n == target {
			return i
		}
	}
	return -1
}

func nextSibling(n *Node) *Node {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.children
	idx := indexOf(siblings, n)
	if idx < 0 || idx+1 >= len(siblings) {
		return nil
	}
	return siblings[idx+1]
}
