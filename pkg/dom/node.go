package dom

import "strings"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement    Kind = iota // <div>, <child-tag>, ...
	KindText                   // Plain text node
	KindFragment               // Detached container
	KindShadowRoot             // Shadow tree root attached to an element
	KindDocument               // Root of the connected tree
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindShadowRoot:
		return "ShadowRoot"
	case KindDocument:
		return "Document"
	default:
		return "Unknown"
	}
}

// Lifecycle receives connect and disconnect callbacks for an element.
type Lifecycle interface {
	// Connected is called after the element became part of a document.
	Connected()

	// Disconnected is called after the element left its document.
	Disconnected()
}

// Node is a node of the host tree.
type Node struct {
	Kind Kind   // Node type
	Tag  string // Element tag name, lowercase
	Text string // For KindText

	parent   *Node
	children []*Node

	// host is the element a shadow root is attached to.
	host *Node
	// shadow is the shadow root attached to an element.
	shadow *Node

	lifecycle Lifecycle
	listeners map[string][]*listener
	nextID    uint64
}

// NewDocument creates an empty document.
func NewDocument() *Node {
	return &Node{Kind: KindDocument}
}

// NewElement creates a detached element.
func NewElement(tag string) *Node {
	return &Node{Kind: KindElement, Tag: strings.ToLower(tag)}
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// NewFragment creates an empty document fragment.
func NewFragment() *Node {
	return &Node{Kind: KindFragment}
}

// Parent returns the structural parent, or nil. A shadow root has no
// structural parent; use Host to cross the boundary.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Host returns the element a shadow root is attached to.
// It is nil for every other kind.
func (n *Node) Host() *Node {
	return n.host
}

// ShadowRoot returns the shadow root attached to an element, or nil.
func (n *Node) ShadowRoot() *Node {
	return n.shadow
}

// AttachShadow attaches a new shadow root to an element.
func (n *Node) AttachShadow() (*Node, error) {
	if n.Kind != KindElement {
		return nil, ErrNotSupported
	}
	if n.shadow != nil {
		return nil, ErrShadowAttached
	}
	n.shadow = &Node{Kind: KindShadowRoot, host: n}
	return n.shadow, nil
}

// Root returns the root of the node's tree without crossing shadow
// boundaries: a document, fragment, shadow root or detached node.
func (n *Node) Root() *Node {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// composedParent is the parent in the shadow-including tree.
func (n *Node) composedParent() *Node {
	if n.Kind == KindShadowRoot {
		return n.host
	}
	return n.parent
}

// IsConnected reports whether the node's shadow-including root is a document.
func (n *Node) IsConnected() bool {
	root := n
	for p := root.composedParent(); p != nil; p = root.composedParent() {
		root = p
	}
	return root.Kind == KindDocument
}

// isShadowIncludingAncestorOf reports whether n is other or one of its
// shadow-including ancestors.
func (n *Node) isShadowIncludingAncestorOf(other *Node) bool {
	for cur := other; cur != nil; cur = cur.composedParent() {
		if cur == n {
			return true
		}
	}
	return false
}

// Walk visits n and its shadow-including descendants in tree order:
// an element, then its shadow tree, then its children.
// Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	if n.shadow != nil {
		n.shadow.Walk(fn)
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}

// Upgrade attaches a lifecycle to an element. When the element is already
// connected, Connected is called immediately.
func (n *Node) Upgrade(l Lifecycle) error {
	if n.Kind != KindElement {
		return ErrNotSupported
	}
	if n.lifecycle != nil {
		return ErrAlreadyUpgraded
	}
	n.lifecycle = l
	if n.IsConnected() {
		l.Connected()
	}
	return nil
}

// Upgraded returns the lifecycle attached with Upgrade, or nil.
func (n *Node) Upgraded() Lifecycle {
	return n.lifecycle
}

// String renders the node as a short tag-like label.
func (n *Node) String() string {
	switch n.Kind {
	case KindElement:
		return "<" + n.Tag + ">"
	case KindText:
		return "#text"
	case KindFragment:
		return "#document-fragment"
	case KindShadowRoot:
		return "#shadow-root"
	case KindDocument:
		return "#document"
	default:
		return "#unknown"
	}
}
