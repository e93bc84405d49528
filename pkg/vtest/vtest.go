package vtest

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/vango-dev/hybrids/pkg/dom"
	"github.com/vango-dev/hybrids/pkg/hybrid"
)

// Harness owns an isolated runtime and a document for one test.
type Harness struct {
	tb  testing.TB
	rt  *hybrid.Runtime
	doc *dom.Node

	named map[string]*dom.Node
}

// New creates a harness with a fresh runtime. Runtime logs are discarded
// unless opts supply a logger.
//
// Example:
//
//	h := vtest.New(t)
//	h.Define("my-element", hybrid.Props{"value": hybrid.Value(1)})
func New(tb testing.TB, opts ...hybrid.Option) *Harness {
	tb.Helper()
	opts = append([]hybrid.Option{
		hybrid.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return &Harness{
		tb:    tb,
		rt:    hybrid.NewRuntime(opts...),
		doc:   dom.NewDocument(),
		named: make(map[string]*dom.Node),
	}
}

// Runtime returns the harness runtime.
func (h *Harness) Runtime() *hybrid.Runtime {
	return h.rt
}

// Document returns the harness document.
func (h *Harness) Document() *dom.Node {
	return h.doc
}

// Define registers a definition, failing the test on error.
func (h *Harness) Define(tag string, props hybrid.Props) *hybrid.Definition {
	h.tb.Helper()
	def, err := h.rt.Define(tag, props)
	if err != nil {
		h.tb.Fatalf("Define(%q) error: %v", tag, err)
	}
	return def
}

// Tree describes an element and its children for Build and Mount.
type Tree struct {
	tag      string
	name     string
	children []*Tree
	shadow   []*Tree
	hasRoot  bool
}

// El describes an element with the given children.
func El(tag string, children ...*Tree) *Tree {
	return &Tree{tag: tag, children: children}
}

// Shadow attaches a shadow root holding children.
func (t *Tree) Shadow(children ...*Tree) *Tree {
	t.hasRoot = true
	t.shadow = append(t.shadow, children...)
	return t
}

// As names the element for Host and Node lookups.
func (t *Tree) As(name string) *Tree {
	t.name = name
	return t
}

// Build creates the described elements without connecting them. Defined
// tags are created through the runtime; others are plain elements.
func (h *Harness) Build(t *Tree) *dom.Node {
	h.tb.Helper()
	var n *dom.Node
	if _, ok := h.rt.Lookup(t.tag); ok {
		host, err := h.rt.Create(t.tag)
		if err != nil {
			h.tb.Fatalf("Create(%q) error: %v", t.tag, err)
		}
		n = host.Node()
	} else {
		n = dom.NewElement(t.tag)
	}
	if t.name != "" {
		h.named[t.name] = n
	}
	if t.hasRoot {
		root, err := n.AttachShadow()
		if err != nil {
			h.tb.Fatalf("AttachShadow(%s) error: %v", n, err)
		}
		for _, c := range t.shadow {
			h.append(root, h.Build(c))
		}
	}
	for _, c := range t.children {
		h.append(n, h.Build(c))
	}
	return n
}

// Mount builds each tree, appends it to the document and drains the loop.
func (h *Harness) Mount(trees ...*Tree) []*dom.Node {
	h.tb.Helper()
	nodes := make([]*dom.Node, 0, len(trees))
	for _, t := range trees {
		nodes = append(nodes, h.Build(t))
	}
	h.Turn(func() {
		for _, n := range nodes {
			h.append(h.doc, n)
		}
	})
	return nodes
}

// Node returns the element named with As.
func (h *Harness) Node(name string) *dom.Node {
	h.tb.Helper()
	n, ok := h.named[name]
	if !ok {
		h.tb.Fatalf("no element named %q", name)
	}
	return n
}

// Host returns the host of the element named with As.
func (h *Harness) Host(name string) *hybrid.Host {
	h.tb.Helper()
	host := hybrid.HostOf(h.Node(name))
	if host == nil {
		h.tb.Fatalf("element %q is not a defined element", name)
	}
	return host
}

// Tick drains pending microtasks, flushing invalidations.
func (h *Harness) Tick() {
	h.rt.Settle()
}

// Turn runs fn and then drains pending microtasks.
func (h *Harness) Turn(fn func()) {
	h.rt.Turn(fn)
}

// Get reads a property, failing the test on error.
func (h *Harness) Get(host *hybrid.Host, name string) any {
	h.tb.Helper()
	v, err := host.Get(name)
	if err != nil {
		h.tb.Fatalf("%s.Get(%q) error: %v", host, name, err)
	}
	return v
}

// Set writes a property, failing the test on error.
func (h *Harness) Set(host *hybrid.Host, name string, value any) {
	h.tb.Helper()
	if err := host.Set(name, value); err != nil {
		h.tb.Fatalf("%s.Set(%q) error: %v", host, name, err)
	}
}

// ExpectParent asserts the "parent" link of host.
func (h *Harness) ExpectParent(host, want *hybrid.Host) {
	h.tb.Helper()
	if got := host.Parent(); got != want {
		h.tb.Errorf("%s.Parent() = %v, want %v", host, got, want)
	}
}

// ExpectValue asserts a property value.
func (h *Harness) ExpectValue(host *hybrid.Host, name string, want any) {
	h.tb.Helper()
	if got := h.Get(host, name); !reflect.DeepEqual(got, want) {
		h.tb.Errorf("%s.%s = %#v, want %#v", host, name, got, want)
	}
}

// ExpectEvents asserts how many "@invalidate" events rec saw on host.
func (h *Harness) ExpectEvents(rec *Recorder, host *hybrid.Host, want int) {
	h.tb.Helper()
	if got := rec.Count(host); got != want {
		h.tb.Errorf("%s received %d events, want %d", host, got, want)
	}
}

func (h *Harness) append(parent, child *dom.Node) {
	h.tb.Helper()
	if err := parent.AppendChild(child); err != nil {
		h.tb.Fatalf("AppendChild(%s, %s) error: %v", parent, child, err)
	}
}
