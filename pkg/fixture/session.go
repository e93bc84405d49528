package fixture

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"sort"
	"strings"

	herrors "github.com/vango-dev/hybrids/internal/errors"
	"github.com/vango-dev/hybrids/pkg/dom"
	"github.com/vango-dev/hybrids/pkg/hybrid"
)

// Event is an "@invalidate" notification observed while running.
type Event struct {
	// Step is the 1-based step during which the notification was
	// dispatched, or 0 for the initial mount.
	Step int
	ID   string
	Tag  string
	Host uint64
}

// String formats the event for the CLI.
func (e Event) String() string {
	label := e.ID
	if label == "" {
		label = fmt.Sprintf("#%d", e.Host)
	}
	return fmt.Sprintf("step %d: %s <%s> %s", e.Step, hybrid.EventInvalidate, e.Tag, label)
}

// Result summarizes a run.
type Result struct {
	Steps  int
	Events []Event
}

// Session is a fixture mounted into a runtime.
type Session struct {
	fx  *Fixture
	rt  *hybrid.Runtime
	doc *dom.Node

	nodes map[string]*dom.Node
	ids   map[*hybrid.Host]string
	hosts []*hybrid.Host

	step     int
	events   []Event
	lastTick map[string]int
	handlers []func(Event)
}

// NewSession defines the fixture's elements in a new runtime and mounts
// its tree. The mount is flushed before NewSession returns.
func NewSession(fx *Fixture, opts ...hybrid.Option) (*Session, error) {
	s := &Session{
		fx:       fx,
		rt:       hybrid.NewRuntime(opts...),
		doc:      dom.NewDocument(),
		nodes:    make(map[string]*dom.Node),
		ids:      make(map[*hybrid.Host]string),
		lastTick: make(map[string]int),
	}
	if err := s.define(); err != nil {
		return nil, err
	}
	var roots []*dom.Node
	for _, n := range fx.Tree {
		node, err := s.build(n)
		if err != nil {
			return nil, err
		}
		roots = append(roots, node)
	}
	var mountErr error
	s.rt.Turn(func() {
		mountErr = s.doc.Append(roots...)
	})
	if mountErr != nil {
		return nil, herrors.New("E140").WithDetail("mount").Wrap(mountErr)
	}
	return s, nil
}

// Runtime returns the session runtime.
func (s *Session) Runtime() *hybrid.Runtime {
	return s.rt
}

// Document returns the session document.
func (s *Session) Document() *dom.Node {
	return s.doc
}

// Host returns the host of the element with the given id.
func (s *Session) Host(id string) *hybrid.Host {
	return hybrid.HostOf(s.nodes[id])
}

// Hosts returns the defined elements of the tree in build order.
func (s *Session) Hosts() []*hybrid.Host {
	return slices.Clone(s.hosts)
}

// ID returns the fixture id of h, or "".
func (s *Session) ID(h *hybrid.Host) string {
	return s.ids[h]
}

// OnEvent registers fn to be called for every later notification.
// Notifications of the initial mount are only available from Events.
func (s *Session) OnEvent(fn func(Event)) {
	s.handlers = append(s.handlers, fn)
}

// Events returns every notification seen so far.
func (s *Session) Events() []Event {
	return slices.Clone(s.events)
}

func (s *Session) define() error {
	tags := make([]string, 0, len(s.fx.Definitions))
	for tag := range s.fx.Definitions {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		props := make(hybrid.Props)
		for name, p := range s.fx.Definitions[tag] {
			props[name] = descriptor(p)
		}
		if _, err := s.rt.Define(tag, props); err != nil {
			return herrors.New("E140").WithDetailf("definition <%s>", tag).Wrap(err)
		}
	}
	return nil
}

func descriptor(p PropertySpec) hybrid.Descriptor {
	switch {
	case len(p.Parent.Tags) == 1:
		return hybrid.Parent(p.Parent.Tags[0])
	case len(p.Parent.Tags) > 1:
		tags := p.Parent.Tags
		return hybrid.Parent(func(d *hybrid.Definition) bool {
			return slices.Contains(tags, d.Tag)
		})
	case p.template != nil:
		tpl := p.template
		return hybrid.Computed(tpl.eval)
	default:
		return hybrid.Value(p.Value)
	}
}

func (s *Session) build(spec *NodeSpec) (*dom.Node, error) {
	var n *dom.Node
	if _, ok := s.rt.Lookup(spec.Tag); ok {
		h, err := s.rt.Create(spec.Tag)
		if err != nil {
			return nil, err
		}
		n = h.Node()
		s.ids[h] = spec.ID
		s.hosts = append(s.hosts, h)
		h.OnInvalidate(s.record)
	} else {
		n = dom.NewElement(spec.Tag)
	}
	if spec.ID != "" {
		s.nodes[spec.ID] = n
	}
	if len(spec.Shadow) > 0 {
		root, err := n.AttachShadow()
		if err != nil {
			return nil, err
		}
		for _, c := range spec.Shadow {
			child, err := s.build(c)
			if err != nil {
				return nil, err
			}
			if err := root.AppendChild(child); err != nil {
				return nil, err
			}
		}
	}
	for _, c := range spec.Children {
		child, err := s.build(c)
		if err != nil {
			return nil, err
		}
		if err := n.AppendChild(child); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (s *Session) record(h *hybrid.Host) {
	e := Event{Step: s.step, ID: s.ids[h], Tag: h.Tag(), Host: h.ID()}
	s.events = append(s.events, e)
	if e.ID != "" {
		s.lastTick[e.ID]++
	}
	for _, fn := range s.handlers {
		fn(e)
	}
}

// Run executes every step, then drains the loop. It stops at the first
// failing step.
func (s *Session) Run() (*Result, error) {
	for i := range s.fx.Steps {
		if err := s.RunStep(i); err != nil {
			return nil, err
		}
	}
	s.rt.Settle()
	return &Result{Steps: len(s.fx.Steps), Events: s.Events()}, nil
}

// RunStep executes the step at index i.
func (s *Session) RunStep(i int) error {
	if i < 0 || i >= len(s.fx.Steps) {
		return fmt.Errorf("fixture: step index %d out of range", i)
	}
	step := s.fx.Steps[i]
	s.step = i + 1
	if err := s.exec(step); err != nil {
		return herrors.New("E141").
			WithLocation(s.fx.path, step.Line, 0).
			WithDetailf("step %d (%s)", s.step, step.Op()).
			Wrap(err)
	}
	return nil
}

// Steps returns the number of steps.
func (s *Session) Steps() int {
	return len(s.fx.Steps)
}

func (s *Session) exec(step *Step) error {
	switch {
	case step.Set != nil:
		return s.Host(step.Set.ID).Set(step.Set.Property, step.Set.Value)
	case step.Remove != nil:
		s.nodes[step.Remove.ID].Remove()
		return nil
	case step.Append != nil:
		parent := s.doc
		if step.Append.To != "" {
			parent = s.nodes[step.Append.To]
		}
		return parent.AppendChild(s.nodes[step.Append.ID])
	case step.Move != nil:
		var parent *dom.Node
		switch step.Move.To {
		case FragmentTarget:
			parent = dom.NewFragment()
		case "":
			parent = s.doc
		default:
			parent = s.nodes[step.Move.To]
		}
		return parent.AppendChild(s.nodes[step.Move.ID])
	case step.Tick:
		clear(s.lastTick)
		s.rt.Settle()
		return nil
	case step.Expect != nil:
		return s.expect(step.Expect)
	}
	return nil
}

func (s *Session) expect(e *ExpectStep) error {
	h := s.Host(e.ID)
	if h == nil {
		return fmt.Errorf("%q is not a defined element", e.ID)
	}
	if e.Value.Kind != 0 {
		var want any
		if err := e.Value.Decode(&want); err != nil {
			return err
		}
		got, err := h.Peek(e.Property)
		if err != nil {
			return err
		}
		if !sameValue(got, want) {
			return fmt.Errorf("%s.%s = %#v, want %#v", e.ID, e.Property, got, want)
		}
	}
	if e.Parent.Kind != 0 {
		var want *hybrid.Host
		if e.Parent.ShortTag() != "!!null" {
			want = s.Host(e.Parent.Value)
			if want == nil {
				return fmt.Errorf("parent %q is not a defined element", e.Parent.Value)
			}
		}
		if got := h.Parent(); got != want {
			return fmt.Errorf("%s.parent = %s, want %s", e.ID, s.label(got), s.label(want))
		}
	}
	if e.Events != nil {
		if got := s.lastTick[e.ID]; got != *e.Events {
			return fmt.Errorf("%s received %d events in the last tick, want %d", e.ID, got, *e.Events)
		}
	}
	return nil
}

// sameValue compares a property value with a decoded YAML value. Values
// of different numeric types compare by their printed form.
func sameValue(got, want any) bool {
	if reflect.DeepEqual(got, want) {
		return true
	}
	if got == nil || want == nil {
		return false
	}
	return fmt.Sprint(got) == fmt.Sprint(want)
}

func (s *Session) label(h *hybrid.Host) string {
	if h == nil {
		return "null"
	}
	if id := s.ids[h]; id != "" {
		return id
	}
	return h.String()
}

// WriteTree prints the document with the resolved links of every element.
func (s *Session) WriteTree(w io.Writer) error {
	var b strings.Builder
	var walk func(n *dom.Node, depth int)
	walk = func(n *dom.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		switch n.Kind {
		case dom.KindDocument:
			b.WriteString("#document\n")
		case dom.KindShadowRoot:
			b.WriteString(indent + "#shadow-root\n")
		case dom.KindElement:
			b.WriteString(indent + "<" + n.Tag + ">")
			if h := hybrid.HostOf(n); h != nil {
				if id := s.ids[h]; id != "" {
					b.WriteString(" id=" + id)
				}
				for _, name := range h.Definition().Properties() {
					if _, ok := h.Definition().ParentMatch(name); ok {
						fmt.Fprintf(&b, " %s=%s", name, s.label(h.Link(name)))
					}
				}
			}
			b.WriteString("\n")
		default:
			return
		}
		if root := n.ShadowRoot(); root != nil {
			walk(root, depth+1)
		}
		for _, c := range n.Children() {
			walk(c, depth+1)
		}
	}
	walk(s.doc, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

// Run mounts fx in a new runtime and runs its steps.
func Run(fx *Fixture, opts ...hybrid.Option) (*Result, error) {
	s, err := NewSession(fx, opts...)
	if err != nil {
		return nil, err
	}
	return s.Run()
}
