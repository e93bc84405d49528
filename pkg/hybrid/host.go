package hybrid

import (
	"fmt"

	herrors "github.com/vango-dev/hybrids/internal/errors"
	"github.com/vango-dev/hybrids/pkg/dom"
)

// EventInvalidate is the type of the event dispatched on a host after a
// flush invalidated one or more of its properties. It does not bubble.
const EventInvalidate = "@invalidate"

// ParentProperty is the property name Host.Parent reads.
const ParentProperty = "parent"

// Host is an upgraded element instance. It owns one slot per declared
// property and implements dom.Lifecycle.
type Host struct {
	id   uint64
	rt   *Runtime
	node *dom.Node
	def  *Definition

	slots map[string]*slot

	// connected mirrors the last lifecycle callback received.
	connected bool
	// linked is true while the host's dependency edges are registered.
	linked bool
}

func newHost(rt *Runtime, node *dom.Node, def *Definition) *Host {
	h := &Host{
		id:     nextHostID(),
		rt:     rt,
		node:   node,
		def:    def,
		slots:  make(map[string]*slot, len(def.props)),
		linked: true,
	}
	for _, p := range def.props {
		s := &slot{
			key:     slotKey{host: h, name: p.name},
			prop:    p,
			version: 1,
		}
		switch p.kind {
		case kindValue:
			s.value = p.desc.Default
			s.valid = true
		case kindParent:
			s.valid = true
		}
		h.slots[p.name] = s
	}
	return h
}

// HostOf returns the host upgraded onto node, or nil.
func HostOf(node *dom.Node) *Host {
	if node == nil {
		return nil
	}
	h, _ := node.Upgraded().(*Host)
	return h
}

// ID returns the host's unique identifier.
func (h *Host) ID() uint64 {
	return h.id
}

// Node returns the underlying dom element.
func (h *Host) Node() *dom.Node {
	return h.node
}

// Definition returns the element's definition.
func (h *Host) Definition() *Definition {
	return h.def
}

// Tag returns the element's tag name.
func (h *Host) Tag() string {
	return h.def.Tag
}

// Runtime returns the runtime the host belongs to.
func (h *Host) Runtime() *Runtime {
	return h.rt
}

// IsConnected reports whether the element is in a document.
func (h *Host) IsConnected() bool {
	return h.node.IsConnected()
}

// String returns a label like "<child-tag#3>".
func (h *Host) String() string {
	if h == nil {
		return "<nil>"
	}
	return fmt.Sprintf("<%s#%d>", h.def.Tag, h.id)
}

// Get reads a property. Inside a computed getter the read is recorded as a
// dependency. Stale computed properties are recomputed first; a getter
// error is returned and the property stays stale.
func (h *Host) Get(name string) (any, error) {
	if h == nil {
		return nil, herrors.New("E109").WithDetailf("%q", name)
	}
	return h.rt.read(h, name, true)
}

// Peek reads a property without recording a dependency.
func (h *Host) Peek(name string) (any, error) {
	if h == nil {
		return nil, herrors.New("E109").WithDetailf("%q", name)
	}
	return h.rt.read(h, name, false)
}

// Set writes a property. Dependents are marked stale and notified at the
// next flush. Writing an equal value is a no-op.
func (h *Host) Set(name string, value any) error {
	if h == nil {
		return herrors.New("E109").WithDetailf("%q", name)
	}
	return h.rt.write(h, name, value)
}

// Parent returns the link held by the "parent" property, or nil. The read
// is tracked like Get.
func (h *Host) Parent() *Host {
	return h.Link(ParentProperty)
}

// Link returns the host held by the parent property name, or nil. A read
// error, such as an unknown property name, is logged and also yields nil;
// use Read[*Host] to get the error.
func (h *Host) Link(name string) *Host {
	if h == nil {
		return nil
	}
	p, err := Read[*Host](h, name)
	if err != nil {
		h.rt.logger.Warn("link read failed", "host", h.String(), "property", name, "error", err)
		return nil
	}
	return p
}

// OnInvalidate subscribes fn to the host's "@invalidate" events.
func (h *Host) OnInvalidate(fn func(*Host)) (remove func()) {
	return h.node.AddEventListener(EventInvalidate, func(*dom.Event) {
		fn(h)
	})
}

// Read reads a property and asserts its type. A nil value yields the zero
// T without error.
func Read[T any](h *Host, name string) (T, error) {
	var zero T
	v, err := h.Get(name)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("hybrid: %s.%s is %T, not %T", h, name, v, zero)
	}
	return t, nil
}
