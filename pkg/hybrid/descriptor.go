package hybrid

import (
	"errors"

	herrors "github.com/vango-dev/hybrids/internal/errors"
)

// Descriptor declares one property of a definition.
//
// A descriptor with a Match is a parent property. A descriptor with
// Computed set (or a Get) is a computed property. Anything else is a plain
// value property holding Default until written.
type Descriptor struct {
	// Computed marks the property as derived. Computed properties need Get.
	Computed bool

	// Get computes the value. last is the previously cached value.
	Get func(h *Host, last any) (any, error)

	// Set transforms a written value before it is stored. For computed
	// properties it makes the property writable; the stored value stays
	// cached until a dependency changes.
	Set func(h *Host, value, last any) (any, error)

	// Default is the initial value of a value property.
	Default any

	// Match makes this a parent property. It accepts whatever MatchOf does.
	Match any

	// parent is set by Parent so that a nil spec is reported, not ignored.
	parent bool
}

// Props maps property names to descriptors.
type Props map[string]Descriptor

// Value declares a plain property with an initial value.
func Value(initial any) Descriptor {
	return Descriptor{Default: initial}
}

// Computed declares a read-only derived property.
func Computed(get func(h *Host) (any, error)) Descriptor {
	return Descriptor{
		Computed: true,
		Get: func(h *Host, _ any) (any, error) {
			return get(h)
		},
	}
}

// Parent declares a property linking to the nearest matching ancestor.
// spec is a tag name, a *Definition, a func(*Definition) bool or a Match.
func Parent(spec any) Descriptor {
	return Descriptor{Match: spec, parent: true}
}

type propKind uint8

const (
	kindValue propKind = iota
	kindComputed
	kindParent
)

// property is a validated descriptor.
type property struct {
	name  string
	kind  propKind
	desc  Descriptor
	match Match
}

func compileProperty(tag, name string, d Descriptor) (*property, error) {
	if name == "" {
		return nil, herrors.New("E107").WithDetailf("<%s> declares an unnamed property", tag)
	}
	p := &property{name: name, desc: d}

	switch {
	case d.parent || d.Match != nil:
		if d.Computed || d.Get != nil || d.Set != nil {
			return nil, herrors.New("E107").
				WithDetailf("parent property %q on <%s> declares a getter or setter", name, tag)
		}
		m, err := MatchOf(d.Match)
		if err != nil {
			var he *herrors.HybridError
			if !errors.As(err, &he) {
				return nil, err
			}
			return nil, he.WithDetailf("property %q on <%s>: %s", name, tag, he.Detail)
		}
		p.kind = kindParent
		p.match = m
	case d.Computed || d.Get != nil:
		if d.Get == nil {
			return nil, herrors.New("E107").
				WithDetailf("computed property %q on <%s> has no getter", name, tag)
		}
		p.kind = kindComputed
	default:
		p.kind = kindValue
	}
	return p, nil
}
