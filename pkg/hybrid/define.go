package hybrid

import (
	"sort"

	herrors "github.com/vango-dev/hybrids/internal/errors"
)

// Definition is a registered element type: a tag name and its properties.
// Definitions are immutable; their pointer identity is what ByRef matches.
type Definition struct {
	// Tag is the custom element name.
	Tag string

	props  []*property
	byName map[string]*property
}

// Properties returns the declared property names in sorted order.
func (d *Definition) Properties() []string {
	names := make([]string, len(d.props))
	for i, p := range d.props {
		names[i] = p.name
	}
	return names
}

// Has reports whether the definition declares the property.
func (d *Definition) Has(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// IsComputed reports whether name is a computed property.
func (d *Definition) IsComputed(name string) bool {
	p, ok := d.byName[name]
	return ok && p.kind == kindComputed
}

// ParentMatch returns the match of a parent property.
func (d *Definition) ParentMatch(name string) (Match, bool) {
	p, ok := d.byName[name]
	if !ok || p.kind != kindParent {
		return Match{}, false
	}
	return p.match, true
}

// Define registers a definition for tag. Configuration errors (invalid tag,
// invalid descriptor, invalid match) are returned immediately.
func (rt *Runtime) Define(tag string, props Props) (*Definition, error) {
	if !validTag(tag) {
		return nil, herrors.New("E106").WithDetailf("%q", tag)
	}
	if _, exists := rt.defs[tag]; exists {
		return nil, herrors.New("E105").WithDetailf("<%s>", tag)
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	def := &Definition{
		Tag:    tag,
		props:  make([]*property, 0, len(names)),
		byName: make(map[string]*property, len(names)),
	}
	for _, name := range names {
		p, err := compileProperty(tag, name, props[name])
		if err != nil {
			return nil, err
		}
		def.props = append(def.props, p)
		def.byName[name] = p
	}

	rt.defs[tag] = def
	rt.logger.Debug("element defined", "tag", tag, "properties", len(def.props))
	return def, nil
}

// MustDefine is like Define but panics on error.
func (rt *Runtime) MustDefine(tag string, props Props) *Definition {
	def, err := rt.Define(tag, props)
	if err != nil {
		panic(err)
	}
	return def
}

// Lookup returns the definition registered for tag.
func (rt *Runtime) Lookup(tag string) (*Definition, bool) {
	def, ok := rt.defs[tag]
	return def, ok
}

// validTag reports whether tag is a valid custom element name: it starts
// with a lowercase ASCII letter, contains a hyphen, and has no uppercase
// letters, whitespace or markup characters.
func validTag(tag string) bool {
	if tag == "" || tag[0] < 'a' || tag[0] > 'z' {
		return false
	}
	hyphen := false
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c == '-':
			hyphen = true
		case c >= 'A' && c <= 'Z':
			return false
		case c <= ' ' || c == '<' || c == '>' || c == '/' || c == '"' || c == '\'' || c == '=':
			return false
		}
	}
	return hyphen
}
