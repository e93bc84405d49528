package hybrid

import (
	"fmt"

	herrors "github.com/vango-dev/hybrids/internal/errors"
)

// MatchKind discriminates the variants of a Match.
type MatchKind uint8

const (
	MatchTag  MatchKind = iota + 1 // ancestor definition has this tag
	MatchRef                       // ancestor definition is this *Definition
	MatchFunc                      // predicate over the ancestor definition
)

// String returns a human-readable name for the match kind.
func (k MatchKind) String() string {
	switch k {
	case MatchTag:
		return "tag"
	case MatchRef:
		return "ref"
	case MatchFunc:
		return "func"
	default:
		return "invalid"
	}
}

// Match selects which ancestor a parent property links to.
// The zero Match is invalid.
type Match struct {
	kind MatchKind
	tag  string
	ref  *Definition
	fn   func(*Definition) bool
}

// ByTag matches ancestors defined with the given tag name.
func ByTag(tag string) Match {
	return Match{kind: MatchTag, tag: tag}
}

// ByRef matches ancestors whose definition is def.
func ByRef(def *Definition) Match {
	return Match{kind: MatchRef, ref: def}
}

// ByFunc matches ancestors whose definition satisfies fn. The predicate is
// called once per upgraded ancestor, nearest first, until it returns true.
func ByFunc(fn func(*Definition) bool) Match {
	return Match{kind: MatchFunc, fn: fn}
}

// MatchOf converts a tag name, a *Definition, a predicate or a Match into a
// validated Match.
func MatchOf(spec any) (Match, error) {
	var m Match
	switch v := spec.(type) {
	case Match:
		m = v
	case string:
		m = ByTag(v)
	case *Definition:
		m = ByRef(v)
	case func(*Definition) bool:
		m = ByFunc(v)
	default:
		return Match{}, herrors.New("E101").
			WithDetailf("unsupported match specification of type %T", spec).
			WithSuggestion("Pass a tag name, a *hybrid.Definition or a func(*hybrid.Definition) bool")
	}
	if err := m.validate(); err != nil {
		return Match{}, err
	}
	return m, nil
}

// Kind returns the match variant.
func (m Match) Kind() MatchKind {
	return m.kind
}

func (m Match) validate() error {
	var reason string
	switch m.kind {
	case MatchTag:
		if m.tag == "" {
			reason = "empty tag name"
		}
	case MatchRef:
		if m.ref == nil {
			reason = "nil definition reference"
		}
	case MatchFunc:
		if m.fn == nil {
			reason = "nil predicate"
		}
	default:
		reason = "zero Match"
	}
	if reason != "" {
		return herrors.New("E101").WithDetail(reason)
	}
	return nil
}

// Matches reports whether an element defined by def satisfies m.
func (m Match) Matches(def *Definition) bool {
	if def == nil {
		return false
	}
	switch m.kind {
	case MatchTag:
		return def.Tag == m.tag
	case MatchRef:
		return def == m.ref
	case MatchFunc:
		return m.fn(def)
	}
	return false
}

// String describes the match for logs.
func (m Match) String() string {
	switch m.kind {
	case MatchTag:
		return fmt.Sprintf("tag(%s)", m.tag)
	case MatchRef:
		if m.ref == nil {
			return "ref(nil)"
		}
		return fmt.Sprintf("ref(%s)", m.ref.Tag)
	case MatchFunc:
		return "func"
	default:
		return "invalid"
	}
}
