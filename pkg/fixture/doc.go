// Package fixture loads and runs YAML scenario files against a hybrids
// runtime.
//
// A scenario declares element definitions, an initial tree and a list of
// steps:
//
//	definitions:
//	  parent-tag:
//	    customProperty: { value: value }
//	  child-tag:
//	    parent: { parent: parent-tag }
//	    computed: { computed: "{parent.customProperty} other value" }
//	tree:
//	  - tag: parent-tag
//	    id: p
//	    children:
//	      - { tag: child-tag, id: c }
//	steps:
//	  - set: { id: p, property: customProperty, value: new value }
//	  - tick: true
//	  - expect: { id: c, events: 1, property: computed, value: new value other value }
//
// A parent property matches one tag, or any tag of a list. A computed
// property is a template whose {placeholders} name a property, or a path
// through parent links such as {parent.customProperty}.
//
// Steps are set, remove, append, move, tick and expect. Event counts in an
// expect step cover the most recent tick.
package fixture
