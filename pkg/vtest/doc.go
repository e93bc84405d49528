// Package vtest provides testing helpers for hybrids element trees.
//
// The vtest package reduces boilerplate when testing parent links and
// invalidation by building trees declaratively, recording "@invalidate"
// events and draining the microtask loop.
//
// # Quick Start
//
//	func TestCascade(t *testing.T) {
//	    h := vtest.New(t)
//	    h.Define("parent-tag", hybrid.Props{"customProperty": hybrid.Value("value")})
//	    h.Define("child-tag", hybrid.Props{"parent": hybrid.Parent("parent-tag")})
//
//	    h.Mount(vtest.El("parent-tag", vtest.El("child-tag").As("child")).As("parent"))
//	    h.ExpectParent(h.Host("child"), h.Host("parent"))
//	}
//
// # Tree Builder
//
// El describes an element with children. Shadow attaches a shadow root and
// As names the element so the test can look up its host:
//
//	vtest.El("parent-tag").Shadow(
//	    vtest.El("div", vtest.El("child-tag").As("child")),
//	)
//
// Tags without a definition become plain elements, which parent
// resolution walks through without matching.
//
// # Recording Events
//
//	rec := h.Record(h.Host("child"))
//	h.Turn(func() { h.Set(h.Host("parent"), "customProperty", "new value") })
//	h.ExpectEvents(rec, h.Host("child"), 1)
//
// # Lifecycle Simulation
//
// Detach moves an element into a detached fragment, Reattach and Move put
// it back under another node:
//
//	h.Detach(h.Host("child"))
//	h.Tick()
//	h.ExpectParent(h.Host("child"), nil)
package vtest
