// Package dom provides the host tree that hybrids elements live in.
//
// It models only what the reactive core observes: structure, shadow roots,
// connectedness, lifecycle callbacks and a minimal event target. There are
// no attributes, styles or layout.
//
// # Node Kinds
//
// A Node is a small tagged union discriminated by Kind:
//
//   - KindDocument: the root of the connected tree
//   - KindElement: an element with a tag name, optionally hosting a shadow root
//   - KindShadowRoot: a shadow tree root; Host() returns the element it hangs off
//   - KindFragment: a detached container; inserting it moves its children
//   - KindText: a text leaf
//
// # Lifecycle
//
// An element upgraded with a Lifecycle receives Connected when it (or any
// shadow-including ancestor) is inserted into a document and Disconnected
// when it leaves one. Moving a connected node fires Disconnected then
// Connected, in that order, within the same call.
//
//	doc := dom.NewDocument()
//	el := dom.NewElement("parent-tag")
//	el.Upgrade(myLifecycle)
//	doc.AppendChild(el) // myLifecycle.Connected()
//
// Nodes are not safe for concurrent use.
package dom
