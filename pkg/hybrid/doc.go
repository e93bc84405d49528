// Package hybrid is the reactive core of hybrids custom elements.
//
// An element type is described by a Definition: a tag name plus a set of
// property descriptors. Instances (Hosts) are upgraded dom elements. The
// package provides two things on top of the dom substrate:
//
//   - Parent links. A Parent property resolves to the nearest ancestor
//     element whose definition matches a tag name, a definition reference
//     or a predicate. Shadow roots are transparent to the lookup. Links are
//     resolved when an element connects and cleared when it disconnects.
//
//   - Computed properties. A Computed getter runs lazily inside a capture
//     scope; every property it reads, on any host, becomes a dependency.
//     Writing a property marks its dependents stale transitively and adds
//     them to the pending batch. The batch is flushed once per microtask
//     turn: stale values are recomputed and one "@invalidate" event is
//     dispatched on every affected host.
//
// # Example
//
//	rt := hybrid.NewRuntime()
//	parentDef, _ := rt.Define("parent-tag", hybrid.Props{
//	    "customProperty": hybrid.Value("value"),
//	})
//	rt.Define("child-tag", hybrid.Props{
//	    "parent": hybrid.Parent(parentDef),
//	    "computed": hybrid.Computed(func(h *hybrid.Host) (any, error) {
//	        v, err := hybrid.Read[string](h.Parent(), "customProperty")
//	        return v + " other value", err
//	    }),
//	})
//
// # Threading
//
// A Runtime and its hosts are single-threaded: all reads, writes and tree
// mutations must happen on the goroutine that drains the runtime's loop.
// Only the loop's Queue is safe for concurrent use.
package hybrid
