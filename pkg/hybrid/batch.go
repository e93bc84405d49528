package hybrid

import (
	"fmt"

	"github.com/vango-dev/hybrids/pkg/dom"
)

// batch is the set of invalidated slots collected during one turn.
type batch struct {
	keys    *keySet
	flushed bool
}

// enqueue adds k to the pending batch, scheduling a flush when the batch
// is new. Writes made while a batch is being flushed land in a new batch.
func (rt *Runtime) enqueue(k slotKey) {
	if rt.pending == nil {
		b := &batch{keys: newKeySet()}
		rt.pending = b
		rt.sched.Queue(func() {
			rt.flushBatch(b)
		})
	}
	rt.pending.keys.add(k)
}

// Pending returns the number of invalidated properties awaiting a flush.
func (rt *Runtime) Pending() int {
	if rt.pending == nil {
		return 0
	}
	return rt.pending.keys.len()
}

// Flush flushes the pending batch now instead of waiting for the
// scheduled microtask, which then finds nothing to do.
func (rt *Runtime) Flush() {
	if rt.pending != nil {
		rt.flushBatch(rt.pending)
	}
}

// flushBatch recomputes every still-stale slot of b in the order it was
// first invalidated, then dispatches one "@invalidate" event per host, in
// the order hosts were first invalidated. A failing entry is logged and
// does not stop the others.
func (rt *Runtime) flushBatch(b *batch) {
	if b.flushed {
		return
	}
	b.flushed = true
	if rt.pending == b {
		rt.pending = nil
	}

	saved := rt.scopes
	rt.scopes = nil
	defer func() { rt.scopes = saved }()

	keys := b.keys.keys()
	done := rt.observer.FlushStarted(len(keys))

	failed := 0
	var hosts []*Host
	seen := make(map[*Host]bool)
	for _, k := range keys {
		if s, ok := k.host.slots[k.name]; ok && s.prop.kind == kindComputed && !s.valid {
			if err := rt.refresh(s); err != nil {
				failed++
				rt.logger.Error("recompute failed", "property", s.label(), "error", err)
			}
		}
		if !seen[k.host] {
			seen[k.host] = true
			hosts = append(hosts, k.host)
		}
	}

	for _, h := range hosts {
		rt.dispatchInvalidate(h)
	}

	rt.logger.Debug("batch flushed", "properties", len(keys), "hosts", len(hosts), "failed", failed)
	done(failed)
}

// dispatchInvalidate dispatches the invalidate event on h, isolating a
// panicking listener from the rest of the flush.
func (rt *Runtime) dispatchInvalidate(h *Host) {
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error("invalidate listener panicked", "host", h.String(), "panic", fmt.Sprint(r))
		}
	}()
	h.node.DispatchEvent(&dom.Event{Type: EventInvalidate})
}
