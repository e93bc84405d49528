package dom

// Event is dispatched on a node and optionally bubbles to its ancestors.
type Event struct {
	// Type identifies the event, e.g. "@invalidate".
	Type string

	// Bubbles makes the event travel up the shadow-including ancestors.
	Bubbles bool

	// Target is the node the event was dispatched on.
	Target *Node

	// CurrentTarget is the node whose listener is running.
	CurrentTarget *Node

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

type listener struct {
	id uint64
	fn func(*Event)
}

// AddEventListener registers fn for events of type typ on n.
// The returned function removes the listener; calling it twice is a no-op.
func (n *Node) AddEventListener(typ string, fn func(*Event)) (remove func()) {
	if n.listeners == nil {
		n.listeners = make(map[string][]*listener)
	}
	n.nextID++
	l := &listener{id: n.nextID, fn: fn}
	n.listeners[typ] = append(n.listeners[typ], l)

	return func() {
		list := n.listeners[typ]
		for i, existing := range list {
			if existing.id == l.id {
				n.listeners[typ] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// DispatchEvent delivers e to n's listeners and, when e.Bubbles is set, to
// the listeners of each shadow-including ancestor. Listeners added during
// dispatch do not see the current event.
func (n *Node) DispatchEvent(e *Event) {
	e.Target = n
	for cur := n; cur != nil; cur = cur.composedParent() {
		list := cur.listeners[e.Type]
		if len(list) > 0 {
			snapshot := make([]*listener, len(list))
			copy(snapshot, list)
			e.CurrentTarget = cur
			for _, l := range snapshot {
				l.fn(e)
			}
		}
		if !e.Bubbles || e.stopped {
			break
		}
	}
	e.CurrentTarget = nil
}
