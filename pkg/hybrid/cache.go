package hybrid

import (
	"fmt"

	herrors "github.com/vango-dev/hybrids/internal/errors"
)

// slot is the cached state of one property of one host.
type slot struct {
	key  slotKey
	prop *property

	value any
	// valid is false while a computed value is stale.
	valid bool
	// version increments whenever value changes.
	version uint64

	// deps maps every slot read during the last evaluation to the version
	// it had then. It is rebuilt on every evaluation.
	deps map[slotKey]uint64

	evaluating bool
}

func (s *slot) label() string {
	return s.key.host.String() + "." + s.key.name
}

func (rt *Runtime) slotOf(h *Host, name string) (*slot, error) {
	s, ok := h.slots[name]
	if !ok {
		return nil, herrors.New("E103").WithDetailf("%s has no property %q", h, name)
	}
	return s, nil
}

// read returns the current value of a property, recomputing it when stale.
func (rt *Runtime) read(h *Host, name string, tracked bool) (any, error) {
	s, err := rt.slotOf(h, name)
	if err != nil {
		return nil, err
	}
	if tracked && h.rt == rt {
		rt.track(s)
	}
	if err := rt.refresh(s); err != nil {
		return nil, err
	}
	return s.value, nil
}

// refresh brings a computed slot up to date. Slots of unlinked hosts may
// not receive invalidations, so they are revalidated against the versions
// of their recorded dependencies instead.
func (rt *Runtime) refresh(s *slot) error {
	if s.prop.kind != kindComputed {
		return nil
	}
	if s.valid && !s.key.host.linked && rt.outdated(s) {
		s.valid = false
	}
	if s.valid {
		return nil
	}
	return rt.evaluate(s)
}

// outdated reports whether any recorded dependency of s moved past the
// version s last saw.
func (rt *Runtime) outdated(s *slot) bool {
	if rt.checking[s] {
		return false
	}
	rt.checking[s] = true
	defer delete(rt.checking, s)

	for k, seen := range s.deps {
		dep, ok := k.host.slots[k.name]
		if !ok {
			return true
		}
		if err := rt.refresh(dep); err != nil {
			return true
		}
		if dep.version != seen {
			return true
		}
	}
	return false
}

// evaluate runs the getter of a computed slot inside a new capture scope
// and replaces its dependency set with what the getter read.
func (rt *Runtime) evaluate(s *slot) (err error) {
	if s.evaluating {
		return herrors.New("E102").WithDetail(s.label())
	}
	s.evaluating = true
	sc := rt.pushScope(s)

	var value any
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		value, err = s.prop.desc.Get(s.key.host, s.value)
	}()

	rt.popScope()
	s.evaluating = false
	rt.setDeps(s, sc.reads)

	if err != nil {
		s.valid = false
		return herrors.New("E108").WithDetail(s.label()).Wrap(err)
	}
	if !valuesEqual(s.value, value) {
		s.version++
	}
	s.value = value
	s.valid = true
	return nil
}

// setDeps replaces the dependency set of s and, when s is subscribed,
// the matching edges.
func (rt *Runtime) setDeps(s *slot, reads []*slot) {
	subscribed := rt.subscribed(s.key)
	if subscribed {
		for k := range s.deps {
			rt.unlink(k, s.key)
		}
	}
	s.deps = make(map[slotKey]uint64, len(reads))
	for _, dep := range reads {
		s.deps[dep.key] = dep.version
		if subscribed {
			rt.link(dep.key, s.key)
		}
	}
}

// subscribed reports whether the edges from the dependencies of k are
// registered: always for slots of linked hosts, and for slots of unlinked
// hosts as long as another slot depends on them.
func (rt *Runtime) subscribed(k slotKey) bool {
	if k.host.linked {
		return true
	}
	set, ok := rt.dependents[k]
	return ok && set.len() > 0
}

type edge struct {
	from, to slotKey
}

// link registers the edge from -> to. A slot of an unlinked host that gains
// its first dependent subscribes to its own dependencies, so changes keep
// flowing through detached hosts to the slots reading them.
func (rt *Runtime) link(from, to slotKey) {
	work := []edge{{from, to}}
	for len(work) > 0 {
		e := work[len(work)-1]
		work = work[:len(work)-1]

		set, ok := rt.dependents[e.from]
		if !ok {
			set = newKeySet()
			rt.dependents[e.from] = set
		}
		if !set.add(e.to) || set.len() > 1 || e.from.host.linked {
			continue
		}
		if s, ok := e.from.host.slots[e.from.name]; ok {
			for k := range s.deps {
				work = append(work, edge{k, e.from})
			}
		}
	}
}

// unlink removes the edge from -> to. A slot of an unlinked host that loses
// its last dependent drops the edges from its own dependencies.
func (rt *Runtime) unlink(from, to slotKey) {
	work := []edge{{from, to}}
	for len(work) > 0 {
		e := work[len(work)-1]
		work = work[:len(work)-1]

		set, ok := rt.dependents[e.from]
		if !ok || !set.has(e.to) {
			continue
		}
		set.remove(e.to)
		if set.len() > 0 {
			continue
		}
		delete(rt.dependents, e.from)
		if e.from.host.linked {
			continue
		}
		if s, ok := e.from.host.slots[e.from.name]; ok {
			for k := range s.deps {
				work = append(work, edge{k, e.from})
			}
		}
	}
}

// write stores a user-supplied value.
func (rt *Runtime) write(h *Host, name string, value any) error {
	s, err := rt.slotOf(h, name)
	if err != nil {
		return err
	}
	p := s.prop
	if p.kind == kindParent || (p.kind == kindComputed && p.desc.Set == nil) {
		return herrors.New("E104").WithDetail(s.label())
	}
	if p.desc.Set != nil {
		value, err = p.desc.Set(h, value, s.value)
		if err != nil {
			return err
		}
	}
	rt.assign(s, value)
	return nil
}

// assign stores value in s and invalidates its dependents. Storing an equal
// value into a valid slot does nothing.
func (rt *Runtime) assign(s *slot, value any) {
	if s.valid && valuesEqual(s.value, value) {
		return
	}
	s.value = value
	s.valid = true
	s.version++
	rt.enqueue(s.key)
	rt.invalidateDependents(s.key)
}

// invalidateDependents marks every slot that transitively depends on k as
// stale and enqueues it. The walk is breadth-first with a visited set, so
// dependency cycles terminate.
func (rt *Runtime) invalidateDependents(k slotKey) {
	visited := map[slotKey]bool{k: true}
	var queue []slotKey
	if set, ok := rt.dependents[k]; ok {
		queue = set.keys()
	}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if visited[next] {
			continue
		}
		visited[next] = true

		if dep, ok := next.host.slots[next.name]; ok {
			dep.valid = false
		}
		rt.enqueue(next)
		if set, ok := rt.dependents[next]; ok {
			queue = append(queue, set.keys()...)
		}
	}
}

// linkHost registers the dependency edges of every slot of h and marks
// computed slots whose dependencies changed while unlinked as stale.
func (rt *Runtime) linkHost(h *Host) {
	if h.linked {
		return
	}
	h.linked = true
	for _, p := range h.def.props {
		s := h.slots[p.name]
		for k := range s.deps {
			rt.link(k, s.key)
		}
	}
	for _, p := range h.def.props {
		s := h.slots[p.name]
		if p.kind == kindComputed && s.valid && rt.outdated(s) {
			s.valid = false
			rt.enqueue(s.key)
			rt.invalidateDependents(s.key)
		}
	}
}

// unlinkHost drops the dependency edges of every slot of h that nothing
// depends on. Slots still read by other slots stay subscribed until their
// last dependent goes away. Cached values and recorded dependency versions
// are kept.
func (rt *Runtime) unlinkHost(h *Host) {
	if !h.linked {
		return
	}
	h.linked = false
	for _, p := range h.def.props {
		s := h.slots[p.name]
		if rt.subscribed(s.key) {
			continue
		}
		for k := range s.deps {
			rt.unlink(k, s.key)
		}
	}
}
