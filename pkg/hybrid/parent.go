package hybrid

// Resolve returns the nearest ancestor host of h whose definition matches
// m, or nil. Elements outside a document resolve to nil even when their
// detached subtree contains a match. Ancestors that are not upgraded hosts
// are skipped without consulting m.
func Resolve(h *Host, m Match) *Host {
	if h == nil || !h.node.IsConnected() {
		return nil
	}
	for n := range Ancestors(h.node) {
		candidate := HostOf(n)
		if candidate == nil {
			continue
		}
		if m.Matches(candidate.def) {
			return candidate
		}
	}
	return nil
}

// resolveParents re-runs resolution for every parent property of h and
// stores the results.
func (rt *Runtime) resolveParents(h *Host) {
	for _, p := range h.def.props {
		if p.kind != kindParent {
			continue
		}
		link := Resolve(h, p.match)
		rt.observer.Resolved(h.def.Tag, link != nil)
		if link != nil {
			rt.logger.Debug("parent resolved", "host", h.String(), "property", p.name, "match", p.match.String(), "parent", link.String())
			rt.assign(h.slots[p.name], link)
		} else {
			rt.logger.Debug("parent not found", "host", h.String(), "property", p.name, "match", p.match.String())
			rt.assign(h.slots[p.name], nil)
		}
	}
}

// clearParents sets every parent link of h to nil.
func (rt *Runtime) clearParents(h *Host) {
	for _, p := range h.def.props {
		if p.kind == kindParent {
			rt.assign(h.slots[p.name], nil)
		}
	}
}
