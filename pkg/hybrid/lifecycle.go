package hybrid

// Connected implements dom.Lifecycle. It re-registers the host's
// dependency edges and resolves its parent links against the current tree.
// A second call without Disconnected in between behaves like a move.
func (h *Host) Connected() {
	rt := h.rt
	if h.connected {
		h.Disconnected()
	}
	h.connected = true
	rt.linkHost(h)
	rt.resolveParents(h)
	rt.logger.Debug("host connected", "host", h.String())
}

// Disconnected implements dom.Lifecycle. Parent links become nil at once;
// cached values are kept. Dependency edges of properties nothing reads are
// dropped until the host connects again.
func (h *Host) Disconnected() {
	rt := h.rt
	h.connected = false
	rt.clearParents(h)
	rt.unlinkHost(h)
	rt.logger.Debug("host disconnected", "host", h.String())
}
