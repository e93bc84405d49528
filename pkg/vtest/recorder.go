package vtest

import "github.com/vango-dev/hybrids/pkg/hybrid"

// Recorder records "@invalidate" events on a set of hosts.
type Recorder struct {
	counts  map[*hybrid.Host]int
	order   []*hybrid.Host
	removes []func()
}

// Record starts recording events on hosts. The recorder stops when the
// test ends.
func (h *Harness) Record(hosts ...*hybrid.Host) *Recorder {
	rec := &Recorder{counts: make(map[*hybrid.Host]int)}
	for _, host := range hosts {
		rec.Watch(host)
	}
	h.tb.Cleanup(rec.Stop)
	return rec
}

// Watch adds host to the recorded set.
func (r *Recorder) Watch(host *hybrid.Host) {
	r.removes = append(r.removes, host.OnInvalidate(func(host *hybrid.Host) {
		r.counts[host]++
		r.order = append(r.order, host)
	}))
}

// Count returns the number of events seen on host.
func (r *Recorder) Count(host *hybrid.Host) int {
	return r.counts[host]
}

// Total returns the number of events seen on all hosts.
func (r *Recorder) Total() int {
	return len(r.order)
}

// Order returns the hosts in the order their events were dispatched.
func (r *Recorder) Order() []*hybrid.Host {
	out := make([]*hybrid.Host, len(r.order))
	copy(out, r.order)
	return out
}

// Reset clears recorded events.
func (r *Recorder) Reset() {
	clear(r.counts)
	r.order = r.order[:0]
}

// Stop unsubscribes from every watched host.
func (r *Recorder) Stop() {
	for _, remove := range r.removes {
		remove()
	}
	r.removes = nil
}
