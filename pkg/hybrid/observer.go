package hybrid

// Observer receives flush and resolution notifications, for metrics and
// tracing.
type Observer interface {
	// FlushStarted is called before a batch of size entries is flushed.
	// The returned function is called when the flush is done with the
	// number of entries whose recomputation failed.
	FlushStarted(size int) (done func(failed int))

	// Resolved is called after a parent property of an element with the
	// given tag was resolved.
	Resolved(tag string, found bool)
}

type nopObserver struct{}

func (nopObserver) FlushStarted(int) func(int) { return func(int) {} }
func (nopObserver) Resolved(string, bool)      {}
