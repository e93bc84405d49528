package hybrid

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/hybrids/pkg/dom"
)

func newTestRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewRuntime(opts...)
}

// newLoggedRuntime returns a runtime whose log output is captured.
func newLoggedRuntime(t *testing.T) (*Runtime, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewRuntime(WithLogger(logger)), &buf
}

func appendChild(t *testing.T, parent, child *dom.Node) {
	t.Helper()
	if err := parent.AppendChild(child); err != nil {
		t.Fatalf("AppendChild(%s, %s) error = %v", parent, child, err)
	}
}

// countEvents counts "@invalidate" events dispatched on h.
func countEvents(h *Host) *int {
	n := new(int)
	h.OnInvalidate(func(*Host) { *n++ })
	return n
}

func mustGet(t *testing.T, h *Host, name string) any {
	t.Helper()
	v, err := h.Get(name)
	if err != nil {
		t.Fatalf("%s.Get(%q) error = %v", h, name, err)
	}
	return v
}

func mustSet(t *testing.T, h *Host, name string, value any) {
	t.Helper()
	if err := h.Set(name, value); err != nil {
		t.Fatalf("%s.Set(%q) error = %v", h, name, err)
	}
}

// recordingObserver records observer callbacks.
type recordingObserver struct {
	sizes    []int
	failures []int
	resolved []string
}

func (o *recordingObserver) FlushStarted(size int) func(int) {
	o.sizes = append(o.sizes, size)
	return func(failed int) {
		o.failures = append(o.failures, failed)
	}
}

func (o *recordingObserver) Resolved(tag string, found bool) {
	result := "miss"
	if found {
		result = "found"
	}
	o.resolved = append(o.resolved, tag+":"+result)
}
