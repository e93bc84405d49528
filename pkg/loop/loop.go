// Package loop provides a microtask queue for cooperative, single-threaded
// scheduling.
//
// A Loop stands in for the host event loop's microtask checkpoint: work
// queued during a synchronous turn runs, in FIFO order, when the owner of
// the loop drains it. Tasks queued while draining run in the same drain,
// exactly like microtasks queued from a microtask.
//
//	l := loop.New()
//	l.Queue(flush)
//	l.Drain() // flush runs here
package loop

import (
	"fmt"
	"log/slog"
	"sync"
)

// Loop is a FIFO microtask queue. Queue is safe for concurrent use; Drain
// must only be called by the goroutine that owns the loop.
type Loop struct {
	mu       sync.Mutex
	tasks    []func()
	draining bool
	logger   *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used to report panicking tasks.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// New creates an empty loop.
func New(opts ...Option) *Loop {
	l := &Loop{}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default().With("component", "loop")
	}
	return l
}

// Queue appends fn to the microtask queue.
func (l *Loop) Queue(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Drain runs queued tasks until the queue is empty and returns how many ran.
// A panicking task is logged and does not prevent the remaining tasks from
// running. Calling Drain from inside a task returns 0; the outer drain
// picks up anything queued.
func (l *Loop) Drain() int {
	l.mu.Lock()
	if l.draining {
		l.mu.Unlock()
		return 0
	}
	l.draining = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.draining = false
		l.mu.Unlock()
	}()

	ran := 0
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return ran
		}
		task := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		l.mu.Unlock()

		l.run(task)
		ran++
	}
}

// Turn runs fn synchronously, then drains the microtasks it queued.
func (l *Loop) Turn(fn func()) {
	fn()
	l.Drain()
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("microtask panicked", "panic", fmt.Sprint(r))
		}
	}()
	task()
}
