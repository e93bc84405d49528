package hybrid

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vango-dev/hybrids/pkg/dom"
	"github.com/vango-dev/hybrids/pkg/loop"
)

// Scheduler defers a function to the next microtask checkpoint.
// *loop.Loop implements it.
type Scheduler interface {
	Queue(fn func())
}

// drainer is implemented by schedulers that can run their queue now.
type drainer interface {
	Drain() int
}

// Runtime holds the process-wide reactive state: definitions, the
// dependency edge set, the capture scope stack and the pending batch.
type Runtime struct {
	id       string
	sched    Scheduler
	logger   *slog.Logger
	observer Observer

	defs map[string]*Definition

	// dependents maps a read slot to the computed slots that read it.
	dependents map[slotKey]*keySet

	// scopes is the stack of computed evaluations in progress.
	scopes []*scope

	// pending is the batch filled since the last flush, or nil.
	pending *batch

	// checking guards the detached revalidation walk against cycles.
	checking map[*slot]bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithScheduler sets where flushes are queued. The default is a fresh
// *loop.Loop.
func WithScheduler(s Scheduler) Option {
	return func(rt *Runtime) {
		rt.sched = s
	}
}

// WithLogger sets the runtime logger.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithObserver sets the flush and resolution observer.
func WithObserver(o Observer) Option {
	return func(rt *Runtime) {
		rt.observer = o
	}
}

// NewRuntime creates an isolated runtime.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		id:         uuid.NewString(),
		defs:       make(map[string]*Definition),
		dependents: make(map[slotKey]*keySet),
		checking:   make(map[*slot]bool),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.logger == nil {
		rt.logger = slog.Default()
	}
	rt.logger = rt.logger.With("component", "hybrid", "runtime", rt.id)
	if rt.sched == nil {
		rt.sched = loop.New(loop.WithLogger(rt.logger))
	}
	if rt.observer == nil {
		rt.observer = nopObserver{}
	}
	return rt
}

var defaultRuntime = sync.OnceValue(func() *Runtime {
	return NewRuntime()
})

// Default returns the process-wide runtime.
func Default() *Runtime {
	return defaultRuntime()
}

// ID returns the runtime's unique identifier.
func (rt *Runtime) ID() string {
	return rt.id
}

// Scheduler returns the scheduler flushes are queued on.
func (rt *Runtime) Scheduler() Scheduler {
	return rt.sched
}

// Create creates a detached element for a defined tag.
func (rt *Runtime) Create(tag string) (*Host, error) {
	def, ok := rt.defs[tag]
	if !ok {
		return nil, errUndefinedTag(tag)
	}
	node := dom.NewElement(tag)
	h := newHost(rt, node, def)
	if err := node.Upgrade(h); err != nil {
		return nil, err
	}
	return h, nil
}

// MustCreate is like Create but panics on error.
func (rt *Runtime) MustCreate(tag string) *Host {
	h, err := rt.Create(tag)
	if err != nil {
		panic(err)
	}
	return h
}

// Upgrade attaches a host to an existing element whose tag is defined.
// A connected element is connected immediately.
func (rt *Runtime) Upgrade(node *dom.Node) (*Host, error) {
	if h := HostOf(node); h != nil {
		return h, nil
	}
	def, ok := rt.defs[node.Tag]
	if node.Kind != dom.KindElement || !ok {
		return nil, errUndefinedTag(node.Tag)
	}
	h := newHost(rt, node, def)
	if err := node.Upgrade(h); err != nil {
		return nil, err
	}
	return h, nil
}

// UpgradeTree upgrades every element with a defined tag under root,
// shadow trees included, in tree order. It returns the new hosts.
func (rt *Runtime) UpgradeTree(root *dom.Node) []*Host {
	var hosts []*Host
	var pending []*dom.Node
	root.Walk(func(n *dom.Node) bool {
		if n.Kind == dom.KindElement && n.Upgraded() == nil {
			if _, ok := rt.defs[n.Tag]; ok {
				pending = append(pending, n)
			}
		}
		return true
	})
	for _, n := range pending {
		if h, err := rt.Upgrade(n); err == nil {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// Turn runs fn and then settles the runtime, the equivalent of awaiting a
// resolved promise after synchronous work.
func (rt *Runtime) Turn(fn func()) {
	fn()
	rt.Settle()
}

// Settle drains the scheduler when it supports draining, or flushes the
// pending batch directly otherwise.
func (rt *Runtime) Settle() {
	if d, ok := rt.sched.(drainer); ok {
		d.Drain()
		return
	}
	rt.Flush()
}

// Untracked runs fn without recording dependencies for the computed
// property currently being evaluated.
func (rt *Runtime) Untracked(fn func()) {
	saved := rt.scopes
	rt.scopes = nil
	defer func() { rt.scopes = saved }()
	fn()
}
