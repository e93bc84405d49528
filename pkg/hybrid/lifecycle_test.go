package hybrid

import (
	"fmt"
	"testing"

	"github.com/vango-dev/hybrids/pkg/dom"
)

// storeView defines a detached store and a view whose label derives from
// the store, and connects the view to a document.
func storeView(t *testing.T) (rt *Runtime, doc *dom.Node, store, view *Host, calls *int) {
	t.Helper()
	rt = newTestRuntime(t)
	calls = new(int)
	rt.MustDefine("store-tag", Props{"v": Value(1)})
	rt.MustDefine("view-tag", Props{"label": Computed(func(*Host) (any, error) {
		*calls++
		v, err := Read[int](store, "v")
		return fmt.Sprint(v), err
	})})

	doc = dom.NewDocument()
	store = rt.MustCreate("store-tag")
	view = rt.MustCreate("view-tag")
	appendChild(t, doc, view.Node())
	if got := mustGet(t, view, "label"); got != "1" {
		t.Fatalf("label = %v, want 1", got)
	}
	rt.Settle()
	return rt, doc, store, view, calls
}

func TestLifecycle_DisconnectKeepsCachedValue(t *testing.T) {
	rt, _, _, view, calls := storeView(t)

	view.Node().Remove()
	rt.Settle()

	if got := mustGet(t, view, "label"); got != "1" {
		t.Errorf("label = %v, want cached 1", got)
	}
	if *calls != 1 {
		t.Errorf("calls = %d, want 1", *calls)
	}
}

func TestLifecycle_DetachedReadRevalidates(t *testing.T) {
	rt, _, store, view, calls := storeView(t)

	view.Node().Remove()
	mustSet(t, store, "v", 2)
	if n := rt.Pending(); n != 1 {
		t.Errorf("Pending() = %d, want 1: detached view has no edges", n)
	}

	if got := mustGet(t, view, "label"); got != "2" {
		t.Errorf("label = %v, want 2", got)
	}
	if *calls != 2 {
		t.Errorf("calls = %d, want 2", *calls)
	}
}

func TestLifecycle_ReconnectRevalidates(t *testing.T) {
	rt, doc, store, view, calls := storeView(t)

	view.Node().Remove()
	rt.Turn(func() { mustSet(t, store, "v", 2) })
	events := countEvents(view)

	rt.Turn(func() { appendChild(t, doc, view.Node()) })

	if *events != 1 {
		t.Errorf("events = %d, want 1", *events)
	}
	if *calls != 2 {
		t.Errorf("calls = %d, want 2: recomputed during flush", *calls)
	}
	if got := mustGet(t, view, "label"); got != "2" {
		t.Errorf("label = %v, want 2", got)
	}

	rt.Turn(func() { mustSet(t, store, "v", 3) })
	if got := mustGet(t, view, "label"); got != "3" {
		t.Errorf("label = %v, want 3 after relink", got)
	}
}

func TestLifecycle_ReconnectWithoutChanges(t *testing.T) {
	rt, doc, _, view, calls := storeView(t)
	events := countEvents(view)

	view.Node().Remove()
	rt.Turn(func() { appendChild(t, doc, view.Node()) })

	if *events != 0 {
		t.Errorf("events = %d, want 0", *events)
	}
	if *calls != 1 {
		t.Errorf("calls = %d, want 1", *calls)
	}
}

func TestLifecycle_RepeatedConnectIsIdempotent(t *testing.T) {
	rt, _, store, view, calls := storeView(t)

	view.Connected()
	view.Connected()
	for range 3 {
		view.Disconnected()
		view.Connected()
	}

	deps := rt.dependents[slotKey{host: store, name: "v"}]
	if deps == nil || deps.len() != 1 {
		t.Fatalf("store.v has %v dependents, want 1", deps)
	}

	events := countEvents(view)
	rt.Turn(func() { mustSet(t, store, "v", 2) })
	if *events != 1 {
		t.Errorf("events = %d, want 1", *events)
	}
	if *calls != 2 {
		t.Errorf("calls = %d, want 2", *calls)
	}
}

func TestLifecycle_DisconnectClearsParentImmediately(t *testing.T) {
	rt := newTestRuntime(t)
	defineParentChild(t, rt)

	doc := dom.NewDocument()
	p := rt.MustCreate("parent-tag")
	c := rt.MustCreate("child-tag")
	appendChild(t, doc, p.Node())
	appendChild(t, p.Node(), c.Node())

	p.Node().Remove()
	if c.IsConnected() {
		t.Fatal("child should be disconnected with its parent")
	}
	if got := c.Parent(); got != nil {
		t.Errorf("child.Parent() = %v, want nil", got)
	}
}

func TestLifecycle_UpgradeConnectedElement(t *testing.T) {
	rt := newTestRuntime(t)
	defineParentChild(t, rt)

	doc := dom.NewDocument()
	p := rt.MustCreate("parent-tag")
	cn := dom.NewElement("child-tag")
	appendChild(t, doc, p.Node())
	appendChild(t, p.Node(), cn)

	c, err := rt.Upgrade(cn)
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	if got := c.Parent(); got != p {
		t.Errorf("child.Parent() = %v, want %v", got, p)
	}
	again, err := rt.Upgrade(cn)
	if err != nil || again != c {
		t.Errorf("second Upgrade() = %v, %v; want same host", again, err)
	}
}

// chain defines src -> mid -> top, where mid.d = src.v*10 and
// top.d = fmt.Sprint(mid.d), and connects all three to a document.
// Nothing is read yet.
func chain(t *testing.T) (rt *Runtime, doc *dom.Node, src, mid, top *Host) {
	t.Helper()
	rt = newTestRuntime(t)
	rt.MustDefine("src-tag", Props{"v": Value(1)})
	rt.MustDefine("mid-tag", Props{"d": Computed(func(*Host) (any, error) {
		v, err := Read[int](src, "v")
		return v * 10, err
	})})
	rt.MustDefine("top-tag", Props{"d": Computed(func(*Host) (any, error) {
		v, err := Read[int](mid, "d")
		return fmt.Sprint(v), err
	})})

	doc = dom.NewDocument()
	src = rt.MustCreate("src-tag")
	mid = rt.MustCreate("mid-tag")
	top = rt.MustCreate("top-tag")
	for _, h := range []*Host{src, mid, top} {
		appendChild(t, doc, h.Node())
	}
	return rt, doc, src, mid, top
}

func TestLifecycle_DetachedMiddlePropagates(t *testing.T) {
	rt, _, src, mid, top := chain(t)
	if got := mustGet(t, top, "d"); got != "10" {
		t.Fatalf("top.d = %v, want 10", got)
	}
	rt.Settle()

	mid.Node().Remove()
	rt.Settle()
	events := countEvents(top)

	rt.Turn(func() { mustSet(t, src, "v", 2) })

	if *events != 1 {
		t.Errorf("top events = %d, want 1", *events)
	}
	if got := mustGet(t, mid, "d"); got != 20 {
		t.Errorf("mid.d = %v, want 20", got)
	}
	if got := mustGet(t, top, "d"); got != "20" {
		t.Errorf("top.d = %v, want 20", got)
	}
}

func TestLifecycle_ReconnectedMiddleCatchesUp(t *testing.T) {
	rt, doc, src, mid, top := chain(t)
	mustGet(t, top, "d")
	rt.Settle()

	mid.Node().Remove()
	rt.Turn(func() { mustSet(t, src, "v", 2) })
	rt.Turn(func() { appendChild(t, doc, mid.Node()) })

	if got := mustGet(t, top, "d"); got != "20" {
		t.Errorf("top.d after reconnect = %v, want 20", got)
	}
	deps := rt.dependents[slotKey{host: src, name: "v"}]
	if deps == nil || deps.len() != 1 {
		t.Fatalf("src.v has %v dependents, want 1", deps)
	}

	events := countEvents(top)
	rt.Turn(func() { mustSet(t, src, "v", 3) })
	if *events != 1 {
		t.Errorf("top events = %d, want 1", *events)
	}
	if got := mustGet(t, top, "d"); got != "30" {
		t.Errorf("top.d = %v, want 30", got)
	}
}

func TestLifecycle_ReaderOfDetachedHostSubscribes(t *testing.T) {
	rt, _, src, mid, top := chain(t)

	mid.Node().Remove()
	if got := mustGet(t, top, "d"); got != "10" {
		t.Fatalf("top.d = %v, want 10", got)
	}
	rt.Settle()
	events := countEvents(top)

	rt.Turn(func() { mustSet(t, src, "v", 4) })

	if *events != 1 {
		t.Errorf("top events = %d, want 1", *events)
	}
	if got := mustGet(t, top, "d"); got != "40" {
		t.Errorf("top.d = %v, want 40", got)
	}
}

func TestLifecycle_DetachedChainUnsubscribes(t *testing.T) {
	rt, _, src, mid, top := chain(t)
	mustGet(t, top, "d")
	rt.Settle()

	mid.Node().Remove()
	top.Node().Remove()

	if deps := rt.dependents[slotKey{host: src, name: "v"}]; deps != nil {
		t.Errorf("src.v has %d dependents, want none", deps.len())
	}
	if deps := rt.dependents[slotKey{host: mid, name: "d"}]; deps != nil {
		t.Errorf("mid.d has %d dependents, want none", deps.len())
	}

	mustSet(t, src, "v", 5)
	if n := rt.Pending(); n != 1 {
		t.Errorf("Pending() = %d, want 1", n)
	}
	if got := mustGet(t, top, "d"); got != "50" {
		t.Errorf("top.d = %v, want 50 after revalidation", got)
	}
}
