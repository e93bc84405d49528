package hybrid

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	herrors "github.com/vango-dev/hybrids/internal/errors"
	"github.com/vango-dev/hybrids/pkg/dom"
)

func defineParentChild(t *testing.T, rt *Runtime) {
	t.Helper()
	rt.MustDefine("parent-tag", Props{"customProperty": Value("value")})
	rt.MustDefine("child-tag", Props{"parent": Parent("parent-tag")})
}

func TestParent_ResolvesAndClears(t *testing.T) {
	rt := newTestRuntime(t)
	defineParentChild(t, rt)

	doc := dom.NewDocument()
	p := rt.MustCreate("parent-tag")
	c := rt.MustCreate("child-tag")
	appendChild(t, p.Node(), c.Node())
	appendChild(t, doc, p.Node())

	if got := c.Parent(); got != p {
		t.Fatalf("child.Parent() = %v, want %v", got, p)
	}

	c.Node().Remove()
	if got := c.Parent(); got != nil {
		t.Errorf("child.Parent() after remove = %v, want nil", got)
	}
}

func TestParent_Nearest(t *testing.T) {
	rt := newTestRuntime(t)
	defineParentChild(t, rt)
	rt.MustDefine("other-tag", Props{})

	doc := dom.NewDocument()
	outer := rt.MustCreate("parent-tag")
	inner := rt.MustCreate("parent-tag")
	other := rt.MustCreate("other-tag")
	div := dom.NewElement("div")
	c := rt.MustCreate("child-tag")

	appendChild(t, doc, outer.Node())
	appendChild(t, outer.Node(), inner.Node())
	appendChild(t, inner.Node(), other.Node())
	appendChild(t, other.Node(), div)
	appendChild(t, div, c.Node())

	if got := c.Parent(); got != inner {
		t.Errorf("child.Parent() = %v, want nearest %v", got, inner)
	}
}

func TestParent_NoMatch(t *testing.T) {
	rt := newTestRuntime(t)
	defineParentChild(t, rt)
	rt.MustDefine("other-tag", Props{})

	doc := dom.NewDocument()
	other := rt.MustCreate("other-tag")
	c := rt.MustCreate("child-tag")
	appendChild(t, doc, other.Node())
	appendChild(t, other.Node(), c.Node())

	if got := c.Parent(); got != nil {
		t.Errorf("child.Parent() = %v, want nil", got)
	}
}

func TestParent_DetachedSubtreeResolvesNil(t *testing.T) {
	rt := newTestRuntime(t)
	defineParentChild(t, rt)

	p := rt.MustCreate("parent-tag")
	c := rt.MustCreate("child-tag")
	appendChild(t, p.Node(), c.Node())

	if got := Resolve(c, ByTag("parent-tag")); got != nil {
		t.Errorf("Resolve(detached) = %v, want nil", got)
	}
	if got := c.Parent(); got != nil {
		t.Errorf("child.Parent() = %v, want nil", got)
	}
}

func TestParent_ByReference(t *testing.T) {
	rt := newTestRuntime(t)
	parentDef := rt.MustDefine("parent-tag", Props{})
	rt.MustDefine("child-tag", Props{"parent": Parent(parentDef)})

	doc := dom.NewDocument()
	p := rt.MustCreate("parent-tag")
	c := rt.MustCreate("child-tag")
	appendChild(t, doc, p.Node())
	appendChild(t, p.Node(), c.Node())

	if got := c.Parent(); got != p {
		t.Errorf("child.Parent() = %v, want %v", got, p)
	}
}

func TestParent_ByPredicate(t *testing.T) {
	rt := newTestRuntime(t)
	rt.MustDefine("parent-tag", Props{})
	rt.MustDefine("other-tag", Props{})

	var calls []string
	rt.MustDefine("child-tag", Props{"parent": Parent(func(d *Definition) bool {
		calls = append(calls, d.Tag)
		return d.Tag == "other-tag"
	})})

	doc := dom.NewDocument()
	other := rt.MustCreate("other-tag")
	div := dom.NewElement("div")
	p := rt.MustCreate("parent-tag")
	c := rt.MustCreate("child-tag")
	appendChild(t, other.Node(), div)
	appendChild(t, div, p.Node())
	appendChild(t, p.Node(), c.Node())
	appendChild(t, doc, other.Node())

	if got := c.Parent(); got != other {
		t.Errorf("child.Parent() = %v, want %v", got, other)
	}
	want := []string{"parent-tag", "other-tag"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("predicate calls = %v, want %v", calls, want)
	}
}

func TestParent_ThroughShadowRoot(t *testing.T) {
	rt := newTestRuntime(t)
	defineParentChild(t, rt)

	doc := dom.NewDocument()
	p := rt.MustCreate("parent-tag")
	shadow, err := p.Node().AttachShadow()
	if err != nil {
		t.Fatal(err)
	}
	wrapper := dom.NewElement("div")
	c := rt.MustCreate("child-tag")
	appendChild(t, shadow, wrapper)
	appendChild(t, wrapper, c.Node())
	appendChild(t, doc, p.Node())

	if got := c.Parent(); got != p {
		t.Errorf("child.Parent() = %v, want shadow host %v", got, p)
	}
}

func TestParent_MoveIntoDetachedFragment(t *testing.T) {
	rt := newTestRuntime(t)
	defineParentChild(t, rt)

	doc := dom.NewDocument()
	p := rt.MustCreate("parent-tag")
	c := rt.MustCreate("child-tag")
	appendChild(t, doc, p.Node())
	appendChild(t, p.Node(), c.Node())
	rt.Settle()

	events := countEvents(c)
	frag := dom.NewFragment()
	rt.Turn(func() {
		appendChild(t, frag, c.Node())
	})

	if got := c.Parent(); got != nil {
		t.Errorf("child.Parent() = %v, want nil", got)
	}
	if *events != 1 {
		t.Errorf("events = %d, want 1", *events)
	}
}

func TestParent_Move(t *testing.T) {
	rt := newTestRuntime(t)
	defineParentChild(t, rt)

	doc := dom.NewDocument()
	first := rt.MustCreate("parent-tag")
	second := rt.MustCreate("parent-tag")
	c := rt.MustCreate("child-tag")
	appendChild(t, doc, first.Node())
	appendChild(t, doc, second.Node())
	appendChild(t, first.Node(), c.Node())
	rt.Settle()

	events := countEvents(c)
	rt.Turn(func() {
		appendChild(t, second.Node(), c.Node())
	})

	if got := c.Parent(); got != second {
		t.Errorf("child.Parent() = %v, want %v", got, second)
	}
	if *events != 1 {
		t.Errorf("events = %d, want 1", *events)
	}
}

func TestParent_UpgradeExistingTree(t *testing.T) {
	rt := newTestRuntime(t)
	defineParentChild(t, rt)

	doc := dom.NewDocument()
	pn := dom.NewElement("parent-tag")
	cn := dom.NewElement("child-tag")
	appendChild(t, doc, pn)
	appendChild(t, pn, cn)

	hosts := rt.UpgradeTree(doc)
	if len(hosts) != 2 {
		t.Fatalf("UpgradeTree() upgraded %d hosts, want 2", len(hosts))
	}
	if got := HostOf(cn).Parent(); got != HostOf(pn) {
		t.Errorf("child.Parent() = %v, want %v", got, HostOf(pn))
	}
}

func TestParent_MultipleLinks(t *testing.T) {
	rt := newTestRuntime(t)
	rt.MustDefine("app-root", Props{})
	rt.MustDefine("parent-tag", Props{})
	rt.MustDefine("child-tag", Props{
		"parent": Parent("parent-tag"),
		"root":   Parent(ByTag("app-root")),
	})

	doc := dom.NewDocument()
	root := rt.MustCreate("app-root")
	p := rt.MustCreate("parent-tag")
	c := rt.MustCreate("child-tag")
	appendChild(t, doc, root.Node())
	appendChild(t, root.Node(), p.Node())
	appendChild(t, p.Node(), c.Node())

	if got := c.Parent(); got != p {
		t.Errorf("parent = %v, want %v", got, p)
	}
	if got := c.Link("root"); got != root {
		t.Errorf("root = %v, want %v", got, root)
	}
}

func TestParent_ObserverNotified(t *testing.T) {
	obs := &recordingObserver{}
	rt := newTestRuntime(t, WithObserver(obs))
	defineParentChild(t, rt)

	doc := dom.NewDocument()
	c := rt.MustCreate("child-tag")
	appendChild(t, doc, c.Node())

	want := []string{"child-tag:miss"}
	if !reflect.DeepEqual(obs.resolved, want) {
		t.Errorf("resolved = %v, want %v", obs.resolved, want)
	}
}

func TestParent_WriteIsReadOnly(t *testing.T) {
	rt := newTestRuntime(t)
	defineParentChild(t, rt)
	c := rt.MustCreate("child-tag")
	p := rt.MustCreate("parent-tag")

	if err := c.Set("parent", p); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Set(parent) error = %v, want ErrReadOnly", err)
	}
}

func TestParent_LinkUnknownPropertyIsLogged(t *testing.T) {
	rt, buf := newLoggedRuntime(t)
	defineParentChild(t, rt)

	doc := dom.NewDocument()
	p := rt.MustCreate("parent-tag")
	c := rt.MustCreate("child-tag")
	appendChild(t, doc, p.Node())
	appendChild(t, p.Node(), c.Node())

	if got := c.Link("parnet"); got != nil {
		t.Errorf("Link(parnet) = %v, want nil", got)
	}
	if !strings.Contains(buf.String(), "link read failed") || !strings.Contains(buf.String(), "E103") {
		t.Errorf("log = %q, want a link read failure with E103", buf.String())
	}
	if _, err := Read[*Host](c, "parnet"); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("Read(parnet) error = %v, want ErrUnknownProperty", err)
	}
	if got := c.Link("parent"); got != p {
		t.Errorf("Link(parent) = %v, want %v", got, p)
	}
}

func TestHost_NilHostErrorNamesProperty(t *testing.T) {
	var h *Host
	_, err := h.Get("label")

	var he *herrors.HybridError
	if !errors.As(err, &he) || he.Code != "E109" {
		t.Fatalf("Get on nil host error = %v, want E109", err)
	}
	if he.Detail != `"label"` {
		t.Errorf("Detail = %s, want %q", he.Detail, `"label"`)
	}
}
