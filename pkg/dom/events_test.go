package dom

import "testing"

func TestAddRemoveEventListener(t *testing.T) {
	el := NewElement("child-tag")
	calls := 0
	remove := el.AddEventListener("@invalidate", func(e *Event) {
		calls++
		if e.Target != el || e.CurrentTarget != el {
			t.Errorf("Target/CurrentTarget = %v/%v", e.Target, e.CurrentTarget)
		}
	})

	el.DispatchEvent(&Event{Type: "@invalidate"})
	el.DispatchEvent(&Event{Type: "other"})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	remove()
	remove()
	el.DispatchEvent(&Event{Type: "@invalidate"})
	if calls != 1 {
		t.Errorf("calls after remove = %d, want 1", calls)
	}
	if el.ListenerCount("@invalidate") != 0 {
		t.Errorf("ListenerCount = %d, want 0", el.ListenerCount("@invalidate"))
	}
}

func TestNonBubblingEventStaysOnTarget(t *testing.T) {
	parent := NewElement("parent-tag")
	child := NewElement("child-tag")
	_ = parent.AppendChild(child)

	parentCalls := 0
	parent.AddEventListener("@invalidate", func(*Event) { parentCalls++ })

	child.DispatchEvent(&Event{Type: "@invalidate"})
	if parentCalls != 0 {
		t.Errorf("non-bubbling event reached parent %d times", parentCalls)
	}
}

func TestBubblingCrossesShadowBoundary(t *testing.T) {
	host := NewElement("parent-tag")
	shadow, _ := host.AttachShadow()
	wrapper := NewElement("div")
	child := NewElement("child-tag")
	_ = shadow.AppendChild(wrapper)
	_ = wrapper.AppendChild(child)

	var path []*Node
	for _, n := range []*Node{child, wrapper, shadow, host} {
		n.AddEventListener("ping", func(e *Event) { path = append(path, e.CurrentTarget) })
	}

	child.DispatchEvent(&Event{Type: "ping", Bubbles: true})
	if len(path) != 4 || path[0] != child || path[3] != host {
		t.Errorf("path = %v", path)
	}

	path = nil
	wrapper.AddEventListener("ping", func(e *Event) { e.StopPropagation() })
	child.DispatchEvent(&Event{Type: "ping", Bubbles: true})
	if len(path) != 2 {
		t.Errorf("stopped path = %v, want child and wrapper", path)
	}
}

func TestListenerAddedDuringDispatchWaits(t *testing.T) {
	el := NewElement("a-b")
	late := 0
	el.AddEventListener("x", func(*Event) {
		el.AddEventListener("x", func(*Event) { late++ })
	})

	el.DispatchEvent(&Event{Type: "x"})
	if late != 0 {
		t.Errorf("late listener ran during the dispatch that added it")
	}
	el.DispatchEvent(&Event{Type: "x"})
	if late != 1 {
		t.Errorf("late = %d, want 1", late)
	}
}
