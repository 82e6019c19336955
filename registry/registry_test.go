package registry

import (
	"strings"
	"testing"

	"github.com/pthm-cable/lightlag/components"
)

func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		msg, _ := r.(string)
		if !strings.Contains(msg, want) {
			t.Fatalf("panic = %v, want it to contain %q", r, want)
		}
	}()
	fn()
}

func TestSpawnAndGet(t *testing.T) {
	r := New()
	e := Spawn2(r, components.Position{X: 3, Y: 4}, components.Velocity{X: 1, Y: -1})

	if !r.Alive(e) {
		t.Fatal("spawned entity is not alive")
	}
	pos := Get[components.Position](r, e)
	if pos == nil || *pos != (components.Position{X: 3, Y: 4}) {
		t.Errorf("position = %v, want {3 4}", pos)
	}
	if !Has[components.Velocity](r, e) {
		t.Error("expected velocity")
	}
	if Has[components.Sensor](r, e) {
		t.Error("did not expect a sensor")
	}
	if Get[components.Sensor](r, e) != nil {
		t.Error("Get on a missing component should return nil")
	}
}

func TestAttachOverwritesAndDetachRemoves(t *testing.T) {
	r := New()
	e := Spawn(r, components.Position{})

	Attach(r, e, components.Sensor{MaxRange: 10})
	Attach(r, e, components.Sensor{MaxRange: 30})
	if got := Get[components.Sensor](r, e).MaxRange; got != 30 {
		t.Errorf("MaxRange = %d, want 30", got)
	}
	if got := Count[components.Sensor](r); got != 1 {
		t.Errorf("sensor count = %d, want 1", got)
	}

	Detach[components.Sensor](r, e)
	if Has[components.Sensor](r, e) {
		t.Error("sensor still attached after Detach")
	}
	// Detaching an absent kind is a no-op.
	Detach[components.Sensor](r, e)
}

type unregistered struct{ N int }

func TestUnregisteredKindPanics(t *testing.T) {
	r := New()
	e := Spawn(r, components.Position{})

	mustPanic(t, "never registered", func() { Get[unregistered](r, e) })
	mustPanic(t, "never registered", func() { Attach(r, e, unregistered{N: 1}) })

	Register[unregistered](r)
	Attach(r, e, unregistered{N: 2})
	if got := Get[unregistered](r, e).N; got != 2 {
		t.Errorf("N = %d, want 2", got)
	}
}

func TestWriteToDeadEntityPanics(t *testing.T) {
	r := New()
	e := Spawn(r, components.Position{})
	r.Remove(e)

	if r.Alive(e) {
		t.Fatal("removed entity is still alive")
	}
	if Get[components.Position](r, e) != nil {
		t.Error("Get on a dead entity should return nil")
	}
	mustPanic(t, "dead entity", func() { Attach(r, e, components.Velocity{}) })
	mustPanic(t, "dead entity", func() { Detach[components.Position](r, e) })
	mustPanic(t, "dead entity", func() { r.Remove(e) })
}

func TestRemovedEntityHandleIsNotReused(t *testing.T) {
	r := New()
	old := Spawn(r, components.Position{X: 1})
	r.Remove(old)
	fresh := Spawn(r, components.Position{X: 2})

	if old == fresh {
		t.Fatal("a removed handle compared equal to a fresh entity")
	}
	if r.Alive(old) {
		t.Error("stale handle reports alive")
	}
}
