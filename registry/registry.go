// Package registry stores entities and their components on top of an ark
// world and adds a deferred command queue that is committed at explicit
// synchronization points.
//
// Storage discipline: every component kind must be registered before it is
// read or written, and writes to an entity that is not alive panic. Both
// rules hold for immediate calls and for queued commands alike.
package registry

import (
	"fmt"
	"reflect"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lightlag/components"
)

// Registry owns every entity of a simulation.
type Registry struct {
	world *ecs.World
	kinds map[reflect.Type]ecs.ID
	cmds  Commands
}

// New creates a registry with all simulation component kinds registered.
func New() *Registry {
	r := &Registry{
		world: ecs.NewWorld(),
		kinds: make(map[reflect.Type]ecs.ID),
	}
	Register[components.Position](r)
	Register[components.Velocity](r)
	Register[components.Detectable](r)
	Register[components.Sensor](r)
	Register[components.Ghost](r)
	Register[components.SensorLog](r)
	Register[components.Renderable](r)
	Register[components.Player](r)
	return r
}

// World exposes the underlying ark world for systems that build their own
// filters and mappers.
func (r *Registry) World() *ecs.World {
	return r.world
}

// Commands returns the deferred command queue.
func (r *Registry) Commands() *Commands {
	return &r.cmds
}

// Sync applies every queued command in FIFO order and returns how many ran.
// Commands queued while syncing are applied in the same call.
func (r *Registry) Sync() int {
	n := 0
	for {
		ops := r.cmds.drain()
		if len(ops) == 0 {
			return n
		}
		for _, op := range ops {
			op(r)
		}
		n += len(ops)
	}
}

// Alive reports whether e still exists.
func (r *Registry) Alive(e ecs.Entity) bool {
	return r.world.Alive(e)
}

// Remove deletes e and all of its components.
func (r *Registry) Remove(e ecs.Entity) {
	r.mustBeAlive(e, "remove")
	r.world.RemoveEntity(e)
}

func (r *Registry) mustBeAlive(e ecs.Entity, op string) {
	if !r.world.Alive(e) {
		panic(fmt.Sprintf("registry: %s on dead entity %v", op, e))
	}
}

// Register makes component kind T known to r.
func Register[T any](r *Registry) {
	t := reflect.TypeFor[T]()
	if _, ok := r.kinds[t]; ok {
		return
	}
	r.kinds[t] = ecs.ComponentID[T](r.world)
}

// Registered reports whether T was registered.
func Registered[T any](r *Registry) bool {
	_, ok := r.kinds[reflect.TypeFor[T]()]
	return ok
}

func mustKnow[T any](r *Registry) {
	if !Registered[T](r) {
		panic(fmt.Sprintf("registry: component kind %v was never registered", reflect.TypeFor[T]()))
	}
}

// Spawn creates a new entity holding v.
func Spawn[T any](r *Registry, v T) ecs.Entity {
	mustKnow[T](r)
	return ecs.NewMap[T](r.world).NewEntity(&v)
}

// Spawn2 creates a new entity holding a and b.
func Spawn2[A, B any](r *Registry, a A, b B) ecs.Entity {
	mustKnow[A](r)
	mustKnow[B](r)
	return ecs.NewMap2[A, B](r.world).NewEntity(&a, &b)
}

// Attach sets component T on e, adding it if e does not hold one yet.
func Attach[T any](r *Registry, e ecs.Entity, v T) {
	mustKnow[T](r)
	r.mustBeAlive(e, fmt.Sprintf("attach %v", reflect.TypeFor[T]()))
	m := ecs.NewMap[T](r.world)
	if m.Has(e) {
		*m.Get(e) = v
		return
	}
	m.Add(e, &v)
}

// Detach removes component T from e if present.
func Detach[T any](r *Registry, e ecs.Entity) {
	mustKnow[T](r)
	r.mustBeAlive(e, fmt.Sprintf("detach %v", reflect.TypeFor[T]()))
	m := ecs.NewMap[T](r.world)
	if m.Has(e) {
		m.Remove(e)
	}
}

// Get returns e's component T, or nil if e is dead or lacks it.
func Get[T any](r *Registry, e ecs.Entity) *T {
	mustKnow[T](r)
	if !r.world.Alive(e) {
		return nil
	}
	m := ecs.NewMap[T](r.world)
	if !m.Has(e) {
		return nil
	}
	return m.Get(e)
}

// Has reports whether e is alive and holds T.
func Has[T any](r *Registry, e ecs.Entity) bool {
	mustKnow[T](r)
	return r.world.Alive(e) && ecs.NewMap[T](r.world).Has(e)
}

// Count returns the number of entities holding T.
func Count[T any](r *Registry) int {
	mustKnow[T](r)
	query := ecs.NewFilter1[T](r.world).Query()
	n := query.Count()
	query.Close()
	return n
}
