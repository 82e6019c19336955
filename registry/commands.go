package registry

import (
	"sync"

	"github.com/mlange-42/ark/ecs"
)

// Op is a deferred registry mutation.
type Op func(r *Registry)

// Commands queues mutations requested while a pass iterates the world.
// Queued operations take effect only when Registry.Sync runs. Push is safe
// for concurrent use.
type Commands struct {
	mu  sync.Mutex
	ops []Op
}

// Push queues op.
func (c *Commands) Push(op Op) {
	c.mu.Lock()
	c.ops = append(c.ops, op)
	c.mu.Unlock()
}

// Len returns the number of pending operations.
func (c *Commands) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ops)
}

// Despawn queues removal of e.
func (c *Commands) Despawn(e ecs.Entity) {
	c.Push(func(r *Registry) { r.Remove(e) })
}

func (c *Commands) drain() []Op {
	c.mu.Lock()
	ops := c.ops
	c.ops = nil
	c.mu.Unlock()
	return ops
}

// SpawnLater queues creation of an entity holding v.
func SpawnLater[T any](c *Commands, v T) {
	c.Push(func(r *Registry) { Spawn(r, v) })
}

// SpawnLater2 queues creation of an entity holding a and b.
func SpawnLater2[A, B any](c *Commands, a A, b B) {
	c.Push(func(r *Registry) { Spawn2(r, a, b) })
}

// Insert queues Attach of v to e.
func Insert[T any](c *Commands, e ecs.Entity, v T) {
	c.Push(func(r *Registry) { Attach(r, e, v) })
}

// Strip queues Detach of T from e.
func Strip[T any](c *Commands, e ecs.Entity) {
	c.Push(func(r *Registry) { Detach[T](r, e) })
}
