// Package clock holds the simulation turn counter.
package clock

import "sync/atomic"

// Clock is the process-wide turn counter. It is advanced once at the start
// of every turn by the turn loop and read by every system during that turn.
type Clock struct {
	turn atomic.Uint64
}

// New returns a clock at turn 0.
func New() *Clock {
	return &Clock{}
}

// Advance moves to the next turn and returns it.
func (c *Clock) Advance() uint64 {
	return c.turn.Add(1)
}

// Current returns the turn being simulated.
func (c *Clock) Current() uint64 {
	return c.turn.Load()
}
