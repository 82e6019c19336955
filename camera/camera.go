// Package camera provides a 2D camera system for viewport control.
package camera

import "github.com/pthm-cable/lightlag/components"

// Camera is an integer window into the unbounded simulation grid.
// The simulation never reads it.
type Camera struct {
	// X, Y is the world cell shown at the top-left of the view
	X, Y int

	// View dimensions in cells
	ViewW, ViewH int
}

// New creates a camera of the given view size looking at the origin.
func New(viewW, viewH int) *Camera {
	return &Camera{ViewW: viewW, ViewH: viewH}
}

// Contains reports whether world position p is inside the view.
func (c *Camera) Contains(p components.Position) bool {
	return p.X >= c.X && p.X < c.X+c.ViewW &&
		p.Y >= c.Y && p.Y < c.Y+c.ViewH
}

// WorldToScreen converts a world position to view coordinates.
// Returns false if the position is outside the view.
func (c *Camera) WorldToScreen(p components.Position) (sx, sy int, ok bool) {
	if !c.Contains(p) {
		return 0, 0, false
	}
	return p.X - c.X, p.Y - c.Y, true
}

// ScreenToWorld converts view coordinates to a world position.
func (c *Camera) ScreenToWorld(sx, sy int) components.Position {
	return components.Position{X: c.X + sx, Y: c.Y + sy}
}

// Pan moves the view by the given number of cells.
func (c *Camera) Pan(dx, dy int) {
	c.X += dx
	c.Y += dy
}

// Resize updates view dimensions, keeping the top-left corner.
func (c *Camera) Resize(viewW, viewH int) {
	c.ViewW = max(viewW, 0)
	c.ViewH = max(viewH, 0)
}

// Reset returns the camera to the origin.
func (c *Camera) Reset() {
	c.X = 0
	c.Y = 0
}

// Translation returns the view offset with y growing upwards, the
// convention shown on the status line.
func (c *Camera) Translation() (x, y int) {
	return c.X, -c.Y
}
