package components

// Position is an integer world coordinate.
type Position struct {
	X, Y int
}

// Add returns p translated by v.
func (p Position) Add(v Velocity) Position {
	return Position{X: p.X + v.X, Y: p.Y + v.Y}
}

// Velocity is a per-turn integer displacement.
type Velocity struct {
	X, Y int
}
