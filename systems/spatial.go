package systems

import (
	"slices"

	"github.com/pthm-cable/lightlag/components"
)

// cellKey addresses one grid cell. The world is unbounded, so cells are
// keyed rather than laid out in a flat slice.
type cellKey struct {
	col, row int
}

// GhostGrid buckets ghost snapshot indices by cell so that a sensor only
// scans ghosts near it. It is rebuilt every detection pass and read
// concurrently by the workers.
type GhostGrid struct {
	cellSize int
	cells    map[cellKey][]int32
}

// NewGhostGrid creates an empty grid. cellSize must be positive.
func NewGhostGrid(cellSize int) *GhostGrid {
	if cellSize <= 0 {
		panic("systems: ghost grid cell size must be positive")
	}
	return &GhostGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int32),
	}
}

// Clear empties every cell, keeping the backing arrays of cells still in use.
func (g *GhostGrid) Clear() {
	for k, idx := range g.cells {
		if len(idx) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = idx[:0]
	}
}

// Insert adds snapshot index i at position p.
func (g *GhostGrid) Insert(i int, p components.Position) {
	k := g.key(p.X, p.Y)
	g.cells[k] = append(g.cells[k], int32(i))
}

// QueryRadiusInto appends the indices of every ghost in a cell overlapping
// the square of half-width radius around p, in ascending order. Callers
// still need an exact distance check.
func (g *GhostGrid) QueryRadiusInto(dst []int32, p components.Position, radius uint32) []int32 {
	r := int(radius)
	lo := g.key(p.X-r, p.Y-r)
	hi := g.key(p.X+r, p.Y+r)

	start := len(dst)
	span := (hi.col - lo.col + 1) * (hi.row - lo.row + 1)
	if span > len(g.cells) {
		// Large radius: walking the occupied cells is cheaper.
		for k, idx := range g.cells {
			if k.col >= lo.col && k.col <= hi.col && k.row >= lo.row && k.row <= hi.row {
				dst = append(dst, idx...)
			}
		}
	} else {
		for col := lo.col; col <= hi.col; col++ {
			for row := lo.row; row <= hi.row; row++ {
				dst = append(dst, g.cells[cellKey{col, row}]...)
			}
		}
	}

	// Ghost order decides log order.
	slices.Sort(dst[start:])
	return dst
}

func (g *GhostGrid) key(x, y int) cellKey {
	return cellKey{col: floorDiv(x, g.cellSize), row: floorDiv(y, g.cellSize)}
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
