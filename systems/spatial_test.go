package systems

import (
	"slices"
	"testing"

	"github.com/pthm-cable/lightlag/components"
)

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{7, 4, 1},
		{8, 4, 2},
		{0, 4, 0},
		{-1, 4, -1},
		{-4, 4, -1},
		{-5, 4, -2},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestGhostGrid_QueryRadius(t *testing.T) {
	g := NewGhostGrid(10)
	positions := []components.Position{
		{X: 0, Y: 0},     // 0
		{X: 35, Y: 0},    // 1
		{X: -12, Y: 3},   // 2
		{X: 500, Y: 500}, // 3
		{X: 5, Y: -9},    // 4
	}
	for i, p := range positions {
		g.Insert(i, p)
	}

	got := g.QueryRadiusInto(nil, components.Position{}, 15)
	want := []int32{0, 2, 4}
	if !slices.Equal(got, want) {
		t.Errorf("query r=15 = %v, want %v", got, want)
	}

	// Every ghost within the radius must be a candidate.
	got = g.QueryRadiusInto(got[:0], components.Position{}, 40)
	for i, p := range positions {
		if Distance(components.Position{}, p) <= 40 && !slices.Contains(got, int32(i)) {
			t.Errorf("query r=40 missed ghost %d at %+v", i, p)
		}
	}
	if !slices.IsSorted(got) {
		t.Errorf("candidates not sorted: %v", got)
	}
}

func TestGhostGrid_LargeRadiusWalksCells(t *testing.T) {
	g := NewGhostGrid(4)
	g.Insert(0, components.Position{X: 1000, Y: -1000})
	g.Insert(1, components.Position{X: -900, Y: 900})

	got := g.QueryRadiusInto(nil, components.Position{}, 5000)
	if !slices.Equal(got, []int32{0, 1}) {
		t.Errorf("query = %v, want [0 1]", got)
	}
}

func TestGhostGrid_Clear(t *testing.T) {
	g := NewGhostGrid(10)
	g.Insert(0, components.Position{X: 1, Y: 1})
	g.Clear()
	if got := g.QueryRadiusInto(nil, components.Position{}, 20); len(got) != 0 {
		t.Errorf("query after Clear = %v, want empty", got)
	}
	// A second Clear drops the now-empty cell.
	g.Clear()
	if len(g.cells) != 0 {
		t.Errorf("cells after second Clear = %d, want 0", len(g.cells))
	}
}
