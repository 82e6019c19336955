package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lightlag/components"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b components.Position
		want float64
	}{
		{"same point", components.Position{X: 4, Y: 4}, components.Position{X: 4, Y: 4}, 0},
		{"axis", components.Position{}, components.Position{X: 0, Y: -7}, 7},
		{"3-4-5", components.Position{X: 1, Y: 1}, components.Position{X: 4, Y: 5}, 5},
		{"21-28-35", components.Position{}, components.Position{X: 21, Y: 28}, 35},
		{"diagonal", components.Position{}, components.Position{X: 1, Y: 1}, math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTravelTurnsTruncates(t *testing.T) {
	tests := []struct {
		d          float64
		lightspeed uint32
		want       uint64
	}{
		{0, 10, 0},
		{9.999, 10, 0},
		{10, 10, 1},
		{19.9, 10, 1},
		{35, 10, 3},
		{39.99, 10, 3},
		{100, 10, 10},
		{7, 1, 7},
	}

	for _, tt := range tests {
		if got := TravelTurns(tt.d, tt.lightspeed); got != tt.want {
			t.Errorf("TravelTurns(%v, %d) = %d, want %d", tt.d, tt.lightspeed, got, tt.want)
		}
	}
}

func TestTravelTurnsZeroLightspeedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero lightspeed")
		}
	}()
	TravelTurns(1, 0)
}

func TestAge(t *testing.T) {
	if got := Age(8, 5); got != 3 {
		t.Errorf("Age(8, 5) = %d, want 3", got)
	}
	if got := Age(5, 5); got != 0 {
		t.Errorf("Age(5, 5) = %d, want 0", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for a ghost emitted in the future")
		}
	}()
	Age(4, 5)
}

func TestHorizon(t *testing.T) {
	if got := Horizon(100, 10); got != 10 {
		t.Errorf("Horizon(100, 10) = %d, want 10", got)
	}
	if got := Horizon(35, 10); got != 3 {
		t.Errorf("Horizon(35, 10) = %d, want 3", got)
	}
}

func TestObserve(t *testing.T) {
	w := ecs.NewWorld()
	m := ecs.NewMap[components.Position](w)
	sensor := m.NewEntity(&components.Position{})
	other := m.NewEntity(&components.Position{})

	origin := components.Position{}
	far := components.Position{X: 21, Y: 28} // distance 35

	tests := []struct {
		name     string
		maxRange uint32
		ghost    components.Ghost
		gp       components.Position
		now      uint64
		want     bool
	}{
		{"arrives", 100, components.Ghost{Emitter: other, Turn: 5}, far, 8, true},
		{"too early", 100, components.Ghost{Emitter: other, Turn: 5}, far, 7, false},
		{"too late", 100, components.Ghost{Emitter: other, Turn: 5}, far, 9, false},
		{"out of range", 30, components.Ghost{Emitter: other, Turn: 5}, far, 8, false},
		{"range is inclusive", 35, components.Ghost{Emitter: other, Turn: 5}, far, 8, true},
		{"own ghost same turn", 100, components.Ghost{Emitter: sensor, Turn: 3}, origin, 3, false},
		{"other ghost same turn", 100, components.Ghost{Emitter: other, Turn: 3}, origin, 3, true},
		{"own ghost one turn out", 100, components.Ghost{Emitter: sensor, Turn: 3}, components.Position{X: 10}, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Observe(sensor, origin, tt.maxRange, tt.ghost, tt.gp, tt.now, 10)
			if got != tt.want {
				t.Errorf("Observe() = %v, want %v", got, tt.want)
			}
		})
	}
}
