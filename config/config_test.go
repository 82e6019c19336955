package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Simulation.Lightspeed != 10 {
		t.Errorf("lightspeed = %d, want 10", cfg.Simulation.Lightspeed)
	}
	if cfg.Derived.TurnInterval != time.Second {
		t.Errorf("turn interval = %v, want 1s", cfg.Derived.TurnInterval)
	}
	if cfg.Screen.ViewWidth != 150 || cfg.Screen.ViewHeight != 80 {
		t.Errorf("view = %dx%d, want 150x80", cfg.Screen.ViewWidth, cfg.Screen.ViewHeight)
	}
	if cfg.Ghosts.Retention != "keep_all" {
		t.Errorf("retention = %q, want keep_all", cfg.Ghosts.Retention)
	}
	if len(cfg.Scenario.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(cfg.Scenario.Groups))
	}
	g := cfg.Scenario.Groups[0]
	if g.Count != 100 || g.Start.X != 100 || g.Start.Y != 10 || g.Velocity.Y != 5 || !g.Detectable {
		t.Errorf("default drifters = %+v", g)
	}
}

func TestLoad_YAMLOverridesSubset(t *testing.T) {
	path := writeFile(t, "user.yaml", `
simulation:
  lightspeed: 3
ghosts:
  retention: horizon
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.Lightspeed != 3 {
		t.Errorf("lightspeed = %d, want 3", cfg.Simulation.Lightspeed)
	}
	if cfg.Simulation.TurnIntervalMS != 1000 {
		t.Errorf("turn_interval_ms = %d, want default 1000", cfg.Simulation.TurnIntervalMS)
	}
	if cfg.Ghosts.Retention != "horizon" {
		t.Errorf("retention = %q, want horizon", cfg.Ghosts.Retention)
	}
	if len(cfg.Scenario.Groups) != 2 {
		t.Errorf("groups = %d, want defaults kept", len(cfg.Scenario.Groups))
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "user.toml", `
[simulation]
lightspeed = 7
turn_interval_ms = 250

[[scenario.groups]]
name = "pair"
count = 2
detectable = true
start = { x = 5, y = 6 }
step = { x = 0, y = 2 }
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.Lightspeed != 7 {
		t.Errorf("lightspeed = %d, want 7", cfg.Simulation.Lightspeed)
	}
	if cfg.Derived.TurnInterval != 250*time.Millisecond {
		t.Errorf("turn interval = %v, want 250ms", cfg.Derived.TurnInterval)
	}
	if len(cfg.Scenario.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(cfg.Scenario.Groups))
	}
	g := cfg.Scenario.Groups[0]
	if g.Name != "pair" || g.Count != 2 || g.Start.X != 5 || g.Step.Y != 2 {
		t.Errorf("group = %+v", g)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero lightspeed", "simulation:\n  lightspeed: 0\n", "lightspeed"},
		{"negative interval", "simulation:\n  turn_interval_ms: -5\n", "turn_interval_ms"},
		{"bad retention", "ghosts:\n  retention: forever\n", "retention"},
		{"log without sensor", "scenario:\n  groups:\n    - name: x\n      count: 1\n      log: true\n", "sensor_range"},
		{"zero view", "screen:\n  view_width: 0\n", "view size"},
		{"negative grid", "simulation:\n  grid_cell_size: -1\n", "grid_cell_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.yaml", tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Simulation.Lightspeed = 42

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Simulation.Lightspeed != 42 {
		t.Errorf("lightspeed = %d, want 42", back.Simulation.Lightspeed)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
