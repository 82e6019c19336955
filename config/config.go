// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen" toml:"screen"`
	Simulation SimulationConfig `yaml:"simulation" toml:"simulation"`
	Ghosts     GhostsConfig     `yaml:"ghosts" toml:"ghosts"`
	Scenario   ScenarioConfig   `yaml:"scenario" toml:"scenario"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" toml:"telemetry"`
	Metrics    MetricsConfig    `yaml:"metrics" toml:"metrics"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" toml:"-"`
}

// ScreenConfig holds display settings. Sizes are in character cells.
type ScreenConfig struct {
	Width      int `yaml:"width" toml:"width"`             // Console width including status lines
	Height     int `yaml:"height" toml:"height"`           // Console height including status lines
	ViewWidth  int `yaml:"view_width" toml:"view_width"`   // Map view width inside the border
	ViewHeight int `yaml:"view_height" toml:"view_height"` // Map view height inside the border
	TargetFPS  int `yaml:"target_fps" toml:"target_fps"`
	CellSize   int `yaml:"cell_size" toml:"cell_size"` // Pixels per cell in window mode
}

// SimulationConfig holds turn and light-delay parameters.
type SimulationConfig struct {
	Lightspeed        uint32 `yaml:"lightspeed" toml:"lightspeed"`                 // Distance light covers per turn
	TurnIntervalMS    int    `yaml:"turn_interval_ms" toml:"turn_interval_ms"`     // Wall-clock time between turns
	Workers           int    `yaml:"workers" toml:"workers"`                       // Detection workers (0 = GOMAXPROCS)
	ParallelThreshold int    `yaml:"parallel_threshold" toml:"parallel_threshold"` // Min sensors for a parallel pass
	GridCellSize      int    `yaml:"grid_cell_size" toml:"grid_cell_size"`         // Ghost index cell size (0 = scan all ghosts)
}

// GhostsConfig holds ghost record handling.
type GhostsConfig struct {
	Retention string `yaml:"retention" toml:"retention"` // keep_all or horizon
}

// ScenarioConfig describes the initial population.
// A non-empty Script replaces Groups with a Lua scenario.
type ScenarioConfig struct {
	Script string        `yaml:"script" toml:"script"`
	Groups []GroupConfig `yaml:"groups" toml:"groups"`
}

// PointConfig is an integer grid point or offset.
type PointConfig struct {
	X int `yaml:"x" toml:"x"`
	Y int `yaml:"y" toml:"y"`
}

// GroupConfig places Count entities on a line from Start in Step increments.
type GroupConfig struct {
	Name        string      `yaml:"name" toml:"name"`
	Count       int         `yaml:"count" toml:"count"`
	Start       PointConfig `yaml:"start" toml:"start"`
	Step        PointConfig `yaml:"step" toml:"step"`
	Velocity    PointConfig `yaml:"velocity" toml:"velocity"`
	Detectable  bool        `yaml:"detectable" toml:"detectable"`
	SensorRange uint32      `yaml:"sensor_range" toml:"sensor_range"` // 0 = no sensor
	Log         bool        `yaml:"log" toml:"log"`                   // Keep a detection log (sensors only)
	Player      bool        `yaml:"player" toml:"player"`             // Draw this entity's detections
	Every       int         `yaml:"every" toml:"every"`               // Respawn the group every N turns (0 = once)
	Glyph       string      `yaml:"glyph" toml:"glyph"`
	Fg          string      `yaml:"fg" toml:"fg"`
	Bg          string      `yaml:"bg" toml:"bg"`
	Hidden      bool        `yaml:"hidden" toml:"hidden"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int  `yaml:"stats_window" toml:"stats_window"`                   // Turns per stats window
	PerfCollectorWindow int  `yaml:"perf_collector_window" toml:"perf_collector_window"` // Turns averaged by the perf collector
	LogDetections       bool `yaml:"log_detections" toml:"log_detections"`               // Write detections.csv
	BookmarkHistory     int  `yaml:"bookmark_history" toml:"bookmark_history"`           // Windows in the bookmark rolling average
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Addr string `yaml:"addr" toml:"addr"` // Listen address, empty disables the endpoint
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TurnInterval time.Duration // Simulation.TurnIntervalMS as a duration
	FrameTime    time.Duration // 1s / Screen.TargetFPS
	WindowW      int32         // Screen.Width * Screen.CellSize
	WindowH      int32         // Screen.Height * Screen.CellSize
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns the embedded default configuration.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML or TOML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := cfg.merge(path, data); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// merge decodes data over c, picking the format from the file extension.
func (c *Config) merge(path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		// toml decodes arrays of tables into existing elements, so groups
		// from the file must not land on top of the default groups.
		groups := c.Scenario.Groups
		c.Scenario.Groups = nil
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return err
		}
		if !md.IsDefined("scenario", "groups") {
			c.Scenario.Groups = groups
		}
		return nil
	default:
		return yaml.Unmarshal(data, c)
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.Lightspeed == 0 {
		errs = append(errs, errors.New("simulation.lightspeed must be positive"))
	}
	if c.Simulation.TurnIntervalMS < 0 {
		errs = append(errs, errors.New("simulation.turn_interval_ms must not be negative"))
	}
	if c.Simulation.Workers < 0 {
		errs = append(errs, errors.New("simulation.workers must not be negative"))
	}
	if c.Simulation.GridCellSize < 0 {
		errs = append(errs, errors.New("simulation.grid_cell_size must not be negative"))
	}
	if c.Screen.ViewWidth <= 0 || c.Screen.ViewHeight <= 0 {
		errs = append(errs, errors.New("screen view size must be positive"))
	}
	switch c.Ghosts.Retention {
	case "", "keep_all", "horizon":
	default:
		errs = append(errs, fmt.Errorf("ghosts.retention %q is not keep_all or horizon", c.Ghosts.Retention))
	}
	for i, g := range c.Scenario.Groups {
		if g.Count < 0 {
			errs = append(errs, fmt.Errorf("scenario.groups[%d] (%s): count must not be negative", i, g.Name))
		}
		if g.Every < 0 {
			errs = append(errs, fmt.Errorf("scenario.groups[%d] (%s): every must not be negative", i, g.Name))
		}
		if g.Log && g.SensorRange == 0 {
			errs = append(errs, fmt.Errorf("scenario.groups[%d] (%s): log requires a sensor_range", i, g.Name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TurnInterval = time.Duration(c.Simulation.TurnIntervalMS) * time.Millisecond

	c.Derived.FrameTime = 0
	if c.Screen.TargetFPS > 0 {
		c.Derived.FrameTime = time.Second / time.Duration(c.Screen.TargetFPS)
	}

	cell := c.Screen.CellSize
	if cell <= 0 {
		cell = 1
	}
	c.Derived.WindowW = int32(c.Screen.Width * cell)
	c.Derived.WindowH = int32(c.Screen.Height * cell)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
