// Package game runs the turn loop: it owns the registry, the systems, the
// scenario spawner and the telemetry sinks, and exposes the state to a
// presentation backend.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lightlag/camera"
	"github.com/pthm-cable/lightlag/clock"
	"github.com/pthm-cable/lightlag/components"
	"github.com/pthm-cable/lightlag/config"
	"github.com/pthm-cable/lightlag/registry"
	"github.com/pthm-cable/lightlag/scenario"
	"github.com/pthm-cable/lightlag/systems"
	"github.com/pthm-cable/lightlag/telemetry"
)

// Options configures a game instance.
type Options struct {
	Config      *config.Config // nil uses config.Cfg()
	LogStats    bool           // log window stats and perf via slog
	OutputDir   string         // directory for CSV output (empty = disabled)
	SnapshotDir string         // directory for bookmark snapshots (empty = disabled)
	RunID       string         // attached to every log line of this run
	Metrics     *telemetry.Metrics
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	log   *slog.Logger
	runID string

	// Core
	reg       *registry.Registry
	clock     *clock.Clock
	systemReg *systems.SystemRegistry
	emission  *systems.EmissionSystem
	movement  *systems.MovementSystem
	detection *systems.DetectionSystem
	retention systems.Retention

	// Scenario
	spawner  scenario.Spawner
	repeater scenario.Repeater // nil if the scenario never spawns after load

	// Presentation
	camera       *camera.Camera
	renderFilter ecs.Filter2[components.Position, components.Renderable]
	playerFilter ecs.Filter2[components.Player, components.SensorLog]
	logFilter    ecs.Filter2[components.Sensor, components.SensorLog]

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	metrics          *telemetry.Metrics
	snapshotDir      string
	logStats         bool
	bySensor         []int
	records          []telemetry.DetectionRecord

	// Loop state
	paused      bool
	stepPending bool
	lastTurnAt  time.Time
	turnCompute time.Duration
}

// NewGame builds a game from opts and spawns the initial population.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	logger := slog.Default()
	if opts.RunID != "" {
		logger = logger.With("run_id", opts.RunID)
	}

	reg := registry.New()
	w := reg.World()

	retention, err := systems.NewRetention(cfg.Ghosts.Retention, w, cfg.Simulation.Lightspeed)
	if err != nil {
		return nil, err
	}
	if retention.Name() != systems.RetentionKeepAll {
		logger.Warn("ghost retention enabled; ghost count no longer grows with every turn",
			"policy", retention.Name())
	}

	g := &Game{
		cfg:       cfg,
		log:       logger,
		runID:     opts.RunID,
		reg:       reg,
		clock:     clock.New(),
		systemReg: systems.NewSystemRegistry(),
		emission:  systems.NewEmissionSystem(w),
		movement:  systems.NewMovementSystem(w),
		detection: systems.NewDetectionSystem(w, cfg.Simulation.Lightspeed,
			cfg.Simulation.Workers, cfg.Simulation.ParallelThreshold),
		retention: retention,

		camera:       camera.New(cfg.Screen.ViewWidth, cfg.Screen.ViewHeight),
		renderFilter: *ecs.NewFilter2[components.Position, components.Renderable](w),
		playerFilter: *ecs.NewFilter2[components.Player, components.SensorLog](w),
		logFilter:    *ecs.NewFilter2[components.Sensor, components.SensorLog](w),

		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
		metrics:          opts.Metrics,
		snapshotDir:      opts.SnapshotDir,
		logStats:         opts.LogStats,
	}

	g.detection.SetGridCellSize(cfg.Simulation.GridCellSize)

	if g.spawner, err = newSpawner(cfg); err != nil {
		g.detection.Close()
		return nil, err
	}
	if rp, ok := g.spawner.(scenario.Repeater); ok {
		g.repeater = rp
	}

	n, err := g.spawner.Spawn(reg)
	if err != nil {
		g.Unload()
		return nil, fmt.Errorf("spawning scenario: %w", err)
	}

	if g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir, cfg.Telemetry.LogDetections); err != nil {
		g.Unload()
		return nil, err
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		g.Unload()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g.log.Info("simulation ready",
		"entities", n,
		"lightspeed", cfg.Simulation.Lightspeed,
		"turn_interval", cfg.Derived.TurnInterval,
		"retention", retention.Name(),
		"output_dir", g.outputManager.Dir(),
	)
	return g, nil
}

func newSpawner(cfg *config.Config) (scenario.Spawner, error) {
	if cfg.Scenario.Script != "" {
		return scenario.NewLuaFile(cfg.Scenario.Script, scenario.Env{
			Lightspeed: cfg.Simulation.Lightspeed,
			MapWidth:   cfg.Screen.ViewWidth,
			MapHeight:  cfg.Screen.ViewHeight,
		}), nil
	}
	return scenario.NewGroups(cfg.Scenario.Groups)
}

// Turn returns the last simulated turn.
func (g *Game) Turn() uint64 {
	return g.clock.Current()
}

// Registry exposes the entity store.
func (g *Game) Registry() *registry.Registry {
	return g.reg
}

// Camera returns the view used for presentation.
func (g *Game) Camera() *camera.Camera {
	return g.camera
}

// Paused reports whether the wall-clock loop is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// Unload releases workers, scripts and output files.
func (g *Game) Unload() {
	g.detection.Close()
	if c, ok := g.spawner.(interface{ Close() }); ok {
		c.Close()
	}
	if err := g.outputManager.Close(); err != nil {
		g.log.Error("failed to close output files", "error", err)
	}
}
