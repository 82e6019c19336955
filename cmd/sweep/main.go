// Command sweep runs the same scenario headless under every combination of
// detection settings and reports which one simulates turns fastest. Every
// combination must produce the same detections; a mismatch is reported.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/lightlag/config"
	"github.com/pthm-cable/lightlag/game"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// result is one row of sweep.csv.
type result struct {
	Eval              int     `csv:"eval"`
	GridCellSize      int     `csv:"grid_cell_size"`
	Workers           int     `csv:"workers"`
	ParallelThreshold int     `csv:"parallel_threshold"`
	Turns             uint64  `csv:"turns"`
	Detections        int     `csv:"detections"`
	AvgTurnUS         float64 `csv:"avg_turn_us"`
	MaxTurnUS         float64 `csv:"max_turn_us"`
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config file (empty = use defaults)")
	turns := flag.Uint64("turns", 200, "Turns simulated per evaluation")
	outputDir := flag.String("output", "", "Output directory for results")
	cells := flag.String("grid-cell-size", "", "Comma-separated grid cell sizes (empty = default grid)")
	workers := flag.String("workers", "", "Comma-separated worker counts (empty = default grid)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if *outputDir == "" {
		slog.Error("--output is required")
		os.Exit(1)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	grid := NewParamGrid()
	for name, list := range map[string]string{"grid_cell_size": *cells, "workers": *workers} {
		if list == "" {
			continue
		}
		vals, err := parseValues(list)
		if err == nil {
			err = grid.Override(name, vals)
		}
		if err != nil {
			slog.Error("invalid parameter list", "param", name, "error", err)
			os.Exit(1)
		}
	}

	results, best, err := sweep(*configPath, grid, *turns)
	if err != nil {
		slog.Error("sweep failed", "error", err)
		os.Exit(1)
	}

	csvPath := filepath.Join(*outputDir, "sweep.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		slog.Error("failed to create results file", "error", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&results, f); err != nil {
		slog.Error("failed to write results", "error", err)
		os.Exit(1)
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to reload config", "error", err)
		os.Exit(1)
	}
	grid.ApplyToConfig(bestCfg, grid.Point(best))
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		slog.Error("failed to write best config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nBest: %s at %.1fus/turn\n", grid.Describe(grid.Point(best)), results[best].AvgTurnUS)
	fmt.Printf("Results saved to: %s\nBest config saved to: %s\n", csvPath, configOutPath)
}

// sweep evaluates every grid point and returns the results and the index
// of the fastest point.
func sweep(configPath string, grid *ParamGrid, turns uint64) ([]result, int, error) {
	results := make([]result, 0, grid.Size())
	best := 0
	startTime := time.Now()

	for i := 0; i < grid.Size(); i++ {
		p := grid.Point(i)
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, 0, err
		}
		grid.ApplyToConfig(cfg, p)

		r, err := evaluate(cfg, turns)
		if err != nil {
			return nil, 0, fmt.Errorf("evaluating %s: %w", grid.Describe(p), err)
		}
		r.Eval = i + 1
		results = append(results, r)

		if len(results) > 1 && r.Detections != results[0].Detections {
			slog.Warn("detections differ between settings",
				"params", grid.Describe(p),
				"detections", r.Detections,
				"baseline", results[0].Detections,
			)
		}
		if r.AvgTurnUS < results[best].AvgTurnUS {
			best = i
		}

		elapsed := time.Since(startTime)
		remaining := time.Duration(grid.Size()-len(results)) * (elapsed / time.Duration(len(results)))
		fmt.Printf("Eval %d/%d: %s avg=%.1fus max=%.1fus | elapsed: %s, ETA: %s\n",
			len(results), grid.Size(), grid.Describe(p), r.AvgTurnUS, r.MaxTurnUS,
			formatDuration(elapsed), formatDuration(remaining))
	}
	return results, best, nil
}

// evaluate runs one headless game for the given number of turns.
func evaluate(cfg *config.Config, turns uint64) (result, error) {
	g, err := game.NewGame(game.Options{Config: cfg})
	if err != nil {
		return result{}, err
	}
	defer g.Unload()

	r := result{
		GridCellSize:      cfg.Simulation.GridCellSize,
		Workers:           cfg.Simulation.Workers,
		ParallelThreshold: cfg.Simulation.ParallelThreshold,
		Turns:             turns,
	}
	var total, worst time.Duration
	for t := uint64(0); t < turns; t++ {
		res := g.UpdateHeadless()
		r.Detections += res.Matches
		total += res.Duration
		worst = max(worst, res.Duration)
	}
	if turns > 0 {
		r.AvgTurnUS = float64(total.Microseconds()) / float64(turns)
	}
	r.MaxTurnUS = float64(worst.Microseconds())
	return r, nil
}
