package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/lightlag/config"
	"github.com/pthm-cable/lightlag/game"
	"github.com/pthm-cable/lightlag/render"
	"github.com/pthm-cable/lightlag/telemetry"
)

type flags struct {
	headless    bool
	window      bool
	logStats    bool
	outputDir   string
	snapshotDir string
	maxTurns    uint64
	metricsAddr string
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to a .yaml or .toml config (empty = use defaults)")
	var f flags
	flag.BoolVar(&f.headless, "headless", false, "Run turns back to back without presentation")
	flag.BoolVar(&f.window, "window", false, "Draw in a raylib window instead of the terminal")
	flag.BoolVar(&f.logStats, "log-stats", false, "Output stats via slog")
	flag.StringVar(&f.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	flag.StringVar(&f.snapshotDir, "snapshot-dir", "", "Directory for snapshots saved on bookmarks")
	flag.Uint64Var(&f.maxTurns, "max-turns", 0, "Stop a headless run after N turns (0 = unlimited)")
	flag.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (overrides config)")
	flag.Parse()

	// The terminal backend owns stdout.
	var logOut io.Writer = os.Stdout
	if !f.headless && !f.window {
		logOut = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if f.metricsAddr != "" {
		cfg.Metrics.Addr = f.metricsAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, f); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, f flags) error {
	runID := uuid.NewString()

	var metrics *telemetry.Metrics
	if cfg.Metrics.Addr != "" {
		var err error
		if metrics, err = telemetry.NewMetrics(nil); err != nil {
			return err
		}
	}

	g, err := game.NewGame(game.Options{
		Config:      cfg,
		LogStats:    f.logStats,
		OutputDir:   f.outputDir,
		SnapshotDir: f.snapshotDir,
		RunID:       runID,
		Metrics:     metrics,
	})
	if err != nil {
		return err
	}
	defer g.Unload()
	defer g.LogSummary()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	grp, ctx := errgroup.WithContext(ctx)

	if metrics != nil {
		serveMetrics(ctx, grp, cfg.Metrics.Addr, metrics)
	}

	switch {
	case f.headless:
		slog.Info("starting headless simulation", "run_id", runID, "max_turns", f.maxTurns)
		grp.Go(func() error {
			defer cancel()
			for f.maxTurns == 0 || g.Turn() < f.maxTurns {
				if ctx.Err() != nil {
					return nil
				}
				g.UpdateHeadless()
			}
			slog.Info("max turns reached", "turn", g.Turn())
			return nil
		})
		return grp.Wait()

	case f.window:
		// raylib must stay on the main goroutine.
		win := render.NewWindow(cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.CellSize, cfg.Screen.TargetFPS)
		defer win.Close()
		runErr := g.Run(ctx, win, 0)
		cancel()
		return errors.Join(runErr, grp.Wait())

	default:
		term, err := render.NewTerminal()
		if err != nil {
			cancel()
			return errors.Join(fmt.Errorf("opening terminal: %w", err), grp.Wait())
		}
		defer term.Close()
		grp.Go(func() error { return term.Run(ctx) })
		grp.Go(func() error {
			defer cancel()
			return g.Run(ctx, term, cfg.Derived.FrameTime)
		})
		return grp.Wait()
	}
}

// serveMetrics runs the /metrics endpoint until ctx is done.
func serveMetrics(ctx context.Context, grp *errgroup.Group, addr string, m *telemetry.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	grp.Go(func() error {
		slog.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
