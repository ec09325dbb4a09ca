// Race demo - runs the race kernel headless under every sync mode and reports
// how many point updates each mode lost.
//
// Usage: go run ./cmd/racedemo -frames 10 -size 256 -output-dir race_out
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pthm-cable/metaballs/config"
	"github.com/pthm-cable/metaballs/parallel"
	"github.com/pthm-cable/metaballs/points"
	"github.com/pthm-cable/metaballs/renderer"
	"github.com/pthm-cable/metaballs/systems"
	"github.com/pthm-cable/metaballs/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	frames := flag.Int("frames", 10, "Race dispatches per sync mode")
	size := flag.Int("size", 256, "Render size")
	workers := flag.Int("workers", 0, "Worker goroutines (0 = use config)")
	outputDir := flag.String("output-dir", "", "Directory for race.csv and final frames (empty = none)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg.Screen.Size = *size
	if *workers > 0 {
		cfg.Parallel.Workers = *workers
	}
	if err := cfg.Finalize(); err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	pool := parallel.New(cfg.Parallel.Workers, cfg.Parallel.Threshold)
	defer pool.Close()

	for _, mode := range []systems.SyncMode{systems.SyncNone, systems.SyncAtomic, systems.SyncLocked} {
		if err := runMode(cfg, pool, mode, *frames, out); err != nil {
			slog.Error("race run failed", "mode", mode, "error", err)
			os.Exit(1)
		}
	}
}

func runMode(cfg *config.Config, pool *parallel.Pool, mode systems.SyncMode, frames int, out *telemetry.OutputManager) error {
	store := points.FromPoints(points.ScaleTo(points.RacePreset(), cfg.Derived.Size32))
	frame := renderer.NewFrame(cfg.Screen.Size, cfg.Screen.Size)
	dx, dy := cfg.Derived.RaceDX32, cfg.Derived.RaceDY32
	k := systems.NewRaceKernel(pool, frame, systems.RaceConfig{
		DX:           dx,
		DY:           dy,
		Mode:         mode,
		RowsPerChunk: cfg.Parallel.RowsPerChunk,
		Reanchor:     cfg.Race.Reanchor,
	})

	var nudges int64
	var lostX, lostY float64
	var saturated int
	for i := 1; i <= frames; i++ {
		if err := k.RenderRace(store.Shared()); err != nil {
			return err
		}
		pass := k.LastPass()
		rec := pass.Record(int64(i), dx, dy)
		nudges += rec.Nudges
		lostX += rec.LostX
		lostY += rec.LostY
		saturated += rec.Saturated
		if err := out.WriteRace(rec); err != nil {
			return err
		}
	}

	sx, sy := k.LastPass().Drift()
	slog.Info("race summary",
		"mode", mode,
		"workers", pool.Workers(),
		"frames", frames,
		"nudges", nudges,
		"lost_x", lostX,
		"lost_y", lostY,
		"saturated", saturated,
		"last_x", sx,
		"last_y", sy,
	)

	if out != nil {
		path := filepath.Join(out.Dir(), fmt.Sprintf("race_%s.png", mode))
		if err := renderer.WritePNG(path, frame.Image()); err != nil {
			return err
		}
	}
	return nil
}
