package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metaballs/config"
	"github.com/pthm-cable/metaballs/game"
	"github.com/pthm-cable/metaballs/parallel"
	"github.com/pthm-cable/metaballs/points"
	"github.com/pthm-cable/metaballs/renderer"
	"github.com/pthm-cable/metaballs/systems"
	"github.com/pthm-cable/metaballs/telemetry"
	"github.com/pthm-cable/metaballs/ui"
)

const controlsLegend = "C/S/O/R/W/T toggle uniforms | [ ] cell size | M cell mask | Space pause | Tab panel | F12 snapshot"

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a visible window")
	backend := flag.String("backend", "", "Device backend: software, gl43 or opencl (empty = use config)")
	race := flag.Bool("race", false, "Render through the race kernel")
	syncMode := flag.String("sync", "", "Race sync mode: none, atomic or locked (empty = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotEvery := flag.Int("snapshot-every", 0, "Headless: write a PNG every N frames (0 = never)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *backend != "" {
		cfg.Device.Backend = *backend
	}
	if *race {
		cfg.Race.Enabled = true
	}
	if *syncMode != "" {
		cfg.Race.Sync = *syncMode
	}
	if err := cfg.Finalize(); err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := options{
		headless:      *headless,
		outputDir:     *outputDir,
		snapshotEvery: *snapshotEvery,
		maxFrames:     int64(*maxFrames),
		seed:          rngSeed,
	}
	if err := run(cfg, opts); err != nil {
		if errors.Is(err, game.ErrUnsupportedPlatform) {
			slog.Error("compute kernels are not supported on this platform", "backend", cfg.Derived.Backend, "error", err)
		} else {
			slog.Error("session failed", "error", err)
		}
		os.Exit(1)
	}
}

type options struct {
	headless      bool
	outputDir     string
	snapshotEvery int
	maxFrames     int64
	seed          int64
}

// session bundles everything one run owns.
type session struct {
	cfg     *config.Config
	opts    options
	store   *points.Store
	backend *systems.Backend
	driver  *game.Driver
	perf    *telemetry.PerfCollector
	output  *telemetry.OutputManager
	logger  game.PerfLogger
	window  *renderer.Window

	raceStats *telemetry.DriftStats
}

func run(cfg *config.Config, opts options) error {
	gl := cfg.Derived.Backend == config.BackendGL43
	if !opts.headless || gl {
		if opts.headless {
			rl.SetConfigFlags(rl.FlagWindowHidden)
		}
		side := int32(cfg.Screen.Size * cfg.Screen.Scale)
		rl.InitWindow(side, side, "Metaballs")
		defer rl.CloseWindow()
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	}

	s, err := newSession(cfg, opts)
	if err != nil {
		return err
	}
	defer s.close()

	slog.Info("starting session",
		"backend", cfg.Derived.Backend,
		"points", s.store.Len(),
		"race", cfg.Race.Enabled,
		"sync", cfg.Race.Sync,
		"size", cfg.Screen.Size,
		"workers", cfg.Parallel.Workers,
		"seed", opts.seed,
		"headless", opts.headless,
	)

	if opts.headless {
		err = s.runHeadless()
	} else {
		err = s.runWindow()
	}
	slog.Info("session ended", "frames", s.driver.Frames())
	return err
}

func newSession(cfg *config.Config, opts options) (*session, error) {
	s := &session{cfg: cfg, opts: opts}
	s.store = systems.NewStore(cfg, rand.New(rand.NewSource(opts.seed)))

	pool := parallel.New(cfg.Parallel.Workers, cfg.Parallel.Threshold)
	b, err := systems.NewBackend(cfg, pool, s.store.Len())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating %s backend: %w", cfg.Derived.Backend, err)
	}
	b.AddCloser(pool.Close)
	s.backend = b

	if s.output, err = telemetry.NewOutputManager(opts.outputDir); err != nil {
		b.Close()
		return nil, err
	}
	if err := s.output.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	u, err := game.NewUniforms(game.ParamsFromConfig(cfg.Uniforms))
	if err != nil {
		s.close()
		return nil, err
	}

	dev := b.Devices
	dev.Present = s.presenter()
	if s.driver, err = game.NewDriver(s.store, u, dev); err != nil {
		s.close()
		return nil, err
	}

	s.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	s.driver.SetPerf(s.perf)
	s.logger = game.PerfLogger{
		Interval: int64(cfg.Telemetry.LogInterval),
		Perf:     s.perf,
		Output:   s.output,
	}
	s.driver.SetObserver(s.observe)
	return s, nil
}

func (s *session) presenter() game.Presenter {
	if s.opts.headless {
		h := &renderer.Headless{Dir: filepath.Join(s.opts.outputDir, "frames"), SnapshotEvery: s.opts.snapshotEvery}
		if s.backend.Software != nil {
			h.Frame = s.backend.Software.Frame()
		}
		return h
	}

	var w *renderer.Window
	if s.backend.GPU != nil {
		w = renderer.NewGPUWindow(s.backend.GPU)
	} else {
		w = renderer.NewSoftwareWindow(s.backend.Software.Frame())
		s.backend.AddCloser(w.Close)
	}
	s.window = w
	return w
}

// observe runs after every completed frame.
func (s *session) observe(frame int64) error {
	if err := s.logger.Observe(frame); err != nil {
		return err
	}
	if s.backend.Race == nil {
		return nil
	}

	pass := s.backend.Race.LastPass()
	dx, dy := s.cfg.Derived.RaceDX32, s.cfg.Derived.RaceDY32
	rec := pass.Record(frame, dx, dy)
	sx, sy := pass.Drift()
	if dx == 0 {
		sx = sy
	}
	s.raceStats = &sx

	interval := int64(s.cfg.Telemetry.LogInterval)
	if interval > 0 && frame%interval == 0 {
		slog.Info("race", "frame", frame, "mode", pass.Mode, "lost_x", rec.LostX, "lost_y", rec.LostY, "saturated", rec.Saturated, "drift", sx)
	}
	return s.output.WriteRace(rec)
}

func (s *session) runHeadless() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	frames := make(chan time.Duration)
	go func() {
		defer close(frames)
		start := time.Now()
		for i := int64(0); s.opts.maxFrames == 0 || i < s.opts.maxFrames; i++ {
			select {
			case frames <- time.Since(start):
			case <-ctx.Done():
				return
			}
		}
	}()
	return s.driver.Run(ctx, frames)
}

func (s *session) runWindow() error {
	hud := ui.NewHUD()
	controls := ui.NewControlsPanel(10, 10, 220)
	perfPanel := ui.NewPerfPanel(10, 0)

	var paused, mask bool
	w := s.driver.Uniforms()
	present := s.window
	present.SetOverlay(func() {
		sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
		prevMask := mask
		y := controls.Draw(w, &mask)
		if mask != prevMask {
			s.backend.SetDebugMask(mask)
		}
		if controls.IsVisible() {
			perfPanel.SetPosition(10, y+10)
			perfPanel.Draw(s.perf.Stats())
		}
		mode := "metaballs"
		if s.cfg.Race.Enabled {
			mode = "race/" + s.cfg.Race.Sync
		}
		hud.Draw(ui.HUDData{
			Title:   "Metaballs",
			Backend: s.cfg.Derived.Backend.String(),
			Mode:    mode,
			Points:  s.store.Len(),
			Frames:  s.driver.Frames(),
			FPS:     rl.GetFPS(),
			Paused:  paused,
			Race:    s.raceStats,
		}, sw)
		hud.DrawControls(sh, controlsLegend)
	})

	start := time.Now()
	for !rl.WindowShouldClose() {
		a := game.HandleInput(w)
		if a.TogglePause {
			paused = !paused
		}
		if a.ToggleMask {
			mask = !mask
			s.backend.SetDebugMask(mask)
		}
		if a.ToggleUI {
			controls.Toggle()
		}
		if a.Screenshot {
			path := filepath.Join(s.opts.outputDir, fmt.Sprintf("snapshot_%06d.png", s.driver.Frames()))
			if err := s.backend.Snapshot(path); err != nil {
				slog.Warn("snapshot failed", "error", err)
			} else {
				slog.Info("snapshot written", "path", path)
			}
		}

		if paused {
			if err := present.Present(); err != nil {
				return err
			}
			continue
		}
		if err := s.driver.Frame(time.Since(start)); err != nil {
			return err
		}
		if s.opts.maxFrames > 0 && s.driver.Frames() >= s.opts.maxFrames {
			slog.Info("max frames reached", "frames", s.driver.Frames())
			return nil
		}
	}
	return nil
}

func (s *session) close() {
	if err := s.output.Close(); err != nil {
		slog.Warn("closing output", "error", err)
	}
	if s.backend != nil {
		s.backend.Close()
	}
}
