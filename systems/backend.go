package systems

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/metaballs/config"
	"github.com/pthm-cable/metaballs/game"
	"github.com/pthm-cable/metaballs/parallel"
	"github.com/pthm-cable/metaballs/points"
	"github.com/pthm-cable/metaballs/renderer"
)

// Backend is the set of devices built for one session.
// Exactly one of Software and GPU is set.
type Backend struct {
	Kind     config.Backend
	Software *renderer.Software
	GPU      *renderer.GPU
	Race     *RaceKernel // software race kernel, nil on GPU or outside race mode
	Devices  game.Devices

	closers []func()
}

// NewStore builds the point store for cfg. Race mode always uses the
// stationary race layout.
func NewStore(cfg *config.Config, rng *rand.Rand) *points.Store {
	size := cfg.Derived.Size32
	switch {
	case cfg.Race.Enabled:
		return points.FromPoints(points.ScaleTo(points.RacePreset(), size))
	case cfg.Points.Source == "preset":
		return points.FromPoints(points.ScaleTo(points.Preset(), size))
	default:
		return points.Spawn(rng, points.SpawnConfig{
			Count:     cfg.Points.Count,
			Size:      size,
			RadiusMin: cfg.Derived.RadiusMin32,
			RadiusMax: cfg.Derived.RadiusMax32,
			Growth:    cfg.Derived.RadiusGrowth32,
			Speed:     cfg.Derived.Speed32,
		})
	}
}

// NewBackend builds the devices selected by cfg for a store of n points.
// The GL43 backend needs a current GL context. The Present slot of
// Devices is left for the caller.
func NewBackend(cfg *config.Config, pool *parallel.Pool, n int) (*Backend, error) {
	mode, err := ParseSyncMode(cfg.Race.Sync)
	if err != nil {
		return nil, err
	}
	bounds := Bounds{Size: cfg.Derived.Size32}
	growth := Growth{
		Enabled: cfg.Physics.RadiusGrowth,
		Min:     cfg.Derived.RadiusMin32,
		Max:     cfg.Derived.RadiusMax32,
	}

	b := &Backend{Kind: cfg.Derived.Backend}
	switch cfg.Derived.Backend {
	case config.BackendGL43:
		if cfg.Race.Enabled && mode != SyncNone {
			return nil, fmt.Errorf("gl43 race kernel supports sync none only, got %v", mode)
		}
		gpu, err := renderer.NewGPU(renderer.GPUConfig{
			Size:          cfg.Screen.Size,
			Points:        n,
			WorkgroupSize: cfg.Device.WorkgroupSize,
			Growth:        growth.Enabled,
			RadiusMin:     growth.Min,
			RadiusMax:     growth.Max,
			RaceDX:        cfg.Derived.RaceDX32,
			RaceDY:        cfg.Derived.RaceDY32,
		})
		if err != nil {
			return nil, err
		}
		b.GPU = gpu
		b.closers = append(b.closers, gpu.Close)
		b.Devices.Uniforms = gpu
		if cfg.Race.Enabled {
			b.Devices.Race = gpu
		} else {
			b.Devices.Compute = gpu
			b.Devices.Render = gpu
		}
		return b, nil

	case config.BackendOpenCL:
		ocl, err := NewOpenCLUpdate(n, bounds, growth)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, ocl.Close)
		b.buildSoftware(cfg, pool, mode)
		if !cfg.Race.Enabled {
			b.Devices.Compute = ocl
		}
		return b, nil

	default:
		b.buildSoftware(cfg, pool, mode)
		if !cfg.Race.Enabled {
			b.Devices.Compute = NewUpdateKernel(pool, bounds, growth)
		}
		return b, nil
	}
}

func (b *Backend) buildSoftware(cfg *config.Config, pool *parallel.Pool, mode SyncMode) {
	b.Software = renderer.NewSoftware(pool, cfg.Screen.Size, cfg.Parallel.RowsPerChunk)
	b.Devices.Uniforms = b.Software
	if cfg.Race.Enabled {
		b.Race = NewRaceKernel(pool, b.Software.Frame(), RaceConfig{
			DX:           cfg.Derived.RaceDX32,
			DY:           cfg.Derived.RaceDY32,
			Mode:         mode,
			RowsPerChunk: cfg.Parallel.RowsPerChunk,
			Reanchor:     cfg.Race.Reanchor,
		})
		b.Devices.Race = b.Race
		return
	}
	b.Devices.Render = b.Software
}

// SetDebugMask switches the renderer to the marching-squares mask view.
func (b *Backend) SetDebugMask(on bool) {
	if b.GPU != nil {
		b.GPU.SetDebugMask(on)
	}
	if b.Software != nil {
		b.Software.SetDebugMask(on)
	}
}

// Close releases device resources in reverse order of creation.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// Snapshot writes the current frame to path as a PNG.
func (b *Backend) Snapshot(path string) error {
	if b.GPU != nil {
		return b.GPU.Snapshot(path)
	}
	return renderer.WritePNG(path, b.Software.Frame().Image())
}

// AddCloser registers fn to run on Close, before any device resources are
// released.
func (b *Backend) AddCloser(fn func()) { b.closers = append(b.closers, fn) }
