// Package game drives the per-frame pipeline: uniform sync, point update,
// per-pixel render and present.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/metaballs/points"
	"github.com/pthm-cable/metaballs/telemetry"
)

// State is a frame pipeline stage.
type State uint8

const (
	StateIdle State = iota
	StateUniformSync
	StateCompute
	StateRender
	StatePresent
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUniformSync:
		return "uniform_sync"
	case StateCompute:
		return "compute"
	case StateRender:
		return "render"
	case StatePresent:
		return "present"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// phase maps pipeline stages to perf phases.
var phase = [...]string{
	StateUniformSync: telemetry.PhaseUniformSync,
	StateCompute:     telemetry.PhaseCompute,
	StateRender:      telemetry.PhaseRender,
	StatePresent:     telemetry.PhasePresent,
}

// StateHook observes every transition. It runs on the driver goroutine.
type StateHook func(from, to State)

// Driver owns the point store across frames and sequences the devices.
type Driver struct {
	store    *points.Store
	uniforms *Uniforms
	dev      Devices
	perf     *telemetry.PerfCollector
	hook     StateHook
	observe  func(frame int64) error

	state State
	frame int64
}

// NewDriver creates a driver. When dev.Race is set the compute stage is
// skipped and rendering goes through the race device.
func NewDriver(store *points.Store, uniforms *Uniforms, dev Devices) (*Driver, error) {
	var errs []error
	if store == nil {
		errs = append(errs, errors.New("nil point store"))
	}
	if uniforms == nil {
		errs = append(errs, errors.New("nil uniforms"))
	}
	if dev.Uniforms == nil {
		errs = append(errs, errors.New("no uniform writer"))
	}
	if dev.Present == nil {
		errs = append(errs, errors.New("no presenter"))
	}
	if dev.Race == nil {
		if dev.Compute == nil {
			errs = append(errs, errors.New("no compute device"))
		}
		if dev.Render == nil {
			errs = append(errs, errors.New("no render device"))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("creating driver: %w", errors.Join(errs...))
	}
	return &Driver{store: store, uniforms: uniforms, dev: dev}, nil
}

// SetPerf attaches a perf collector. Nil disables timing.
func (d *Driver) SetPerf(p *telemetry.PerfCollector) { d.perf = p }

// SetHook attaches a transition observer.
func (d *Driver) SetHook(h StateHook) { d.hook = h }

// SetObserver attaches a callback run after every completed frame with the
// new frame count. Its error ends Run.
func (d *Driver) SetObserver(fn func(frame int64) error) { d.observe = fn }

// State returns the current stage. Between frames it is StateIdle.
func (d *Driver) State() State { return d.state }

// Frames returns the number of completed frames.
func (d *Driver) Frames() int64 { return d.frame }

// Uniforms returns the driver's uniform set.
func (d *Driver) Uniforms() *Uniforms { return d.uniforms }

// RaceMode reports whether frames render through the race device.
func (d *Driver) RaceMode() bool { return d.dev.Race != nil }

func (d *Driver) enter(s State) {
	from := d.state
	d.state = s
	if d.perf != nil && s != StateIdle {
		d.perf.StartPhase(phase[s])
	}
	if d.hook != nil {
		d.hook(from, s)
	}
}

// Frame runs one iteration of the pipeline. t is the session clock.
// On error the driver returns to idle and the error names the failed stage.
func (d *Driver) Frame(t time.Duration) error {
	if d.perf != nil {
		d.perf.StartFrame()
	}
	err := d.runStages(t)
	d.enter(StateIdle)
	if d.perf != nil {
		d.perf.EndFrame()
	}
	if err != nil {
		return err
	}
	d.frame++
	if d.observe != nil {
		if err := d.observe(d.frame); err != nil {
			return fmt.Errorf("frame observer: %w", err)
		}
	}
	return nil
}

func (d *Driver) runStages(t time.Duration) error {
	if d.uniforms.Params().TimeColoring {
		// Millisecond clock scaled by 1/10000.
		d.uniforms.SetTime(float32(t.Seconds() / 10))
	}

	if d.uniforms.Dirty() {
		d.enter(StateUniformSync)
		if _, err := d.uniforms.Sync(d.dev.Uniforms); err != nil {
			return fmt.Errorf("%s: %w", StateUniformSync, err)
		}
	}

	if d.dev.Race != nil {
		d.enter(StateRender)
		if err := d.dev.Race.RenderRace(d.store.Shared()); err != nil {
			return fmt.Errorf("%s: %w", StateRender, err)
		}
	} else {
		d.enter(StateCompute)
		if err := d.dev.Compute.Update(d.store.Writer()); err != nil {
			return fmt.Errorf("%s: %w", StateCompute, err)
		}

		d.enter(StateRender)
		if err := d.dev.Render.Render(d.store.Reader()); err != nil {
			return fmt.Errorf("%s: %w", StateRender, err)
		}
	}

	d.enter(StatePresent)
	if err := d.dev.Present.Present(); err != nil {
		return fmt.Errorf("%s: %w", StatePresent, err)
	}
	return nil
}

// Run executes one frame per value received on frames until ctx is
// cancelled or frames is closed. It returns the first frame error.
func (d *Driver) Run(ctx context.Context, frames <-chan time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			slog.Debug("driver stopped", "frames", d.frame, "reason", ctx.Err())
			return nil
		case t, ok := <-frames:
			if !ok {
				return nil
			}
			if err := d.Frame(t); err != nil {
				return err
			}
		}
	}
}
