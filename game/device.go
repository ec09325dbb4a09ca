package game

import (
	"errors"

	"github.com/pthm-cable/metaballs/points"
)

// ErrUnsupportedPlatform is returned when the host cannot run compute
// kernels on the selected backend. It is fatal at startup.
var ErrUnsupportedPlatform = errors.New("unsupported platform: no compute-capable device")

// UniformWriter receives the encoded uniform buffer.
type UniformWriter interface {
	WriteUniforms(v []float32) error
}

// ComputeDevice runs the per-point update kernel once over the whole store.
type ComputeDevice interface {
	Update(w points.Writer) error
}

// RenderDevice runs one shading invocation per output pixel.
type RenderDevice interface {
	Render(r points.Reader) error
}

// RaceDevice runs the per-pixel kernel that mutates points while drawing.
type RaceDevice interface {
	RenderRace(s points.Shared) error
}

// Presenter shows the finished frame.
type Presenter interface {
	Present() error
}

// Devices bundles the collaborators a Driver dispatches to. Race replaces
// Compute and Render when set.
type Devices struct {
	Uniforms UniformWriter
	Compute  ComputeDevice
	Render   RenderDevice
	Race     RaceDevice
	Present  Presenter
}
