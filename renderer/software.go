package renderer

import (
	"github.com/pthm-cable/metaballs/game"
	"github.com/pthm-cable/metaballs/parallel"
	"github.com/pthm-cable/metaballs/points"
)

// Software renders frames on the CPU worker pool. It keeps its own copy of
// the uniforms, updated only through WriteUniforms.
type Software struct {
	pool         *parallel.Pool
	frame        *Frame
	size         float32
	rowsPerChunk int
	params       game.Params
	debugMask    bool
}

// NewSoftware creates a renderer for a size x size field.
func NewSoftware(pool *parallel.Pool, size, rowsPerChunk int) *Software {
	if rowsPerChunk < 1 {
		rowsPerChunk = 1
	}
	return &Software{
		pool:         pool,
		frame:        NewFrame(size, size),
		size:         float32(size),
		rowsPerChunk: rowsPerChunk,
	}
}

// WriteUniforms replaces the device-side parameters.
func (s *Software) WriteUniforms(v []float32) error {
	p, err := game.DecodeParams(v)
	if err != nil {
		return err
	}
	s.params = p
	return nil
}

// SetDebugMask switches rendering to the marching-squares mask view.
func (s *Software) SetDebugMask(on bool) { s.debugMask = on }

// Frame returns the render target.
func (s *Software) Frame() *Frame { return s.frame }

// Render shades every pixel once. Pixels are independent invocations
// scheduled in row-aligned chunks.
func (s *Software) Render(r points.Reader) error {
	w := s.frame.Width
	params := s.params
	s.pool.DispatchGrain(w*s.frame.Height, w*s.rowsPerChunk, func(start, end int) {
		for i := start; i < end; i++ {
			x, y := i%w, i/w
			pos := PixelCentre(x, y)
			if s.debugMask {
				s.frame.Set(x, y, ShadeMask(params, r, pos))
				continue
			}
			s.frame.Set(x, y, Shade(params, r, pos, s.size))
		}
	})
	return nil
}
