// Package systems contains the per-point and per-pixel kernels that run
// each frame on the CPU worker pool.
package systems

import (
	"github.com/chewxy/math32"

	"github.com/pthm-cable/metaballs/parallel"
	"github.com/pthm-cable/metaballs/points"
)

// Bounds is the square simulation area [0, Size] x [0, Size].
type Bounds struct {
	Size float32
}

// Growth configures optional radius animation.
type Growth struct {
	Enabled  bool
	Min, Max float32
}

// UpdateKernel reflects and integrates every point once per dispatch.
type UpdateKernel struct {
	pool   *parallel.Pool
	bounds Bounds
	growth Growth
}

// NewUpdateKernel creates an update kernel running on pool.
func NewUpdateKernel(pool *parallel.Pool, bounds Bounds, growth Growth) *UpdateKernel {
	return &UpdateKernel{pool: pool, bounds: bounds, growth: growth}
}

// Update advances all points by one frame. Each invocation touches only its
// own record, so chunks never overlap.
func (k *UpdateKernel) Update(w points.Writer) error {
	k.pool.Dispatch(w.Len(), func(start, end int) {
		for i := start; i < end; i++ {
			p := w.At(i)
			if k.growth.Enabled {
				p = growRadius(p, k.growth)
			}
			w.Set(i, Step(p, k.bounds))
		}
	})
	return nil
}

// Step reflects velocity on any axis where the circle touches a wall, then
// advances the position by one frame of velocity. No clamping is applied,
// so a point can overshoot a wall by at most one frame's velocity.
func Step(p points.Point, b Bounds) points.Point {
	testBottom := p.R >= math32.Abs(b.Size-p.Y)
	testTop := p.R >= math32.Abs(0-p.Y)
	testLeft := p.R >= math32.Abs(0-p.X)
	testRight := p.R >= math32.Abs(b.Size-p.X)

	if testBottom || testTop {
		p.VY = -p.VY
	}
	if testLeft || testRight {
		p.VX = -p.VX
	}

	p.X += p.VX
	p.Y += p.VY
	return p
}

// growRadius pins the radius at a bound and turns growth around before
// applying it.
func growRadius(p points.Point, g Growth) points.Point {
	rate := math32.Abs(p.VR)
	if p.R <= g.Min {
		p.R = g.Min
		p.VR = rate
	}
	if p.R >= g.Max {
		p.R = g.Max
		p.VR = -rate
	}
	p.R += p.VR
	return p
}
