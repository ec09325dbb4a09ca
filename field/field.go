// Package field evaluates the metaball scalar field over a point store.
package field

import (
	"github.com/soypat/glgl/math/ms2"

	"github.com/pthm-cable/metaballs/points"
)

// Occupancy returns 1 if p lies strictly inside any point's radius, else 0.
// A query exactly on a circle boundary is not occupied.
func Occupancy(r points.Reader, p ms2.Vec) float32 {
	n := r.Len()
	for i := 0; i < n; i++ {
		cx, cy, rad := r.Circle(i)
		d := ms2.Norm(ms2.Sub(p, ms2.Vec{X: cx, Y: cy}))
		if d < rad {
			return 1
		}
	}
	return 0
}

// Density returns the summed inverse-square field r²/d² at p.
// A query exactly on a centre yields +Inf.
func Density(r points.Reader, p ms2.Vec) float32 {
	var total float32
	n := r.Len()
	for i := 0; i < n; i++ {
		cx, cy, rad := r.Circle(i)
		dx := p.X - cx
		dy := p.Y - cy
		total += rad * rad / (dx*dx + dy*dy)
	}
	return total
}

// Sampler binds Density to a reader so it can be passed as a plain
// position to value function.
type Sampler struct {
	r points.Reader
}

// NewSampler returns a sampler reading from r.
func NewSampler(r points.Reader) Sampler { return Sampler{r: r} }

// Density evaluates the field at p.
func (s Sampler) Density(p ms2.Vec) float32 { return Density(s.r, p) }

// Occupancy evaluates the occupancy test at p.
func (s Sampler) Occupancy(p ms2.Vec) float32 { return Occupancy(s.r, p) }
