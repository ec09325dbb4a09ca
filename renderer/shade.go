package renderer

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"

	"github.com/pthm-cable/metaballs/contour"
	"github.com/pthm-cable/metaballs/field"
	"github.com/pthm-cable/metaballs/game"
	"github.com/pthm-cable/metaballs/points"
)

// PixelCentre returns the sample position of pixel (x, y).
func PixelCentre(x, y int) ms2.Vec {
	return ms2.Vec{X: float32(x) + 0.5, Y: float32(y) + 0.5}
}

// Shade computes the colour at pos for a size x size field. It mirrors the
// GPU fragment stage: base gradient, colour overrides, optional occupancy
// fill, density glow and an additive marching-squares outline.
func Shade(u game.Params, r points.Reader, pos ms2.Vec, size float32) RGB {
	sampler := field.NewSampler(r)
	total := sampler.Density(pos)

	colour := RGB{pos.X / size, pos.Y / size, 1}
	outline := colour.Scale(0.25)

	if u.TimeColoring {
		c := math32.Abs(math32.Cos(u.Time))
		s := math32.Abs(math32.Sin(u.Time))
		colour = RGB{c, s, s}
		outline = RGB{s, s, c}
	}
	if u.Red {
		colour = RGB{1, 0, 0}
		outline = RGB{0, 0, 1}
	}
	if u.White {
		colour = RGB{1, 1, 1}
		outline = RGB{-0.5, -0.5, -0.5}
	}

	if u.CirclesSDF {
		colour = RGB{sampler.Occupancy(pos), 0, 0}
	}
	if !u.SmoothInterpolate {
		s := u.CellSize
		centre := ms2.Vec{
			X: math32.Floor(pos.X/s)*s + s*0.5,
			Y: math32.Floor(pos.Y/s)*s + s*0.5,
		}
		total = sampler.Density(centre)
		colour = colour.Scale(total)
	} else if !math32.IsNaN(total) {
		colour = colour.Scale(total)
	}

	if u.Outline {
		m := contour.March(pos, u.CellSize, sampler.Density)
		colour = colour.Add(outline.Scale(m.Strength))
	}
	return colour
}

// ShadeMask renders the marching-squares mask of pos as grey mask/15.
func ShadeMask(u game.Params, r points.Reader, pos ms2.Vec) RGB {
	cell := contour.CellAt(pos, u.CellSize)
	v := float32(contour.Classify(cell, field.NewSampler(r).Density)) / 15
	return RGB{v, v, v}
}
