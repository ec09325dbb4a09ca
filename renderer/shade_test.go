package renderer

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"

	"github.com/pthm-cable/metaballs/contour"
	"github.com/pthm-cable/metaballs/field"
	"github.com/pthm-cable/metaballs/game"
	"github.com/pthm-cable/metaballs/points"
)

func approx(a, b float32) bool { return math32.Abs(a-b) <= 1e-4*math32.Max(1, math32.Abs(b)) }

func TestShade_CirclesSDFFill(t *testing.T) {
	r := points.FromPoints([]points.Point{{X: 512, Y: 512, R: 50}}).Reader()
	u := game.Params{CellSize: 1, CirclesSDF: true}

	inside := Shade(u, r, PixelCentre(512, 512), 1024)
	if inside.R <= 1 || inside.G != 0 || inside.B != 0 {
		t.Errorf("centre = %+v, want saturated red only", inside)
	}

	outside := Shade(u, r, PixelCentre(612, 512), 1024)
	if outside != (RGB{}) {
		t.Errorf("distance 100 = %+v, want black", outside)
	}
}

func TestShade_ColourOverrides(t *testing.T) {
	// Pixel sits on the circle edge so the density is exactly 1.
	r := points.FromPoints([]points.Point{{X: 0.5, Y: 10.5, R: 10}}).Reader()
	pos := PixelCentre(0, 0)

	tests := []struct {
		name string
		u    game.Params
		want RGB
	}{
		{"base gradient", game.Params{CellSize: 1, SmoothInterpolate: true}, RGB{0.5 / 64, 0.5 / 64, 1}},
		{"red", game.Params{CellSize: 1, SmoothInterpolate: true, Red: true}, RGB{1, 0, 0}},
		{"white wins over red", game.Params{CellSize: 1, SmoothInterpolate: true, Red: true, White: true}, RGB{1, 1, 1}},
		{"time colouring", game.Params{CellSize: 1, SmoothInterpolate: true, TimeColoring: true}, RGB{1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shade(tt.u, r, pos, 64)
			if !approx(got.R, tt.want.R) || !approx(got.G, tt.want.G) || !approx(got.B, tt.want.B) {
				t.Errorf("Shade = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestShade_OutlineIsAdditive(t *testing.T) {
	r := points.FromPoints([]points.Point{{X: 32, Y: 32, R: 10}}).Reader()
	const size = 64
	u := game.Params{CellSize: 4, SmoothInterpolate: true}
	on := u
	on.Outline = true

	for x := 16; x < 48; x++ {
		pos := PixelCentre(x, 22)
		without := Shade(u, r, pos, size)
		with := Shade(on, r, pos, size)
		s := contour.March(pos, u.CellSize, field.NewSampler(r).Density).Strength
		want := without.Add(RGB{pos.X / size, pos.Y / size, 1}.Scale(0.25 * s))
		if !approx(with.R, want.R) || !approx(with.G, want.G) || !approx(with.B, want.B) {
			t.Fatalf("x=%d: with outline %+v, want %+v", x, with, want)
		}
	}
}

func TestShade_BlockyUsesCellCentre(t *testing.T) {
	r := points.FromPoints([]points.Point{{X: 10, Y: 2, R: 4}}).Reader()
	u := game.Params{CellSize: 4}

	// (1.5, 1.5) lies in the cell centred at (2, 2): density 16/64.
	got := Shade(u, r, PixelCentre(1, 1), 64)
	if got.B != 0.25 {
		t.Errorf("B = %v, want 0.25", got.B)
	}
	if other := Shade(u, r, PixelCentre(3, 0), 64); other.B != 0.25 {
		t.Errorf("same cell B = %v, want 0.25", other.B)
	}
}

func TestShade_NaNDensityKeepsColour(t *testing.T) {
	r := points.FromPoints([]points.Point{{X: 0.5, Y: 0.5, R: 0}}).Reader()
	u := game.Params{CellSize: 1, SmoothInterpolate: true}
	got := Shade(u, r, PixelCentre(0, 0), 64)
	if got.B != 1 {
		t.Errorf("B = %v, want unscaled 1", got.B)
	}
}

func TestShadeMask(t *testing.T) {
	r := points.FromPoints([]points.Point{{X: 8, Y: 8, R: 100}}).Reader()
	u := game.Params{CellSize: 4}
	if got := ShadeMask(u, r, ms2.Vec{X: 5, Y: 5}); got != (RGB{1, 1, 1}) {
		t.Errorf("inside mask = %+v, want white", got)
	}

	far := points.FromPoints([]points.Point{{X: 1000, Y: 1000, R: 1}}).Reader()
	if got := ShadeMask(u, far, ms2.Vec{X: 5, Y: 5}); got != (RGB{}) {
		t.Errorf("empty mask = %+v, want black", got)
	}
}
