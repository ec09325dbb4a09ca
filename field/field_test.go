package field

import (
	"math"
	"math/rand"
	"testing"

	"github.com/soypat/glgl/math/ms2"

	"github.com/pthm-cable/metaballs/points"
)

func TestOccupancy_StrictBoundary(t *testing.T) {
	store := points.FromPoints([]points.Point{{X: 100, Y: 100, R: 5}})
	r := store.Reader()

	tests := []struct {
		name string
		p    ms2.Vec
		want float32
	}{
		{"centre", ms2.Vec{X: 100, Y: 100}, 1},
		{"inside", ms2.Vec{X: 103, Y: 103}, 1},
		{"on boundary", ms2.Vec{X: 103, Y: 104}, 0},
		{"outside", ms2.Vec{X: 106, Y: 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Occupancy(r, tt.p); got != tt.want {
				t.Errorf("Occupancy(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestOccupancy_Union(t *testing.T) {
	store := points.FromPoints([]points.Point{
		{X: 10, Y: 10, R: 2},
		{X: 50, Y: 50, R: 20},
	})
	if got := Occupancy(store.Reader(), ms2.Vec{X: 60, Y: 50}); got != 1 {
		t.Errorf("Occupancy inside second point = %v, want 1", got)
	}
}

func TestDensity_PermutationSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ps := make([]points.Point, 32)
	for i := range ps {
		ps[i] = points.Point{
			X: rng.Float32() * 1024,
			Y: rng.Float32() * 1024,
			R: 4 + rng.Float32()*16,
		}
	}
	shuffled := make([]points.Point, len(ps))
	copy(shuffled, ps)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	a := points.FromPoints(ps).Reader()
	b := points.FromPoints(shuffled).Reader()

	for i := 0; i < 50; i++ {
		p := ms2.Vec{X: rng.Float32() * 1024, Y: rng.Float32() * 1024}
		da, db := Density(a, p), Density(b, p)
		if math.Abs(float64(da-db)) > 1e-5*math.Max(1, float64(da)) {
			t.Errorf("Density(%v) = %v vs %v after permutation", p, da, db)
		}
	}
}

func TestDensity_InverseSquare(t *testing.T) {
	store := points.FromPoints([]points.Point{{X: 0, Y: 0, R: 10}})
	got := Density(store.Reader(), ms2.Vec{X: 20, Y: 0})
	if math.Abs(float64(got)-0.25) > 1e-6 {
		t.Errorf("Density = %v, want 0.25", got)
	}
	// One radius from the centre the field is exactly the threshold.
	got = Density(store.Reader(), ms2.Vec{X: 6, Y: 8})
	if math.Abs(float64(got)-1) > 1e-6 {
		t.Errorf("Density at radius = %v, want 1", got)
	}
}

func TestDensity_ZeroDistance(t *testing.T) {
	store := points.FromPoints([]points.Point{{X: 5, Y: 5, R: 3}})
	got := Density(store.Reader(), ms2.Vec{X: 5, Y: 5})
	if !math.IsInf(float64(got), 1) {
		t.Errorf("Density at centre = %v, want +Inf", got)
	}
}

// Single point, radius 50, centred in a 1024 field.
func TestScenario_CentredCircleOccupancy(t *testing.T) {
	store := points.FromPoints([]points.Point{{X: 512, Y: 512, R: 50}})
	s := NewSampler(store.Reader())

	if got := s.Occupancy(ms2.Vec{X: 512, Y: 512}); got != 1 {
		t.Errorf("occupancy at centre = %v, want 1", got)
	}
	if got := s.Occupancy(ms2.Vec{X: 612, Y: 512}); got != 0 {
		t.Errorf("occupancy at distance 100 = %v, want 0", got)
	}
}

// Two radius-30 points 40 units apart sum at their midpoint.
func TestScenario_TwoPointSummation(t *testing.T) {
	a := points.Point{X: 500, Y: 512, R: 30}
	b := points.Point{X: 540, Y: 512, R: 30}
	mid := ms2.Vec{X: 520, Y: 512}

	both := Density(points.FromPoints([]points.Point{a, b}).Reader(), mid)
	onlyA := Density(points.FromPoints([]points.Point{a}).Reader(), mid)
	onlyB := Density(points.FromPoints([]points.Point{b}).Reader(), mid)

	if both < onlyA || both < onlyB {
		t.Errorf("combined density %v below individual %v / %v", both, onlyA, onlyB)
	}
	if math.Abs(float64(both-(onlyA+onlyB))) > 1e-5 {
		t.Errorf("combined density %v, want sum %v", both, onlyA+onlyB)
	}
	if both < 1 {
		t.Errorf("midpoint density %v, want inside the merged blob (>= 1)", both)
	}
}
