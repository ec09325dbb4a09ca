package points

import "math/rand"

// SpawnConfig holds the ranges used by Spawn.
type SpawnConfig struct {
	Count     int
	Size      float32 // Side of the square field
	RadiusMin float32
	RadiusMax float32
	Growth    float32 // Magnitude of radius growth; sign is random
	Speed     float32 // Velocity is uniform in [-Speed, Speed) per axis
}

// Spawn creates a store of randomly placed points. Each centre lies at
// least one radius away from every wall, so no point starts overlapping
// the boundary.
func Spawn(rng *rand.Rand, cfg SpawnConfig) *Store {
	s := NewStore(cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		r := cfg.RadiusMin + rng.Float32()*(cfg.RadiusMax-cfg.RadiusMin)
		vr := cfg.Growth
		if rng.Intn(2) == 0 {
			vr = -vr
		}
		s.set(i, Point{
			X:  r + rng.Float32()*(cfg.Size-2*r),
			Y:  r + rng.Float32()*(cfg.Size-2*r),
			VX: (rng.Float32()*2 - 1) * cfg.Speed,
			VY: (rng.Float32()*2 - 1) * cfg.Speed,
			R:  r,
			VR: vr,
		})
	}
	return s
}

// Preset returns the hand-placed seed layout for a 1024 field.
func Preset() []Point {
	return []Point{
		{X: 512, Y: 512, VX: 0.5, VY: 0.5, R: 40, VR: 1},
		{X: 256, Y: 512, VX: -0.5, VY: 0.5, R: 30, VR: 1},
		{X: 256, Y: 256, VX: 1.2, VY: 1, R: 25, VR: 1},
		{X: 200, Y: 200, VX: 3, VY: 3, R: 128, VR: 1},
		{X: 800, Y: 800, VX: 2, VY: -1, R: 128, VR: 1},
		{X: 580, Y: 580, VX: -2, VY: -3, R: 30, VR: 1},
	}
}

// ScaleTo rescales positions and radii of a 1024 layout to a field of the
// given size, in place.
func ScaleTo(ps []Point, size float32) []Point {
	k := size / 1024
	for i := range ps {
		ps[i].X *= k
		ps[i].Y *= k
		ps[i].R *= k
	}
	return ps
}

// RacePreset returns the stationary seed points used by the race kernel.
func RacePreset() []Point {
	return []Point{
		{X: 512, Y: 512, R: 10},
		{X: 256, Y: 512, R: 20},
		{X: 256, Y: 256, R: 15},
	}
}
