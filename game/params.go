package game

import (
	"fmt"

	"github.com/pthm-cable/metaballs/config"
)

// Uniform slots in the device buffer, in upload order.
const (
	UniformTime = iota
	UniformCellSize
	UniformCirclesSDF
	UniformSmoothInterpolate
	UniformOutline
	UniformRed
	UniformWhite
	UniformTimeColoring

	NumUniforms
)

// Params are the shading parameters shared with every render device.
type Params struct {
	Time     float32 // Seconds/10 of session time; only used with TimeColoring
	CellSize float32 // Marching-squares cell size in pixels

	CirclesSDF        bool // Fill by occupancy instead of base colour
	SmoothInterpolate bool // Scale colour by density at the pixel (glow)
	Outline           bool // Add the marching-squares outline
	Red               bool // Red fill, blue outline
	White             bool // White fill, dark outline
	TimeColoring      bool // Cycle colours with Time
}

// ParamsFromConfig builds the initial parameters from config.
func ParamsFromConfig(c config.UniformsConfig) Params {
	return Params{
		CellSize:          float32(c.CellSize),
		CirclesSDF:        c.CirclesSDF,
		SmoothInterpolate: c.SmoothInterpolate,
		Outline:           c.Outline,
		Red:               c.Red,
		White:             c.White,
		TimeColoring:      c.TimeColoring,
	}
}

// Encode writes p into dst in device layout. dst must hold NumUniforms values.
func (p Params) Encode(dst []float32) {
	_ = dst[NumUniforms-1]
	dst[UniformTime] = p.Time
	dst[UniformCellSize] = p.CellSize
	dst[UniformCirclesSDF] = b2f(p.CirclesSDF)
	dst[UniformSmoothInterpolate] = b2f(p.SmoothInterpolate)
	dst[UniformOutline] = b2f(p.Outline)
	dst[UniformRed] = b2f(p.Red)
	dst[UniformWhite] = b2f(p.White)
	dst[UniformTimeColoring] = b2f(p.TimeColoring)
}

// DecodeParams reads parameters from device layout. Any non-zero flag slot
// is true.
func DecodeParams(v []float32) (Params, error) {
	if len(v) != NumUniforms {
		return Params{}, fmt.Errorf("uniforms: got %d values, want %d", len(v), NumUniforms)
	}
	return Params{
		Time:              v[UniformTime],
		CellSize:          v[UniformCellSize],
		CirclesSDF:        v[UniformCirclesSDF] != 0,
		SmoothInterpolate: v[UniformSmoothInterpolate] != 0,
		Outline:           v[UniformOutline] != 0,
		Red:               v[UniformRed] != 0,
		White:             v[UniformWhite] != 0,
		TimeColoring:      v[UniformTimeColoring] != 0,
	}, nil
}

func b2f(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// Flag names a boolean shading parameter.
type Flag uint8

const (
	FlagCirclesSDF Flag = iota
	FlagSmoothInterpolate
	FlagOutline
	FlagRed
	FlagWhite
	FlagTimeColoring

	NumFlags
)

var flagNames = [NumFlags]string{
	FlagCirclesSDF:        "circles_sdf",
	FlagSmoothInterpolate: "smooth_interpolate",
	FlagOutline:           "outline",
	FlagRed:               "red",
	FlagWhite:             "white",
	FlagTimeColoring:      "time_coloring",
}

func (f Flag) String() string {
	if f < NumFlags {
		return flagNames[f]
	}
	return fmt.Sprintf("Flag(%d)", uint8(f))
}

// field returns a pointer to the flag's value in p.
func (p *Params) field(f Flag) *bool {
	switch f {
	case FlagCirclesSDF:
		return &p.CirclesSDF
	case FlagSmoothInterpolate:
		return &p.SmoothInterpolate
	case FlagOutline:
		return &p.Outline
	case FlagRed:
		return &p.Red
	case FlagWhite:
		return &p.White
	case FlagTimeColoring:
		return &p.TimeColoring
	default:
		return nil
	}
}

// Flag reports the value of f.
func (p Params) Flag(f Flag) bool {
	if b := p.field(f); b != nil {
		return *b
	}
	return false
}
