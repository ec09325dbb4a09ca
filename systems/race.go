package systems

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/soypat/glgl/math/ms2"

	"github.com/pthm-cable/metaballs/parallel"
	"github.com/pthm-cable/metaballs/points"
	"github.com/pthm-cable/metaballs/renderer"
	"github.com/pthm-cable/metaballs/telemetry"
)

// SyncMode selects how race kernel invocations access shared points.
type SyncMode uint8

const (
	// SyncNone performs plain overlapping read-modify-write cycles.
	SyncNone SyncMode = iota
	// SyncAtomic nudges each coordinate with a compare-and-swap loop.
	SyncAtomic
	// SyncLocked serializes each nudge and read behind one mutex.
	SyncLocked
)

var syncModeNames = [...]string{"none", "atomic", "locked"}

func (m SyncMode) String() string {
	if int(m) < len(syncModeNames) {
		return syncModeNames[m]
	}
	return fmt.Sprintf("SyncMode(%d)", uint8(m))
}

// ParseSyncMode parses a config value.
func ParseSyncMode(s string) (SyncMode, error) {
	for i, name := range syncModeNames {
		if strings.EqualFold(s, name) {
			return SyncMode(i), nil
		}
	}
	return SyncNone, fmt.Errorf("unknown sync mode %q", s)
}

// exactLimit is the magnitude from which float32 can no longer hold every
// integer, so a unit nudge may round away.
const exactLimit = 1 << 24

// RaceConfig configures a RaceKernel.
type RaceConfig struct {
	DX, DY       float32 // Increment applied to every point by every pixel
	Mode         SyncMode
	RowsPerChunk int
	Reanchor     bool // Move points back to their first-pass positions before each pass
}

// RacePass records what one race dispatch did to the points.
type RacePass struct {
	Mode      SyncMode
	Nudges    []int64   // Invocations that nudged each point
	Expected  []ms2.Vec // Drift each point would show if no update was lost
	Actual    []ms2.Vec // Drift observed after the dispatch
	Saturated []bool    // Point left the float32 exact range; its drift is not counted
}

func (p RacePass) saturated(i int) bool {
	return i < len(p.Saturated) && p.Saturated[i]
}

// SaturatedCount returns how many points were excluded from loss figures.
func (p RacePass) SaturatedCount() int {
	n := 0
	for i := range p.Expected {
		if p.saturated(i) {
			n++
		}
	}
	return n
}

// Lost returns, per axis, how many nudges across all unsaturated points are
// missing from the observed drift. Zero on an axis with no increment.
func (p RacePass) Lost(dx, dy float32) (x, y float64) {
	var ex, ey, ax, ay float64
	for i := range p.Expected {
		if p.saturated(i) {
			continue
		}
		ex += float64(p.Expected[i].X)
		ey += float64(p.Expected[i].Y)
		ax += float64(p.Actual[i].X)
		ay += float64(p.Actual[i].Y)
	}
	if dx != 0 {
		x = (ex - ax) / float64(dx)
	}
	if dy != 0 {
		y = (ey - ay) / float64(dy)
	}
	return x, y
}

// RaceKernel draws the frame while every pixel nudges every point it
// visits. With SyncNone the concurrent increments race and some are lost.
type RaceKernel struct {
	pool  *parallel.Pool
	frame *renderer.Frame
	size  float32
	cfg   RaceConfig

	mu     sync.Mutex // guards point access in SyncLocked
	last   RacePass
	anchor []ms2.Vec
}

// NewRaceKernel creates a race kernel that draws into frame.
func NewRaceKernel(pool *parallel.Pool, frame *renderer.Frame, cfg RaceConfig) *RaceKernel {
	if cfg.RowsPerChunk < 1 {
		cfg.RowsPerChunk = 1
	}
	return &RaceKernel{
		pool:  pool,
		frame: frame,
		size:  float32(frame.Width),
		cfg:   cfg,
	}
}

// Mode returns the configured sync mode.
func (k *RaceKernel) Mode() SyncMode { return k.cfg.Mode }

// LastPass returns the report of the most recent dispatch.
func (k *RaceKernel) LastPass() RacePass { return k.last }

// RenderRace runs one invocation per pixel. Each invocation walks the points
// in order, nudging each before reading it, and stops at the first circle
// that contains the pixel.
func (k *RaceKernel) RenderRace(s points.Shared) error {
	n := s.Len()
	if k.anchor == nil {
		k.anchor = make([]ms2.Vec, n)
		for i := range k.anchor {
			x, y, _ := s.Circle(i)
			k.anchor[i] = ms2.Vec{X: x, Y: y}
		}
	} else if k.cfg.Reanchor {
		for i, a := range k.anchor {
			s.Place(i, a.X, a.Y)
		}
	}
	start := make([]ms2.Vec, n)
	for i := range start {
		x, y, _ := s.Circle(i)
		start[i] = ms2.Vec{X: x, Y: y}
	}

	nudges := make([]int64, n)
	var countsMu sync.Mutex

	w := k.frame.Width
	k.pool.DispatchGrain(w*k.frame.Height, w*k.cfg.RowsPerChunk, func(lo, hi int) {
		local := make([]int64, n)
		for i := lo; i < hi; i++ {
			x, y := i%w, i/w
			k.frame.Set(x, y, k.shade(s, renderer.PixelCentre(x, y), local))
		}
		countsMu.Lock()
		for i, c := range local {
			nudges[i] += c
		}
		countsMu.Unlock()
	})

	pass := RacePass{
		Mode:      k.cfg.Mode,
		Nudges:    nudges,
		Expected:  make([]ms2.Vec, n),
		Actual:    make([]ms2.Vec, n),
		Saturated: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		x, y, _ := s.Circle(i)
		ex := float64(nudges[i]) * float64(k.cfg.DX)
		ey := float64(nudges[i]) * float64(k.cfg.DY)
		pass.Expected[i] = ms2.Vec{X: float32(ex), Y: float32(ey)}
		pass.Actual[i] = ms2.Vec{
			X: float32(float64(x) - float64(start[i].X)),
			Y: float32(float64(y) - float64(start[i].Y)),
		}
		pass.Saturated[i] = inexact(start[i].X, ex) || inexact(start[i].Y, ey)
	}
	k.last = pass
	return nil
}

func (k *RaceKernel) shade(s points.Shared, pos ms2.Vec, nudges []int64) renderer.RGB {
	for i := 0; i < s.Len(); i++ {
		cx, cy, r := k.visit(s, i)
		nudges[i]++
		if ms2.Norm(ms2.Sub(ms2.Vec{X: cx, Y: cy}, pos)) < r {
			return renderer.RGB{R: 1}
		}
	}
	return renderer.RGB{R: pos.X / k.size, G: pos.Y / k.size}
}

// inexact reports whether moving from start by drift crosses the float32
// exact integer range at either end.
func inexact(start float32, drift float64) bool {
	s := float64(start)
	return math.Abs(s) >= exactLimit || math.Abs(s+drift) >= exactLimit
}

// visit nudges point i and reads it back under the configured sync mode.
func (k *RaceKernel) visit(s points.Shared, i int) (x, y, r float32) {
	switch k.cfg.Mode {
	case SyncAtomic:
		s.NudgeAtomic(i, k.cfg.DX, k.cfg.DY)
		return s.CircleAtomic(i)
	case SyncLocked:
		k.mu.Lock()
		defer k.mu.Unlock()
		s.Nudge(i, k.cfg.DX, k.cfg.DY)
		return s.Circle(i)
	default:
		s.Nudge(i, k.cfg.DX, k.cfg.DY)
		return s.Circle(i)
	}
}

// Drift returns loss statistics per axis over the unsaturated points.
func (p RacePass) Drift() (x, y telemetry.DriftStats) {
	var ex, ey, ax, ay []float64
	for i := range p.Expected {
		if p.saturated(i) {
			continue
		}
		ex = append(ex, float64(p.Expected[i].X))
		ey = append(ey, float64(p.Expected[i].Y))
		ax = append(ax, float64(p.Actual[i].X))
		ay = append(ay, float64(p.Actual[i].Y))
	}
	return telemetry.NewDriftStats(ex, ax), telemetry.NewDriftStats(ey, ay)
}

// Record flattens the pass into a CSV row. Loss statistics come from the x
// axis, or the y axis when dx is zero.
func (p RacePass) Record(frame int64, dx, dy float32) telemetry.RaceRecord {
	lx, ly := p.Lost(dx, dy)
	sx, sy := p.Drift()
	s := sx
	if dx == 0 {
		s = sy
	}
	var nudges int64
	for _, n := range p.Nudges {
		nudges += n
	}
	return telemetry.RaceRecord{
		Frame:        frame,
		Mode:         p.Mode.String(),
		Nudges:       nudges,
		LostX:        lx,
		LostY:        ly,
		Saturated:    p.SaturatedCount(),
		LostFraction: s.LostFraction(),
		MeanLoss:     s.MeanLoss,
		P95Loss:      s.P95Loss,
		MaxLoss:      s.MaxLoss,
	}
}
