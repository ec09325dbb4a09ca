package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DriftStats summarizes lost updates across the points of one race pass.
// Loss for a point is the fraction of its expected drift that never
// arrived: 0 when every nudge landed, 1 when none did.
type DriftStats struct {
	Samples  int
	Expected float64 // Summed expected drift
	Actual   float64 // Summed observed drift
	MeanLoss float64
	StdLoss  float64
	P50Loss  float64
	P95Loss  float64
	MaxLoss  float64
}

// NewDriftStats computes loss statistics from per-point expected and
// observed drift along one axis. Points with no expected drift are skipped.
func NewDriftStats(expected, actual []float64) DriftStats {
	var s DriftStats
	loss := make([]float64, 0, len(expected))
	for i, e := range expected {
		if e == 0 || i >= len(actual) {
			continue
		}
		loss = append(loss, (e-actual[i])/e)
	}
	s.Expected = floats.Sum(expected)
	s.Actual = floats.Sum(actual)
	s.Samples = len(loss)
	if s.Samples == 0 {
		return s
	}

	sort.Float64s(loss)
	s.MeanLoss, s.StdLoss = stat.MeanStdDev(loss, nil)
	if s.Samples < 2 {
		s.StdLoss = 0
	}
	s.P50Loss = stat.Quantile(0.5, stat.Empirical, loss, nil)
	s.P95Loss = stat.Quantile(0.95, stat.Empirical, loss, nil)
	s.MaxLoss = floats.Max(loss)
	return s
}

// LostFraction is the share of all expected drift that went missing.
func (s DriftStats) LostFraction() float64 {
	if s.Expected == 0 {
		return 0
	}
	return (s.Expected - s.Actual) / s.Expected
}

// LogValue implements slog.LogValuer for structured logging.
func (s DriftStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("points", s.Samples),
		slog.Float64("expected", s.Expected),
		slog.Float64("actual", s.Actual),
		slog.Float64("lost_fraction", s.LostFraction()),
		slog.Float64("mean_loss", s.MeanLoss),
		slog.Float64("p95_loss", s.P95Loss),
		slog.Float64("max_loss", s.MaxLoss),
	)
}

// RaceRecord is one CSV row describing a race pass.
type RaceRecord struct {
	Frame        int64   `csv:"frame"`
	Mode         string  `csv:"mode"`
	Nudges       int64   `csv:"nudges"`
	LostX        float64 `csv:"lost_x"`
	LostY        float64 `csv:"lost_y"`
	Saturated    int     `csv:"saturated"`
	LostFraction float64 `csv:"lost_fraction"`
	MeanLoss     float64 `csv:"mean_loss"`
	P95Loss      float64 `csv:"p95_loss"`
	MaxLoss      float64 `csv:"max_loss"`
}
