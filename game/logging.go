package game

import (
	"log/slog"

	"github.com/pthm-cable/metaballs/telemetry"
)

// PerfLogger reports the perf window every Interval frames, as a slog line
// and a perf.csv row.
type PerfLogger struct {
	Interval int64
	Perf     *telemetry.PerfCollector
	Output   *telemetry.OutputManager // nil disables CSV
}

// Observe is called once per completed frame.
func (l *PerfLogger) Observe(frame int64) error {
	if l.Interval <= 0 || l.Perf == nil || frame%l.Interval != 0 {
		return nil
	}
	stats := l.Perf.Stats()
	slog.Info("perf", "frame", frame, "stats", stats)
	return l.Output.WritePerf(stats, frame)
}
