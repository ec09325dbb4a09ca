package game

import (
	"testing"

	"github.com/pthm-cable/metaballs/telemetry"
)

func TestPerfLogger_Observe(t *testing.T) {
	perf := telemetry.NewPerfCollector(4)
	perf.StartFrame()
	perf.EndFrame()

	tests := []struct {
		name   string
		logger PerfLogger
		frame  int64
	}{
		{"disabled", PerfLogger{Perf: perf}, 10},
		{"off interval", PerfLogger{Interval: 3, Perf: perf}, 10},
		{"on interval without output", PerfLogger{Interval: 5, Perf: perf}, 10},
		{"no collector", PerfLogger{Interval: 1}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.logger.Observe(tt.frame); err != nil {
				t.Errorf("Observe: %v", err)
			}
		})
	}
}
