package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/metaballs/config"
)

func TestOutputManager_NilWhenDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("WritePerf on nil: %v", err)
	}
	if err := om.WriteRace(RaceRecord{}); err != nil {
		t.Errorf("WriteRace on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	stats := PerfStats{AvgFrameDuration: 2 * time.Millisecond, PhasePct: map[string]float64{PhaseRender: 75}}
	for i := int64(1); i <= 2; i++ {
		if err := om.WritePerf(stats, i*100); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.WriteRace(RaceRecord{Frame: 1, Mode: "none", Nudges: 10, LostX: 3}); err != nil {
		t.Fatalf("WriteRace: %v", err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(perf)), "\n")
	if len(lines) != 3 {
		t.Fatalf("perf.csv has %d lines, want header + 2 rows:\n%s", len(lines), perf)
	}
	if !strings.HasPrefix(lines[0], "window_end,avg_frame_us") {
		t.Errorf("perf header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "100,2000") {
		t.Errorf("perf row = %q, want window 100 and 2000us", lines[1])
	}

	race, err := os.ReadFile(filepath.Join(dir, "race.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(race), "frame,mode,nudges") || !strings.Contains(string(race), "1,none,10,3") {
		t.Errorf("race.csv = %q", race)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}
