package telemetry

import (
	"math"
	"testing"
)

func TestNewDriftStats(t *testing.T) {
	tests := []struct {
		name     string
		expected []float64
		actual   []float64
		wantN    int
		wantMean float64
		wantMax  float64
		wantLost float64
	}{
		{"no loss", []float64{10, 20}, []float64{10, 20}, 2, 0, 0, 0},
		{"half lost", []float64{10, 10}, []float64{5, 5}, 2, 0.5, 0.5, 0.5},
		{"uneven", []float64{10, 10}, []float64{10, 0}, 2, 0.5, 1, 0.5},
		{"skips idle points", []float64{0, 10}, []float64{0, 8}, 1, 0.2, 0.2, 0.2},
		{"empty", nil, nil, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDriftStats(tt.expected, tt.actual)
			if s.Samples != tt.wantN {
				t.Errorf("Samples = %d, want %d", s.Samples, tt.wantN)
			}
			if math.Abs(s.MeanLoss-tt.wantMean) > 1e-9 {
				t.Errorf("MeanLoss = %v, want %v", s.MeanLoss, tt.wantMean)
			}
			if math.Abs(s.MaxLoss-tt.wantMax) > 1e-9 {
				t.Errorf("MaxLoss = %v, want %v", s.MaxLoss, tt.wantMax)
			}
			if math.Abs(s.LostFraction()-tt.wantLost) > 1e-9 {
				t.Errorf("LostFraction = %v, want %v", s.LostFraction(), tt.wantLost)
			}
		})
	}
}

func TestNewDriftStats_Quantiles(t *testing.T) {
	expected := make([]float64, 100)
	actual := make([]float64, 100)
	for i := range expected {
		expected[i] = 100
		actual[i] = float64(100 - i)
	}
	s := NewDriftStats(expected, actual)
	if s.P50Loss < 0.45 || s.P50Loss > 0.55 {
		t.Errorf("P50Loss = %v, want about 0.5", s.P50Loss)
	}
	if s.P95Loss < 0.9 || s.P95Loss > 0.99 {
		t.Errorf("P95Loss = %v, want about 0.95", s.P95Loss)
	}
	if s.StdLoss <= 0 {
		t.Errorf("StdLoss = %v, want positive", s.StdLoss)
	}
}
