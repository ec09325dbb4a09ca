package ui

import (
	"testing"

	"github.com/pthm-cable/metaballs/game"
)

func TestFlagLabel(t *testing.T) {
	tests := []struct {
		f    game.Flag
		on   bool
		want string
	}{
		{game.FlagOutline, true, "[x] Outline (O)"},
		{game.FlagCirclesSDF, false, "[ ] Circles sdf (C)"},
		{game.FlagTimeColoring, true, "[x] Time coloring (T)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := flagLabel(tt.f, tt.on); got != tt.want {
				t.Errorf("flagLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClampHelpers(t *testing.T) {
	if got := clampCell(0.5); got != sliderMin {
		t.Errorf("clampCell(0.5) = %v, want %v", got, sliderMin)
	}
	if got := clampCell(100); got != sliderMax {
		t.Errorf("clampCell(100) = %v, want %v", got, sliderMax)
	}
	if got := clampRatio(1.5); got != 1 {
		t.Errorf("clampRatio(1.5) = %v, want 1", got)
	}
	if got := clampRatio(-0.1); got != 0 {
		t.Errorf("clampRatio(-0.1) = %v, want 0", got)
	}
}
