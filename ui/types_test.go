package ui

import "testing"

func TestDefaultTheme(t *testing.T) {
	th := DefaultTheme()

	metrics := []struct {
		name string
		v    int32
	}{
		{"Padding", th.Padding},
		{"Line", th.Line},
		{"LabelWidth", th.LabelWidth},
		{"BarHeight", th.BarHeight},
		{"Font", th.Font},
		{"HeaderFont", th.HeaderFont},
	}
	for _, m := range metrics {
		t.Run(m.name, func(t *testing.T) {
			if m.v <= 0 {
				t.Errorf("%s = %d, want positive", m.name, m.v)
			}
		})
	}

	if th.Font > th.Line || th.HeaderFont > th.Line {
		t.Errorf("fonts (%d, %d) taller than a line (%d)", th.Font, th.HeaderFont, th.Line)
	}
	if th.Panel.A == 255 {
		t.Error("panel should be translucent so the field shows through")
	}
	if th.Fill == th.Warn {
		t.Error("warning fill should differ from the normal fill")
	}
}
