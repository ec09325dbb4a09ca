// Package ui draws the on-screen controls and readouts over the field.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme is the styling shared by every panel.
type Theme struct {
	// Colours
	Panel, Border rl.Color
	Header        rl.Color
	Text, Muted   rl.Color
	Track         rl.Color // empty part of a bar
	Fill, Warn    rl.Color // bar fill below and above the warning level

	// Metrics in pixels
	Padding    int32
	Line       int32
	LabelWidth int32
	BarHeight  int32
	Font       int32
	HeaderFont int32
}

// DefaultTheme is a dark translucent theme that keeps the field visible
// behind panels.
func DefaultTheme() Theme {
	return Theme{
		Panel:  rl.Color{R: 12, G: 14, B: 24, A: 210},
		Border: rl.Color{R: 70, G: 80, B: 120, A: 255},
		Header: rl.SkyBlue,
		Text:   rl.RayWhite,
		Muted:  rl.Color{R: 160, G: 165, B: 180, A: 255},
		Track:  rl.Color{R: 35, G: 38, B: 50, A: 255},
		Fill:   rl.Color{R: 90, G: 140, B: 230, A: 255},
		Warn:   rl.Color{R: 230, G: 90, B: 70, A: 255},

		Padding:    10,
		Line:       16,
		LabelWidth: 90,
		BarHeight:  12,
		Font:       12,
		HeaderFont: 14,
	}
}
