package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.Panel)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.Border)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFont, r.Theme.Header)
	return y + r.Theme.Line
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.Font, r.Theme.Muted)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.Font, r.Theme.Text)
	return y + r.Theme.Line
}

// DrawPercentBar draws a bar for a percentage in [0, 100]. Values above
// warn use the high fill colour.
func (r *Renderer) DrawPercentBar(x, y int32, label string, pct, warn float64, width int32) int32 {
	ratio := clampRatio(pct / 100)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.Font, r.Theme.Muted)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.Track)

	fill := r.Theme.Fill
	if pct > warn {
		fill = r.Theme.Warn
	}
	rl.DrawRectangle(barX, y+2, int32(float64(barWidth)*ratio), r.Theme.BarHeight, fill)
	rl.DrawText(fmt.Sprintf("%.1f%%", pct), barX+barWidth+5, y, r.Theme.Font, r.Theme.Text)

	return y + r.Theme.Line + 2
}

func clampRatio(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
