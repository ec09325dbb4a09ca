package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metaballs/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title   string
	Backend string
	Mode    string // "metaballs" or "race/<sync>"
	Points  int
	Frames  int64
	FPS     int32
	Paused  bool
	Race    *telemetry.DriftStats // nil outside race mode
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD in the top right corner of a screen width wide.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	r := h.renderer
	const width = 240
	x := screenWidth - width - 10
	lines := int32(5)
	if data.Race != nil {
		lines += 3
	}
	r.DrawPanel(x, 10, width, lines*r.Theme.Line+r.Theme.Padding*2)

	lx := x + r.Theme.Padding
	y := r.DrawSectionHeader(lx, 10+r.Theme.Padding, data.Title)
	y = r.DrawLabelValue(lx, y, "Backend", data.Backend)
	y = r.DrawLabelValue(lx, y, "Mode", data.Mode)
	y = r.DrawLabelValue(lx, y, "Points", fmt.Sprintf("%d", data.Points))

	status := fmt.Sprintf("%d  (%d fps)", data.Frames, data.FPS)
	if data.Paused {
		status = "PAUSED"
	}
	y = r.DrawLabelValue(lx, y, "Frame", status)

	if data.Race != nil {
		y = r.DrawLabelValue(lx, y, "Lost", fmt.Sprintf("%.1f%%", data.Race.LostFraction()*100))
		y = r.DrawLabelValue(lx, y, "Mean loss", fmt.Sprintf("%.3f", data.Race.MeanLoss))
		r.DrawLabelValue(lx, y, "Max loss", fmt.Sprintf("%.3f", data.Race.MaxLoss))
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase frame breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	const width = 260
	phases := []string{telemetry.PhaseUniformSync, telemetry.PhaseCompute, telemetry.PhaseRender, telemetry.PhasePresent}
	r.DrawPanel(p.x, p.y, width, int32(len(phases)+2)*(r.Theme.Line+2)+r.Theme.Padding*2)

	x := p.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, p.y+r.Theme.Padding, "Frame Performance")
	y = r.DrawLabelValue(x, y, "Avg frame", stats.AvgFrameDuration.Round(time.Microsecond).String())
	for _, phase := range phases {
		y = r.DrawPercentBar(x, y, phase, stats.PhasePct[phase], 50, width-r.Theme.Padding*2)
	}
}
