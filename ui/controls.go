package ui

import (
	"fmt"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metaballs/game"
)

// Cell size slider range.
const (
	sliderMin float32 = 1
	sliderMax float32 = 32
)

// ControlsPanel renders the uniform toggles and the cell size slider.
// Every change goes through game.Uniforms so the next frame resyncs.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and applies any clicks to u. It returns the Y
// position below the panel.
func (c *ControlsPanel) Draw(u *game.Uniforms, debugMask *bool) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	rowHeight := int32(26)
	rows := int32(game.NumFlags) + 1
	panelHeight := r.Theme.Line + rows*rowHeight + 3*r.Theme.Line + padding*3

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	x := float32(c.x + padding)
	y := r.DrawSectionHeader(c.x+padding, c.y+padding, "Uniforms")
	w := float32(c.width - padding*2)

	p := u.Params()
	for f := game.Flag(0); f < game.NumFlags; f++ {
		bounds := rl.Rectangle{X: x, Y: float32(y), Width: w, Height: float32(rowHeight - 4)}
		if gui.Button(bounds, flagLabel(f, p.Flag(f))) {
			u.Toggle(f)
		}
		y += rowHeight
	}

	if debugMask != nil {
		bounds := rl.Rectangle{X: x, Y: float32(y), Width: w, Height: float32(rowHeight - 4)}
		if gui.Button(bounds, toggleLabel("Cell mask", "M", *debugMask)) {
			*debugMask = !*debugMask
		}
	}
	y += rowHeight

	y = r.DrawLabelValue(c.x+padding, y, "Cell size", fmt.Sprintf("%.2f px", p.CellSize))
	next := gui.SliderBar(
		rl.Rectangle{X: x + 20, Y: float32(y), Width: w - 40, Height: float32(r.Theme.BarHeight + 4)},
		fmt.Sprintf("%.0f", sliderMin), fmt.Sprintf("%.0f", sliderMax),
		clampCell(p.CellSize), sliderMin, sliderMax,
	)
	if next != clampCell(p.CellSize) {
		_ = u.SetCellSize(next)
	}
	y += r.Theme.Line * 2

	return y
}

// flagLabel formats a toggle row for f, e.g. "[x] Outline (O)".
func flagLabel(f game.Flag, on bool) string {
	name := strings.ReplaceAll(f.String(), "_", " ")
	name = strings.ToUpper(name[:1]) + name[1:]
	return toggleLabel(name, keyName(game.KeyForFlag(f)), on)
}

func toggleLabel(name, key string, on bool) string {
	mark := "[ ]"
	if on {
		mark = "[x]"
	}
	if key == "" {
		return mark + " " + name
	}
	return fmt.Sprintf("%s %s (%s)", mark, name, key)
}

// keyName returns the printable name of a letter key.
func keyName(key int32) string {
	if key >= 'A' && key <= 'Z' {
		return string(rune(key))
	}
	return ""
}

func clampCell(s float32) float32 {
	if s < sliderMin {
		return sliderMin
	}
	if s > sliderMax {
		return sliderMax
	}
	return s
}
