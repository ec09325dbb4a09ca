package renderer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Window presents a render target in the raylib window, scaled to the
// window size, then draws an optional overlay on top.
type Window struct {
	texture func() (rl.Texture2D, error)
	flipY   bool // render textures are stored bottom-up
	size    float32
	overlay func()
	owned   rl.Texture2D
}

// NewGPUWindow presents the GPU device's render target.
func NewGPUWindow(g *GPU) *Window {
	return &Window{
		texture: func() (rl.Texture2D, error) { return g.Target().Texture, nil },
		flipY:   true,
		size:    float32(g.cfg.Size),
	}
}

// NewSoftwareWindow uploads the software frame into a texture each present.
func NewSoftwareWindow(f *Frame) *Window {
	img := rl.GenImageColor(f.Width, f.Height, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	w := &Window{size: float32(f.Width), owned: tex}
	w.texture = func() (rl.Texture2D, error) {
		if len(f.Pix) != int(tex.Width)*int(tex.Height) {
			return tex, fmt.Errorf("frame %dx%d does not match texture %dx%d", f.Width, f.Height, tex.Width, tex.Height)
		}
		rl.UpdateTexture(tex, f.Pix)
		return tex, nil
	}
	return w
}

// SetOverlay sets a function drawn after the frame, inside the same
// drawing pass.
func (w *Window) SetOverlay(fn func()) { w.overlay = fn }

// Present draws one window frame.
func (w *Window) Present() error {
	tex, err := w.texture()
	if err != nil {
		return err
	}

	src := rl.Rectangle{Width: w.size, Height: w.size}
	if w.flipY {
		src.Height = -w.size
	}
	dst := rl.Rectangle{
		Width:  float32(rl.GetScreenWidth()),
		Height: float32(rl.GetScreenHeight()),
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
	if w.overlay != nil {
		w.overlay()
	}
	rl.EndDrawing()
	return nil
}

// Close releases the texture owned by a software window.
func (w *Window) Close() {
	if w.owned.ID != 0 {
		rl.UnloadTexture(w.owned)
		w.owned = rl.Texture2D{}
	}
}

// Headless presents without a window. Every SnapshotEvery frames it writes
// the software frame to Dir as a PNG; zero disables snapshots.
type Headless struct {
	Frame         *Frame
	Dir           string
	SnapshotEvery int

	presented int
}

// Presented returns how many frames were presented.
func (h *Headless) Presented() int { return h.presented }

// Present counts the frame and writes a snapshot when one is due.
func (h *Headless) Present() error {
	h.presented++
	if h.SnapshotEvery <= 0 || h.Frame == nil || h.presented%h.SnapshotEvery != 0 {
		return nil
	}
	path := filepath.Join(h.Dir, fmt.Sprintf("frame_%06d.png", h.presented))
	return WritePNG(path, h.Frame.Image())
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
