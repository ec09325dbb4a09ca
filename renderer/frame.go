// Package renderer turns the metaball field into pixels, either on the CPU
// worker pool or on the GPU through raylib.
package renderer

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

// RGB is an unclamped linear colour as produced by the shading model.
type RGB struct {
	R, G, B float32
}

// Add returns c + o.
func (c RGB) Add(o RGB) RGB { return RGB{c.R + o.R, c.G + o.G, c.B + o.B} }

// Scale returns c * k.
func (c RGB) Scale(k float32) RGB { return RGB{c.R * k, c.G * k, c.B * k} }

// Frame is an RGBA8 render target, row-major with y down.
type Frame struct {
	Width, Height int
	Pix           []color.RGBA
}

// NewFrame allocates a w x h frame.
func NewFrame(w, h int) *Frame {
	return &Frame{Width: w, Height: h, Pix: make([]color.RGBA, w*h)}
}

// Set stores c at (x, y), saturating each channel to [0, 1] like a
// normalized render target. NaN stores as 0.
func (f *Frame) Set(x, y int, c RGB) {
	f.Pix[y*f.Width+x] = color.RGBA{R: unorm8(c.R), G: unorm8(c.G), B: unorm8(c.B), A: 255}
}

// At returns the stored colour at (x, y).
func (f *Frame) At(x, y int) color.RGBA { return f.Pix[y*f.Width+x] }

// Image copies the frame into an image.RGBA.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, c := range f.Pix {
		img.Pix[4*i+0] = c.R
		img.Pix[4*i+1] = c.G
		img.Pix[4*i+2] = c.B
		img.Pix[4*i+3] = c.A
	}
	return img
}

func unorm8(v float32) uint8 {
	if math32.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
