package renderer

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestUnorm8(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{0.5, 128},
		{1, 255},
		{2, 255},
		{math32.NaN(), 0},
		{math32.Inf(1), 255},
	}
	for _, tt := range tests {
		if got := unorm8(tt.in); got != tt.want {
			t.Errorf("unorm8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFrame_SetAndImage(t *testing.T) {
	f := NewFrame(3, 2)
	f.Set(2, 1, RGB{R: 1, G: 0.5, B: -3})

	c := f.At(2, 1)
	if c.R != 255 || c.G != 128 || c.B != 0 || c.A != 255 {
		t.Errorf("At(2, 1) = %v, want {255 128 0 255}", c)
	}

	img := f.Image()
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("image bounds = %v, want 3x2", b)
	}
	if got := img.RGBAAt(2, 1); got != c {
		t.Errorf("image (2, 1) = %v, want %v", got, c)
	}
	if got := img.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("unset pixel = %v, want zero", got)
	}
}

func TestRGB_Ops(t *testing.T) {
	got := RGB{1, 2, 3}.Scale(2).Add(RGB{0.5, 0.5, 0.5})
	if got != (RGB{2.5, 4.5, 6.5}) {
		t.Errorf("got %+v", got)
	}
}
