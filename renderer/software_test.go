package renderer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/metaballs/game"
	"github.com/pthm-cable/metaballs/parallel"
	"github.com/pthm-cable/metaballs/points"
)

func TestSoftware_MatchesShade(t *testing.T) {
	const size = 24
	pool := parallel.New(4, 1)
	defer pool.Close()

	store := points.FromPoints([]points.Point{
		{X: 8, Y: 8, R: 4},
		{X: 16, Y: 14, R: 5},
	})
	u := game.Params{CellSize: 2, SmoothInterpolate: true, Outline: true}
	buf := make([]float32, game.NumUniforms)
	u.Encode(buf)

	sw := NewSoftware(pool, size, 2)
	if err := sw.WriteUniforms(buf); err != nil {
		t.Fatalf("WriteUniforms: %v", err)
	}
	if err := sw.Render(store.Reader()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := NewFrame(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			want.Set(x, y, Shade(u, store.Reader(), PixelCentre(x, y), size))
		}
	}
	for i := range want.Pix {
		if sw.Frame().Pix[i] != want.Pix[i] {
			t.Fatalf("pixel %d = %v, want %v", i, sw.Frame().Pix[i], want.Pix[i])
		}
	}
}

func TestSoftware_RejectsShortUniforms(t *testing.T) {
	sw := NewSoftware(parallel.New(1, 0), 4, 1)
	if err := sw.WriteUniforms([]float32{1, 2}); err == nil {
		t.Error("expected error for short uniform buffer")
	}
}

func TestSoftware_DebugMask(t *testing.T) {
	pool := parallel.New(1, 0)
	defer pool.Close()

	store := points.FromPoints([]points.Point{{X: 4, Y: 4, R: 100}})
	sw := NewSoftware(pool, 8, 1)
	buf := make([]float32, game.NumUniforms)
	game.Params{CellSize: 2}.Encode(buf)
	if err := sw.WriteUniforms(buf); err != nil {
		t.Fatal(err)
	}
	sw.SetDebugMask(true)
	if err := sw.Render(store.Reader()); err != nil {
		t.Fatal(err)
	}
	if c := sw.Frame().At(3, 3); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("mask pixel = %v, want white (mask 15)", c)
	}
}

func TestHeadless_Snapshots(t *testing.T) {
	dir := t.TempDir()
	h := &Headless{Frame: NewFrame(2, 2), Dir: dir, SnapshotEvery: 2}
	for i := 0; i < 4; i++ {
		if err := h.Present(); err != nil {
			t.Fatalf("Present: %v", err)
		}
	}
	if h.Presented() != 4 {
		t.Errorf("Presented = %d, want 4", h.Presented())
	}
	for _, name := range []string{"frame_000002.png", "frame_000004.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
