package game

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func pressedKeys(keys ...int32) func(int32) bool {
	set := make(map[int32]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return func(k int32) bool { return set[k] }
}

func TestApplyKeys_TogglesFlags(t *testing.T) {
	for f := Flag(0); f < NumFlags; f++ {
		t.Run(f.String(), func(t *testing.T) {
			u, err := NewUniforms(Params{CellSize: 1})
			if err != nil {
				t.Fatal(err)
			}
			if _, err := u.Sync(&countingWriter{}); err != nil {
				t.Fatal(err)
			}

			ApplyKeys(u, pressedKeys(KeyForFlag(f)))
			if !u.Params().Flag(f) {
				t.Errorf("%v not set after key press", f)
			}
			if !u.Dirty() {
				t.Error("uniforms not dirty after toggle")
			}
		})
	}
}

func TestApplyKeys_CellSize(t *testing.T) {
	tests := []struct {
		name  string
		start float32
		key   int32
		want  float32
	}{
		{"halve", 4, rl.KeyLeftBracket, 2},
		{"double", 4, rl.KeyRightBracket, 8},
		{"floor", MinCellSize, rl.KeyLeftBracket, MinCellSize},
		{"ceiling", MaxCellSize, rl.KeyRightBracket, MaxCellSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUniforms(Params{CellSize: tt.start})
			if err != nil {
				t.Fatal(err)
			}
			ApplyKeys(u, pressedKeys(tt.key))
			if got := u.Params().CellSize; got != tt.want {
				t.Errorf("CellSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyKeys_Actions(t *testing.T) {
	u, _ := NewUniforms(Params{CellSize: 1})
	a := ApplyKeys(u, pressedKeys(rl.KeySpace, rl.KeyM))
	if !a.TogglePause || !a.ToggleMask || a.ToggleUI || a.Screenshot {
		t.Errorf("Actions = %+v, want pause and mask only", a)
	}
}
