package game

import rl "github.com/gen2brain/raylib-go/raylib"

// Cell size limits for keyboard stepping.
const (
	MinCellSize float32 = 0.25
	MaxCellSize float32 = 64
)

// flagKeys binds each shading flag to a toggle key.
var flagKeys = [NumFlags]int32{
	FlagCirclesSDF:        rl.KeyC,
	FlagSmoothInterpolate: rl.KeyS,
	FlagOutline:           rl.KeyO,
	FlagRed:               rl.KeyR,
	FlagWhite:             rl.KeyW,
	FlagTimeColoring:      rl.KeyT,
}

// KeyForFlag returns the toggle key bound to f.
func KeyForFlag(f Flag) int32 {
	if f < NumFlags {
		return flagKeys[f]
	}
	return 0
}

// Actions are the session-level requests raised by one frame of input.
type Actions struct {
	TogglePause bool
	ToggleMask  bool
	ToggleUI    bool
	Screenshot  bool
}

// HandleInput applies this frame's key presses to u.
func HandleInput(u *Uniforms) Actions {
	return ApplyKeys(u, rl.IsKeyPressed)
}

// ApplyKeys applies presses reported by pressed to u. Flag keys toggle
// their flag, [ and ] halve and double the cell size.
func ApplyKeys(u *Uniforms, pressed func(key int32) bool) Actions {
	for f := Flag(0); f < NumFlags; f++ {
		if pressed(flagKeys[f]) {
			u.Toggle(f)
		}
	}

	s := u.Params().CellSize
	if pressed(rl.KeyLeftBracket) && s/2 >= MinCellSize {
		_ = u.SetCellSize(s / 2)
	}
	if pressed(rl.KeyRightBracket) && s*2 <= MaxCellSize {
		_ = u.SetCellSize(s * 2)
	}

	return Actions{
		TogglePause: pressed(rl.KeySpace),
		ToggleMask:  pressed(rl.KeyM),
		ToggleUI:    pressed(rl.KeyTab),
		Screenshot:  pressed(rl.KeyF12),
	}
}
