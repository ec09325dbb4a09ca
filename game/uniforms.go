package game

import "fmt"

// Uniforms owns the shading parameters and tracks whether the device copy
// is stale. Every setter that changes a value marks the set dirty; Sync
// uploads once and clears the mark.
//
// Uniforms is not safe for concurrent use. Only the driver goroutine and
// the UI running on it may touch it.
type Uniforms struct {
	p     Params
	dirty bool
	buf   [NumUniforms]float32
}

// NewUniforms returns uniforms holding p, dirty so the first frame uploads.
func NewUniforms(p Params) (*Uniforms, error) {
	if p.CellSize <= 0 {
		return nil, fmt.Errorf("uniforms: cell size must be positive, got %v", p.CellSize)
	}
	return &Uniforms{p: p, dirty: true}, nil
}

// Params returns a copy of the current parameters.
func (u *Uniforms) Params() Params { return u.p }

// Dirty reports whether the device copy is stale.
func (u *Uniforms) Dirty() bool { return u.dirty }

// SetTime updates the time parameter.
func (u *Uniforms) SetTime(t float32) {
	if u.p.Time != t {
		u.p.Time = t
		u.dirty = true
	}
}

// SetCellSize updates the marching-squares cell size.
func (u *Uniforms) SetCellSize(s float32) error {
	if s <= 0 {
		return fmt.Errorf("uniforms: cell size must be positive, got %v", s)
	}
	if u.p.CellSize != s {
		u.p.CellSize = s
		u.dirty = true
	}
	return nil
}

// SetFlag updates one boolean parameter.
func (u *Uniforms) SetFlag(f Flag, on bool) {
	b := u.p.field(f)
	if b == nil || *b == on {
		return
	}
	*b = on
	u.dirty = true
}

// Toggle inverts one boolean parameter.
func (u *Uniforms) Toggle(f Flag) { u.SetFlag(f, !u.p.Flag(f)) }

// Sync writes the parameters to w if they are dirty. It reports whether a
// write happened. The dirty mark is cleared only after a successful write.
func (u *Uniforms) Sync(w UniformWriter) (bool, error) {
	if !u.dirty {
		return false, nil
	}
	u.p.Encode(u.buf[:])
	if err := w.WriteUniforms(u.buf[:]); err != nil {
		return false, fmt.Errorf("writing uniforms: %w", err)
	}
	u.dirty = false
	return true, nil
}
