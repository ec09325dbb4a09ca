// Package contour extracts a marching-squares outline from a scalar field,
// one query position at a time.
//
// Each query derives its grid cell, classifies the four corners against
// the field threshold, maps the resulting 4-bit mask to a segment between
// edge midpoints, and reports how close the query lies to that segment.
//
// The saddle masks 5 and 10 are resolved with a two-attempt heuristic: the
// first candidate segment is kept only when the query lies exactly on it,
// otherwise the second is used. This does not resolve the saddle
// topologically and can drop one of the two crossing lines.
package contour

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glgl/math/ms2"
)

// Threshold is the field value at or above which a corner is inside.
const Threshold = 1

// DensityFunc evaluates the scalar field at a position.
type DensityFunc func(p ms2.Vec) float32

// Cell is a grid square with corners in pixel orientation: y grows
// downward, so the bottom edge is at TL.Y + Size.
type Cell struct {
	TL, TR, BR, BL ms2.Vec
	Size           float32
}

// CellAt returns the cell of size s containing p.
func CellAt(p ms2.Vec, s float32) Cell {
	tl := ms2.Vec{
		X: math32.Floor(p.X/s) * s,
		Y: math32.Floor(p.Y/s) * s,
	}
	return Cell{
		TL:   tl,
		TR:   ms2.Add(tl, ms2.Vec{X: s}),
		BR:   ms2.Add(tl, ms2.Vec{X: s, Y: s}),
		BL:   ms2.Add(tl, ms2.Vec{Y: s}),
		Size: s,
	}
}

// Edge midpoints.
func (c Cell) top() ms2.Vec    { return ms2.Vec{X: c.TL.X + c.Size*0.5, Y: c.TL.Y} }
func (c Cell) bottom() ms2.Vec { return ms2.Vec{X: c.TL.X + c.Size*0.5, Y: c.TL.Y + c.Size} }
func (c Cell) left() ms2.Vec   { return ms2.Vec{X: c.TL.X, Y: c.TL.Y + c.Size*0.5} }
func (c Cell) right() ms2.Vec  { return ms2.Vec{X: c.TL.X + c.Size, Y: c.TL.Y + c.Size*0.5} }

// Mask is the 4-bit corner inclusion code.
type Mask uint8

// Corner bits.
const (
	BitBL Mask = 0x1
	BitBR Mask = 0x2
	BitTR Mask = 0x4
	BitTL Mask = 0x8
)

// Classify tests each corner of c against Threshold.
func Classify(c Cell, density DensityFunc) Mask {
	var m Mask
	if density(c.BL) >= Threshold {
		m |= BitBL
	}
	if density(c.BR) >= Threshold {
		m |= BitBR
	}
	if density(c.TR) >= Threshold {
		m |= BitTR
	}
	if density(c.TL) >= Threshold {
		m |= BitTL
	}
	return m
}

// Segment identifies a line between two edge midpoints of a cell.
type Segment uint8

const (
	SegNone Segment = iota
	SegLeftBottom
	SegBottomRight
	SegLeftRight
	SegTopRight
	SegTopBottom
	SegLeftTop
)

func (s Segment) String() string {
	switch s {
	case SegNone:
		return "none"
	case SegLeftBottom:
		return "lm-bm"
	case SegBottomRight:
		return "bm-rm"
	case SegLeftRight:
		return "lm-rm"
	case SegTopRight:
		return "tm-rm"
	case SegTopBottom:
		return "tm-bm"
	case SegLeftTop:
		return "lm-tm"
	default:
		return fmt.Sprintf("Segment(%d)", uint8(s))
	}
}

// Endpoints returns the segment's end points within c.
// ok is false for SegNone.
func (s Segment) Endpoints(c Cell) (a, b ms2.Vec, ok bool) {
	switch s {
	case SegLeftBottom:
		return c.left(), c.bottom(), true
	case SegBottomRight:
		return c.bottom(), c.right(), true
	case SegLeftRight:
		return c.left(), c.right(), true
	case SegTopRight:
		return c.top(), c.right(), true
	case SegTopBottom:
		return c.top(), c.bottom(), true
	case SegLeftTop:
		return c.left(), c.top(), true
	default:
		return ms2.Vec{}, ms2.Vec{}, false
	}
}

// Entry is one row of the mask table.
type Entry struct {
	Primary   Segment
	Fallback  Segment // Only set for ambiguous masks
	Ambiguous bool
}

// table maps each mask to its segment. Complementary masks share a row.
var table = [16]Entry{
	0:  {},
	1:  {Primary: SegLeftBottom},
	2:  {Primary: SegBottomRight},
	3:  {Primary: SegLeftRight},
	4:  {Primary: SegTopRight},
	5:  {Primary: SegLeftTop, Fallback: SegBottomRight, Ambiguous: true},
	6:  {Primary: SegTopBottom},
	7:  {Primary: SegLeftTop},
	8:  {Primary: SegLeftTop},
	9:  {Primary: SegTopBottom},
	10: {Primary: SegLeftBottom, Fallback: SegTopRight, Ambiguous: true},
	11: {Primary: SegTopRight},
	12: {Primary: SegLeftRight},
	13: {Primary: SegBottomRight},
	14: {Primary: SegLeftBottom},
	15: {},
}

// Lookup returns the table entry for m. Bits above 0xf are ignored.
func Lookup(m Mask) Entry { return table[m&0xf] }

// SegmentStrength returns 1 minus the distance from p to the closest point
// on segment ab. It is 1 on the segment and falls off linearly; values
// below zero are returned as is.
func SegmentStrength(p, a, b ms2.Vec) float32 {
	pa := ms2.Sub(p, a)
	ba := ms2.Sub(b, a)
	h := ms1.Clamp(ms2.Dot(pa, ba)/ms2.Dot(ba, ba), 0, 1)
	return 1 - ms2.Norm(ms2.Sub(pa, ms2.Scale(h, ba)))
}

// Result describes the outline contribution at one query position.
type Result struct {
	Cell         Cell
	Mask         Mask
	Segment      Segment // Segment that produced Strength
	UsedFallback bool
	Strength     float32 // Zero for masks 0 and 15
}

// March runs the full extraction for query position p.
func March(p ms2.Vec, cellSize float32, density DensityFunc) Result {
	cell := CellAt(p, cellSize)
	mask := Classify(cell, density)
	res := Result{Cell: cell, Mask: mask}

	e := Lookup(mask)
	if e.Primary == SegNone {
		return res
	}

	a, b, _ := e.Primary.Endpoints(cell)
	res.Segment = e.Primary
	res.Strength = SegmentStrength(p, a, b)

	if e.Ambiguous && res.Strength != 1 {
		a, b, _ = e.Fallback.Endpoints(cell)
		res.Segment = e.Fallback
		res.UsedFallback = true
		res.Strength = SegmentStrength(p, a, b)
	}
	return res
}
