// Package points holds the metaball source records in a single contiguous
// float32 buffer laid out the way the device consumes it.
//
// The buffer is never handed out directly to kernels. Each dispatch scope
// receives a handle whose type states how it may touch the records:
// Reader for read-only shared access, Writer for the single exclusive
// writer, and Shared for unsynchronized concurrent mutation.
package points

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"
)

// Stride is the number of float32 values per point record.
const Stride = 6

// Field offsets within a record.
const (
	OffX  = 0 // centre x
	OffY  = 1 // centre y
	OffVX = 2 // velocity x
	OffVY = 3 // velocity y
	OffR  = 4 // radius
	OffVR = 5 // radius growth per frame
)

// Point is one metaball source.
type Point struct {
	X, Y   float32
	VX, VY float32
	R      float32
	VR     float32
}

// AccessMode tags how a handle may access the store.
type AccessMode uint8

const (
	ReadOnlyShared AccessMode = iota
	ExclusiveWriter
	UnsynchronizedShared
)

func (m AccessMode) String() string {
	switch m {
	case ReadOnlyShared:
		return "read-only-shared"
	case ExclusiveWriter:
		return "single-writer-exclusive"
	case UnsynchronizedShared:
		return "unsynchronized-shared-mutable"
	default:
		return fmt.Sprintf("AccessMode(%d)", uint8(m))
	}
}

// Store owns the point buffer for the lifetime of a session.
// The point count is fixed at construction.
type Store struct {
	data []float32
}

// NewStore allocates a zeroed store for n points.
func NewStore(n int) *Store {
	if n < 0 {
		n = 0
	}
	return &Store{data: make([]float32, n*Stride)}
}

// FromPoints builds a store holding a copy of ps.
func FromPoints(ps []Point) *Store {
	s := NewStore(len(ps))
	for i, p := range ps {
		s.set(i, p)
	}
	return s
}

// Len returns the number of points.
func (s *Store) Len() int { return len(s.data) / Stride }

// Floats exposes the binary layout for device upload.
// The slice aliases the store; callers must not retain it across frames.
func (s *Store) Floats() []float32 { return s.data }

// SizeBytes is the buffer size in bytes.
func (s *Store) SizeBytes() int { return len(s.data) * 4 }

// Load replaces the store contents from a device readback.
func (s *Store) Load(data []float32) error {
	if len(data) != len(s.data) {
		return fmt.Errorf("points: readback has %d floats, store holds %d", len(data), len(s.data))
	}
	copy(s.data, data)
	return nil
}

// Points returns a copy of all records.
func (s *Store) Points() []Point {
	out := make([]Point, s.Len())
	for i := range out {
		out[i] = s.at(i)
	}
	return out
}

// Reader returns a read-only handle.
func (s *Store) Reader() Reader { return Reader{data: s.data} }

// Writer returns the exclusive writer handle. Only one dispatch scope may
// hold it at a time, and no Reader may be in use while it is.
func (s *Store) Writer() Writer { return Writer{data: s.data} }

// Shared returns a handle that permits concurrent unsynchronized mutation.
func (s *Store) Shared() Shared { return Shared{data: s.data} }

func (s *Store) at(i int) Point { return load(s.data, i) }

func (s *Store) set(i int, p Point) { store(s.data, i, p) }

func load(data []float32, i int) Point {
	rec := data[i*Stride : i*Stride+Stride : i*Stride+Stride]
	return Point{
		X: rec[OffX], Y: rec[OffY],
		VX: rec[OffVX], VY: rec[OffVY],
		R: rec[OffR], VR: rec[OffVR],
	}
}

func store(data []float32, i int, p Point) {
	rec := data[i*Stride : i*Stride+Stride : i*Stride+Stride]
	rec[OffX], rec[OffY] = p.X, p.Y
	rec[OffVX], rec[OffVY] = p.VX, p.VY
	rec[OffR], rec[OffVR] = p.R, p.VR
}

// Reader is a read-only view used by field and contour consumers.
type Reader struct {
	data []float32
}

// Mode reports ReadOnlyShared.
func (Reader) Mode() AccessMode { return ReadOnlyShared }

// Len returns the number of points.
func (r Reader) Len() int { return len(r.data) / Stride }

// At returns point i.
func (r Reader) At(i int) Point { return load(r.data, i) }

// Circle returns the centre and radius of point i.
func (r Reader) Circle(i int) (x, y, radius float32) {
	k := i * Stride
	return r.data[k+OffX], r.data[k+OffY], r.data[k+OffR]
}

// Floats exposes the buffer for device upload.
func (r Reader) Floats() []float32 { return r.data }

// Writer is the exclusive handle held by the update kernel.
type Writer struct {
	data []float32
}

// Mode reports ExclusiveWriter.
func (Writer) Mode() AccessMode { return ExclusiveWriter }

// Len returns the number of points.
func (w Writer) Len() int { return len(w.data) / Stride }

// At returns point i.
func (w Writer) At(i int) Point { return load(w.data, i) }

// Set overwrites point i.
func (w Writer) Set(i int, p Point) { store(w.data, i, p) }

// Floats exposes the buffer for device upload and readback.
func (w Writer) Floats() []float32 { return w.data }

// Shared is the unsynchronized handle held by the race kernel. Any number
// of goroutines may call its methods at once; Nudge then performs
// overlapping read-modify-write cycles and increments may be lost.
type Shared struct {
	data []float32
}

// Mode reports UnsynchronizedShared.
func (Shared) Mode() AccessMode { return UnsynchronizedShared }

// Len returns the number of points.
func (s Shared) Len() int { return len(s.data) / Stride }

// Circle returns the centre and radius of point i with plain loads.
func (s Shared) Circle(i int) (x, y, radius float32) {
	k := i * Stride
	return s.data[k+OffX], s.data[k+OffY], s.data[k+OffR]
}

// Nudge moves point i by (dx, dy) with plain loads and stores.
func (s Shared) Nudge(i int, dx, dy float32) {
	k := i * Stride
	s.data[k+OffX] += dx
	s.data[k+OffY] += dy
}

// Floats exposes the buffer for device upload and readback.
func (s Shared) Floats() []float32 { return s.data }

// Place moves point i to (x, y) with plain stores. Call it only while no
// other goroutine holds the handle.
func (s Shared) Place(i int, x, y float32) {
	k := i * Stride
	s.data[k+OffX] = x
	s.data[k+OffY] = y
}

// NudgeAtomic moves point i by (dx, dy) using a compare-and-swap loop per
// coordinate, so no increment is lost.
func (s Shared) NudgeAtomic(i int, dx, dy float32) {
	k := i * Stride
	addFloat32(&s.data[k+OffX], dx)
	addFloat32(&s.data[k+OffY], dy)
}

// CircleAtomic returns the centre and radius of point i with atomic loads.
func (s Shared) CircleAtomic(i int) (x, y, radius float32) {
	k := i * Stride
	return loadFloat32(&s.data[k+OffX]), loadFloat32(&s.data[k+OffY]), loadFloat32(&s.data[k+OffR])
}

func addFloat32(addr *float32, delta float32) {
	p := (*uint32)(unsafe.Pointer(addr))
	for {
		old := atomic.LoadUint32(p)
		next := math.Float32frombits(old) + delta
		if atomic.CompareAndSwapUint32(p, old, math.Float32bits(next)) {
			return
		}
	}
}

func loadFloat32(addr *float32) float32 {
	return math.Float32frombits(atomic.LoadUint32((*uint32)(unsafe.Pointer(addr))))
}
