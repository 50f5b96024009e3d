package grid

// View is a read-only window onto a Width×Height field of values. The
// FOV and sense engines consume transparency and resistance through this
// interface so callers can back it with whatever tile storage they have.
type View[T any] interface {
	Width() int
	Height() int
	// At returns the value at p. Implementations may panic or return the
	// zero value for out-of-bounds points; callers bounds-check first.
	At(p Point) T
}

// InBounds reports whether p lies inside v.
func InBounds[T any](v View[T], p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < v.Width() && p.Y < v.Height()
}

// Buffer is a mutable View backed by a flat slice, row-major [y*width + x].
type Buffer[T any] struct {
	w, h  int
	cells []T
}

// NewBuffer allocates a zero-filled w×h buffer.
func NewBuffer[T any](w, h int) *Buffer[T] {
	if w < 0 || h < 0 {
		panic("grid: negative buffer dimensions")
	}
	return &Buffer[T]{w: w, h: h, cells: make([]T, w*h)}
}

func (b *Buffer[T]) Width() int  { return b.w }
func (b *Buffer[T]) Height() int { return b.h }

func (b *Buffer[T]) At(p Point) T {
	return b.cells[p.Y*b.w+p.X]
}

func (b *Buffer[T]) Set(p Point, v T) {
	b.cells[p.Y*b.w+p.X] = v
}

// InBounds reports whether p lies inside the buffer.
func (b *Buffer[T]) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < b.w && p.Y < b.h
}

// Fill sets every cell to v.
func (b *Buffer[T]) Fill(v T) {
	for i := range b.cells {
		b.cells[i] = v
	}
}

// Each calls fn for every point in row-major order.
func (b *Buffer[T]) Each(fn func(Point, T)) {
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			fn(Point{X: x, Y: y}, b.cells[y*b.w+x])
		}
	}
}

// FuncView adapts a closure into a View, computing values on demand.
// Useful for deriving a transparency or resistance view from richer tile
// data without copying it.
type FuncView[T any] struct {
	W, H int
	Fn   func(Point) T
}

func (v FuncView[T]) Width() int   { return v.W }
func (v FuncView[T]) Height() int  { return v.H }
func (v FuncView[T]) At(p Point) T { return v.Fn(p) }
