// Package pool provides reusable slice pools for containers that churn
// between empty and occupied, such as the per-position item lists of a
// multi-item spatial map. Pooling is a performance lever, never a
// correctness requirement: Null is a drop-in that always allocates.
package pool

// Pool hands out empty slices for reuse. Rent returns a slice with zero
// length; Return gives a slice back to the pool once it is no longer
// referenced by the caller. A returned slice must not be used afterward.
type Pool[T any] interface {
	Rent() []T
	Return(s []T)
}

// FreeList is a LIFO pool that holds up to maxHeld returned slices.
// Returned slices are cleared so pooled backing arrays never pin caller
// values for the garbage collector.
type FreeList[T any] struct {
	held     [][]T
	maxHeld  int
	sliceCap int
}

// NewFreeList creates a pool retaining at most maxHeld slices, allocating
// fresh slices with capacity sliceCap when empty. maxHeld <= 0 retains
// nothing (every Return discards); sliceCap <= 0 falls back to a small
// default.
func NewFreeList[T any](maxHeld, sliceCap int) *FreeList[T] {
	if sliceCap <= 0 {
		sliceCap = 4
	}
	if maxHeld < 0 {
		maxHeld = 0
	}
	return &FreeList[T]{
		held:     make([][]T, 0, maxHeld),
		maxHeld:  maxHeld,
		sliceCap: sliceCap,
	}
}

// Rent pops the most recently returned slice, or allocates when the pool is
// empty. The result always has length zero.
func (p *FreeList[T]) Rent() []T {
	if n := len(p.held); n > 0 {
		s := p.held[n-1]
		p.held[n-1] = nil
		p.held = p.held[:n-1]
		return s
	}
	return make([]T, 0, p.sliceCap)
}

// Return clears s and retains it for a future Rent, discarding it when the
// pool is already full.
func (p *FreeList[T]) Return(s []T) {
	if s == nil || len(p.held) >= p.maxHeld {
		return
	}
	clear(s)
	p.held = append(p.held, s[:0])
}

// Held returns the number of slices currently retained.
func (p *FreeList[T]) Held() int {
	return len(p.held)
}

// Null is a Pool that never retains anything: Rent always allocates and
// Return discards. Useful to rule pooling out when debugging aliasing.
type Null[T any] struct {
	// SliceCap sets the capacity of rented slices; 0 means a small default.
	SliceCap int
}

func (n Null[T]) Rent() []T {
	c := n.SliceCap
	if c <= 0 {
		c = 4
	}
	return make([]T, 0, c)
}

func (Null[T]) Return([]T) {}
