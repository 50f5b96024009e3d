package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeList_RentReturnsEmptySliceWithCap(t *testing.T) {
	p := NewFreeList[int](4, 8)

	s := p.Rent()
	assert.Empty(t, s)
	assert.Equal(t, 8, cap(s))
	assert.Zero(t, p.Held())
}

func TestFreeList_ReturnedSliceIsReused(t *testing.T) {
	p := NewFreeList[int](4, 2)

	s := p.Rent()
	s = append(s, 1, 2, 3)
	p.Return(s)
	require.Equal(t, 1, p.Held())

	got := p.Rent()
	assert.Zero(t, p.Held())
	assert.Empty(t, got)
	assert.Equal(t, cap(s), cap(got), "the same backing array comes back")
}

// Returned slices are cleared so pooled arrays cannot pin caller values.
func TestFreeList_ReturnClearsContents(t *testing.T) {
	p := NewFreeList[*int](4, 4)

	v := 7
	s := p.Rent()
	s = append(s, &v)
	p.Return(s)

	got := p.Rent()
	full := got[:cap(got)]
	for i := range full {
		assert.Nil(t, full[i])
	}
}

func TestFreeList_CapacityBound(t *testing.T) {
	p := NewFreeList[int](2, 4)

	p.Return(make([]int, 0, 4))
	p.Return(make([]int, 0, 4))
	p.Return(make([]int, 0, 4))
	assert.Equal(t, 2, p.Held(), "overflow returns are discarded")
}

func TestFreeList_LIFO(t *testing.T) {
	p := NewFreeList[int](4, 1)

	a := make([]int, 0, 10)
	b := make([]int, 0, 20)
	p.Return(a)
	p.Return(b)

	assert.Equal(t, 20, cap(p.Rent()), "most recently returned comes out first")
	assert.Equal(t, 10, cap(p.Rent()))
}

func TestFreeList_Defaults(t *testing.T) {
	p := NewFreeList[int](-5, 0)

	s := p.Rent()
	assert.Equal(t, 4, cap(s), "non-positive slice cap falls back to the default")

	p.Return(s)
	assert.Zero(t, p.Held(), "negative maxHeld retains nothing")

	p.Return(nil)
	assert.Zero(t, p.Held())
}

func TestNull_AlwaysAllocates(t *testing.T) {
	p := Null[int]{SliceCap: 16}

	a := p.Rent()
	p.Return(a)
	b := p.Rent()

	assert.Empty(t, a)
	assert.Equal(t, 16, cap(a))
	assert.Equal(t, 16, cap(b))

	assert.Equal(t, 4, cap(Null[int]{}.Rent()), "zero value uses the default cap")
}
