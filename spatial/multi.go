package spatial

import (
	"fmt"

	"github.com/gridveil/engine/grid"
	"github.com/gridveil/engine/pool"
)

// MultiMap is a spatial map allowing any number of items per position,
// while each item still occupies exactly one position. Suited to
// non-blocking entities such as items on a floor.
//
// Per-position storage is rented from a pool.Pool and handed back when the
// last occupant leaves, so heavy add/remove churn settles into slice reuse
// instead of steady allocation. ItemsAt and the bulk operations report a
// position's occupants most-recently-added first.
type MultiMap[T comparable] struct {
	notifier[T]
	itemToPos  map[T]grid.Point
	posToItems map[grid.Point][]T
	pool       pool.Pool[T]
}

var _ Map[int] = (*MultiMap[int])(nil)

// NewMultiMap returns an empty multi-occupancy map backed by a FreeList
// pool sized for small per-position populations.
func NewMultiMap[T comparable](capacityHint int) *MultiMap[T] {
	return NewMultiMapWithPool[T](capacityHint, pool.NewFreeList[T](32, 4))
}

// NewMultiMapWithPool returns an empty multi-occupancy map drawing its
// per-position slices from p. A nil p disables reuse.
func NewMultiMapWithPool[T comparable](capacityHint int, p pool.Pool[T]) *MultiMap[T] {
	if capacityHint < 0 {
		capacityHint = 0
	}
	if p == nil {
		p = pool.Null[T]{SliceCap: 4}
	}
	return &MultiMap[T]{
		itemToPos:  make(map[T]grid.Point, capacityHint),
		posToItems: make(map[grid.Point][]T, capacityHint),
		pool:       p,
	}
}

func (m *MultiMap[T]) Count() int { return len(m.itemToPos) }

func (m *MultiMap[T]) Contains(item T) bool {
	_, ok := m.itemToPos[item]
	return ok
}

func (m *MultiMap[T]) ContainsAt(p grid.Point) bool {
	_, ok := m.posToItems[p]
	return ok
}

func (m *MultiMap[T]) ItemsAt(p grid.Point) []T {
	return reversed(m.posToItems[p])
}

// CountAt returns the number of items at p.
func (m *MultiMap[T]) CountAt(p grid.Point) int {
	return len(m.posToItems[p])
}

func (m *MultiMap[T]) PositionOf(item T) (grid.Point, bool) {
	p, ok := m.itemToPos[item]
	return p, ok
}

func (m *MultiMap[T]) MustPositionOf(item T) grid.Point {
	p, ok := m.itemToPos[item]
	if !ok {
		panic(fmt.Sprintf("spatial: item %v not in map", item))
	}
	return p
}

func (m *MultiMap[T]) Items() []T {
	out := make([]T, 0, len(m.itemToPos))
	for item := range m.itemToPos {
		out = append(out, item)
	}
	return out
}

func (m *MultiMap[T]) Positions() []grid.Point {
	out := make([]grid.Point, 0, len(m.posToItems))
	for p := range m.posToItems {
		out = append(out, p)
	}
	return out
}

func (m *MultiMap[T]) Entries() []Entry[T] {
	out := make([]Entry[T], 0, len(m.itemToPos))
	for item, p := range m.itemToPos {
		out = append(out, Entry[T]{Item: item, Pos: p})
	}
	return out
}

// Add stores item at p. Fails only when item is already present; the
// position accepts any number of occupants.
func (m *MultiMap[T]) Add(item T, p grid.Point) error {
	if _, ok := m.itemToPos[item]; ok {
		return fmt.Errorf("add %v at %v: %w", item, p, ErrDuplicateItem)
	}
	m.add(item, p)
	return nil
}

func (m *MultiMap[T]) TryAdd(item T, p grid.Point) bool {
	if _, ok := m.itemToPos[item]; ok {
		return false
	}
	m.add(item, p)
	return true
}

func (m *MultiMap[T]) add(item T, p grid.Point) {
	m.itemToPos[item] = p
	m.appendAt(p, item)
	m.fireAdded(ItemAdded[T]{Item: item, Pos: p})
}

// Move relocates item to target. Moving onto the current position fails
// with ErrNoOpMove.
func (m *MultiMap[T]) Move(item T, to grid.Point) error {
	from, ok := m.itemToPos[item]
	if !ok {
		return fmt.Errorf("move %v to %v: %w", item, to, ErrItemNotFound)
	}
	if to == from {
		return fmt.Errorf("move %v to %v: %w", item, to, ErrNoOpMove)
	}
	m.moveOne(item, from, to)
	return nil
}

func (m *MultiMap[T]) TryMove(item T, to grid.Point) bool {
	from, ok := m.itemToPos[item]
	if !ok || to == from {
		return false
	}
	m.moveOne(item, from, to)
	return true
}

func (m *MultiMap[T]) moveOne(item T, from, to grid.Point) {
	src := m.posToItems[from]
	_, dstExists := m.posToItems[to]
	if len(src) == 1 && !dstExists {
		// Sole occupant heading to a fresh position: hand the slice
		// over instead of cycling it through the pool.
		delete(m.posToItems, from)
		m.posToItems[to] = src
	} else {
		m.removeFromCell(from, item)
		m.appendAt(to, item)
	}
	m.itemToPos[item] = to
	m.fireMoved(ItemMoved[T]{Item: item, From: from, To: to})
}

func (m *MultiMap[T]) MoveAll(from, to grid.Point) error {
	if from == to {
		return fmt.Errorf("move all %v to %v: %w", from, to, ErrNoOpMove)
	}
	if _, ok := m.posToItems[from]; !ok {
		return fmt.Errorf("move all %v to %v: %w", from, to, ErrNothingToMove)
	}
	m.moveAll(from, to)
	return nil
}

func (m *MultiMap[T]) TryMoveAll(from, to grid.Point) []T {
	if from == to {
		return nil
	}
	if _, ok := m.posToItems[from]; !ok {
		return nil
	}
	return m.moveAll(from, to)
}

func (m *MultiMap[T]) CanMoveAll(from, to grid.Point) bool {
	if from == to {
		return false
	}
	_, ok := m.posToItems[from]
	return ok
}

// moveAll relocates every item at from and returns them most-recent-first.
// Both indexes settle before any event fires. Moved items append after the
// target's existing occupants, so they read as the most recent arrivals.
func (m *MultiMap[T]) moveAll(from, to grid.Point) []T {
	src := m.posToItems[from]
	moved := reversed(src)
	delete(m.posToItems, from)
	if dst, ok := m.posToItems[to]; ok {
		m.posToItems[to] = append(dst, src...)
		m.pool.Return(src)
	} else {
		m.posToItems[to] = src
	}
	for _, item := range moved {
		m.itemToPos[item] = to
	}
	for _, item := range moved {
		m.fireMoved(ItemMoved[T]{Item: item, From: from, To: to})
	}
	return moved
}

func (m *MultiMap[T]) Remove(item T) error {
	p, ok := m.itemToPos[item]
	if !ok {
		return fmt.Errorf("remove %v: %w", item, ErrItemNotFound)
	}
	m.removeOne(item, p)
	return nil
}

func (m *MultiMap[T]) TryRemove(item T) bool {
	p, ok := m.itemToPos[item]
	if !ok {
		return false
	}
	m.removeOne(item, p)
	return true
}

func (m *MultiMap[T]) removeOne(item T, p grid.Point) {
	delete(m.itemToPos, item)
	m.removeFromCell(p, item)
	m.fireRemoved(ItemRemoved[T]{Item: item, Pos: p})
}

func (m *MultiMap[T]) RemoveAt(p grid.Point) []T {
	src, ok := m.posToItems[p]
	if !ok {
		return nil
	}
	removed := reversed(src)
	delete(m.posToItems, p)
	m.pool.Return(src)
	for _, item := range removed {
		delete(m.itemToPos, item)
	}
	for _, item := range removed {
		m.fireRemoved(ItemRemoved[T]{Item: item, Pos: p})
	}
	return removed
}

// appendAt pushes item onto p's slice, renting one when p was empty.
func (m *MultiMap[T]) appendAt(p grid.Point, item T) {
	s, ok := m.posToItems[p]
	if !ok {
		s = m.pool.Rent()
	}
	m.posToItems[p] = append(s, item)
}

// removeFromCell deletes item from p's slice preserving insertion order,
// returning the slice to the pool when item was the last occupant.
func (m *MultiMap[T]) removeFromCell(p grid.Point, item T) {
	s := m.posToItems[p]
	for i, v := range s {
		if v == item {
			copy(s[i:], s[i+1:])
			var zero T
			s[len(s)-1] = zero
			s = s[:len(s)-1]
			break
		}
	}
	if len(s) == 0 {
		delete(m.posToItems, p)
		m.pool.Return(s)
		return
	}
	m.posToItems[p] = s
}

// reversed copies s back to front. Callers receive fresh storage, never a
// view of pooled memory.
func reversed[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	out := make([]T, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
