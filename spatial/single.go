package spatial

import (
	"fmt"

	"github.com/gridveil/engine/grid"
)

// SingleMap is a bijective spatial map: every item occupies exactly one
// position and every position holds at most one item. Suited to blocking
// entities such as creatures on a terrain layer.
type SingleMap[T comparable] struct {
	notifier[T]
	itemToPos map[T]grid.Point
	posToItem map[grid.Point]T
}

var _ Map[int] = (*SingleMap[int])(nil)

// NewSingleMap returns an empty single-occupancy map. capacityHint sizes
// the internal indexes; zero is fine.
func NewSingleMap[T comparable](capacityHint int) *SingleMap[T] {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &SingleMap[T]{
		itemToPos: make(map[T]grid.Point, capacityHint),
		posToItem: make(map[grid.Point]T, capacityHint),
	}
}

func (m *SingleMap[T]) Count() int { return len(m.itemToPos) }

func (m *SingleMap[T]) Contains(item T) bool {
	_, ok := m.itemToPos[item]
	return ok
}

func (m *SingleMap[T]) ContainsAt(p grid.Point) bool {
	_, ok := m.posToItem[p]
	return ok
}

func (m *SingleMap[T]) ItemsAt(p grid.Point) []T {
	item, ok := m.posToItem[p]
	if !ok {
		return nil
	}
	return []T{item}
}

// ItemAt returns the single occupant of p, or false when p is empty.
func (m *SingleMap[T]) ItemAt(p grid.Point) (T, bool) {
	item, ok := m.posToItem[p]
	return item, ok
}

func (m *SingleMap[T]) PositionOf(item T) (grid.Point, bool) {
	p, ok := m.itemToPos[item]
	return p, ok
}

func (m *SingleMap[T]) MustPositionOf(item T) grid.Point {
	p, ok := m.itemToPos[item]
	if !ok {
		panic(fmt.Sprintf("spatial: item %v not in map", item))
	}
	return p
}

func (m *SingleMap[T]) Items() []T {
	out := make([]T, 0, len(m.itemToPos))
	for item := range m.itemToPos {
		out = append(out, item)
	}
	return out
}

func (m *SingleMap[T]) Positions() []grid.Point {
	out := make([]grid.Point, 0, len(m.posToItem))
	for p := range m.posToItem {
		out = append(out, p)
	}
	return out
}

func (m *SingleMap[T]) Entries() []Entry[T] {
	out := make([]Entry[T], 0, len(m.itemToPos))
	for item, p := range m.itemToPos {
		out = append(out, Entry[T]{Item: item, Pos: p})
	}
	return out
}

// Add stores item at p. The item must be new to the map and p must be
// vacant.
func (m *SingleMap[T]) Add(item T, p grid.Point) error {
	if _, ok := m.itemToPos[item]; ok {
		return fmt.Errorf("add %v at %v: %w", item, p, ErrDuplicateItem)
	}
	if _, ok := m.posToItem[p]; ok {
		return fmt.Errorf("add %v at %v: %w", item, p, ErrPositionOccupied)
	}
	m.add(item, p)
	return nil
}

func (m *SingleMap[T]) TryAdd(item T, p grid.Point) bool {
	if _, ok := m.itemToPos[item]; ok {
		return false
	}
	if _, ok := m.posToItem[p]; ok {
		return false
	}
	m.add(item, p)
	return true
}

func (m *SingleMap[T]) add(item T, p grid.Point) {
	m.itemToPos[item] = p
	m.posToItem[p] = item
	m.fireAdded(ItemAdded[T]{Item: item, Pos: p})
}

// Move relocates item to target. The target must be vacant unless it is
// the item's own position, in which case the move succeeds and the event
// fires with From == To.
func (m *SingleMap[T]) Move(item T, to grid.Point) error {
	from, ok := m.itemToPos[item]
	if !ok {
		return fmt.Errorf("move %v to %v: %w", item, to, ErrItemNotFound)
	}
	if occ, ok := m.posToItem[to]; ok && occ != item {
		return fmt.Errorf("move %v to %v: %w", item, to, ErrPositionOccupied)
	}
	m.move(item, from, to)
	return nil
}

func (m *SingleMap[T]) TryMove(item T, to grid.Point) bool {
	from, ok := m.itemToPos[item]
	if !ok {
		return false
	}
	if occ, ok := m.posToItem[to]; ok && occ != item {
		return false
	}
	m.move(item, from, to)
	return true
}

func (m *SingleMap[T]) move(item T, from, to grid.Point) {
	delete(m.posToItem, from)
	m.posToItem[to] = item
	m.itemToPos[item] = to
	m.fireMoved(ItemMoved[T]{Item: item, From: from, To: to})
}

func (m *SingleMap[T]) MoveAll(from, to grid.Point) error {
	if from == to {
		return fmt.Errorf("move all %v to %v: %w", from, to, ErrNoOpMove)
	}
	item, ok := m.posToItem[from]
	if !ok {
		return fmt.Errorf("move all %v to %v: %w", from, to, ErrNothingToMove)
	}
	if _, ok := m.posToItem[to]; ok {
		return fmt.Errorf("move all %v to %v: %w", from, to, ErrPositionOccupied)
	}
	m.move(item, from, to)
	return nil
}

func (m *SingleMap[T]) TryMoveAll(from, to grid.Point) []T {
	if from == to {
		return nil
	}
	item, ok := m.posToItem[from]
	if !ok {
		return nil
	}
	if _, ok := m.posToItem[to]; ok {
		return nil
	}
	m.move(item, from, to)
	return []T{item}
}

func (m *SingleMap[T]) CanMoveAll(from, to grid.Point) bool {
	if from == to {
		return false
	}
	if _, ok := m.posToItem[from]; !ok {
		return false
	}
	_, occupied := m.posToItem[to]
	return !occupied
}

func (m *SingleMap[T]) Remove(item T) error {
	p, ok := m.itemToPos[item]
	if !ok {
		return fmt.Errorf("remove %v: %w", item, ErrItemNotFound)
	}
	m.remove(item, p)
	return nil
}

func (m *SingleMap[T]) TryRemove(item T) bool {
	p, ok := m.itemToPos[item]
	if !ok {
		return false
	}
	m.remove(item, p)
	return true
}

func (m *SingleMap[T]) RemoveAt(p grid.Point) []T {
	item, ok := m.posToItem[p]
	if !ok {
		return nil
	}
	m.remove(item, p)
	return []T{item}
}

func (m *SingleMap[T]) remove(item T, p grid.Point) {
	delete(m.itemToPos, item)
	delete(m.posToItem, p)
	m.fireRemoved(ItemRemoved[T]{Item: item, Pos: p})
}
