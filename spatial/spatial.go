// Package spatial implements grid-indexed containers for turn-based games:
// bidirectional item↔position maps in single-occupancy, multi-occupancy and
// layered flavors, plus the bitmask arithmetic used to select layers.
//
// Every map keeps two indexes that are updated together inside each
// mutating call: item → position and position → item(s). Mutations are
// synchronous and events fire only after both indexes agree, so observers
// never see a half-applied state.
//
// None of the structures lock. Access from the owning goroutine only, or
// serialize externally when a map is shared.
package spatial

import "github.com/gridveil/engine/grid"

// Entry pairs an item with the position it occupies.
type Entry[T comparable] struct {
	Item T
	Pos  grid.Point
}

// Reader is the read-only surface shared by every spatial map variant.
// Item identity is Go comparability: use pointer items for reference
// identity, comparable value types for value identity.
type Reader[T comparable] interface {
	// Count returns the number of items stored.
	Count() int
	// Contains reports whether item is stored anywhere in the map.
	Contains(item T) bool
	// ContainsAt reports whether at least one item occupies p.
	ContainsAt(p grid.Point) bool
	// ItemsAt returns the items at p as a fresh slice, never aliasing
	// internal storage. Multi-occupancy maps list most-recently-added
	// first. Empty positions yield an empty result.
	ItemsAt(p grid.Point) []T
	// PositionOf returns the position of item, or false when absent.
	PositionOf(item T) (grid.Point, bool)
	// MustPositionOf returns the position of item, panicking when absent.
	MustPositionOf(item T) grid.Point
	// Items returns all stored items. Order is unspecified.
	Items() []T
	// Positions returns every occupied position exactly once.
	Positions() []grid.Point
	// Entries returns every item with its position. Order is unspecified.
	Entries() []Entry[T]
}

// Map is the full mutable surface of a spatial map. Strict mutators report
// contract violations through the package's sentinel errors; Try variants
// report success as a boolean or as the subset actually processed and never
// produce taxonomy errors.
//
// MoveAll, TryMoveAll and CanMoveAll treat equal source and target as a
// no-op failure on every variant.
type Map[T comparable] interface {
	Reader[T]

	// Add stores item at p. Fails with ErrDuplicateItem when item is
	// already present, or ErrPositionOccupied when a single-occupancy
	// position already holds another item.
	Add(item T, p grid.Point) error
	// TryAdd is Add reporting success instead of an error.
	TryAdd(item T, p grid.Point) bool

	// Move relocates item to target. See the concrete types for their
	// occupancy and no-op rules.
	Move(item T, to grid.Point) error
	// TryMove is Move reporting success instead of an error.
	TryMove(item T, to grid.Point) bool

	// MoveAll relocates everything at from to to. Fails with
	// ErrNothingToMove when from is empty and ErrNoOpMove when the
	// positions are equal.
	MoveAll(from, to grid.Point) error
	// TryMoveAll moves whatever can legally move and returns the moved
	// items in the source's iteration order; empty when nothing moved.
	TryMoveAll(from, to grid.Point) []T
	// CanMoveAll reports whether MoveAll(from, to) would fully succeed.
	CanMoveAll(from, to grid.Point) bool

	// Remove deletes item, failing with ErrItemNotFound when absent.
	Remove(item T) error
	// TryRemove is Remove reporting success instead of an error.
	TryRemove(item T) bool
	// RemoveAt deletes and returns every item at p, in the position's
	// iteration order. Removing from an empty position returns an empty
	// result; it is never an error.
	RemoveAt(p grid.Point) []T

	// OnAdded registers fn to run after every successful add.
	OnAdded(fn func(ItemAdded[T]))
	// OnMoved registers fn to run after every successful move.
	OnMoved(fn func(ItemMoved[T]))
	// OnRemoved registers fn to run after every successful removal.
	OnRemoved(fn func(ItemRemoved[T]))
}

// HasLayer is implemented by items that declare which layer of a layered
// map they live on. The value must stay constant while the item is stored.
type HasLayer interface {
	Layer() int
}

// LayeredItem constrains layered-map items: comparable identity plus a
// fixed layer number.
type LayeredItem interface {
	comparable
	HasLayer
}
