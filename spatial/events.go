package spatial

import "github.com/gridveil/engine/grid"

// ItemAdded is delivered after an item lands in the map.
type ItemAdded[T any] struct {
	Item T
	Pos  grid.Point
}

// ItemMoved is delivered after an item changes position. A move onto the
// current position (where the map permits one) carries From == To.
type ItemMoved[T any] struct {
	Item T
	From grid.Point
	To   grid.Point
}

// ItemRemoved is delivered after an item leaves the map. Pos is the
// position the item occupied.
type ItemRemoved[T any] struct {
	Item T
	Pos  grid.Point
}

// notifier holds the registered handlers of one map and delivers events
// synchronously, in registration order, strictly after the map has reached
// its new consistent state. A handler that reads the map during delivery
// sees the post-mutation state.
type notifier[T any] struct {
	added   []func(ItemAdded[T])
	moved   []func(ItemMoved[T])
	removed []func(ItemRemoved[T])
}

func (n *notifier[T]) OnAdded(fn func(ItemAdded[T]))     { n.added = append(n.added, fn) }
func (n *notifier[T]) OnMoved(fn func(ItemMoved[T]))     { n.moved = append(n.moved, fn) }
func (n *notifier[T]) OnRemoved(fn func(ItemRemoved[T])) { n.removed = append(n.removed, fn) }

func (n *notifier[T]) fireAdded(ev ItemAdded[T]) {
	for _, fn := range n.added {
		fn(ev)
	}
}

func (n *notifier[T]) fireMoved(ev ItemMoved[T]) {
	for _, fn := range n.moved {
		fn(ev)
	}
}

func (n *notifier[T]) fireRemoved(ev ItemRemoved[T]) {
	for _, fn := range n.removed {
		fn(ev)
	}
}
