package spatial

import (
	"fmt"

	"github.com/gridveil/engine/grid"
)

// LayeredMap stacks independent spatial maps into one container. Each
// layer is a SingleMap or MultiMap in its own right; the composite routes
// item operations by the item's Layer() and aggregates queries across the
// stack, highest layer first.
//
// Layers are numbered absolutely from StartingLayer upward, so a world
// can reserve layer 0 for terrain kept outside the map while entities
// start at 1. Masks passed to the Masked* methods use absolute layer
// numbers; build them with Masker().
//
// Sub-map events bubble to handlers registered on the composite, so one
// registration observes the whole stack. Bulk moves across layers are not
// atomic: MaskedMoveAll applies layer by layer and stops at the first
// failing layer, leaving earlier layers moved.
type LayeredMap[T LayeredItem] struct {
	notifier[T]
	layers   []Map[T]
	starting int
	masker   LayerMasker // internal universe, bit 0 = lowest managed layer
	abs      LayerMasker // absolute universe, for caller-facing masks
	posSeen  map[grid.Point]struct{}
}

type layeredProbe struct{ layer int }

func (p *layeredProbe) Layer() int { return p.layer }

var _ Map[*layeredProbe] = (*LayeredMap[*layeredProbe])(nil)

// NewLayeredMap returns a stack of numLayers maps covering absolute
// layers [startingLayer, startingLayer+numLayers). Layers whose absolute
// bit is set in multiLayers allow multiple items per position, the rest
// enforce single occupancy; pass ^Mask(0) to make every layer
// multi-occupancy. capacityHint sizes each layer's indexes.
func NewLayeredMap[T LayeredItem](numLayers, startingLayer int, multiLayers Mask, capacityHint int) *LayeredMap[T] {
	if numLayers < 1 {
		panic("spatial: layered map needs at least one layer")
	}
	if startingLayer < 0 || startingLayer+numLayers > MaxLayers {
		panic(fmt.Sprintf("spatial: layers [%d, %d) outside mask range", startingLayer, startingLayer+numLayers))
	}
	m := &LayeredMap[T]{
		layers:   make([]Map[T], numLayers),
		starting: startingLayer,
		masker:   NewLayerMasker(numLayers),
		abs:      NewLayerMasker(startingLayer + numLayers),
		posSeen:  make(map[grid.Point]struct{}),
	}
	for i := range m.layers {
		if m.abs.HasLayer(multiLayers, startingLayer+i) {
			m.layers[i] = NewMultiMap[T](capacityHint)
		} else {
			m.layers[i] = NewSingleMap[T](capacityHint)
		}
	}
	for _, sub := range m.layers {
		sub.OnAdded(m.fireAdded)
		sub.OnMoved(m.fireMoved)
		sub.OnRemoved(m.fireRemoved)
	}
	return m
}

// NumLayers returns the number of managed layers.
func (m *LayeredMap[T]) NumLayers() int { return len(m.layers) }

// StartingLayer returns the lowest absolute layer number managed.
func (m *LayeredMap[T]) StartingLayer() int { return m.starting }

// Masker returns the masker covering the absolute layer universe. Use it
// to build masks for the Masked* methods.
func (m *LayeredMap[T]) Masker() LayerMasker { return m.abs }

// Layer returns the read-only view of absolute layer l. Panics when l is
// not managed.
func (m *LayeredMap[T]) Layer(l int) Reader[T] {
	i, ok := m.index(l)
	if !ok {
		panic(fmt.Sprintf("spatial: layer %d outside [%d, %d)", l, m.starting, m.starting+len(m.layers)))
	}
	return m.layers[i]
}

// LayersInMask returns read-only views of the layers mask selects,
// highest first.
func (m *LayeredMap[T]) LayersInMask(mask Mask) []Reader[T] {
	idxs := m.selected(mask)
	out := make([]Reader[T], len(idxs))
	for n, i := range idxs {
		out[n] = m.layers[i]
	}
	return out
}

// index translates absolute layer l to a slice index.
func (m *LayeredMap[T]) index(l int) (int, bool) {
	i := l - m.starting
	if i < 0 || i >= len(m.layers) {
		return 0, false
	}
	return i, true
}

// selected returns the slice indexes an absolute mask picks, highest
// layer first. Bits outside the managed range fall away.
func (m *LayeredMap[T]) selected(mask Mask) []int {
	return m.masker.Layers(mask >> m.starting)
}

func (m *LayeredMap[T]) allMask() Mask { return m.abs.AllLayers() }

func (m *LayeredMap[T]) Count() int {
	n := 0
	for _, sub := range m.layers {
		n += sub.Count()
	}
	return n
}

func (m *LayeredMap[T]) Contains(item T) bool {
	i, ok := m.index(item.Layer())
	if !ok {
		return false
	}
	return m.layers[i].Contains(item)
}

func (m *LayeredMap[T]) ContainsAt(p grid.Point) bool {
	return m.MaskedContainsAt(p, m.allMask())
}

func (m *LayeredMap[T]) ItemsAt(p grid.Point) []T {
	return m.MaskedItemsAt(p, m.allMask())
}

func (m *LayeredMap[T]) PositionOf(item T) (grid.Point, bool) {
	i, ok := m.index(item.Layer())
	if !ok {
		return grid.Point{}, false
	}
	return m.layers[i].PositionOf(item)
}

func (m *LayeredMap[T]) MustPositionOf(item T) grid.Point {
	p, ok := m.PositionOf(item)
	if !ok {
		panic(fmt.Sprintf("spatial: item %v not in map", item))
	}
	return p
}

func (m *LayeredMap[T]) Items() []T {
	out := make([]T, 0, m.Count())
	for i := len(m.layers) - 1; i >= 0; i-- {
		out = append(out, m.layers[i].Items()...)
	}
	return out
}

// Positions returns every occupied position exactly once, even when
// several layers share it. The dedup set persists across calls and is
// cleared on the way out, keeping steady-state queries allocation-light.
func (m *LayeredMap[T]) Positions() []grid.Point {
	var out []grid.Point
	for i := len(m.layers) - 1; i >= 0; i-- {
		for _, p := range m.layers[i].Positions() {
			if _, dup := m.posSeen[p]; dup {
				continue
			}
			m.posSeen[p] = struct{}{}
			out = append(out, p)
		}
	}
	clear(m.posSeen)
	return out
}

func (m *LayeredMap[T]) Entries() []Entry[T] {
	out := make([]Entry[T], 0, m.Count())
	for i := len(m.layers) - 1; i >= 0; i-- {
		out = append(out, m.layers[i].Entries()...)
	}
	return out
}

// Add routes item to the layer item.Layer() names. Fails with
// ErrLayerOutOfRange when that layer is not managed, otherwise the
// layer's own occupancy rules decide.
func (m *LayeredMap[T]) Add(item T, p grid.Point) error {
	i, ok := m.index(item.Layer())
	if !ok {
		return fmt.Errorf("add %v at %v: layer %d: %w", item, p, item.Layer(), ErrLayerOutOfRange)
	}
	return m.layers[i].Add(item, p)
}

func (m *LayeredMap[T]) TryAdd(item T, p grid.Point) bool {
	i, ok := m.index(item.Layer())
	if !ok {
		return false
	}
	return m.layers[i].TryAdd(item, p)
}

// Move routes to the item's layer; the layer's occupancy and no-op rules
// apply unchanged.
func (m *LayeredMap[T]) Move(item T, to grid.Point) error {
	i, ok := m.index(item.Layer())
	if !ok {
		return fmt.Errorf("move %v to %v: layer %d: %w", item, to, item.Layer(), ErrLayerOutOfRange)
	}
	return m.layers[i].Move(item, to)
}

func (m *LayeredMap[T]) TryMove(item T, to grid.Point) bool {
	i, ok := m.index(item.Layer())
	if !ok {
		return false
	}
	return m.layers[i].TryMove(item, to)
}

func (m *LayeredMap[T]) Remove(item T) error {
	i, ok := m.index(item.Layer())
	if !ok {
		return fmt.Errorf("remove %v: layer %d: %w", item, item.Layer(), ErrLayerOutOfRange)
	}
	return m.layers[i].Remove(item)
}

func (m *LayeredMap[T]) TryRemove(item T) bool {
	i, ok := m.index(item.Layer())
	if !ok {
		return false
	}
	return m.layers[i].TryRemove(item)
}

func (m *LayeredMap[T]) RemoveAt(p grid.Point) []T {
	return m.MaskedRemoveAt(p, m.allMask())
}

func (m *LayeredMap[T]) MoveAll(from, to grid.Point) error {
	return m.MaskedMoveAll(from, to, m.allMask())
}

func (m *LayeredMap[T]) TryMoveAll(from, to grid.Point) []T {
	return m.MaskedTryMoveAll(from, to, m.allMask())
}

func (m *LayeredMap[T]) CanMoveAll(from, to grid.Point) bool {
	return m.MaskedCanMoveAll(from, to, m.allMask())
}

// MaskedContainsAt reports whether any selected layer has an item at p.
func (m *LayeredMap[T]) MaskedContainsAt(p grid.Point, mask Mask) bool {
	for _, i := range m.selected(mask) {
		if m.layers[i].ContainsAt(p) {
			return true
		}
	}
	return false
}

// MaskedItemsAt returns the items at p on the selected layers, highest
// layer first; within a multi-occupancy layer, most-recently-added first.
func (m *LayeredMap[T]) MaskedItemsAt(p grid.Point, mask Mask) []T {
	var out []T
	for _, i := range m.selected(mask) {
		out = append(out, m.layers[i].ItemsAt(p)...)
	}
	return out
}

// MaskedRemoveAt removes and returns everything at p on the selected
// layers, highest layer first.
func (m *LayeredMap[T]) MaskedRemoveAt(p grid.Point, mask Mask) []T {
	var out []T
	for _, i := range m.selected(mask) {
		out = append(out, m.layers[i].RemoveAt(p)...)
	}
	return out
}

// MaskedMoveAll relocates everything at from on the selected layers.
// Layers apply top to bottom; the first failing layer aborts the walk and
// its error is returned with layers already processed left moved. Use
// MaskedCanMoveAll first when that partial application is unacceptable.
func (m *LayeredMap[T]) MaskedMoveAll(from, to grid.Point, mask Mask) error {
	if from == to {
		return fmt.Errorf("move all %v to %v: %w", from, to, ErrNoOpMove)
	}
	moved := false
	for _, i := range m.selected(mask) {
		sub := m.layers[i]
		if !sub.ContainsAt(from) {
			continue
		}
		if err := sub.MoveAll(from, to); err != nil {
			return fmt.Errorf("layer %d: %w", m.starting+i, err)
		}
		moved = true
	}
	if !moved {
		return fmt.Errorf("move all %v to %v: %w", from, to, ErrNothingToMove)
	}
	return nil
}

// MaskedTryMoveAll moves whatever the selected layers can legally move
// and returns it, highest layer first. Layers that would reject the move
// contribute nothing and are left untouched.
func (m *LayeredMap[T]) MaskedTryMoveAll(from, to grid.Point, mask Mask) []T {
	if from == to {
		return nil
	}
	var moved []T
	for _, i := range m.selected(mask) {
		moved = append(moved, m.layers[i].TryMoveAll(from, to)...)
	}
	return moved
}

// MaskedCanMoveAll reports whether MaskedMoveAll would move something and
// complete without error.
func (m *LayeredMap[T]) MaskedCanMoveAll(from, to grid.Point, mask Mask) bool {
	if from == to {
		return false
	}
	any := false
	for _, i := range m.selected(mask) {
		sub := m.layers[i]
		if !sub.ContainsAt(from) {
			continue
		}
		if !sub.CanMoveAll(from, to) {
			return false
		}
		any = true
	}
	return any
}
