// Package sense propagates non-visual values such as sound, smell or
// heat across a grid. Sources emit an intensity that decays linearly
// with travel distance and is shaped by per-cell resistance: additive
// cost for ripple spread, hard occlusion for shadow spread.
//
// A Map owns the resistance view and a set of sources. Calculate wipes
// the aggregate and re-propagates every enabled source into it, so the
// result never carries stale contributions from removed, moved or
// disabled sources. Overlapping sources sum.
package sense

import (
	"math"

	"github.com/gridveil/engine/fov"
	"github.com/gridveil/engine/grid"
)

// Map accumulates the output of a set of sources over shared resistance
// data (0 = clear, higher = harder to travel; >= 1 blocks shadow spread
// entirely).
type Map struct {
	resistance grid.View[float64]
	sources    []*Source
	aggregate  *grid.Buffer[float64]

	// Per-source scratch, reused across Calculate calls.
	cost   *grid.Buffer[float64]
	queue  []grid.Point
	shadow *fov.Map
}

// NewMap returns an empty Map over the given resistance view.
func NewMap(resistance grid.View[float64]) *Map {
	w, h := resistance.Width(), resistance.Height()
	return &Map{
		resistance: resistance,
		aggregate:  grid.NewBuffer[float64](w, h),
		cost:       grid.NewBuffer[float64](w, h),
		shadow:     fov.New(w, h),
	}
}

// AddSource registers s. Adding a source twice has no effect.
func (m *Map) AddSource(s *Source) {
	if s == nil {
		return
	}
	for _, have := range m.sources {
		if have == s {
			return
		}
	}
	m.sources = append(m.sources, s)
}

// RemoveSource unregisters s. Its contribution disappears at the next
// Calculate.
func (m *Map) RemoveSource(s *Source) {
	for i, have := range m.sources {
		if have == s {
			copy(m.sources[i:], m.sources[i+1:])
			m.sources[len(m.sources)-1] = nil
			m.sources = m.sources[:len(m.sources)-1]
			return
		}
	}
}

// Sources returns the registered sources as a fresh slice.
func (m *Map) Sources() []*Source {
	out := make([]*Source, len(m.sources))
	copy(out, m.sources)
	return out
}

// Calculate discards the previous aggregate and propagates every enabled
// source into it.
func (m *Map) Calculate() {
	m.aggregate.Fill(0)
	for _, s := range m.sources {
		if !s.Enabled || s.Intensity <= 0 || s.Radius <= 0 {
			continue
		}
		switch s.Spread {
		case Shadow:
			m.spreadShadow(s)
		default:
			m.spreadRipple(s)
		}
	}
}

// SenseAt returns the accumulated value at p, zero out of bounds.
func (m *Map) SenseAt(p grid.Point) float64 {
	if !m.aggregate.InBounds(p) {
		return 0
	}
	return m.aggregate.At(p)
}

func (m *Map) Width() int  { return m.aggregate.Width() }
func (m *Map) Height() int { return m.aggregate.Height() }

// EachSensed calls fn for every cell carrying a value, row-major.
func (m *Map) EachSensed(fn func(p grid.Point, value float64)) {
	m.aggregate.Each(func(p grid.Point, v float64) {
		if v > 0 {
			fn(p, v)
		}
	})
}

// spreadRipple relaxes travel costs outward from the source. Entering a
// cell costs one step plus the cell's resistance; anything reachable
// within the radius receives a linearly decayed share of the intensity.
func (m *Map) spreadRipple(s *Source) {
	if !m.aggregate.InBounds(s.Pos) {
		return
	}
	limit := float64(s.Radius)
	m.cost.Fill(math.Inf(1))
	m.cost.Set(s.Pos, 0)

	m.queue = append(m.queue[:0], s.Pos)
	for head := 0; head < len(m.queue); head++ {
		p := m.queue[head]
		base := m.cost.At(p)
		for _, d := range grid.Neighbors8 {
			q := p.Add(d)
			if !m.aggregate.InBounds(q) {
				continue
			}
			r := m.resistance.At(q)
			if r < 0 {
				r = 0
			}
			c := base + 1 + r
			if c > limit || c >= m.cost.At(q) {
				continue
			}
			m.cost.Set(q, c)
			m.queue = append(m.queue, q)
		}
	}

	decay := s.Intensity / (limit + 1)
	m.aggregate.Each(func(p grid.Point, _ float64) {
		if c := m.cost.At(p); c <= limit {
			m.addAt(p, s.Intensity-decay*c)
		}
	})
}

// spreadShadow reuses the field-of-view shadowcaster: resistance >= 1
// reads as opaque, and the caster's [0,1] falloff scales the intensity.
func (m *Map) spreadShadow(s *Source) {
	transparency := grid.FuncView[bool]{
		W: m.aggregate.Width(),
		H: m.aggregate.Height(),
		Fn: func(p grid.Point) bool {
			return m.resistance.At(p) < 1
		},
	}
	m.shadow.Compute(transparency, s.Pos, s.Radius, fov.Circle)
	m.shadow.EachLit(func(p grid.Point, light float64) {
		m.addAt(p, s.Intensity*light)
	})
}

func (m *Map) addAt(p grid.Point, v float64) {
	m.aggregate.Set(p, m.aggregate.At(p)+v)
}
