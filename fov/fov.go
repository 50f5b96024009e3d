// Package fov computes fields of view over grid transparency data using
// recursive shadowcasting across eight octants.
//
// A Map holds per-cell light values in [0,1]: 1 at the origin, falling
// off linearly with distance, 0 where sight is blocked or out of range.
// Boolean visibility is light > 0. Maps are reusable: Compute clears the
// previous state and works in place, so a per-actor Map allocates once
// and serves every turn.
package fov

import "github.com/gridveil/engine/grid"

// Octant transforms for the shadowcasting scan. Column i maps scan-space
// (row, col) deltas into world deltas for octant i.
var octants = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// Map is a reusable field-of-view result.
type Map struct {
	light  *grid.Buffer[float64]
	origin grid.Point
	radius int
	shape  Shape
}

// New returns a Map sized w×h with no light anywhere.
func New(w, h int) *Map {
	return &Map{light: grid.NewBuffer[float64](w, h)}
}

// Compute runs a fresh field-of-view pass and returns the result in a new
// Map. Use Map.Compute to reuse an existing one.
func Compute(transparency grid.View[bool], origin grid.Point, radius int, shape Shape) *Map {
	m := New(transparency.Width(), transparency.Height())
	m.Compute(transparency, origin, radius, shape)
	return m
}

// Compute recalculates the field of view from origin over the given
// transparency data (true = see-through), discarding any previous state.
// The map resizes itself when the view's dimensions changed. The origin
// is always lit when in bounds; a radius of zero or less lights nothing
// else.
func (m *Map) Compute(transparency grid.View[bool], origin grid.Point, radius int, shape Shape) {
	m.resize(transparency.Width(), transparency.Height())
	m.light.Fill(0)
	m.origin = origin
	m.radius = radius
	m.shape = shape

	if !m.light.InBounds(origin) {
		return
	}
	m.light.Set(origin, 1)
	if radius <= 0 {
		return
	}
	for i := 0; i < 8; i++ {
		m.castLight(transparency, 1, 1.0, 0.0,
			octants[0][i], octants[1][i], octants[2][i], octants[3][i])
	}
}

// LightAt returns the light reaching p, zero for dark or out-of-bounds
// cells.
func (m *Map) LightAt(p grid.Point) float64 {
	if m.light == nil || !m.light.InBounds(p) {
		return 0
	}
	return m.light.At(p)
}

// Visible reports whether any light reaches p.
func (m *Map) Visible(p grid.Point) bool { return m.LightAt(p) > 0 }

// Origin returns the viewpoint of the last computation.
func (m *Map) Origin() grid.Point { return m.origin }

// Radius returns the radius of the last computation.
func (m *Map) Radius() int { return m.radius }

func (m *Map) Width() int {
	if m.light == nil {
		return 0
	}
	return m.light.Width()
}

func (m *Map) Height() int {
	if m.light == nil {
		return 0
	}
	return m.light.Height()
}

// EachLit calls fn for every lit cell in row-major order.
func (m *Map) EachLit(fn func(p grid.Point, light float64)) {
	if m.light == nil {
		return
	}
	m.light.Each(func(p grid.Point, v float64) {
		if v > 0 {
			fn(p, v)
		}
	})
}

func (m *Map) resize(w, h int) {
	if m.light != nil && m.light.Width() == w && m.light.Height() == h {
		return
	}
	m.light = grid.NewBuffer[float64](w, h)
}

// brightness returns the light reaching p, falling off linearly so the
// shape's edge cell still reads above zero.
func (m *Map) brightness(p grid.Point) float64 {
	d := m.shape.distance(m.origin, p)
	if d > float64(m.radius) {
		return 0
	}
	return 1 - d/float64(m.radius+1)
}

// castLight scans one octant recursively. start and end bound the slopes
// still open in this scan; a run of wall narrows them and spawns a child
// scan for the rows behind the gap.
func (m *Map) castLight(transparency grid.View[bool], row int, start, end float64, xx, xy, yx, yy int) {
	if start < end {
		return
	}
	newStart := start
	blocked := false
	for j := row; j <= m.radius && !blocked; j++ {
		dy := -j
		for dx := -j; dx <= 0; dx++ {
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)
			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			p := grid.Pt(m.origin.X+dx*xx+dy*xy, m.origin.Y+dx*yx+dy*yy)
			in := m.light.InBounds(p)
			if in {
				if br := m.brightness(p); br > 0 {
					m.light.Set(p, br)
				}
			}

			// Out-of-bounds cells block like walls.
			opaque := !in || !transparency.At(p)
			if blocked {
				if opaque {
					newStart = rSlope
					continue
				}
				blocked = false
				start = newStart
			} else if opaque && j < m.radius {
				blocked = true
				m.castLight(transparency, j+1, start, lSlope, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
	}
}
