package grid

// Line returns the Bresenham line from a to b, both endpoints included.
// Integer arithmetic only.
func Line(a, b Point) []Point {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	pts := make([]Point, 0, dx+dy+1)
	x, y := a.X, a.Y
	err := dx - dy
	for {
		pts = append(pts, Point{X: x, Y: y})
		if x == b.X && y == b.Y {
			return pts
		}
		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// LineOfSight reports whether b is visible from a across the transparency
// view (true = see-through). Endpoints never block; any intermediate cell
// that is opaque or out of bounds does.
func LineOfSight(transparency View[bool], a, b Point) bool {
	for _, p := range Line(a, b) {
		if p == a || p == b {
			continue
		}
		if !InBounds(transparency, p) || !transparency.At(p) {
			return false
		}
	}
	return true
}
