package fov

import (
	"fmt"

	"github.com/gridveil/engine/grid"
)

// Shape selects the distance metric bounding a field of view.
type Shape int

const (
	// Circle bounds the view by Euclidean distance.
	Circle Shape = iota
	// Square bounds the view by Chebyshev distance.
	Square
	// Diamond bounds the view by Manhattan distance.
	Diamond
)

func (s Shape) String() string {
	switch s {
	case Square:
		return "square"
	case Diamond:
		return "diamond"
	default:
		return "circle"
	}
}

// ParseShape maps a config string onto a Shape.
func ParseShape(s string) (Shape, error) {
	switch s {
	case "circle", "":
		return Circle, nil
	case "square":
		return Square, nil
	case "diamond":
		return Diamond, nil
	}
	return Circle, fmt.Errorf("unknown fov shape %q", s)
}

// distance returns the metric distance between a and b under s.
func (s Shape) distance(a, b grid.Point) float64 {
	switch s {
	case Square:
		return float64(grid.Chebyshev(a, b))
	case Diamond:
		return float64(grid.Manhattan(a, b))
	default:
		return grid.Euclidean(a, b)
	}
}
