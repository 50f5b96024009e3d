package sense

import (
	"fmt"

	"github.com/gridveil/engine/grid"
)

// Spread selects how a source's values travel through resistance data.
type Spread int

const (
	// Ripple spreads breadth-first, paying each cell's resistance as
	// extra travel cost. It bends around corners, so a value can reach
	// cells with no straight sight line to the source.
	Ripple Spread = iota
	// Shadow spreads by shadowcasting: cells with resistance >= 1 block
	// it completely and it never bends.
	Shadow
)

func (s Spread) String() string {
	if s == Shadow {
		return "shadow"
	}
	return "ripple"
}

// ParseSpread maps a config string onto a Spread.
func ParseSpread(s string) (Spread, error) {
	switch s {
	case "ripple", "":
		return Ripple, nil
	case "shadow":
		return Shadow, nil
	}
	return Ripple, fmt.Errorf("unknown spread %q", s)
}

// Source emits a value into a Map. Fields may be changed freely between
// calculations; the next Calculate picks them up. A source with
// non-positive intensity or radius contributes nothing.
type Source struct {
	Pos       grid.Point
	Intensity float64
	Radius    int
	Spread    Spread
	Enabled   bool
}

// NewSource returns an enabled source.
func NewSource(pos grid.Point, intensity float64, radius int, spread Spread) *Source {
	return &Source{
		Pos:       pos,
		Intensity: intensity,
		Radius:    radius,
		Spread:    spread,
		Enabled:   true,
	}
}
