package main

import (
	"fmt"
	"strings"

	"github.com/gridveil/engine/grid"
)

// frame renders one ANSI frame: actors over terrain shaded by light,
// sensed-but-unseen cells marked with a hint glyph.
func (s *simulation) frame() string {
	var sb strings.Builder
	sb.WriteString("\033[H\033[2J")
	for y := 0; y < s.world.Height(); y++ {
		for x := 0; x < s.world.Width(); x++ {
			sb.WriteString(s.cell(grid.Pt(x, y)))
		}
		sb.WriteByte('\n')
	}

	sensed := 0
	s.senses.EachSensed(func(grid.Point, float64) { sensed++ })
	fmt.Fprintf(&sb, "\033[90mtick %d  hero %s  lit r=%d  sensed %d cells\033[0m\n",
		s.tick, s.actors.MustPositionOf(s.hero), s.cfg.FOV.Radius, sensed)
	return sb.String()
}

func (s *simulation) cell(p grid.Point) string {
	light := s.view.LightAt(p)
	if light > 0 {
		glyph := s.world.TileAt(p).Rune()
		if items := s.actors.ItemsAt(p); len(items) > 0 {
			glyph = items[0].glyph
		}
		switch {
		case p == s.view.Origin():
			return fmt.Sprintf("\033[1;36m%c\033[0m", glyph)
		case light > 0.66:
			return string(glyph)
		case light > 0.33:
			return fmt.Sprintf("\033[37m%c\033[0m", glyph)
		default:
			return fmt.Sprintf("\033[90m%c\033[0m", glyph)
		}
	}
	if s.senses.SenseAt(p) > 0 {
		return "\033[33m?\033[0m"
	}
	return fmt.Sprintf("\033[90m%c\033[0m", s.world.TileAt(p).Rune())
}
