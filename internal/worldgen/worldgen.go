// Package worldgen synthesises demo terrain from perlin noise. The same
// seed always produces the same world, so runs are reproducible.
package worldgen

import (
	"fmt"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/gridveil/engine/grid"
	"github.com/gridveil/engine/internal/data"
)

// Noise shaping. Alpha smooths, beta sets frequency falloff between the
// octaves.
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
	noiseScale   = 0.08

	waterBand = 0.34 // below: water
	wallBand  = 0.66 // above: wall
)

// World is an immutable generated tile field.
type World struct {
	seed   int64
	tiles  *grid.Buffer[data.TileTemplate]
	floors []grid.Point
}

// Generator turns a seed and a tile table into worlds.
type Generator struct {
	seed  int64
	noise *perlin.Perlin
	floor data.TileTemplate
	wall  data.TileTemplate
	water data.TileTemplate
}

// NewGenerator verifies the table carries the terrain templates the
// bands map onto and seeds the noise field.
func NewGenerator(seed int64, table *data.TileTable) (*Generator, error) {
	g := &Generator{
		seed:  seed,
		noise: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
	}
	var ok bool
	if g.floor, ok = table.Tile("floor"); !ok {
		return nil, fmt.Errorf("tile table missing %q", "floor")
	}
	if g.wall, ok = table.Tile("wall"); !ok {
		return nil, fmt.Errorf("tile table missing %q", "wall")
	}
	if g.water, ok = table.Tile("water"); !ok {
		return nil, fmt.Errorf("tile table missing %q", "water")
	}
	return g, nil
}

// Generate synthesises a width×height world. The outermost ring is
// always wall so propagation never has to reason about the void past
// the edge.
func (g *Generator) Generate(width, height int) (*World, error) {
	if width < 3 || height < 3 {
		return nil, fmt.Errorf("world %dx%d too small", width, height)
	}
	w := &World{
		seed:  g.seed,
		tiles: grid.NewBuffer[data.TileTemplate](width, height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := grid.Pt(x, y)
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				w.tiles.Set(p, g.wall)
				continue
			}
			t := g.tileFor(x, y)
			w.tiles.Set(p, t)
			if t.Walkable {
				w.floors = append(w.floors, p)
			}
		}
	}
	return w, nil
}

func (g *Generator) tileFor(x, y int) data.TileTemplate {
	n := g.noise.Noise2D(float64(x)*noiseScale, float64(y)*noiseScale)
	v := (n + 1) / 2
	switch {
	case v < waterBand:
		return g.water
	case v > wallBand:
		return g.wall
	default:
		return g.floor
	}
}

// Seed returns the seed the world was generated from.
func (w *World) Seed() int64 { return w.seed }

func (w *World) Width() int  { return w.tiles.Width() }
func (w *World) Height() int { return w.tiles.Height() }

// TileAt returns the template at p. Out-of-bounds points read as wall.
func (w *World) TileAt(p grid.Point) data.TileTemplate {
	if !w.tiles.InBounds(p) {
		return data.TileTemplate{Name: "wall", Glyph: "#", Resistance: 1}
	}
	return w.tiles.At(p)
}

// Walkable reports whether an entity may stand on p.
func (w *World) Walkable(p grid.Point) bool {
	return w.tiles.InBounds(p) && w.tiles.At(p).Walkable
}

// Each calls fn for every tile in row-major order.
func (w *World) Each(fn func(grid.Point, data.TileTemplate)) {
	w.tiles.Each(fn)
}

// Transparency derives the line-of-sight view the FOV engine consumes.
func (w *World) Transparency() grid.View[bool] {
	return grid.FuncView[bool]{
		W:  w.Width(),
		H:  w.Height(),
		Fn: func(p grid.Point) bool { return w.tiles.At(p).Transparent },
	}
}

// Resistance derives the travel-cost view the sense engine consumes.
func (w *World) Resistance() grid.View[float64] {
	return grid.FuncView[float64]{
		W:  w.Width(),
		H:  w.Height(),
		Fn: func(p grid.Point) float64 { return w.tiles.At(p).Resistance },
	}
}

// FloorCount returns the number of walkable cells.
func (w *World) FloorCount() int {
	return len(w.floors)
}

// RandomFloor picks a uniformly random walkable cell. Returns false when
// the world has none.
func (w *World) RandomFloor(rng *rand.Rand) (grid.Point, bool) {
	if len(w.floors) == 0 {
		return grid.Point{}, false
	}
	return w.floors[rng.Intn(len(w.floors))], true
}
