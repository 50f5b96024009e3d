package worldgen

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridveil/engine/grid"
	"github.com/gridveil/engine/internal/data"
)

func mustWorld(t *testing.T, seed int64, w, h int) *World {
	t.Helper()
	table, err := data.LoadTileTable("")
	require.NoError(t, err)
	gen, err := NewGenerator(seed, table)
	require.NoError(t, err)
	world, err := gen.Generate(w, h)
	require.NoError(t, err)
	return world
}

func render(w *World) string {
	var sb strings.Builder
	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			sb.WriteRune(w.TileAt(grid.Pt(x, y)).Rune())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestGenerate_DeterministicPerSeed(t *testing.T) {
	first := render(mustWorld(t, 99, 40, 20))
	second := render(mustWorld(t, 99, 40, 20))
	assert.Equal(t, first, second)

	a := render(mustWorld(t, 1, 40, 20))
	b := render(mustWorld(t, 2, 40, 20))
	c := render(mustWorld(t, 3, 40, 20))
	assert.True(t, a != b || b != c, "distinct seeds all produced the same terrain")
}

func TestGenerate_BorderIsWall(t *testing.T) {
	w := mustWorld(t, 5, 30, 12)
	for x := 0; x < w.Width(); x++ {
		assert.Equal(t, "wall", w.TileAt(grid.Pt(x, 0)).Name)
		assert.Equal(t, "wall", w.TileAt(grid.Pt(x, w.Height()-1)).Name)
	}
	for y := 0; y < w.Height(); y++ {
		assert.Equal(t, "wall", w.TileAt(grid.Pt(0, y)).Name)
		assert.Equal(t, "wall", w.TileAt(grid.Pt(w.Width()-1, y)).Name)
	}
}

func TestGenerate_BandsProduceEveryTerrain(t *testing.T) {
	seen := map[string]bool{}
	for seed := int64(1); seed <= 5; seed++ {
		w := mustWorld(t, seed, 48, 24)
		require.Positive(t, w.FloorCount(), "seed %d produced no floor", seed)
		w.Each(func(_ grid.Point, tile data.TileTemplate) {
			seen[tile.Name] = true
		})
	}
	assert.True(t, seen["floor"])
	assert.True(t, seen["wall"])
	assert.True(t, seen["water"], "no seed produced water")
}

func TestWorld_OutOfBoundsReadsAsWall(t *testing.T) {
	w := mustWorld(t, 7, 20, 10)
	tile := w.TileAt(grid.Pt(-1, 4))
	assert.Equal(t, "wall", tile.Name)
	assert.False(t, w.Walkable(grid.Pt(-1, 4)))
	assert.False(t, w.Walkable(grid.Pt(20, 4)))
}

func TestWorld_ViewsAgreeWithTiles(t *testing.T) {
	w := mustWorld(t, 21, 32, 16)
	tr := w.Transparency()
	rs := w.Resistance()
	require.Equal(t, w.Width(), tr.Width())
	require.Equal(t, w.Height(), rs.Height())
	w.Each(func(p grid.Point, tile data.TileTemplate) {
		assert.Equal(t, tile.Transparent, tr.At(p))
		assert.InDelta(t, tile.Resistance, rs.At(p), 1e-9)
	})
}

func TestWorld_RandomFloor(t *testing.T) {
	w := mustWorld(t, 3, 40, 20)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		p, ok := w.RandomFloor(rng)
		require.True(t, ok)
		assert.True(t, w.Walkable(p))
	}

	count := 0
	w.Each(func(_ grid.Point, tile data.TileTemplate) {
		if tile.Walkable {
			count++
		}
	})
	assert.Equal(t, count, w.FloorCount())
}

func TestNewGenerator_RequiresTerrainTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.yaml")
	src := `
tiles:
  - {name: floor, glyph: ".", walkable: true, transparent: true}
  - {name: wall, glyph: "#", walkable: false, transparent: false, resistance: 1}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	table, err := data.LoadTileTable(path)
	require.NoError(t, err)

	_, err = NewGenerator(1, table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "water"`)
}

func TestGenerate_RejectsTinyWorlds(t *testing.T) {
	table, err := data.LoadTileTable("")
	require.NoError(t, err)
	gen, err := NewGenerator(1, table)
	require.NoError(t, err)

	_, err = gen.Generate(2, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}
