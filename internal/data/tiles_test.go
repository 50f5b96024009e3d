package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTileTable_EmbeddedDefaults(t *testing.T) {
	table, err := LoadTileTable("")
	require.NoError(t, err)

	assert.Equal(t, 3, table.Count())

	wall, ok := table.Tile("wall")
	require.True(t, ok)
	assert.Equal(t, '#', wall.Rune())
	assert.False(t, wall.Walkable)
	assert.False(t, wall.Transparent)
	assert.InDelta(t, 1.0, wall.Resistance, 1e-9)

	floor, ok := table.Tile("floor")
	require.True(t, ok)
	assert.True(t, floor.Walkable)
	assert.True(t, floor.Transparent)

	water, ok := table.Tile("water")
	require.True(t, ok)
	assert.True(t, water.Transparent)
	assert.False(t, water.Walkable)

	_, ok = table.Tile("lava")
	assert.False(t, ok)

	spawns := table.Spawns()
	require.NotEmpty(t, spawns)
	assert.Equal(t, "hero", spawns[0].Name)
	assert.Equal(t, '@', spawns[0].Rune())
	assert.Equal(t, 1, spawns[0].Layer)
}

func TestLoadTileTable_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.yaml")
	src := `
tiles:
  - name: moss
    glyph: ","
    walkable: true
    transparent: true
    resistance: 0.1
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	table, err := LoadTileTable(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Count())

	moss, ok := table.Tile("moss")
	require.True(t, ok)
	assert.Equal(t, ',', moss.Rune())
	assert.Empty(t, table.Spawns())
}

func TestLoadTileTable_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTileTable(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read tile table")
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tiles: ["), 0o644))
		_, err := LoadTileTable(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse tile table")
	})
}

func TestParseTileTable_Validation(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "no tiles",
			src:  `spawns: []`,
			want: "no tiles defined",
		},
		{
			name: "multi-rune glyph",
			src: `
tiles:
  - {name: door, glyph: "++", walkable: true, transparent: false}
`,
			want: "glyph must be a single rune",
		},
		{
			name: "negative resistance",
			src: `
tiles:
  - {name: void, glyph: " ", walkable: false, transparent: true, resistance: -1}
`,
			want: "negative resistance",
		},
		{
			name: "duplicate name",
			src: `
tiles:
  - {name: floor, glyph: ".", walkable: true, transparent: true}
  - {name: floor, glyph: ",", walkable: true, transparent: true}
`,
			want: "duplicate name",
		},
		{
			name: "bad spawn glyph",
			src: `
tiles:
  - {name: floor, glyph: ".", walkable: true, transparent: true}
spawns:
  - {name: orc, glyph: "", layer: 1, count: 3}
`,
			want: "glyph must be a single rune",
		},
		{
			name: "negative spawn layer",
			src: `
tiles:
  - {name: floor, glyph: ".", walkable: true, transparent: true}
spawns:
  - {name: orc, glyph: "o", layer: -1, count: 3}
`,
			want: "negative layer",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseTileTable([]byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestTileTable_SpawnsReturnsCopy(t *testing.T) {
	table, err := LoadTileTable("")
	require.NoError(t, err)

	first := table.Spawns()
	first[0].Name = "mutated"
	assert.Equal(t, "hero", table.Spawns()[0].Name)
}
