package data

import (
	_ "embed"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// TileTemplate describes one kind of terrain cell.
type TileTemplate struct {
	Name        string  `yaml:"name"`
	Glyph       string  `yaml:"glyph"`
	Walkable    bool    `yaml:"walkable"`
	Transparent bool    `yaml:"transparent"`
	Resistance  float64 `yaml:"resistance"` // sense travel cost; >= 1 blocks shadow spread
}

// Rune returns the template's display glyph.
func (t TileTemplate) Rune() rune {
	r, _ := utf8.DecodeRuneInString(t.Glyph)
	return r
}

// SpawnTemplate describes one entity population scattered at world boot.
type SpawnTemplate struct {
	Name  string `yaml:"name"`
	Glyph string `yaml:"glyph"`
	Layer int    `yaml:"layer"`
	Count int    `yaml:"count"`
}

// Rune returns the template's display glyph.
func (s SpawnTemplate) Rune() rune {
	r, _ := utf8.DecodeRuneInString(s.Glyph)
	return r
}

type tileFile struct {
	Tiles  []TileTemplate  `yaml:"tiles"`
	Spawns []SpawnTemplate `yaml:"spawns"`
}

// TileTable indexes tile templates by name and carries the spawn lists.
type TileTable struct {
	tiles  map[string]TileTemplate
	spawns []SpawnTemplate
}

//go:embed tiles.yaml
var defaultTiles []byte

// LoadTileTable reads a tile table from path. An empty path loads the
// embedded defaults, so binaries run without data files on disk.
func LoadTileTable(path string) (*TileTable, error) {
	raw := defaultTiles
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read tile table %s: %w", path, err)
		}
		raw = b
	}
	return parseTileTable(raw)
}

func parseTileTable(raw []byte) (*TileTable, error) {
	var file tileFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse tile table: %w", err)
	}
	if len(file.Tiles) == 0 {
		return nil, fmt.Errorf("tile table: no tiles defined")
	}

	table := &TileTable{
		tiles:  make(map[string]TileTemplate, len(file.Tiles)),
		spawns: file.Spawns,
	}
	for _, t := range file.Tiles {
		if utf8.RuneCountInString(t.Glyph) != 1 {
			return nil, fmt.Errorf("tile %q: glyph must be a single rune", t.Name)
		}
		if t.Resistance < 0 {
			return nil, fmt.Errorf("tile %q: negative resistance", t.Name)
		}
		if _, dup := table.tiles[t.Name]; dup {
			return nil, fmt.Errorf("tile %q: duplicate name", t.Name)
		}
		table.tiles[t.Name] = t
	}
	for _, s := range file.Spawns {
		if utf8.RuneCountInString(s.Glyph) != 1 {
			return nil, fmt.Errorf("spawn %q: glyph must be a single rune", s.Name)
		}
		if s.Layer < 0 {
			return nil, fmt.Errorf("spawn %q: negative layer", s.Name)
		}
	}
	return table, nil
}

// Tile looks a template up by name.
func (t *TileTable) Tile(name string) (TileTemplate, bool) {
	tt, ok := t.tiles[name]
	return tt, ok
}

// Count returns the number of tile templates.
func (t *TileTable) Count() int {
	return len(t.tiles)
}

// Spawns returns the spawn lists as a fresh slice.
func (t *TileTable) Spawns() []SpawnTemplate {
	out := make([]SpawnTemplate, len(t.spawns))
	copy(out, t.spawns)
	return out
}
