package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	World   WorldConfig   `toml:"world"`
	Layers  LayersConfig  `toml:"layers"`
	FOV     FOVConfig     `toml:"fov"`
	Senses  []SenseConfig `toml:"senses"`
	Run     RunConfig     `toml:"run"`
	Logging LoggingConfig `toml:"logging"`
}

type WorldConfig struct {
	Width  int   `toml:"width"`
	Height int   `toml:"height"`
	Seed   int64 `toml:"seed"` // 0 = derive from clock
}

type LayersConfig struct {
	Count    int   `toml:"count"`
	Starting int   `toml:"starting"`
	Multi    []int `toml:"multi"` // absolute layer numbers allowing stacking
}

type FOVConfig struct {
	Radius int    `toml:"radius"`
	Shape  string `toml:"shape"` // "circle", "square" or "diamond"
}

type SenseConfig struct {
	X         int     `toml:"x"`
	Y         int     `toml:"y"`
	Intensity float64 `toml:"intensity"`
	Radius    int     `toml:"radius"`
	Spread    string  `toml:"spread"` // "ripple" or "shadow"
}

type RunConfig struct {
	Ticks      int           `toml:"ticks"`
	FrameDelay time.Duration `toml:"frame_delay"`
	Render     bool          `toml:"render"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads path on top of the defaults, so a partial file only overrides
// what it names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		World: WorldConfig{
			Width:  48,
			Height: 24,
			Seed:   1,
		},
		Layers: LayersConfig{
			Count:    2,
			Starting: 1,
			Multi:    []int{2}, // items stack, actors block
		},
		FOV: FOVConfig{
			Radius: 8,
			Shape:  "circle",
		},
		Senses: []SenseConfig{
			{X: 12, Y: 12, Intensity: 10, Radius: 9, Spread: "ripple"},
		},
		Run: RunConfig{
			Ticks:      40,
			FrameDelay: 80 * time.Millisecond,
			Render:     true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
