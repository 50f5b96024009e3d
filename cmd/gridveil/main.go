package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gridveil/engine/internal/config"
	"github.com/gridveil/engine/internal/core/system"
	"github.com/gridveil/engine/internal/data"
	"github.com/gridveil/engine/internal/worldgen"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(width, height int, seed int64) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            gridveil  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     grid-indexed spatial engine demo      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mworld:\033[0m %dx%d \033[90m(seed: %d)\033[0m\n\n", width, height, seed)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main demo logic ───────────────────────────────────────────────

func run() error {
	// 1. Load config. The default path is optional; an explicit
	// GRIDVEIL_CONFIG must exist.
	cfgPath := "config/gridveil.toml"
	explicit := false
	if p := os.Getenv("GRIDVEIL_CONFIG"); p != "" {
		cfgPath = p
		explicit = true
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	seed := cfg.World.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	printBanner(cfg.World.Width, cfg.World.Height, seed)

	// 3. Load data tables and synthesise terrain
	printSection("world")

	table, err := data.LoadTileTable(os.Getenv("GRIDVEIL_TILES"))
	if err != nil {
		return fmt.Errorf("load tile table: %w", err)
	}
	printStat("tile templates", table.Count())

	gen, err := worldgen.NewGenerator(seed, table)
	if err != nil {
		return fmt.Errorf("world generator: %w", err)
	}
	world, err := gen.Generate(cfg.World.Width, cfg.World.Height)
	if err != nil {
		return fmt.Errorf("generate world: %w", err)
	}
	printStat("walkable cells", world.FloorCount())
	printOK("terrain generated")
	fmt.Println()

	// 4. Build the simulation: layered map, FOV, senses, spawns
	printSection("simulation")

	sim, err := newSimulation(cfg, world, table, seed, log)
	if err != nil {
		return fmt.Errorf("build simulation: %w", err)
	}
	printStat("entities", sim.actors.Count())
	printStat("sense sources", len(sim.senses.Sources()))
	fmt.Println()

	// 5. Register tick systems and run the loop
	runner := system.NewRunner()
	runner.Register(newWalkSystem(sim))
	runner.Register(newObserveSystem(sim))
	if cfg.Run.Render {
		runner.Register(newRenderSystem(sim))
	}

	delay := cfg.Run.FrameDelay
	if delay <= 0 {
		delay = 80 * time.Millisecond
	}

	printSection("ready")
	printReady(fmt.Sprintf("running %d ticks (frame: %s)", cfg.Run.Ticks, delay))
	fmt.Println()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for sim.tick < cfg.Run.Ticks {
		select {
		case <-ticker.C:
			runner.Tick(delay)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			sim.report()
			return nil
		}
	}
	sim.report()
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
