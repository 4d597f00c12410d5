package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seine/config"
	"github.com/pthm-cable/seine/game"
	"github.com/pthm-cable/seine/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	dbPath := flag.String("db", "", "SQLite file recording runs and decisions (empty = disabled)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = simulation.seed, or time-based if that is 0)")
	days := flag.Int("days", 0, "Stop after N days (0 = simulation.days; unlimited if both are 0)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 && cfg.Simulation.Seed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	maxDays := cfg.Simulation.Days
	if *days > 0 {
		maxDays = *days
	}

	opts := sim.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		DBPath:    *dbPath,
		LogStats:  *logStats,
	}

	if *headless {
		if err := runHeadless(cfg, opts, maxDays); err != nil {
			slog.Error("simulation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runGraphical(cfg, opts, maxDays); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless simulates maxDays days, or until interrupted when maxDays is 0.
func runHeadless(cfg *config.Config, opts sim.Options, maxDays int) error {
	s, err := sim.New(cfg, opts)
	if err != nil {
		return err
	}

	slog.Info("starting headless simulation",
		"seed", s.Seed(),
		"days", maxDays,
		"output_dir", opts.OutputDir,
		"db", opts.DBPath,
	)

	start := time.Now()
	for maxDays == 0 || s.Day() < maxDays {
		s.RunDay()
	}
	slog.Info("max days reached", "day", s.Day(), "elapsed", time.Since(start).Round(time.Millisecond))
	return s.Close()
}

// runGraphical opens the viewer window and runs until it is closed.
func runGraphical(cfg *config.Config, opts sim.Options, maxDays int) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Purse Seine Fleet")
	defer rl.CloseWindow()
	rl.SetExitKey(0) // Escape clears the selection
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if maxDays > 0 && g.Day() >= maxDays {
			slog.Info("max days reached", "day", g.Day())
			break
		}
	}
	return g.Unload()
}
