// Package main is the entry point for GridTactics.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/data"
	"github.com/samdwyer/gridtactics/internal/game"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/telemetry"
	"github.com/samdwyer/gridtactics/internal/ui"
)

const logFile = "gridtactics.log"

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_GRIDTACTICS_API_KEY available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	cfg, err := game.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	verbosity := 0
	if cfg.Debug {
		verbosity = 1
	}
	shutdown, err := telemetry.Setup(ctx, verbosity)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Game will run without observability")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	logger, err := telemetry.NewLogger(logFile, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to open log %s: %v", logFile, err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("game exited with error", zap.Error(err))
		log.Fatalf("Game error: %v", err)
	}
}

func run(ctx context.Context, cfg game.Config, logger *zap.Logger) error {
	abilities, err := gamedata.LoadAbilityRegistry()
	if err != nil {
		return err
	}
	classes, err := gamedata.LoadClassRegistry()
	if err != nil {
		return err
	}
	sc, err := loadScenario(cfg.Scenario)
	if err != nil {
		return err
	}

	battle, err := game.NewBattle(ctx, sc, abilities, classes, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up battle: %w", err)
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	g := game.New(screen, ui.NewRenderer(screen), battle, cfg, logger)
	defer g.Close()

	return g.Run(ctx)
}

// loadScenario reads path from disk, or the embedded default when path is empty.
func loadScenario(path string) (*gamedata.Scenario, error) {
	var fsys fs.FS = data.FS()
	name := data.DefaultScenario
	if path != "" {
		fsys = os.DirFS(filepath.Dir(path))
		name = filepath.Base(path)
	}
	return gamedata.LoadScenario(fsys, name)
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	// Always set endpoint to Honeycomb
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	// Always set headers from our API key - the .env file may have an unexpanded
	// variable reference that doesn't work, so we construct it properly here
	apiKey := os.Getenv("HONEYCOMB_GRIDTACTICS_API_KEY")
	dataset := os.Getenv("HONEYCOMB_GRIDTACTICS_DATASET")
	if dataset == "" {
		dataset = "gridtactics"
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
