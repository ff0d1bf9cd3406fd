package game

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultTickRate is the simulation step used when none is configured.
const DefaultTickRate = 50 * time.Millisecond

// Environment variables read by ConfigFromEnv.
const (
	EnvSeed     = "GRIDTACTICS_SEED"
	EnvTickMs   = "GRIDTACTICS_TICK_MS"
	EnvScenario = "GRIDTACTICS_SCENARIO"
	EnvDebug    = "GRIDTACTICS_DEBUG"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible battles,
	// e.g. where a recalled ally lands.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// TickRate is how often the battle is stepped.
	TickRate time.Duration

	// Scenario is the path of a scenario YAML file on disk.
	// Empty means the embedded default skirmish.
	Scenario string

	// Debug enables development logging.
	Debug bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{TickRate: DefaultTickRate}
}

// ConfigFromEnv reads the configuration from GRIDTACTICS_* variables,
// falling back to DefaultConfig for anything unset.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	if v := os.Getenv(EnvTickMs); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvTickMs, err)
		}
		if ms <= 0 {
			return cfg, fmt.Errorf("%s: tick must be positive, got %d", EnvTickMs, ms)
		}
		cfg.TickRate = time.Duration(ms) * time.Millisecond
	}
	cfg.Scenario = os.Getenv(EnvScenario)
	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvDebug, err)
		}
		cfg.Debug = debug
	}
	return cfg, nil
}

// resolveSeed returns the configured seed, or a time based one when unset.
func (c Config) resolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
