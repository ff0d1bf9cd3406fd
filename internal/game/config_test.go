package game

import (
	"testing"
	"time"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	for _, k := range []string{EnvSeed, EnvTickMs, EnvScenario, EnvDebug} {
		t.Setenv(k, "")
	}

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("ConfigFromEnv() = %+v, want %+v", cfg, DefaultConfig())
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvSeed, "42")
	t.Setenv(EnvTickMs, "20")
	t.Setenv(EnvScenario, "maps/arena.yaml")
	t.Setenv(EnvDebug, "true")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() error = %v", err)
	}
	want := Config{Seed: 42, TickRate: 20 * time.Millisecond, Scenario: "maps/arena.yaml", Debug: true}
	if cfg != want {
		t.Errorf("ConfigFromEnv() = %+v, want %+v", cfg, want)
	}
}

func TestConfigFromEnvErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvSeed, "abc"},
		{EnvTickMs, "0"},
		{EnvTickMs, "fast"},
		{EnvDebug, "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := ConfigFromEnv(); err == nil {
				t.Errorf("ConfigFromEnv() with %s=%q error = nil, want error", tt.key, tt.value)
			}
		})
	}
}

func TestResolveSeed(t *testing.T) {
	if got := (Config{Seed: 7}).resolveSeed(); got != 7 {
		t.Errorf("resolveSeed() = %d, want 7", got)
	}
	if got := (Config{}).resolveSeed(); got == 0 {
		t.Error("resolveSeed() = 0 for unset seed")
	}
}
