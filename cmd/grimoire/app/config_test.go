package app

import (
	"testing"
	"time"

	"github.com/agentstation/grimoire/pkg/constants"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.CacheTTL != constants.DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", config.CacheTTL, constants.DefaultCacheTTL)
	}
	if config.LogFormat == "" {
		t.Error("LogFormat should have a default")
	}
	if config.LogOutput == "" {
		t.Error("LogOutput should have a default")
	}
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "json", CacheTTL: time.Minute}

	config.UpdateFromFlags(true, false, true, "yaml")
	if !config.Verbose || config.Quiet || !config.NoColor {
		t.Error("boolean flags not applied")
	}
	if config.Format != "yaml" {
		t.Errorf("Format = %q, want yaml", config.Format)
	}

	// Empty format keeps the previous value.
	config.UpdateFromFlags(false, false, false, "")
	if config.Format != "yaml" {
		t.Errorf("empty format overwrote previous value, got %q", config.Format)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("GRIMOIRE_TEST_SENTINEL", "set")
	if got := getEnvOrDefault("GRIMOIRE_TEST_SENTINEL", "fallback"); got != "set" {
		t.Errorf("got %q, want set", got)
	}
	if got := getEnvOrDefault("GRIMOIRE_TEST_ABSENT", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}
