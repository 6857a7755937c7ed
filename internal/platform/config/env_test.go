package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type envTestConfig struct {
	Width int    `env:"TEST_WIDTH" envDefault:"8"`
	Mode  string `env:"TEST_MODE" envDefault:"ascii"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Width != 8 {
		t.Fatalf("expected default width 8, got %d", cfg.Width)
	}
}

func TestParseEnvUsesPrefix(t *testing.T) {
	t.Setenv("DUNGEONGEN_TEST_WIDTH", "21")
	t.Setenv("TEST_WIDTH", "99")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Width != 21 {
		t.Fatalf("expected prefixed width 21, got %d", cfg.Width)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("DUNGEONGEN_TEST_WIDTH", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDotEnvSkipsMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be skipped, got %v", err)
	}
}

func TestLoadDotEnvKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "DUNGEONGEN_TEST_MODE=raw\nDUNGEONGEN_TEST_WIDTH=12\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("DUNGEONGEN_TEST_WIDTH", "5")
	// Registered with t.Setenv so the value loaded from file is reset.
	t.Setenv("DUNGEONGEN_TEST_MODE", "")
	os.Unsetenv("DUNGEONGEN_TEST_MODE")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Width != 5 {
		t.Fatalf("expected existing width 5 to win, got %d", cfg.Width)
	}
	if cfg.Mode != "raw" {
		t.Fatalf("expected mode from file, got %q", cfg.Mode)
	}
}
