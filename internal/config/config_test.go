package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GWARC_HOST", "")
	t.Setenv("GWARC_CACHE", "")
	t.Setenv("GWARC_SAMPLE_RATE", "")
	t.Setenv("GWARC_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != defaultHost {
		t.Errorf("Host = %q, want %q", cfg.Host, defaultHost)
	}
	if cfg.SampleRate != defaultSampleRate {
		t.Errorf("SampleRate = %d, want %d", cfg.SampleRate, defaultSampleRate)
	}
	if cfg.Format != defaultFormat {
		t.Errorf("Format = %q, want %q", cfg.Format, defaultFormat)
	}
	if cfg.CachePath != "" {
		t.Errorf("CachePath = %q, want empty", cfg.CachePath)
	}
}

func TestLoad_ParsesConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GWARC_HOST", "")
	t.Setenv("GWARC_CACHE", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
host = "https://archive.example.org"
cache_path = "~/.cache/gwarc/responses.db"
sample_rate = 16384
format = "gwf"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != "https://archive.example.org" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if !strings.HasPrefix(cfg.CachePath, home) {
		t.Errorf("CachePath = %q, want it under HOME %q", cfg.CachePath, home)
	}
	if cfg.SampleRate != 16384 {
		t.Errorf("SampleRate = %d, want 16384", cfg.SampleRate)
	}
	if cfg.Format != "gwf" {
		t.Errorf("Format = %q, want gwf", cfg.Format)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GWARC_HOST", "https://mirror.example.org")
	t.Setenv("GWARC_SAMPLE_RATE", "4096")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
host = "https://archive.example.org"
sample_rate = 16384
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != "https://mirror.example.org" {
		t.Errorf("Host = %q, want env override", cfg.Host)
	}
	if cfg.SampleRate != 4096 {
		t.Errorf("SampleRate = %d, want env override 4096", cfg.SampleRate)
	}
}
