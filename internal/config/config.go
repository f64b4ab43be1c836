// Package config loads the gwarc configuration file and environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the CLI and client settings.
type Config struct {
	Host       string
	CachePath  string // empty disables the persistent cache
	SampleRate int
	Format     string
	LogLevel   string
}

const (
	defaultConfigPath = "~/.config/gwarc/config.toml"
	defaultHost       = "https://www.gw-openscience.org"
	defaultSampleRate = 4096
	defaultFormat     = "hdf5"
)

// Load locates and parses the config file, falling back to defaults
// when missing, then applies GWARC_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		Host:       defaultHost,
		SampleRate: defaultSampleRate,
		Format:     defaultFormat,
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		var raw struct {
			Host       string `toml:"host"`
			CachePath  string `toml:"cache_path"`
			SampleRate int    `toml:"sample_rate"`
			Format     string `toml:"format"`
			LogLevel   string `toml:"log_level"`
		}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if host := strings.TrimSpace(raw.Host); host != "" {
			cfg.Host = host
		}
		if cache := strings.TrimSpace(raw.CachePath); cache != "" {
			cfg.CachePath = mustExpand(cache)
		}
		if raw.SampleRate > 0 {
			cfg.SampleRate = raw.SampleRate
		}
		if format := strings.TrimSpace(raw.Format); format != "" {
			cfg.Format = format
		}
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if host := os.Getenv("GWARC_HOST"); host != "" {
		cfg.Host = host
	}
	if cache := os.Getenv("GWARC_CACHE"); cache != "" {
		cfg.CachePath = mustExpand(cache)
	}
	if rate := os.Getenv("GWARC_SAMPLE_RATE"); rate != "" {
		if n, err := strconv.Atoi(rate); err == nil && n > 0 {
			cfg.SampleRate = n
		}
	}
	if level := os.Getenv("GWARC_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
