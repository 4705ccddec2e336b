// Package config loads editor tuning from a TOML file, overridden by
// GESSO_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	HistoryLimit     int     `toml:"history_limit"`      // GESSO_HISTORY_LIMIT (default 50)
	MinSize          float64 `toml:"min_size"`           // GESSO_MIN_SIZE (default 10)
	SnapIncrement    float64 `toml:"snap_increment"`     // GESSO_SNAP_INCREMENT (default 15 degrees)
	HitThreshold     float64 `toml:"hit_threshold"`      // GESSO_HIT_THRESHOLD (default 8, at 100% zoom)
	AnchorSnapRadius float64 `toml:"anchor_snap_radius"` // GESSO_ANCHOR_SNAP_RADIUS (default 25)
	BezierSamples    int     `toml:"bezier_samples"`     // GESSO_BEZIER_SAMPLES (default 20)
	LogLevel         string  `toml:"log_level"`          // GESSO_LOG_LEVEL (default "info")
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		HistoryLimit:     50,
		MinSize:          10,
		SnapIncrement:    15,
		HitThreshold:     8,
		AnchorSnapRadius: 25,
		BezierSamples:    20,
		LogLevel:         "info",
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gesso", "config.toml"), nil
}

// Load reads path over the defaults and then applies environment
// overrides. A missing file is not an error; an empty path skips the file.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &c); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	var err error
	if c.HistoryLimit, err = envInt("GESSO_HISTORY_LIMIT", c.HistoryLimit); err != nil {
		return nil, err
	}
	if c.MinSize, err = envFloat("GESSO_MIN_SIZE", c.MinSize); err != nil {
		return nil, err
	}
	if c.SnapIncrement, err = envFloat("GESSO_SNAP_INCREMENT", c.SnapIncrement); err != nil {
		return nil, err
	}
	if c.HitThreshold, err = envFloat("GESSO_HIT_THRESHOLD", c.HitThreshold); err != nil {
		return nil, err
	}
	if c.AnchorSnapRadius, err = envFloat("GESSO_ANCHOR_SNAP_RADIUS", c.AnchorSnapRadius); err != nil {
		return nil, err
	}
	if c.BezierSamples, err = envInt("GESSO_BEZIER_SAMPLES", c.BezierSamples); err != nil {
		return nil, err
	}
	c.LogLevel = envOrDefault("GESSO_LOG_LEVEL", c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings the editor cannot run with.
func (c Config) Validate() error {
	switch {
	case c.HistoryLimit <= 0:
		return fmt.Errorf("config: history_limit must be positive, got %d", c.HistoryLimit)
	case c.MinSize <= 0:
		return fmt.Errorf("config: min_size must be positive, got %v", c.MinSize)
	case c.SnapIncrement < 0:
		return fmt.Errorf("config: snap_increment must not be negative, got %v", c.SnapIncrement)
	case c.HitThreshold <= 0:
		return fmt.Errorf("config: hit_threshold must be positive, got %v", c.HitThreshold)
	case c.AnchorSnapRadius < 0:
		return fmt.Errorf("config: anchor_snap_radius must not be negative, got %v", c.AnchorSnapRadius)
	case c.BezierSamples <= 0:
		return fmt.Errorf("config: bezier_samples must be positive, got %d", c.BezierSamples)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns LogLevel as a slog level.
func (c Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

// Save writes c to path as TOML, creating the directory if needed.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
