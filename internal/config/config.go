// Package config loads rseek defaults from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no --config is given.
const DefaultFileName = ".rseek.yaml"

// DefaultDepth matches the historical default of the search tool.
const DefaultDepth = 10

var (
	validLogLevels = []string{"trace", "debug", "info", "warn", "error"}
	validFormats   = []string{"plain", "table"}
	validColors    = []string{"auto", "always", "never"}
)

// Config holds the settings that can come from a file or from flags.
type Config struct {
	// Depth is the maximum number of directory levels listed below the root.
	Depth int `yaml:"depth"`

	// LogLevel sets diagnostic verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// Format selects match rendering: plain or table.
	Format string `yaml:"format"`

	// SkipHidden ignores dot-prefixed files and directories.
	SkipHidden bool `yaml:"skip_hidden"`

	// Color controls ANSI colour in diagnostics: auto, always or never.
	Color string `yaml:"color"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Depth:      DefaultDepth,
		LogLevel:   "info",
		Format:     "plain",
		SkipHidden: false,
		Color:      "auto",
	}
}

// fileConfig distinguishes absent keys from zero values.
type fileConfig struct {
	Depth      *int    `yaml:"depth"`
	LogLevel   *string `yaml:"log_level"`
	Format     *string `yaml:"format"`
	SkipHidden *bool   `yaml:"skip_hidden"`
	Color      *string `yaml:"color"`
}

// LoadConfig reads path over the defaults. A missing file is not an error;
// a malformed one is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.MergeWithFlags(fc.Depth, fc.LogLevel, fc.Format, fc.SkipHidden, fc.Color)
	return cfg, nil
}

// MergeWithFlags overrides settings with every non-nil value, so explicit
// flags win over the config file.
func (c *Config) MergeWithFlags(depth *int, logLevel *string, format *string, skipHidden *bool, color *string) {
	if depth != nil {
		c.Depth = *depth
	}
	if logLevel != nil {
		c.LogLevel = strings.ToLower(strings.TrimSpace(*logLevel))
	}
	if format != nil {
		c.Format = strings.ToLower(strings.TrimSpace(*format))
	}
	if skipHidden != nil {
		c.SkipHidden = *skipHidden
	}
	if color != nil {
		c.Color = strings.ToLower(strings.TrimSpace(*color))
	}
}

// Validate rejects values the search cannot run with.
func (c *Config) Validate() error {
	if c.Depth < 0 {
		return fmt.Errorf("depth must be >= 0, got %d", c.Depth)
	}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: %s", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("invalid format %q, must be one of: %s", c.Format, strings.Join(validFormats, ", "))
	}
	if !slices.Contains(validColors, c.Color) {
		return fmt.Errorf("invalid color %q, must be one of: %s", c.Color, strings.Join(validColors, ", "))
	}
	return nil
}
