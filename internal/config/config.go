// Package config loads user preferences for the calculator.
//
// Preferences live in ~/.config/unacalc/config.toml and fall back to
// built-in defaults when the file is absent. They only affect display
// (precision, preferred units); the engine itself has no
// configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/apd/v3"

	"github.com/tovam/unacalc-go/calc"
)

// Config is the complete user configuration.
type Config struct {
	// Precision is the number of significant digits kept during
	// arithmetic.
	Precision uint32 `toml:"precision"`

	// DisplayDecimals is the maximum number of fractional digits in
	// displayed results; trailing zeros are trimmed.
	DisplayDecimals int `toml:"display_decimals"`

	// PreferredUnits lists unit symbols tried in order when choosing
	// the display unit for an unconverted result.
	PreferredUnits []string `toml:"preferred_units"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Precision:       34,
		DisplayDecimals: 3,
		PreferredUnits:  nil, // engine default list
	}
}

// Load reads the user's config file, returning defaults when none
// exists.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("no home directory, using default configuration", "err", err)
		return Default(), nil
	}
	return LoadFrom(filepath.Join(home, ".config", "unacalc", "config.toml"))
}

// LoadFrom reads a config file at an explicit path. A missing file is
// not an error; a malformed one is.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot work
// with.
func (c *Config) Validate() error {
	if c.Precision < 1 || c.Precision > 5000 {
		return fmt.Errorf("precision must be between 1 and 5000, got %d", c.Precision)
	}
	if c.DisplayDecimals < 1 || c.DisplayDecimals > 100 {
		return fmt.Errorf("display_decimals must be between 1 and 100, got %d", c.DisplayDecimals)
	}
	reg := calc.NewRegistry()
	for _, symbol := range c.PreferredUnits {
		if _, err := reg.Lookup(symbol); err != nil {
			return fmt.Errorf("preferred_units: %w", err)
		}
	}
	return nil
}

// FormatOptions translates the configuration for the engine.
func (c *Config) FormatOptions() calc.FormatOptions {
	return calc.FormatOptions{
		DisplayDecimals: c.DisplayDecimals,
		Preferred:       c.PreferredUnits,
	}
}

// APDContext builds the decimal context evaluation should run under.
func (c *Config) APDContext() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(c.Precision)
	return ctx
}
