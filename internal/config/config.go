// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. Project config file (.gitdo/gitdo.toml in the store directory)
// 3. Environment variables (GITDO_*)
// 4. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/gitdo/internal/gitdodir"
	"github.com/nibzard/gitdo/internal/store"
)

// Default values.
const (
	DefaultLogLevel = "info"
)

// Config holds the full configuration for gitdo.
type Config struct {
	// Output
	LogLevel string `toml:"log_level"`
	NoColor  bool   `toml:"no_color"`

	// ListAll makes `list` include completed tasks without --all.
	ListAll bool `toml:"list_all"`

	// Dir is an explicit store base directory. When set, directory
	// discovery is skipped and the path is used verbatim.
	Dir string `toml:"-"`

	// WorkDir is the working directory discovery starts from (computed).
	WorkDir string `toml:"-"`
}

// Load loads configuration from defaults, the project config file,
// environment variables and CLI flags, in that order. The flag set is
// parsed here so global flags are consumed before subcommand dispatch.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	dir := fs.String("dir", "", "Store base directory (skips discovery)")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	logLevel := fs.String("log-level", "", "Log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	cfg.WorkDir = wd

	// The base directory decides which config file applies, so resolve it
	// before reading the file.
	if v := os.Getenv("GITDO_DIR"); v != "" {
		cfg.Dir = v
	}
	if *dir != "" {
		cfg.Dir = *dir
	}
	base := cfg.Dir
	if base == "" {
		base = store.Discover(wd)
	}

	if err := loadConfigFile(cfg, gitdodir.ConfigPath(base)); err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}

	loadFromEnv(cfg)

	// Flags override everything; only apply the ones the user set.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "no-color":
			cfg.NoColor = *noColor
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	return cfg, nil
}

// setDefaults fills in built-in default values.
func setDefaults(cfg *Config) {
	cfg.LogLevel = DefaultLogLevel
}

// loadConfigFile merges a TOML config file into cfg. A missing file is
// not an error.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("GITDO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GITDO_NO_COLOR"); v != "" {
		cfg.NoColor = boolFromString(v)
	}
	if v := os.Getenv("GITDO_LIST_ALL"); v != "" {
		cfg.ListAll = boolFromString(v)
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
