// Package config loads sqlquest's optional YAML configuration file.
//
// Resolution order is defaults, then the config file, then command-line
// flags. The CLI applies flags on top of the value returned by Load.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sqlquest/internal/verify"
)

// EnvPath names a config file used when no --config flag is given.
const EnvPath = "SQLQUEST_CONFIG"

// ValidLogLevels lists the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds user-tunable settings.
type Config struct {
	// Bank is a question bank file (.cue, .json, .yaml). Empty means the
	// built-in bank.
	Bank     string `yaml:"bank"`
	Verify   string `yaml:"verify"`
	NoColor  bool   `yaml:"no_color"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Verify:   string(verify.Positional),
		LogLevel: "info",
	}
}

// Resolve picks the config file path: the explicit path if set, else
// $SQLQUEST_CONFIG, else none.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(EnvPath)
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	if _, err := verify.ParseMode(c.Verify); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Mode returns the verification mode. Call Validate first.
func (c Config) Mode() verify.Mode {
	m, _ := verify.ParseMode(c.Verify)
	return m
}

// ParseLevel maps a log_level value onto slog. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log_level %q: must be one of %v", s, ValidLogLevels)
}
