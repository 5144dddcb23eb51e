// Package config loads rkp-tool settings from YAML.
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

	"github.com/remoteprov/rkp-go/pkg/agreement"
)

// Configuration errors.
var (
	ErrInvalidKeyLength = errors.New("invalid key_length")
	ErrInvalidLogLevel  = errors.New("invalid log_level")
	ErrInvalidLogFormat = errors.New("invalid log_format")
)

// Config holds provisioning settings.
type Config struct {
	// KeyLength is the derived AES key size in bytes: 16 (default), 24 or 32.
	KeyLength int `yaml:"key_length"`

	// LogLevel is the slog level: debug, info (default), warn or error.
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the slog handler: text (default) or json.
	LogFormat string `yaml:"log_format"`

	// EventLog is the path of the binary trust event log. Empty disables it.
	EventLog string `yaml:"event_log"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		KeyLength: agreement.DefaultKeyLength,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Parse decodes YAML data over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Validate checks that all fields hold supported values.
func (c *Config) Validate() error {
	switch c.KeyLength {
	case 16, 24, agreement.MaxKeyLength:
	default:
		return fmt.Errorf("%w: %d (want 16, 24 or 32)", ErrInvalidKeyLength, c.KeyLength)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}
	return nil
}

// SlogLevel returns LogLevel as an slog.Level. Invalid values map to Info.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewSlogHandler builds the handler selected by LogFormat at LogLevel.
func (c *Config) NewSlogHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Deriver returns a key deriver using KeyLength.
func (c *Config) Deriver() agreement.Deriver {
	return agreement.Deriver{KeyLength: c.KeyLength}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
}
