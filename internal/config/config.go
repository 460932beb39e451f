// Package config loads densityareas settings from YAML or TOML.
//
// Config file locations (priority order):
//  1. $DENSITYAREAS_CONFIG
//  2. ./densityareas.yaml
//  3. ./densityareas.toml
//
// When none exists the defaults apply. Missing keys in a file are filled
// from the defaults as well. Files ending in .toml are read as TOML,
// everything else as YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/jcrpanta/density-areas/quadrature"
)

// Config is the whole settings file
type Config struct {
	Version    int                `yaml:"version" toml:"version"`
	Quadrature quadrature.Options `yaml:"quadrature" toml:"quadrature"`
	Log        LogConfig          `yaml:"log" toml:"log"`
	Server     ServerConfig       `yaml:"server" toml:"server"`
}

// LogConfig selects level and handler format
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// ServerConfig holds the tool server listener settings
type ServerConfig struct {
	Addr         string   `yaml:"addr" toml:"addr"`
	ReadTimeout  Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout" toml:"write_timeout"`
	MaxBodyBytes int64    `yaml:"max_body_bytes" toml:"max_body_bytes"`
}

// Duration wraps time.Duration for YAML and TOML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load finds and loads the config file, or returns defaults if none found.
// The second result is the path that was read, empty for defaults.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	// Keys absent from the file keep their default values.
	cfg := DefaultConfig()
	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		unmarshal = toml.Unmarshal
	}
	if err := unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Quadrature.Validate(); err != nil {
		return nil, path, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, path, nil
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		Version:    1,
		Quadrature: quadrature.DefaultOptions(),
		Log:        LogConfig{Level: "info", Format: "json"},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration(15 * time.Second),
			WriteTimeout: Duration(60 * time.Second),
			MaxBodyBytes: 1 << 20,
		},
	}
}

// applyDefaults replaces values that were set empty
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Quadrature.Limit == 0 {
		c.Quadrature.Limit = def.Quadrature.Limit
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = def.Server.MaxBodyBytes
	}
}

// QuadratureOptions turns the quadrature section into a call option.
func (c *Config) QuadratureOptions() []quadrature.Option {
	return []quadrature.Option{quadrature.WithOptions(c.Quadrature)}
}
