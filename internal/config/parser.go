package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads, parses, defaults and validates a configuration file
func Load(path string) (*Config, error) {
	file, err := os.Open(path) //nolint:gosec // Path comes from the CLI flag
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return LoadFromReader(file)
}

// LoadFromReader parses configuration from a reader, applies defaults
// and validates the result
func LoadFromReader(r io.Reader) (*Config, error) {
	var cfg Config

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a configuration with all defaults applied, used when
// no config file is supplied
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}
