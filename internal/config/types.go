// Package config defines the eventlens configuration file format and
// provides parsing, defaulting and validation.
package config

// Config is the root configuration, loaded from YAML
type Config struct {
	Version    int          `yaml:"version"`
	MinVersion string       `yaml:"min_version,omitempty"` // Minimum eventlens binary version required
	Database   Database     `yaml:"database"`
	Log        Log          `yaml:"log"`
	Rollup     RollupConfig `yaml:"rollup"`
}

// Database holds storage settings
type Database struct {
	Path string `yaml:"path"`
}

// Log holds logging settings
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// RollupConfig holds rollup scheduler settings
type RollupConfig struct {
	Enabled *bool    `yaml:"enabled"`
	Periods []string `yaml:"periods"` // subset of day, week, month
}

// IsEnabled reports whether the rollup scheduler should run
func (r *RollupConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}
