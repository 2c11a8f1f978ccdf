package config

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/eventlens/eventlens/internal/db"
	"github.com/eventlens/eventlens/internal/version"
)

// Validation errors
var (
	// ErrUnsupportedVersion is returned for config schema versions this binary does not understand
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidLogLevel is returned when log.level is not a known logrus level
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidLogFormat is returned when log.format is neither text nor json
	ErrInvalidLogFormat = errors.New("invalid log format")

	// ErrInvalidRollupPeriod is returned when rollup.periods contains an unknown period
	ErrInvalidRollupPeriod = errors.New("invalid rollup period")

	// ErrBinaryTooOld is returned when the running binary does not satisfy min_version
	ErrBinaryTooOld = errors.New("eventlens binary is older than config min_version")
)

// Validate checks the parsed configuration for contradictions and
// unsupported values. Defaults must be applied first.
func (c *Config) Validate() error {
	if c.Version != DefaultVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, c.Version)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}

	for _, p := range c.Rollup.Periods {
		if !db.PeriodType(p).Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidRollupPeriod, p)
		}
	}

	if c.MinVersion != "" {
		ok, err := version.SatisfiesMin(version.Get(), c.MinVersion)
		if err != nil {
			return fmt.Errorf("invalid min_version constraint: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: have %s, need >= %s", ErrBinaryTooOld, version.Get(), c.MinVersion)
		}
	}

	return nil
}
