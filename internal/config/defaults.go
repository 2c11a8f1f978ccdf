package config

import "github.com/eventlens/eventlens/internal/db"

// Configuration defaults
const (
	DefaultVersion   = 1
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// DefaultPeriods enables every rollup recurrence
//
//nolint:gochecknoglobals // Intentional default value shared with validation
var DefaultPeriods = []string{
	string(db.PeriodDay),
	string(db.PeriodWeek),
	string(db.PeriodMonth),
}

// ApplyDefaults fills in zero-valued fields with their defaults
func (c *Config) ApplyDefaults() {
	if c.Version == 0 {
		c.Version = DefaultVersion
	}
	if c.Database.Path == "" {
		c.Database.Path = db.DefaultPath()
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if len(c.Rollup.Periods) == 0 {
		c.Rollup.Periods = append([]string{}, DefaultPeriods...)
	}
}

// PeriodTypes returns the configured rollup periods as storage enums.
// Call only after validation.
func (c *Config) PeriodTypes() []db.PeriodType {
	periods := make([]db.PeriodType, 0, len(c.Rollup.Periods))
	for _, p := range c.Rollup.Periods {
		periods = append(periods, db.PeriodType(p))
	}
	return periods
}
