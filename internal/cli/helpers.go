package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eventlens/eventlens/internal/config"
	"github.com/eventlens/eventlens/internal/db"
	"github.com/eventlens/eventlens/internal/env"
	"github.com/eventlens/eventlens/internal/filter"
	"github.com/eventlens/eventlens/internal/logging"
	"github.com/eventlens/eventlens/internal/output"
)

// correlationID ties together every log line from one CLI invocation
//
//nolint:gochecknoglobals // One ID per process, assigned at startup
var correlationID = logging.GenerateCorrelationID()

// commandLogger returns a logger entry tagged for one CLI command
func commandLogger(operation string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		logging.StandardFields.Component:     logging.ComponentNames.CLI,
		logging.StandardFields.Operation:     operation,
		logging.StandardFields.CorrelationID: correlationID,
	})
}

// loadConfig resolves the effective configuration. Precedence for each
// setting is flag, then environment variable, then config file, then
// built-in default.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if globalFlags.ConfigFile != "" {
		cfg, err = config.Load(globalFlags.ConfigFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	cfg.Database.Path = env.GetEnvWithFallback(env.VarDBPath, cfg.Database.Path)
	if globalFlags.DBPath != "" {
		cfg.Database.Path = globalFlags.DBPath
	}

	return cfg, nil
}

// openDatabase opens the configured database, migrating the schema so
// commands work against a fresh file without a separate init step
func openDatabase() (db.Database, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	database, err := db.Open(db.OpenOptions{
		Path:        cfg.Database.Path,
		AutoMigrate: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	return database, cfg, nil
}

// buildFilterParams assembles the raw filter mapping from command flags.
// Attribute filters arrive as repeated --filter key=value entries; the
// "data." prefix is added when missing so users can write either form.
func buildFilterParams(eventType, from, to, interval string, filters []string) (map[string]string, error) {
	params := make(map[string]string)

	if eventType != "" {
		params[filter.KeyType] = eventType
	}
	if from != "" {
		params[filter.KeyFrom] = from
	}
	if to != "" {
		params[filter.KeyTo] = to
	}
	if interval != "" {
		params[filter.KeyInterval] = interval
	}

	for _, raw := range filters {
		key, value, found := strings.Cut(raw, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFilterFlag, raw)
		}

		if !strings.HasPrefix(key, filter.AttributePrefix) {
			switch key {
			case filter.KeyType, filter.KeyFrom, filter.KeyTo, filter.KeyInterval:
				return nil, fmt.Errorf("%w: %q", ErrReservedFilterKey, key)
			}
			key = filter.AttributePrefix + key
		}

		params[key] = value
	}

	return params, nil
}

// timestampLayouts mirror the filter package's accepted from/to formats
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts ISO-8601 timestamps and bare dates
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}

// Exit codes: bad caller input exits 2, everything else 1, so scripts
// can separate "fix the request" from "something broke" the way a
// boundary layer separates 400s from 500s
const (
	exitFailure = 1
	exitUsage   = 2
)

// isInputError reports whether err is the caller's fault: a rejected
// filter value or a malformed command flag
func isInputError(err error) bool {
	return filter.IsValidation(err) ||
		errors.Is(err, ErrInvalidFilterFlag) ||
		errors.Is(err, ErrReservedFilterKey) ||
		errors.Is(err, db.ErrInvalidPeriodType)
}

// renderError prefixes caller-input failures so users can tell a bad
// request apart from an internal one
func renderError(err error) string {
	if isInputError(err) {
		return "invalid input: " + err.Error()
	}
	return err.Error()
}

// exitCode maps an execution error to the process exit status
func exitCode(err error) int {
	if isInputError(err) {
		return exitUsage
	}
	return exitFailure
}

// printJSON writes v as indented JSON to stdout
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	output.Plain(string(data))
	return nil
}
