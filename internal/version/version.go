// Package version exposes build information and semantic version
// comparisons for the eventlens binary.
package version

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

const devVersionString = "dev"

// Build information set via ldflags
//
//nolint:gochecknoglobals // Build variables are set via ldflags during compilation
var (
	mu        sync.RWMutex
	version   = devVersionString
	commit    = "unknown"
	buildDate = "unknown"
)

// Get returns the binary version string
func Get() string {
	mu.RLock()
	defer mu.RUnlock()
	return version
}

// Commit returns the build commit SHA
func Commit() string {
	mu.RLock()
	defer mu.RUnlock()
	return commit
}

// BuildDate returns the build timestamp
func BuildDate() string {
	mu.RLock()
	defer mu.RUnlock()
	return buildDate
}

// Set overrides build information programmatically. This is useful for
// testing or when not using ldflags (thread-safe).
func Set(v, c, d string) {
	mu.Lock()
	defer mu.Unlock()
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		buildDate = d
	}
}

// SatisfiesMin reports whether current satisfies the ">= min"
// constraint. A dev build always satisfies every constraint so local
// builds keep working against configs that pin a minimum.
func SatisfiesMin(current, min string) (bool, error) {
	if current == devVersionString || current == "" {
		return true, nil
	}

	have, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid current version %q: %w", current, err)
	}

	constraint, err := semver.NewConstraint(">= " + strings.TrimPrefix(min, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid minimum version %q: %w", min, err)
	}

	return constraint.Check(have), nil
}
