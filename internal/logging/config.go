// Package logging provides logging configuration types and utilities.
//
// This package defines the standardized field and component names used
// throughout the application for structured, correlated output. It
// avoids import cycles by being a leaf dependency.
package logging

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateCorrelationID creates a unique correlation ID for request tracing.
//
// Returns a 16-byte hex-encoded string that can be used to correlate
// log entries across different components for the same operation.
func GenerateCorrelationID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a simple static ID if crypto/rand fails
		return "fallback-id"
	}
	return hex.EncodeToString(bytes)
}
