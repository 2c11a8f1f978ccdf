// Package logging provides logging configuration types and utilities.
package logging

// StandardFields defines the standardized field names for structured
// logging across all components, so that logs are uniformly queryable
// in aggregation systems.
//
//nolint:gochecknoglobals // Intentional global constants for standardized field names
var StandardFields = struct {
	// Domain identifiers
	TenantID  string
	EventType string
	Metric    string

	// Rollup context
	Period      string
	WindowStart string
	WindowEnd   string
	GroupCount  string
	RowCount    string

	// Timing and performance
	DurationMs string
	StartTime  string
	EndTime    string

	// Operation context
	Component     string
	Operation     string
	CorrelationID string

	// Error information
	Error     string
	ErrorType string

	// Status
	Status string
}{
	TenantID:  "tenant_id",
	EventType: "event_type",
	Metric:    "metric",

	Period:      "period",
	WindowStart: "window_start",
	WindowEnd:   "window_end",
	GroupCount:  "group_count",
	RowCount:    "row_count",

	DurationMs: "duration_ms",
	StartTime:  "start_time",
	EndTime:    "end_time",

	Component:     "component",
	Operation:     "operation",
	CorrelationID: "correlation_id",

	Error:     "error",
	ErrorType: "error_type",

	Status: "status",
}

// ComponentNames defines standardized component names for logging consistency
//
//nolint:gochecknoglobals // Intentional global constants for standardized component names
var ComponentNames = struct {
	CLI       string
	DB        string
	Aggregate string
	Rollup    string
	Scheduler string
	Ingest    string
}{
	CLI:       "cli",
	DB:        "db",
	Aggregate: "aggregate-engine",
	Rollup:    "rollup-job",
	Scheduler: "rollup-scheduler",
	Ingest:    "ingest",
}
