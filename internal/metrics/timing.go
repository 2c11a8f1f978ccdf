// Package metrics provides performance monitoring and timing utilities.
//
// This package implements operation timing with context metadata and
// automatic performance warnings, providing visibility into operation
// durations across the application.
//
// Usage:
//
//	timer := metrics.StartTimer(ctx, logger, "rollup").
//	  AddField("period", "day")
//	defer timer.Stop()
package metrics

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eventlens/eventlens/internal/logging"
)

// slowOperationThreshold is the duration above which a completed
// operation logs a warning instead of a debug entry
const slowOperationThreshold = 30 * time.Second

// Timer tracks the duration of an operation with support for
// additional metadata attached through AddField.
type Timer struct {
	start     time.Time
	operation string
	logger    *logrus.Entry
	fields    logrus.Fields
	ctx       context.Context //nolint:containedctx // Context needed for cancellation checks during timer lifecycle
}

// StartTimer creates a new timer for an operation and begins tracking
// immediately. The timer integrates with structured logging and logs
// its result when stopped.
func StartTimer(ctx context.Context, logger *logrus.Entry, operation string) *Timer {
	return &Timer{
		start:     time.Now(),
		operation: operation,
		logger:    logger.WithField(logging.StandardFields.Operation, operation),
		fields:    make(logrus.Fields),
		ctx:       ctx,
	}
}

// AddField adds a field to be logged when the timer stops. Method
// chaining is supported for multiple field assignments.
func (t *Timer) AddField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Stop stops the timer and logs the duration. Operations slower than
// the warning threshold log at WARN level, everything else at DEBUG.
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)

	t.fields[logging.StandardFields.DurationMs] = duration.Milliseconds()
	t.fields["duration_human"] = duration.String()

	if duration > slowOperationThreshold {
		t.logger.WithFields(t.fields).Warn("Operation took longer than expected")
	} else {
		t.logger.WithFields(t.fields).Debug("Operation completed")
	}

	return duration
}

// StopWithError stops the timer and logs the duration with error
// context. Failed operations log at ERROR level.
func (t *Timer) StopWithError(err error) time.Duration {
	duration := time.Since(t.start)

	t.fields[logging.StandardFields.DurationMs] = duration.Milliseconds()
	t.fields["duration_human"] = duration.String()

	if err != nil {
		t.fields[logging.StandardFields.Error] = err.Error()
		t.fields[logging.StandardFields.Status] = "failed"
		t.logger.WithFields(t.fields).Error("Operation failed")
	} else {
		t.fields[logging.StandardFields.Status] = "completed"
		if duration > slowOperationThreshold {
			t.logger.WithFields(t.fields).Warn("Operation completed but took longer than expected")
		} else {
			t.logger.WithFields(t.fields).Debug("Operation completed successfully")
		}
	}

	return duration
}

// CheckCancellation reports whether the operation context has been
// canceled. Call periodically during long operations for responsive
// cancellation.
func (t *Timer) CheckCancellation() bool {
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// GetElapsed returns the current elapsed time without stopping the timer
func (t *Timer) GetElapsed() time.Duration {
	return time.Since(t.start)
}
