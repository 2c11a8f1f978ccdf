// Package rollup pre-computes coarse-grained event summaries on a
// recurring schedule so that historical totals do not require
// rescanning raw events indefinitely. Each recurrence (daily, weekly,
// monthly) fully recomputes the prior completed period and replaces
// the stored counts, which makes every run idempotent: re-running a
// window converges to the same rows, never inflated ones.
package rollup

import (
	"fmt"
	"time"

	"github.com/eventlens/eventlens/internal/db"
)

// weekStart anchors weekly windows. Friday matches the production
// schedule, where the weekly run fires Friday morning and covers the
// Friday-to-Thursday week that just ended.
const weekStart = time.Friday

// ErrUnknownPeriod is returned for a period type without a window definition
var ErrUnknownPeriod = fmt.Errorf("unknown rollup period")

// Window is an inclusive [Start, End] time range covering exactly one
// completed calendar period. Start doubles as the periodStart key of
// every summary row written for the window.
type Window struct {
	Start time.Time
	End   time.Time
}

// ComputeWindow returns the window for the prior completed period of
// the given type, relative to now. It is a pure function of its
// inputs so window arithmetic is testable without waiting for wall
// clock time to pass. All computation happens in UTC.
func ComputeWindow(now time.Time, period db.PeriodType) (Window, error) {
	now = now.UTC()

	switch period {
	case db.PeriodDay:
		start := startOfDay(now.AddDate(0, 0, -1))
		return Window{Start: start, End: endOf(start.AddDate(0, 0, 1))}, nil

	case db.PeriodWeek:
		start := startOfWeek(now.AddDate(0, 0, -7))
		return Window{Start: start, End: endOf(start.AddDate(0, 0, 7))}, nil

	case db.PeriodMonth:
		thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		start := thisMonth.AddDate(0, -1, 0)
		return Window{Start: start, End: endOf(thisMonth)}, nil

	default:
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// startOfWeek walks back from t to the most recent weekStart day
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// endOf converts an exclusive boundary into the inclusive End used
// with BETWEEN semantics
func endOf(next time.Time) time.Time {
	return next.Add(-time.Nanosecond)
}
