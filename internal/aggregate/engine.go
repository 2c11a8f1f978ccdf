// Package aggregate compiles validated filter conditions into queries
// over the raw event store and exposes the three read-only aggregation
// shapes: total count, count grouped by event type, and count bucketed
// over time. One shared compilation path feeds all three shapes, so
// filter semantics cannot drift between entry points.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/eventlens/eventlens/internal/db"
	"github.com/eventlens/eventlens/internal/filter"
	"github.com/eventlens/eventlens/internal/logging"
)

// Compilation and query errors
var (
	// ErrUnknownCondition is returned when the compiler meets a condition kind it does not handle
	ErrUnknownCondition = errors.New("unknown filter condition")

	// ErrUnknownOperator is returned when a numeric comparison carries an unsupported operator
	ErrUnknownOperator = errors.New("unknown comparison operator")
)

// opSQL maps validated comparison operators onto SQL. Only operators
// present in this table ever reach query text.
var opSQL = map[filter.CompareOp]string{
	filter.OpGreaterOrEqual: ">=",
	filter.OpLessOrEqual:    "<=",
	filter.OpLess:           "<",
	filter.OpGreater:        ">",
}

// TypeCount is one group in a count-by-type result
type TypeCount struct {
	Type  string `json:"type"`
	Total int64  `json:"total"`
}

// TimeBucket is one bucket in a timeline result
type TimeBucket struct {
	Bucket time.Time `json:"bucket"`
	Total  int64     `json:"total"`
}

// WindowGroup is one (tenant, type) group from a rollup window scan
type WindowGroup struct {
	TenantID string `json:"tenant_id"`
	Type     string `json:"type"`
	Total    int64  `json:"total"`
}

// Engine answers analytical questions over the raw event store. It is
// stateless and safe for unlimited concurrent use; every method honors
// the caller's context for cancellation.
type Engine struct {
	db  *gorm.DB
	log *logrus.Entry
}

// NewEngine creates an aggregation engine over the given database
func NewEngine(gdb *gorm.DB, log *logrus.Entry) *Engine {
	return &Engine{db: gdb, log: log}
}

// CountTotal returns the number of events matching the filters
func (e *Engine) CountTotal(ctx context.Context, tenantID string, params map[string]string) (int64, error) {
	fs, err := filter.Parse(tenantID, params)
	if err != nil {
		return 0, err
	}

	query, err := e.compile(ctx, fs.Conditions)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

// CountByType returns event counts grouped by type, ordered by count
// descending with type name ascending as a stable tiebreak
func (e *Engine) CountByType(ctx context.Context, tenantID string, params map[string]string) ([]TypeCount, error) {
	fs, err := filter.Parse(tenantID, params)
	if err != nil {
		return nil, err
	}

	query, err := e.compile(ctx, fs.Conditions)
	if err != nil {
		return nil, err
	}

	var rows []TypeCount
	err = query.
		Select("events.type AS type, COUNT(*) AS total").
		Group("events.type").
		Order("total DESC").
		Order("events.type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count events by type: %w", err)
	}
	return rows, nil
}

// CountTimeline returns event counts bucketed by the calendar
// truncation of occurredAt to the requested interval (default day),
// ordered by bucket ascending. Buckets with no events are omitted.
func (e *Engine) CountTimeline(ctx context.Context, tenantID string, params map[string]string) ([]TimeBucket, error) {
	fs, err := filter.Parse(tenantID, params)
	if err != nil {
		return nil, err
	}

	query, err := e.compile(ctx, fs.Conditions)
	if err != nil {
		return nil, err
	}

	var stamps []time.Time
	err = query.
		Order("events.occurred_at ASC").
		Pluck("events.occurred_at", &stamps).Error
	if err != nil {
		return nil, fmt.Errorf("count events timeline: %w", err)
	}

	totals := make(map[time.Time]int64, len(stamps))
	for _, stamp := range stamps {
		totals[TruncateTo(stamp, fs.Interval)]++
	}

	buckets := make([]TimeBucket, 0, len(totals))
	for bucket, total := range totals {
		buckets = append(buckets, TimeBucket{Bucket: bucket, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Bucket.Before(buckets[j].Bucket)
	})
	return buckets, nil
}

// CountWindowByTenantType scans all events inside [from, to] grouped
// by tenant and type. This is the rollup job's window query: it runs
// through the same condition compiler as the request paths but carries
// only a time scope, with tenant isolation restored by the grouping.
func (e *Engine) CountWindowByTenantType(ctx context.Context, from, to time.Time) ([]WindowGroup, error) {
	conditions := []filter.Condition{
		filter.DateRange{From: from, To: to},
	}

	query, err := e.compile(ctx, conditions)
	if err != nil {
		return nil, err
	}

	var groups []WindowGroup
	err = query.
		Select("events.tenant_id AS tenant_id, events.type AS type, COUNT(*) AS total").
		Group("events.tenant_id").
		Group("events.type").
		Order("events.tenant_id ASC").
		Order("events.type ASC").
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("window aggregation: %w", err)
	}
	return groups, nil
}

// compile translates the validated condition list into a query over
// the events table. Every condition is ANDed; there is no OR/NOT. All
// caller-derived values travel as bound parameters, and attribute keys
// are embedded only inside a bound JSON path, never in raw SQL.
func (e *Engine) compile(ctx context.Context, conditions []filter.Condition) (*gorm.DB, error) {
	e.log.WithFields(logrus.Fields{
		logging.StandardFields.Component: logging.ComponentNames.Aggregate,
		"condition_count":                len(conditions),
	}).Debug("Compiling filter conditions")

	query := e.db.WithContext(ctx).Model(&db.Event{})

	for _, condition := range conditions {
		switch c := condition.(type) {
		case filter.TenantEquals:
			query = query.Where("events.tenant_id = ?", c.TenantID)
		case filter.TypeEquals:
			query = query.Where("events.type = ?", c.Type)
		case filter.DateRange:
			// Inclusive on both ends
			query = query.Where("events.occurred_at BETWEEN ? AND ?", c.From, c.To)
		case filter.AttributeEquals:
			// CAST ... AS TEXT renders numbers and strings alike as
			// text before comparing, so "data.amount" = "199.99"
			// matches a numeric 199.99 the way a text-extraction
			// operator would
			query = query.Where("CAST(json_extract(events.data, ?) AS TEXT) = ?", jsonPath(c.Key), c.Value)
		case filter.AttributeCompare:
			op, ok := opSQL[c.Op]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, c.Op)
			}
			clause := fmt.Sprintf("CAST(json_extract(events.data, ?) AS NUMERIC) %s ?", op)
			query = query.Where(clause, jsonPath(c.Key), c.Value)
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnknownCondition, condition)
		}
	}

	return query, nil
}

// jsonPath builds the json_extract path for a validated attribute key.
// Keys are restricted to [A-Za-z0-9_] by the validator, so the path
// needs no escaping.
func jsonPath(key string) string {
	return "$." + key
}

// TruncateTo returns t truncated to the start of its calendar bucket
// in UTC. Weeks truncate to Monday, matching DATE_TRUNC('week')
// semantics.
func TruncateTo(t time.Time, interval filter.Interval) time.Time {
	t = t.UTC()
	switch interval {
	case filter.IntervalWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case filter.IntervalMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}
