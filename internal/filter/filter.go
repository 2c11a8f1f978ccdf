// Package filter parses caller-supplied aggregation filters into a
// closed, typed condition set.
//
// Callers describe what to count through a flat key → value mapping:
// the reserved keys "from", "to", "type" and "interval", plus any
// number of dynamic attribute filters of the form "data.<key>". The
// parser never passes caller strings through to query text; every
// recognized input becomes one of a fixed set of condition values, and
// anything else is rejected. This is the injection-safety boundary for
// the whole aggregation path.
package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Reserved filter keys
const (
	KeyFrom     = "from"
	KeyTo       = "to"
	KeyType     = "type"
	KeyInterval = "interval"

	// AttributePrefix marks dynamic attribute filter keys
	AttributePrefix = "data."
)

// Interval is the time-bucket granularity for timeline aggregation
type Interval string

// Supported intervals
const (
	IntervalDay   Interval = "day"
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
)

// Valid reports whether i is one of the supported intervals
func (i Interval) Valid() bool {
	switch i {
	case IntervalDay, IntervalWeek, IntervalMonth:
		return true
	}
	return false
}

// CompareOp is a numeric comparison operator on an attribute value
type CompareOp string

// Supported comparison operators
const (
	OpGreaterOrEqual CompareOp = ">="
	OpLessOrEqual    CompareOp = "<="
	OpLess           CompareOp = "<"
	OpGreater        CompareOp = ">"
)

// Condition is one predicate in a validated filter set. The set of
// implementations is closed; consumers switch over the concrete types
// and treat anything unknown as an error.
type Condition interface {
	condition()
}

// TenantEquals scopes a query to a single tenant. It is always the
// first condition in a parsed set and cannot be removed.
type TenantEquals struct {
	TenantID string
}

// TypeEquals matches events of exactly one type
type TypeEquals struct {
	Type string
}

// DateRange matches events whose occurredAt falls inside [From, To],
// inclusive on both ends
type DateRange struct {
	From time.Time
	To   time.Time
}

// AttributeEquals matches events whose data document renders the given
// key as exactly the given text
type AttributeEquals struct {
	Key   string
	Value string
}

// AttributeCompare matches events whose data value for the given key
// compares numerically against Value
type AttributeCompare struct {
	Key   string
	Op    CompareOp
	Value float64
}

func (TenantEquals) condition()     {}
func (TypeEquals) condition()       {}
func (DateRange) condition()        {}
func (AttributeEquals) condition()  {}
func (AttributeCompare) condition() {}

// FilterSet is the validated output of Parse: an ordered condition
// list (tenant scope first) and the resolved timeline interval.
type FilterSet struct {
	Interval   Interval
	Conditions []Condition
}

var (
	attributeKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	comparePattern      = regexp.MustCompile(`^(>=|<=|<|>)\s*(.+)$`)
)

// timestampLayouts are the accepted from/to formats, tried in order
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse validates a raw filter mapping for one tenant and produces the
// ordered condition set shared by every aggregation shape.
//
// Rules:
//   - from/to apply only when both are present and non-empty; a lone
//     bound is ignored entirely. Both must parse as timestamps and
//     from must not be after to.
//   - type, when non-empty, adds an exact-match condition.
//   - interval defaults to "day" and must otherwise be day, week or
//     month. It only affects timeline aggregation but is validated
//     here so every entry point rejects bad input the same way.
//   - data.<key> entries become attribute conditions; keys are sorted
//     so parsing is deterministic regardless of map order. A value
//     starting with >=, <=, < or > followed by a number becomes a
//     numeric comparison; an operator followed by a non-number falls
//     back to exact string equality on the whole trimmed value.
func Parse(tenantID string, params map[string]string) (*FilterSet, error) {
	fs := &FilterSet{
		Interval:   IntervalDay,
		Conditions: []Condition{TenantEquals{TenantID: tenantID}},
	}

	if err := parseDateRange(fs, params); err != nil {
		return nil, err
	}

	if eventType := params[KeyType]; eventType != "" {
		fs.Conditions = append(fs.Conditions, TypeEquals{Type: eventType})
	}

	if raw := params[KeyInterval]; raw != "" {
		interval := Interval(raw)
		if !interval.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidInterval, raw)
		}
		fs.Interval = interval
	}

	if err := parseAttributeFilters(fs, params); err != nil {
		return nil, err
	}

	return fs, nil
}

// parseDateRange resolves the from/to pair into at most one condition.
// A partial range (only one bound supplied) applies no date filtering
// at all, mirroring the boundary contract.
func parseDateRange(fs *FilterSet, params map[string]string) error {
	from, to := params[KeyFrom], params[KeyTo]
	if from == "" || to == "" {
		return nil
	}

	fromTime, err := parseTimestamp(from)
	if err != nil {
		return err
	}
	toTime, err := parseTimestamp(to)
	if err != nil {
		return err
	}

	if fromTime.After(toTime) {
		return ErrInvalidDateRange
	}

	fs.Conditions = append(fs.Conditions, DateRange{From: fromTime, To: toTime})
	return nil
}

// parseAttributeFilters turns every data.<key> entry into an attribute
// condition. Keys are processed in sorted order so that two parses of
// the same mapping always produce the same condition sequence.
func parseAttributeFilters(fs *FilterSet, params map[string]string) error {
	keys := make([]string, 0)
	for key := range params {
		if strings.HasPrefix(key, AttributePrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		attrKey := strings.TrimPrefix(key, AttributePrefix)
		if !attributeKeyPattern.MatchString(attrKey) {
			return fmt.Errorf("%w: %q", ErrInvalidAttributeKey, attrKey)
		}

		value := strings.TrimSpace(params[key])

		if match := comparePattern.FindStringSubmatch(value); match != nil {
			op := CompareOp(match[1])
			number, err := strconv.ParseFloat(strings.TrimSpace(match[2]), 64)
			if err == nil {
				fs.Conditions = append(fs.Conditions, AttributeCompare{
					Key:   attrKey,
					Op:    op,
					Value: number,
				})
				continue
			}
			// Operator prefix with a non-numeric remainder is treated
			// as a literal value, not rejected: "data.note=>see above"
			// matches the attribute text ">see above" exactly.
		}

		fs.Conditions = append(fs.Conditions, AttributeEquals{
			Key:   attrKey,
			Value: value,
		})
	}

	return nil
}

// parseTimestamp accepts ISO-8601 timestamps with or without zone
// information, and bare dates
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, value)
}
