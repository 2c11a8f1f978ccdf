package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PeriodType identifies the calendar granularity of a rollup window.
type PeriodType string

// Supported rollup period types
const (
	PeriodDay   PeriodType = "day"
	PeriodWeek  PeriodType = "week"
	PeriodMonth PeriodType = "month"
)

// Valid reports whether p is one of the supported period types
func (p PeriodType) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// Attributes is the schemaless JSON document attached to an event,
// stored as TEXT so json_extract can address individual keys
//
//nolint:recvcheck // mixed receivers required by driver.Valuer/sql.Scanner interface
type Attributes map[string]interface{}

// Value implements driver.Valuer for database storage
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil //nolint:nilnil // database/sql pattern for NULL values
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Attributes) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("%w for Attributes", ErrInvalidType)
	}

	return json.Unmarshal(bytes, a)
}

// Tenant is the isolation boundary; every event and summary belongs to
// exactly one tenant. The engine trusts the resolved tenant id and never
// re-validates it.
type Tenant struct {
	ID        string    `gorm:"type:text;primarykey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	APIKey    string    `gorm:"type:text;not null;uniqueIndex" json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is an immutable, timestamped, typed fact with an arbitrary
// attribute document. Rows are append-only: nothing in this codebase
// updates or deletes them once written.
type Event struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	TenantID   string     `gorm:"type:text;not null;index;index:idx_events_tenant_occurred,priority:1;index:idx_events_tenant_type,priority:1;index:idx_events_tenant_type_occurred,priority:1" json:"tenant_id"`
	Type       string     `gorm:"type:text;not null;index:idx_events_tenant_type,priority:2;index:idx_events_tenant_type_occurred,priority:2" json:"type"`
	OccurredAt time.Time  `gorm:"not null;index:idx_events_tenant_occurred,priority:2;index:idx_events_tenant_type_occurred,priority:3" json:"occurred_at"`
	CreatedAt  time.Time  `json:"created_at"`
	Data       Attributes `gorm:"type:text" json:"data"`
}

// EventSummary is a pre-aggregated count of events for one tenant, one
// metric (event type), one period type and one calendar-aligned period
// start. The composite natural key is unique; absence of a row means a
// count of zero. Only the rollup job writes these rows.
type EventSummary struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	TenantID    string     `gorm:"type:text;not null;uniqueIndex:idx_summary_key,priority:1" json:"tenant_id"`
	PeriodType  PeriodType `gorm:"type:text;not null;uniqueIndex:idx_summary_key,priority:2" json:"period_type"`
	PeriodStart time.Time  `gorm:"not null;uniqueIndex:idx_summary_key,priority:3" json:"period_start"`
	Metric      string     `gorm:"type:text;not null;uniqueIndex:idx_summary_key,priority:4" json:"metric"`
	Value       int64      `gorm:"not null" json:"value"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
