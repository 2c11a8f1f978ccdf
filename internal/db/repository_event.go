package db

import (
	"context"

	"gorm.io/gorm"
)

// createBatchSize bounds the number of rows per INSERT during bulk ingestion
const createBatchSize = 500

// EventRepository manages the event write path. Events are append-only:
// there are no update or delete operations by design.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	CreateBulk(ctx context.Context, events []*Event) error
	CountAll(ctx context.Context) (int64, error)
	CountForTenant(ctx context.Context, tenantID string) (int64, error)
}

// eventRepository implements EventRepository using GORM
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create inserts a single event. CreatedAt is assigned by the database
// layer; OccurredAt is caller-supplied and may differ from it.
func (r *eventRepository) Create(ctx context.Context, event *Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// CreateBulk inserts events in batches
func (r *eventRepository) CreateBulk(ctx context.Context, events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	for _, e := range events {
		if err := validateEvent(e); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).CreateInBatches(events, createBatchSize).Error
}

// CountAll returns the total number of stored events
func (r *eventRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Event{}).Count(&total).Error
	return total, err
}

// CountForTenant returns the number of stored events for one tenant
func (r *eventRepository) CountForTenant(ctx context.Context, tenantID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Event{}).
		Where("tenant_id = ?", tenantID).
		Count(&total).Error
	return total, err
}

func validateEvent(event *Event) error {
	if event.TenantID == "" {
		return ErrEmptyTenantID
	}
	if event.Type == "" {
		return ErrEmptyEventType
	}
	return nil
}
