package db

import "errors"

// Sentinel errors for the storage layer
var (
	// ErrRecordNotFound is returned when a requested record does not exist
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidType is returned when scanning a value of incorrect type
	ErrInvalidType = errors.New("invalid type")

	// ErrEmptyTenantID is returned when a write is attempted without a tenant id
	ErrEmptyTenantID = errors.New("tenant id is required")

	// ErrEmptyEventType is returned when an event is created without a type
	ErrEmptyEventType = errors.New("event type is required")

	// ErrInvalidPeriodType is returned when a summary carries an unknown period type
	ErrInvalidPeriodType = errors.New("invalid period type")

	// ErrDuplicateAPIKey is returned when a generated API key collides with an existing tenant
	ErrDuplicateAPIKey = errors.New("duplicate api key")
)
