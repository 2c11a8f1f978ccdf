package filter

import "errors"

// Validation errors. All of these indicate bad caller input and map to
// a 400-class failure at whatever boundary invokes the engine; they
// are detected before any query executes.
var (
	// ErrInvalidDateFormat is returned when from/to are both present but one does not parse
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrInvalidDateRange is returned when from parses after to
	ErrInvalidDateRange = errors.New("from date must be before to date")

	// ErrInvalidInterval is returned when interval is not day, week or month
	ErrInvalidInterval = errors.New("invalid interval value")

	// ErrInvalidAttributeKey is returned when a data.<key> key contains characters outside [A-Za-z0-9_]
	ErrInvalidAttributeKey = errors.New("invalid attribute key format")
)

// IsValidation reports whether err is a filter validation failure, as
// opposed to a storage or query failure. Boundary layers use this to
// separate client errors from internal ones.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidDateFormat) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrInvalidAttributeKey)
}
