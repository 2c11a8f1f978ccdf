package cli

import "errors"

// Static errors for command implementations
var (
	// ErrInvalidFilterFlag is returned for --filter values without a key=value shape
	ErrInvalidFilterFlag = errors.New("filter must have the form key=value")

	// ErrReservedFilterKey is returned when --filter names a key that has a dedicated flag
	ErrReservedFilterKey = errors.New("filter key is reserved, use the dedicated flag")

	// ErrSummariesDiverged is returned by rollup verify when stored rows differ from a recomputation
	ErrSummariesDiverged = errors.New("stored summaries diverged from recomputation")

	// ErrNoRecords is returned when an ingest file contains no events
	ErrNoRecords = errors.New("no events found in input file")
)
