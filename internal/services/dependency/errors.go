package dependency

import "errors"

// Dependency-related errors
var (
	// Validation errors
	ErrInvalidTaskID       = errors.New("invalid task ID")
	ErrInvalidDependencyID = errors.New("invalid dependency ID")
	ErrInvalidProjectID    = errors.New("invalid project ID")
	ErrInvalidType         = errors.New("invalid dependency type: must be FINISH_TO_START, START_TO_START, FINISH_TO_FINISH or START_TO_FINISH")
	ErrLagOutOfRange       = errors.New("lag cannot exceed 1000 working days in either direction")
)
