package task

import "errors"

// Task-related errors
var (
	// Validation errors
	ErrEmptyTitle       = errors.New("task title cannot be empty")
	ErrTitleTooLong     = errors.New("task title cannot exceed 255 characters")
	ErrInvalidTaskID    = errors.New("invalid task ID")
	ErrInvalidProjectID = errors.New("invalid project ID")
	ErrMissingStartDate = errors.New("task start date is required")
	ErrInvalidDuration  = errors.New("invalid duration: must be between 1 and 10000 working days")

	// ErrInvalidDateRange indicates a start date after the end date
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)
