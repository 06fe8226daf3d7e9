package project

import "errors"

// Domain errors for project service
var (
	// Validation errors
	ErrEmptyName        = errors.New("project name cannot be empty")
	ErrNameTooLong      = errors.New("project name cannot exceed 100 characters")
	ErrInvalidProjectID = errors.New("invalid project ID")
)

// maxNameLength bounds project names
const maxNameLength = 100
