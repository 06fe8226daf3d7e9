package cli

import (
	"errors"
	"fmt"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, unexpected failures, or any error that
	// doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, invalid flag combinations,
	// or when the user needs to provide different arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Task, project or dependency ids that don't exist.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Plan files that cannot be decoded.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty titles, inverted date ranges, unknown dependency
	// types, lag out of range, or a plan that fails validation.
	ExitValidation = 5

	// ExitConflict indicates the request contradicts the stored graph.
	// Use for: Cycles, duplicate edges, edges across projects.
	ExitConflict = 6

	// ExitPartial indicates the edit was saved but propagation did not
	// reach every dependent. Re-running `task reschedule` repairs it.
	ExitPartial = 7
)

// CommandError carries the process exit code for a failed command. The
// message has already been shown to the user by the time it is returned.
type CommandError struct {
	Code int
	Err  error
}

func (e *CommandError) Error() string {
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err with an exit code
func NewCommandError(code int, err error) *CommandError {
	return &CommandError{Code: code, Err: err}
}

// UsageError reports a bad flag combination with ExitUsage
func UsageError(format string, args ...any) *CommandError {
	return NewCommandError(ExitUsage, fmt.Errorf(format, args...))
}

// ExitCode returns the code main should exit with for err
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code
	}
	return ExitError
}
