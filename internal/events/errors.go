package events

import (
	"errors"
	"os"
	"syscall"
)

var (
	// ErrNotConnected is returned when writing before Connect succeeded
	ErrNotConnected = errors.New("not connected to daemon")
	// ErrQueueFull is returned when the outgoing queue cannot take another event
	ErrQueueFull = errors.New("event queue full")
	// ErrClientClosed is returned when using a client after Close
	ErrClientClosed = errors.New("event client closed")
)

// ErrorCode represents daemon-related error types.
type ErrorCode int

const (
	ErrSocketNotFound ErrorCode = iota
	ErrSocketPermission
	ErrDaemonNotRunning
	ErrConnectionRefused
)

// DaemonError represents a structured daemon error with context.
type DaemonError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Err     error
}

// Error implements the error interface.
func (e *DaemonError) Error() string {
	if e.Hint != "" {
		return e.Message + ". " + e.Hint
	}
	return e.Message
}

func (e *DaemonError) Unwrap() error {
	return e.Err
}

// ClassifyDaemonError maps a dial error to a DaemonError with a hint for the user
func ClassifyDaemonError(err error) *DaemonError {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, os.ErrNotExist):
		return &DaemonError{
			Code:    ErrSocketNotFound,
			Message: "Socket file not found",
			Hint:    "Start the notification daemon: plazo daemon",
			Err:     err,
		}
	case errors.Is(err, os.ErrPermission):
		return &DaemonError{
			Code:    ErrSocketPermission,
			Message: "Permission denied",
			Hint:    "Check ~/.plazo/ permissions: chmod 700 ~/.plazo/",
			Err:     err,
		}
	case errors.Is(err, syscall.ECONNREFUSED):
		return &DaemonError{
			Code:    ErrConnectionRefused,
			Message: "Connection refused",
			Hint:    "The daemon may have crashed. Restart it: plazo daemon",
			Err:     err,
		}
	}

	return &DaemonError{
		Code:    ErrDaemonNotRunning,
		Message: "Daemon not running",
		Hint:    "Start the notification daemon: plazo daemon",
		Err:     err,
	}
}
