package models

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/plazo/internal/types"
)

// Domain errors shared by the store, the scheduling engine and the services
var (
	// ErrTaskNotFound indicates the referenced task id does not exist
	ErrTaskNotFound = errors.New("task not found")

	// ErrProjectNotFound indicates the referenced project id does not exist
	ErrProjectNotFound = errors.New("project not found")

	// ErrDependencyNotFound indicates the referenced dependency edge does not exist
	ErrDependencyNotFound = errors.New("dependency not found")

	// ErrCycleDetected indicates a proposed edge would close a cycle
	ErrCycleDetected = errors.New("circular dependency detected")

	// ErrCrossProjectDependency indicates the two endpoints live in different projects
	ErrCrossProjectDependency = errors.New("tasks belong to different projects")

	// ErrDuplicateDependency indicates an identical edge (same pair and type) already exists
	ErrDuplicateDependency = errors.New("dependency already exists")

	// ErrStoreWriteConflict indicates the store could not apply a write
	ErrStoreWriteConflict = errors.New("store write conflict")

	// ErrDateOutOfRange indicates a schedule that would run past MaxDate
	ErrDateOutOfRange = errors.New("date is after 9999-12-31")

	// ErrPropagationIncomplete indicates an edit was saved but some dependents
	// could not be rescheduled; re-running propagation repairs them
	ErrPropagationIncomplete = errors.New("propagation incomplete")
)

// CycleError carries the endpoints of a rejected edge
type CycleError struct {
	TaskID      types.TaskID
	DependsOnID types.TaskID
}

func (e *CycleError) Error() string {
	if e.TaskID == e.DependsOnID {
		return fmt.Sprintf("task %d cannot depend on itself: %v", e.TaskID, ErrCycleDetected)
	}
	return fmt.Sprintf("task %d depending on task %d would create a cycle: %v", e.TaskID, e.DependsOnID, ErrCycleDetected)
}

// Unwrap lets errors.Is match ErrCycleDetected
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}
