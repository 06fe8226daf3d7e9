package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/thenoetrevino/plazo/internal/types"
)

// DependencyType selects which predecessor date constrains the dependent task
type DependencyType string

const (
	// FinishToStart: the dependent starts after the predecessor finishes
	FinishToStart DependencyType = "FINISH_TO_START"
	// StartToStart: the dependent starts when the predecessor starts
	StartToStart DependencyType = "START_TO_START"
	// FinishToFinish: the dependent finishes when the predecessor finishes
	FinishToFinish DependencyType = "FINISH_TO_FINISH"
	// StartToFinish: the dependent finishes when the predecessor starts
	StartToFinish DependencyType = "START_TO_FINISH"
)

// AllDependencyTypes lists the supported types in display order
var AllDependencyTypes = []DependencyType{FinishToStart, StartToStart, FinishToFinish, StartToFinish}

// IsValid reports whether d is one of the four supported types
func (d DependencyType) IsValid() bool {
	switch d {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	default:
		return false
	}
}

// Short returns the two-letter abbreviation (FS, SS, FF, SF)
func (d DependencyType) Short() string {
	switch d {
	case FinishToStart:
		return "FS"
	case StartToStart:
		return "SS"
	case FinishToFinish:
		return "FF"
	case StartToFinish:
		return "SF"
	default:
		return "??"
	}
}

func (d DependencyType) String() string {
	return string(d)
}

// ParseDependencyType accepts the full name or the abbreviation, case-insensitive.
// An empty string yields FinishToStart.
func ParseDependencyType(s string) (DependencyType, error) {
	switch strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, "-", "_"))) {
	case "", "FS", "FINISH_TO_START":
		return FinishToStart, nil
	case "SS", "START_TO_START":
		return StartToStart, nil
	case "FF", "FINISH_TO_FINISH":
		return FinishToFinish, nil
	case "SF", "START_TO_FINISH":
		return StartToFinish, nil
	}
	return "", fmt.Errorf("invalid dependency type '%s' (must be: fs, ss, ff, sf)", s)
}

// Dependency is a directed edge: TaskID depends on DependsOnID.
// LagDays is counted in working days and may be negative (lead time).
type Dependency struct {
	ID          types.DependencyID
	TaskID      types.TaskID
	DependsOnID types.TaskID
	Type        DependencyType
	LagDays     int
	CreatedAt   time.Time
}

// GetID lets the CLI formatter print the id in quiet mode
func (d *Dependency) GetID() int {
	return int(d.ID)
}

// Direction selects which edges around a task to fetch
type Direction int

const (
	// Outgoing edges are the ones the task owns: what it depends on
	Outgoing Direction = iota
	// Incoming edges point at the task: the tasks that depend on it
	Incoming
)

func (d Direction) String() string {
	if d == Incoming {
		return "incoming"
	}
	return "outgoing"
}
