package schedule

import (
	"time"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/workday"
)

// Predecessor is one incoming constraint on a task: the edge and the current
// state of the task it points at
type Predecessor struct {
	Edge *models.Dependency
	Task *models.Task
}

// ProposedStart returns the earliest start a single edge allows for a
// dependent task of the given duration.
//
//	FS: predecessor end   + (lag+1) working days
//	SS: predecessor start + lag     working days
//	FF: (predecessor end   + lag) - (duration-1) working days
//	SF: (predecessor start + lag) - (duration-1) working days
func ProposedStart(edge *models.Dependency, pred *models.Task, duration int) time.Time {
	switch edge.Type {
	case models.StartToStart:
		return workday.AddWorkingDays(pred.StartDate, edge.LagDays)
	case models.FinishToFinish:
		return workday.StartDate(workday.AddWorkingDays(pred.EndDate, edge.LagDays), duration)
	case models.StartToFinish:
		return workday.StartDate(workday.AddWorkingDays(pred.StartDate, edge.LagDays), duration)
	default:
		return workday.AddWorkingDays(pred.EndDate, edge.LagDays+1)
	}
}

// ComputeSchedule folds every predecessor constraint into a new start date.
// The running maximum is seeded with the task's current start, so a
// dependency can only push a task later. The end keeps the task's duration.
func ComputeSchedule(task *models.Task, preds []Predecessor) (start, end time.Time) {
	duration := workday.ClampDuration(task.Duration)

	start = workday.Truncate(task.StartDate)
	for _, p := range preds {
		start = workday.Max(start, ProposedStart(p.Edge, p.Task, duration))
	}
	return start, workday.EndDate(start, duration)
}
