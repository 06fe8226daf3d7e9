package schedule

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/thenoetrevino/plazo/internal/types"
)

// Change is one schedule rewrite made by a propagation
type Change struct {
	TaskID   types.TaskID
	OldStart time.Time
	OldEnd   time.Time
	NewStart time.Time
	NewEnd   time.Time
}

// Moved reports whether the change shifts the task at all
func (c Change) Moved() bool {
	return !c.OldStart.Equal(c.NewStart) || !c.OldEnd.Equal(c.NewEnd)
}

// Result summarizes one propagation
type Result struct {
	RootID    types.TaskID
	ProjectID types.ProjectID

	// Updated holds one entry per rewritten task, in first-write order.
	// A task reached through several paths keeps its original old dates and
	// its final new dates.
	Updated []Change

	// Skipped lists locked dependents that stopped the walk
	Skipped []types.TaskID

	// Failed maps a task to the error that abandoned its subtree
	Failed map[types.TaskID]error

	index map[types.TaskID]int
}

func newResult(rootID types.TaskID) *Result {
	return &Result{
		RootID: rootID,
		Failed: make(map[types.TaskID]error),
		index:  make(map[types.TaskID]int),
	}
}

// Merge folds another propagation into r. A task moved by both keeps its
// first old dates and the later run's new dates.
func (r *Result) Merge(o *Result) {
	if o == nil {
		return
	}
	for _, c := range o.Updated {
		r.record(c)
	}
	for _, id := range o.Skipped {
		r.skip(id)
	}
	for id, err := range o.Failed {
		r.fail(id, err)
	}
}

func (r *Result) record(c Change) {
	if r.index == nil {
		r.index = make(map[types.TaskID]int, len(r.Updated))
		for i, u := range r.Updated {
			r.index[u.TaskID] = i
		}
	}
	if i, ok := r.index[c.TaskID]; ok {
		r.Updated[i].NewStart = c.NewStart
		r.Updated[i].NewEnd = c.NewEnd
		return
	}
	r.index[c.TaskID] = len(r.Updated)
	r.Updated = append(r.Updated, c)
}

func (r *Result) skip(id types.TaskID) {
	if !slices.Contains(r.Skipped, id) {
		r.Skipped = append(r.Skipped, id)
	}
}

func (r *Result) fail(id types.TaskID, err error) {
	if r.Failed == nil {
		r.Failed = make(map[types.TaskID]error)
	}
	if _, ok := r.Failed[id]; ok {
		return
	}
	r.Failed[id] = err
}

// UpdatedIDs returns the ids of rewritten tasks
func (r *Result) UpdatedIDs() []types.TaskID {
	ids := make([]types.TaskID, len(r.Updated))
	for i, c := range r.Updated {
		ids[i] = c.TaskID
	}
	return ids
}

// Err joins the branch failures, ordered by task id, or returns nil
func (r *Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}

	ids := make([]types.TaskID, 0, len(r.Failed))
	for id := range r.Failed {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	errs := make([]error, 0, len(ids))
	for _, id := range ids {
		errs = append(errs, fmt.Errorf("task %d: %w", id, r.Failed[id]))
	}
	return errors.Join(errs...)
}
