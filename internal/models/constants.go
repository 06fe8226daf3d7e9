package models

import (
	"fmt"
	"time"
)

// MinDuration is the shortest schedulable task, in working days
const MinDuration = 1

// MaxDuration is the longest schedulable task, in working days
const MaxDuration = 10000

// MaxTitleLength bounds task and project names
const MaxTitleLength = 255

// DateLayout is the calendar-date format used at the edit surface
const DateLayout = "2006-01-02"

// MaxLagDays bounds the lag or lead on a dependency, in working days
const MaxLagDays = 1000

// MaxDate is the last day DateLayout can write with a four-digit year
var MaxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// CheckScheduleBounds rejects a schedule that starts or ends after MaxDate
func CheckScheduleBounds(start, end time.Time) error {
	if start.After(MaxDate) || end.After(MaxDate) {
		return fmt.Errorf("%w: %s..%s", ErrDateOutOfRange, start.Format(DateLayout), end.Format(DateLayout))
	}
	return nil
}
