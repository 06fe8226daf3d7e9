// Package workday implements the fixed working calendar used for scheduling:
// Saturday and Sunday are non-working days and there is no holiday calendar.
package workday

import (
	"time"

	"github.com/thenoetrevino/plazo/internal/models"
)

// Truncate drops the time of day and normalizes to UTC midnight of the same
// calendar date. Every date that enters the engine passes through here.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWorkingDay reports whether t falls on Monday through Friday
func IsWorkingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// AddWorkingDays moves n working days away from t. It steps one calendar day
// at a time and only counts days that are working days. Negative n moves
// backward. n == 0 returns the date unchanged, even when it is a weekend.
func AddWorkingDays(t time.Time, n int) time.Time {
	date := Truncate(t)
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}

	for n > 0 {
		date = date.AddDate(0, 0, step)
		if IsWorkingDay(date) {
			n--
		}
	}
	return date
}

// NextWorkingDay returns t itself when it is a working day, otherwise the
// following Monday
func NextWorkingDay(t time.Time) time.Time {
	date := Truncate(t)
	for !IsWorkingDay(date) {
		date = date.AddDate(0, 0, 1)
	}
	return date
}

// SubtractWorkingDays moves n working days backward from t
func SubtractWorkingDays(t time.Time, n int) time.Time {
	return AddWorkingDays(t, -n)
}

// ClampDuration enforces the minimum task length of one working day
func ClampDuration(duration int) int {
	if duration < models.MinDuration {
		return models.MinDuration
	}
	return duration
}

// EndDate returns the last working day of a task that starts on start and
// lasts duration working days
func EndDate(start time.Time, duration int) time.Time {
	return AddWorkingDays(start, ClampDuration(duration)-1)
}

// StartDate is the inverse of EndDate: the first day of a task of the given
// duration that ends on end
func StartDate(end time.Time, duration int) time.Time {
	return SubtractWorkingDays(end, ClampDuration(duration)-1)
}

// CountWorkingDays returns the number of working days in [start, end],
// never less than 1. A range that lies entirely on a weekend counts as one
// day so it can still be stored as a valid task.
func CountWorkingDays(start, end time.Time) int {
	from, to := Truncate(start), Truncate(end)
	if to.Before(from) {
		from, to = to, from
	}

	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWorkingDay(d) {
			count++
		}
	}
	return ClampDuration(count)
}

// Max returns the later of two dates
func Max(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
