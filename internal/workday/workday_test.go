package workday

import (
	"testing"
	"time"
)

// date builds a UTC calendar date for test tables
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// 2024-01-01 is a Monday
var (
	mon  = date(2024, 1, 1)
	tue  = date(2024, 1, 2)
	wed  = date(2024, 1, 3)
	thu  = date(2024, 1, 4)
	fri  = date(2024, 1, 5)
	sat  = date(2024, 1, 6)
	sun  = date(2024, 1, 7)
	mon2 = date(2024, 1, 8)
	tue2 = date(2024, 1, 9)
)

func TestTruncate(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	in := time.Date(2024, 1, 3, 22, 45, 10, 99, loc)

	got := Truncate(in)
	if !got.Equal(wed) {
		t.Errorf("Truncate(%v) = %v, want %v", in, got, wed)
	}
	if got.Location() != time.UTC {
		t.Errorf("Expected UTC location, got %v", got.Location())
	}
}

func TestIsWorkingDay(t *testing.T) {
	tests := []struct {
		day  time.Time
		want bool
	}{
		{mon, true},
		{wed, true},
		{fri, true},
		{sat, false},
		{sun, false},
	}

	for _, tt := range tests {
		t.Run(tt.day.Weekday().String(), func(t *testing.T) {
			if got := IsWorkingDay(tt.day); got != tt.want {
				t.Errorf("IsWorkingDay(%s) = %v, want %v", tt.day.Weekday(), got, tt.want)
			}
		})
	}
}

func TestAddWorkingDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{"zero is identity", wed, 0, wed},
		{"zero on a weekend stays put", sat, 0, sat},
		{"friday plus one is monday", fri, 1, mon2},
		{"thursday plus two skips weekend", thu, 2, mon2},
		{"monday plus four is friday", mon, 4, fri},
		{"monday plus five is next monday", mon, 5, mon2},
		{"saturday plus one is monday", sat, 1, mon2},
		{"sunday plus one is monday", sun, 1, mon2},
		{"monday minus one is friday", mon2, -1, fri},
		{"tuesday minus two is previous friday", tue2, -2, fri},
		{"sunday minus one is friday", sun, -1, fri},
		{"ten working days is two weeks", mon, 10, date(2024, 1, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddWorkingDays(tt.start, tt.n)
			if !got.Equal(tt.want) {
				t.Errorf("AddWorkingDays(%s, %d) = %s, want %s",
					tt.start.Format("Mon 2006-01-02"), tt.n,
					got.Format("Mon 2006-01-02"), tt.want.Format("Mon 2006-01-02"))
			}
		})
	}
}

func TestSubtractWorkingDays_MirrorsAdd(t *testing.T) {
	if got := SubtractWorkingDays(mon2, 1); !got.Equal(fri) {
		t.Errorf("SubtractWorkingDays(mon, 1) = %s, want friday", got.Weekday())
	}
	if got := SubtractWorkingDays(wed, 0); !got.Equal(wed) {
		t.Errorf("SubtractWorkingDays(wed, 0) should be identity, got %s", got)
	}
}

func TestEndDateRoundTrip(t *testing.T) {
	// For every working start day and duration, walking back duration-1 from
	// the computed end recovers the start
	starts := []time.Time{mon, tue, wed, thu, fri}
	for _, start := range starts {
		for duration := 1; duration <= 12; duration++ {
			end := EndDate(start, duration)
			if !IsWorkingDay(end) {
				t.Errorf("EndDate(%s, %d) = %s is not a working day", start.Weekday(), duration, end.Weekday())
			}
			if back := StartDate(end, duration); !back.Equal(start) {
				t.Errorf("StartDate(EndDate(%s, %d)) = %s, want %s", start, duration, back, start)
			}
		}
	}
}

func TestEndDate_ClampsDuration(t *testing.T) {
	for _, d := range []int{-3, 0, 1} {
		if got := EndDate(wed, d); !got.Equal(wed) {
			t.Errorf("EndDate(wed, %d) = %s, want wed", d, got)
		}
	}
}

func TestClampDuration(t *testing.T) {
	tests := map[int]int{-5: 1, 0: 1, 1: 1, 7: 7}
	for in, want := range tests {
		if got := ClampDuration(in); got != want {
			t.Errorf("ClampDuration(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestCountWorkingDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"single day", wed, wed, 1},
		{"monday to wednesday", mon, wed, 3},
		{"thursday to monday spans weekend", thu, mon2, 3},
		{"full week", mon, sun, 5},
		{"weekend only clamps to one", sat, sun, 1},
		{"reversed range", wed, mon, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWorkingDays(tt.start, tt.end); got != tt.want {
				t.Errorf("CountWorkingDays = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMax(t *testing.T) {
	if !Max(mon, fri).Equal(fri) {
		t.Error("Max(mon, fri) should be fri")
	}
	if !Max(fri, mon).Equal(fri) {
		t.Error("Max(fri, mon) should be fri")
	}
}

func TestNextWorkingDay(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{wed, wed},
		{fri, fri},
		{sat, mon2},
		{sun, mon2},
		{sat.Add(15 * time.Hour), mon2},
	}

	for _, tt := range tests {
		if got := NextWorkingDay(tt.in); !got.Equal(tt.want) {
			t.Errorf("NextWorkingDay(%s) = %s, want %s", tt.in.Format("Mon 01-02"), got.Format("Mon 01-02"), tt.want.Format("Mon 01-02"))
		}
	}
}
