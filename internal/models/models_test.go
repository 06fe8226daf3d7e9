package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// ============================================================================
// Error Tests
// ============================================================================

func TestErrors_Unique(t *testing.T) {
	all := []error{
		ErrTaskNotFound,
		ErrProjectNotFound,
		ErrDependencyNotFound,
		ErrCycleDetected,
		ErrCrossProjectDependency,
		ErrDuplicateDependency,
		ErrStoreWriteConflict,
		ErrPropagationIncomplete,
		ErrDateOutOfRange,
	}

	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}

func TestCycleError_UnwrapsToSentinel(t *testing.T) {
	var err error = &CycleError{TaskID: 1, DependsOnID: 2}

	if !errors.Is(err, ErrCycleDetected) {
		t.Fatal("CycleError should match ErrCycleDetected")
	}
	if !strings.Contains(err.Error(), "task 1 depending on task 2") {
		t.Errorf("unexpected message: %s", err.Error())
	}

	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatal("errors.As should extract *CycleError")
	}
	if cycleErr.DependsOnID != 2 {
		t.Errorf("Expected DependsOnID 2, got %d", cycleErr.DependsOnID)
	}
}

func TestCycleError_SelfDependencyMessage(t *testing.T) {
	err := &CycleError{TaskID: 7, DependsOnID: 7}
	if !strings.Contains(err.Error(), "cannot depend on itself") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

// ============================================================================
// Dependency Type Tests
// ============================================================================

func TestParseDependencyType(t *testing.T) {
	tests := []struct {
		input    string
		expected DependencyType
		wantErr  bool
	}{
		{"", FinishToStart, false},
		{"fs", FinishToStart, false},
		{"FINISH_TO_START", FinishToStart, false},
		{"finish-to-start", FinishToStart, false},
		{"ss", StartToStart, false},
		{"Start_To_Start", StartToStart, false},
		{"ff", FinishToFinish, false},
		{"FINISH_TO_FINISH", FinishToFinish, false},
		{"sf", StartToFinish, false},
		{" START_TO_FINISH ", StartToFinish, false},
		{"blocks", "", true},
		{"f", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDependencyType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseDependencyType(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDependencyType_IsValid(t *testing.T) {
	for _, dt := range AllDependencyTypes {
		if !dt.IsValid() {
			t.Errorf("%s should be valid", dt)
		}
	}
	if DependencyType("BLOCKS").IsValid() {
		t.Error("BLOCKS should not be valid")
	}
}

func TestDependencyType_Short(t *testing.T) {
	expected := map[DependencyType]string{
		FinishToStart:  "FS",
		StartToStart:   "SS",
		FinishToFinish: "FF",
		StartToFinish:  "SF",
	}
	for dt, short := range expected {
		if dt.Short() != short {
			t.Errorf("%s.Short() = %s, want %s", dt, dt.Short(), short)
		}
	}
}

// ============================================================================
// Struct Tests
// ============================================================================

func TestTask_GetID(t *testing.T) {
	task := &Task{ID: 42, Title: "Pour foundation", Duration: 3}
	if task.GetID() != 42 {
		t.Errorf("Expected 42, got %d", task.GetID())
	}
}

// ============================================================================
// Schedule Bounds Tests
// ============================================================================

func TestCheckScheduleBounds(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name       string
		start, end time.Time
		wantErr    bool
	}{
		{"ordinary", date(2024, 1, 1), date(2024, 1, 3), false},
		{"ends on max date", date(9999, 12, 27), MaxDate, false},
		{"ends past max date", date(9999, 12, 30), date(10000, 1, 3), true},
		{"starts past max date", date(10000, 1, 3), date(10000, 1, 4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckScheduleBounds(tt.start, tt.end)
			if tt.wantErr != errors.Is(err, ErrDateOutOfRange) {
				t.Errorf("CheckScheduleBounds(%s, %s) = %v", tt.start.Format(DateLayout), tt.end.Format(DateLayout), err)
			}
		})
	}

	if got := MaxDate.Format(DateLayout); len(got) != len(DateLayout) {
		t.Errorf("MaxDate must format to %d characters, got %q", len(DateLayout), got)
	}
}
