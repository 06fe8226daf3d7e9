package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/plan"
	dependencyservice "github.com/thenoetrevino/plazo/internal/services/dependency"
	taskservice "github.com/thenoetrevino/plazo/internal/services/task"
)

// ============================================================================
// Helpers
// ============================================================================

// capture swaps *target for a pipe while fn runs and returns what was written
func capture(t *testing.T, target **os.File, fn func()) string {
	t.Helper()

	old := *target
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	*target = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	_ = w.Close()
	*target = old
	return <-outC
}

func decodeJSON(t *testing.T, output string) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}

type mockDataWithID struct {
	ID   int
	Name string
}

func (m mockDataWithID) GetID() int {
	return m.ID
}

type mockDataWithoutID struct {
	Name  string
	Value int
}

// ============================================================================
// Success
// ============================================================================

func TestOutputFormatter_Success_JSON(t *testing.T) {
	f := &OutputFormatter{JSON: true}

	output := capture(t, &os.Stdout, func() {
		if err := f.Success(map[string]any{"test": "value"}); err != nil {
			t.Errorf("Success returned error: %v", err)
		}
	})

	result := decodeJSON(t, output)
	if result["success"] != true {
		t.Errorf("Expected success to be true, got %v", result["success"])
	}
	data, ok := result["data"].(map[string]any)
	if !ok || data["test"] != "value" {
		t.Errorf("Expected data.test to be 'value', got %v", result["data"])
	}
}

func TestOutputFormatter_Success_Quiet(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{"data with ID", mockDataWithID{ID: 42, Name: "x"}, "42\n"},
		{"data without ID", mockDataWithoutID{Name: "x", Value: 7}, "{Name:x Value:7}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &OutputFormatter{Quiet: true}
			output := capture(t, &os.Stdout, func() {
				if err := f.Success(tt.data); err != nil {
					t.Errorf("Success returned error: %v", err)
				}
			})
			if output != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, output)
			}
		})
	}
}

func TestOutputFormatter_JSONResult(t *testing.T) {
	f := &OutputFormatter{JSON: true}

	output := capture(t, &os.Stdout, func() {
		if err := f.JSONResult(map[string]any{"task": map[string]any{"id": 3}}); err != nil {
			t.Errorf("JSONResult returned error: %v", err)
		}
	})

	result := decodeJSON(t, output)
	if result["success"] != true {
		t.Errorf("Expected success to be true")
	}
	if _, ok := result["task"]; !ok {
		t.Errorf("Expected task field in %v", result)
	}
}

// ============================================================================
// Errors
// ============================================================================

func TestOutputFormatter_Error_JSON(t *testing.T) {
	f := &OutputFormatter{JSON: true}

	output := capture(t, &os.Stdout, func() {
		if err := f.ErrorWithSuggestion("TASK_NOT_FOUND", "task 9 not found", "list tasks"); err != nil {
			t.Errorf("ErrorWithSuggestion returned error: %v", err)
		}
	})

	result := decodeJSON(t, output)
	if result["success"] != false {
		t.Errorf("Expected success to be false")
	}
	errData := result["error"].(map[string]any)
	if errData["code"] != "TASK_NOT_FOUND" {
		t.Errorf("Expected code TASK_NOT_FOUND, got %v", errData["code"])
	}
	if errData["suggestion"] != "list tasks" {
		t.Errorf("Expected suggestion, got %v", errData["suggestion"])
	}
}

func TestOutputFormatter_Error_NoSuggestionOmitted(t *testing.T) {
	f := &OutputFormatter{JSON: true}

	output := capture(t, &os.Stdout, func() {
		_ = f.Error("ERROR", "boom")
	})

	errData := decodeJSON(t, output)["error"].(map[string]any)
	if _, ok := errData["suggestion"]; ok {
		t.Errorf("Expected no suggestion key, got %v", errData)
	}
}

func TestOutputFormatter_Error_Human(t *testing.T) {
	f := &OutputFormatter{}

	var stdout string
	stderr := capture(t, &os.Stderr, func() {
		stdout = capture(t, &os.Stdout, func() {
			_ = f.ErrorWithSuggestion("ERROR", "boom", "try again")
		})
	})

	if stdout != "" {
		t.Errorf("Expected nothing on stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "Error: boom") || !strings.Contains(stderr, "Suggestion: try again") {
		t.Errorf("Unexpected stderr: %q", stderr)
	}
}

func TestOutputFormatter_Fail(t *testing.T) {
	f := &OutputFormatter{JSON: true}
	cause := fmt.Errorf("get task 9: %w", models.ErrTaskNotFound)

	var err error
	output := capture(t, &os.Stdout, func() {
		err = f.Fail(cause)
	})

	if got := ExitCode(err); got != ExitNotFound {
		t.Errorf("Expected exit %d, got %d", ExitNotFound, got)
	}
	if !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected error to wrap ErrTaskNotFound, got %v", err)
	}

	errData := decodeJSON(t, output)["error"].(map[string]any)
	if errData["code"] != "TASK_NOT_FOUND" {
		t.Errorf("Expected code TASK_NOT_FOUND, got %v", errData["code"])
	}
	if errData["suggestion"] == "" || errData["suggestion"] == nil {
		t.Errorf("Expected the default suggestion for not found errors")
	}
}

func TestOutputFormatter_FailWithResult_SingleDocument(t *testing.T) {
	f := &OutputFormatter{JSON: true}
	cause := fmt.Errorf("moved 2 of 3: %w", models.ErrPropagationIncomplete)

	var err error
	output := capture(t, &os.Stdout, func() {
		err = f.FailWithResult(cause, map[string]any{"task": map[string]any{"id": 1}}, "plazo task reschedule 1")
	})

	if got := ExitCode(err); got != ExitPartial {
		t.Errorf("Expected exit %d, got %d", ExitPartial, got)
	}
	if n := strings.Count(strings.TrimSpace(output), "\n"); n != 0 {
		t.Fatalf("Expected a single JSON document, got %d lines: %s", n+1, output)
	}

	result := decodeJSON(t, output)
	if result["success"] != false {
		t.Errorf("Expected success to be false")
	}
	if _, ok := result["task"]; !ok {
		t.Errorf("Expected the partial result next to the error")
	}
	errData := result["error"].(map[string]any)
	if errData["code"] != "PROPAGATION_INCOMPLETE" {
		t.Errorf("Expected code PROPAGATION_INCOMPLETE, got %v", errData["code"])
	}
	if errData["suggestion"] != "plazo task reschedule 1" {
		t.Errorf("Expected the given suggestion to win, got %v", errData["suggestion"])
	}
}

// ============================================================================
// ClassifyError
// ============================================================================

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		exit int
	}{
		{"usage", UsageError("bad flag"), "USAGE_ERROR", ExitUsage},
		{"task not found", models.ErrTaskNotFound, "TASK_NOT_FOUND", ExitNotFound},
		{"project not found", fmt.Errorf("x: %w", models.ErrProjectNotFound), "PROJECT_NOT_FOUND", ExitNotFound},
		{"dependency not found", models.ErrDependencyNotFound, "DEPENDENCY_NOT_FOUND", ExitNotFound},
		{"cycle", fmt.Errorf("x: %w", models.ErrCycleDetected), "CYCLE_DETECTED", ExitConflict},
		{"duplicate", models.ErrDuplicateDependency, "DUPLICATE_DEPENDENCY", ExitConflict},
		{"cross project", models.ErrCrossProjectDependency, "CROSS_PROJECT_DEPENDENCY", ExitConflict},
		{"partial", models.ErrPropagationIncomplete, "PROPAGATION_INCOMPLETE", ExitPartial},
		{"invalid plan", &plan.ValidationError{Problems: []plan.Problem{{Message: "x"}}}, "INVALID_PLAN", ExitValidation},
		{"malformed plan", fmt.Errorf("%w: bad yaml", plan.ErrMalformedPlan), "MALFORMED_PLAN", ExitDataErr},
		{"unsupported format", fmt.Errorf("%w '.xml'", plan.ErrUnsupportedFormat), "USAGE_ERROR", ExitUsage},
		{"empty title", taskservice.ErrEmptyTitle, "VALIDATION_ERROR", ExitValidation},
		{"bad dependency type", fmt.Errorf("%w (got 'zz')", dependencyservice.ErrInvalidType), "VALIDATION_ERROR", ExitValidation},
		{"bad date", fmt.Errorf("%w \"x\"", ErrInvalidDate), "VALIDATION_ERROR", ExitValidation},
		{"date out of range", fmt.Errorf("task 3: %w", models.ErrDateOutOfRange), "VALIDATION_ERROR", ExitValidation},
		{"store conflict", models.ErrStoreWriteConflict, "STORE_CONFLICT", ExitError},
		{"anything else", errors.New("disk on fire"), "ERROR", ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit, _ := ClassifyError(tt.err)
			if code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, code)
			}
			if exit != tt.exit {
				t.Errorf("Expected exit %d, got %d", tt.exit, exit)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != ExitSuccess {
		t.Errorf("Expected %d for nil, got %d", ExitSuccess, got)
	}
	if got := ExitCode(errors.New("x")); got != ExitError {
		t.Errorf("Expected %d for a plain error, got %d", ExitError, got)
	}
	wrapped := fmt.Errorf("outer: %w", NewCommandError(ExitConflict, errors.New("x")))
	if got := ExitCode(wrapped); got != ExitConflict {
		t.Errorf("Expected %d through wrapping, got %d", ExitConflict, got)
	}
}
