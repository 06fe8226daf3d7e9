package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/plan"
	dependencyservice "github.com/thenoetrevino/plazo/internal/services/dependency"
	projectservice "github.com/thenoetrevino/plazo/internal/services/project"
	taskservice "github.com/thenoetrevino/plazo/internal/services/task"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
}

// Success outputs successful operation result
func (f *OutputFormatter) Success(data any) error {
	if f.Quiet {
		// Extract ID if possible
		if idGetter, ok := data.(interface{ GetID() int }); ok {
			fmt.Printf("%d\n", idGetter.GetID())
			return nil
		}
	}

	if f.JSON {
		return f.JSONResult(map[string]any{"data": data})
	}

	// Human-readable format
	return f.prettyPrint(data)
}

// JSONResult writes fields as a successful JSON envelope
func (f *OutputFormatter) JSONResult(fields map[string]any) error {
	out := map[string]any{"success": true}
	for k, v := range fields {
		out[k] = v
	}
	return json.NewEncoder(os.Stdout).Encode(out)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	return f.writeError(code, message, suggestion, nil)
}

func (f *OutputFormatter) writeError(code, message, suggestion string, fields map[string]any) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		out := map[string]any{"success": false}
		for k, v := range fields {
			out[k] = v
		}
		out["error"] = errData
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	// Human-readable error
	fmt.Fprintf(os.Stderr, "❌ Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "💡 Suggestion: %s\n", suggestion)
	}
	return nil
}

// Fail reports err in the current output mode and returns it wrapped with
// the matching exit code
func (f *OutputFormatter) Fail(err error) error {
	return f.FailWithSuggestion(err, "")
}

// FailWithSuggestion is Fail with a hint for the user. When suggestion is
// empty a default one for the error class is used.
func (f *OutputFormatter) FailWithSuggestion(err error, suggestion string) error {
	return f.FailWithResult(err, nil, suggestion)
}

// FailWithResult is for commands that did part of their work before err.
// In JSON mode fields are written next to the error so nothing is lost.
func (f *OutputFormatter) FailWithResult(err error, fields map[string]any, suggestion string) error {
	code, exit, hint := ClassifyError(err)
	if suggestion == "" {
		suggestion = hint
	}
	if fmtErr := f.writeError(code, err.Error(), suggestion, fields); fmtErr != nil {
		return errors.Join(err, fmtErr)
	}
	return NewCommandError(exit, err)
}

// ClassifyError maps a domain error to an error code, an exit code and a
// default suggestion
func ClassifyError(err error) (code string, exit int, suggestion string) {
	var cmdErr *CommandError
	var verr *plan.ValidationError

	switch {
	case errors.As(err, &cmdErr):
		return "USAGE_ERROR", cmdErr.Code, ""
	case errors.Is(err, models.ErrTaskNotFound):
		return "TASK_NOT_FOUND", ExitNotFound, "Use 'plazo task list' to see available tasks"
	case errors.Is(err, models.ErrProjectNotFound):
		return "PROJECT_NOT_FOUND", ExitNotFound, "Use 'plazo project list' to see available projects"
	case errors.Is(err, models.ErrDependencyNotFound):
		return "DEPENDENCY_NOT_FOUND", ExitNotFound, "Use 'plazo dep list' to see a task's dependencies"
	case errors.Is(err, models.ErrCycleDetected):
		return "CYCLE_DETECTED", ExitConflict, "Use 'plazo graph check' to see the path that would close the cycle"
	case errors.Is(err, models.ErrDuplicateDependency):
		return "DUPLICATE_DEPENDENCY", ExitConflict, ""
	case errors.Is(err, models.ErrCrossProjectDependency):
		return "CROSS_PROJECT_DEPENDENCY", ExitConflict, "Dependencies can only link tasks of the same project"
	case errors.Is(err, models.ErrPropagationIncomplete):
		return "PROPAGATION_INCOMPLETE", ExitPartial, "Run 'plazo task reschedule' on the affected task to finish propagation"
	case errors.As(err, &verr):
		return "INVALID_PLAN", ExitValidation, ""
	case errors.Is(err, plan.ErrMalformedPlan):
		return "MALFORMED_PLAN", ExitDataErr, "Check the file against 'plazo plan export' output"
	case errors.Is(err, plan.ErrUnsupportedFormat):
		return "USAGE_ERROR", ExitUsage, "Use a .yaml, .yml, .json, .toml or .hcl file"
	case isValidationError(err):
		return "VALIDATION_ERROR", ExitValidation, ""
	case errors.Is(err, models.ErrStoreWriteConflict):
		return "STORE_CONFLICT", ExitError, "Another process is writing; try again"
	}
	return "ERROR", ExitError, ""
}

var validationErrors = []error{
	taskservice.ErrEmptyTitle,
	taskservice.ErrTitleTooLong,
	taskservice.ErrInvalidTaskID,
	taskservice.ErrInvalidProjectID,
	taskservice.ErrMissingStartDate,
	taskservice.ErrInvalidDuration,
	taskservice.ErrInvalidDateRange,
	dependencyservice.ErrInvalidTaskID,
	dependencyservice.ErrInvalidDependencyID,
	dependencyservice.ErrInvalidProjectID,
	dependencyservice.ErrInvalidType,
	dependencyservice.ErrLagOutOfRange,
	projectservice.ErrEmptyName,
	projectservice.ErrNameTooLong,
	projectservice.ErrInvalidProjectID,
	ErrInvalidDate,
	models.ErrDateOutOfRange,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// prettyPrint formats data for human-readable output
func (f *OutputFormatter) prettyPrint(data any) error {
	if s, ok := data.(fmt.Stringer); ok {
		fmt.Println(s.String())
		return nil
	}
	fmt.Printf("%+v\n", data)
	return nil
}
