package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/thenoetrevino/plazo/internal/database"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
	"github.com/thenoetrevino/plazo/internal/workday"
)

// ContextKey is the type for context keys used in testing
type ContextKey string

// TestAppKey is the context key used to inject a test App instance
const TestAppKey ContextKey = "test_app"

// SetupTestDB opens an in-memory database with the production schema.
// The pool is pinned to one connection so every query sees the same memory
// database; it is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// Day returns the given day of January 2024 at UTC midnight.
// January 1st 2024 is a Monday, which keeps weekday arithmetic easy to read.
func Day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

// CreateTestProject creates a project and returns its ID
func CreateTestProject(t *testing.T, db *sql.DB, name string) types.ProjectID {
	t.Helper()

	project, err := database.NewRepository(db).CreateProject(context.Background(), name, "")
	if err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return project.ID
}

// CreateTestTask creates an unlocked task starting on start and spanning
// duration working days, and returns its ID
func CreateTestTask(t *testing.T, db *sql.DB, projectID types.ProjectID, title string, start time.Time, duration int) types.TaskID {
	t.Helper()

	task, err := database.NewRepository(db).CreateTask(context.Background(), &models.Task{
		ProjectID: projectID,
		Title:     title,
		StartDate: start,
		EndDate:   workday.EndDate(start, duration),
		Duration:  duration,
	})
	if err != nil {
		t.Fatalf("Failed to create test task: %v", err)
	}
	return task.ID
}

// CreateTestDependency links taskID to dependsOnID without running
// validation or propagation, and returns the edge ID
func CreateTestDependency(t *testing.T, db *sql.DB, taskID, dependsOnID types.TaskID, depType models.DependencyType, lag int) types.DependencyID {
	t.Helper()

	dep, err := database.NewRepository(db).CreateDependency(context.Background(), &models.Dependency{
		TaskID:      taskID,
		DependsOnID: dependsOnID,
		Type:        depType,
		LagDays:     lag,
	})
	if err != nil {
		t.Fatalf("Failed to create test dependency: %v", err)
	}
	return dep.ID
}

// LockTestTask marks a task as locked
func LockTestTask(t *testing.T, db *sql.DB, id types.TaskID) {
	t.Helper()

	if err := database.NewRepository(db).SetTaskLocked(context.Background(), id, true); err != nil {
		t.Fatalf("Failed to lock test task: %v", err)
	}
}

// GetTestTask reloads a task straight from the store
func GetTestTask(t *testing.T, db *sql.DB, id types.TaskID) *models.Task {
	t.Helper()

	task, err := database.NewRepository(db).GetTask(context.Background(), id)
	if err != nil {
		t.Fatalf("Failed to load task %d: %v", id, err)
	}
	return task
}

// AssertTaskDates fails the test when the stored dates differ from the expected ones
func AssertTaskDates(t *testing.T, db *sql.DB, id types.TaskID, start, end time.Time) {
	t.Helper()

	task := GetTestTask(t, db, id)
	if !task.StartDate.Equal(start) || !task.EndDate.Equal(end) {
		t.Errorf("task %d: expected %s..%s, got %s..%s", id,
			start.Format(models.DateLayout), end.Format(models.DateLayout),
			task.StartDate.Format(models.DateLayout), task.EndDate.Format(models.DateLayout))
	}
}
