package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
	"github.com/thenoetrevino/plazo/internal/workday"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database and runs migrations
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// setupTestDBFile creates a file-based database for testing persistence across restarts
func setupTestDBFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "plazo-test.db")
	db, err := InitDB(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return db, path
}

// ============================================================================
// DATA CREATION HELPERS
// ============================================================================

// 2024-01-01 is a Monday
func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func createTestProject(t *testing.T, repo *Repository, name string) *models.Project {
	t.Helper()
	project, err := repo.CreateProject(context.Background(), name, "")
	if err != nil {
		t.Fatalf("Failed to create project %q: %v", name, err)
	}
	return project
}

func createTestTask(t *testing.T, repo *Repository, projectID types.ProjectID, title string, start time.Time, duration int) *models.Task {
	t.Helper()
	task, err := repo.CreateTask(context.Background(), &models.Task{
		ProjectID: projectID,
		Title:     title,
		StartDate: start,
		EndDate:   workday.EndDate(start, duration),
		Duration:  duration,
	})
	if err != nil {
		t.Fatalf("Failed to create task %q: %v", title, err)
	}
	return task
}

func createTestDependency(t *testing.T, repo *Repository, taskID, dependsOnID types.TaskID, depType models.DependencyType, lag int) *models.Dependency {
	t.Helper()
	dep, err := repo.CreateDependency(context.Background(), &models.Dependency{
		TaskID:      taskID,
		DependsOnID: dependsOnID,
		Type:        depType,
		LagDays:     lag,
	})
	if err != nil {
		t.Fatalf("Failed to create dependency %d -> %d: %v", taskID, dependsOnID, err)
	}
	return dep
}
