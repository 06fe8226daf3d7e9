package cli

import (
	"database/sql"
	"testing"
	"time"

	"github.com/thenoetrevino/plazo/internal/app"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/testutil"
	"github.com/thenoetrevino/plazo/internal/types"
)

// SetupCLITest creates an in-memory DB and returns both the DB and App instance.
// This lives apart from testutil so service tests can import testutil
// without pulling in the app container.
func SetupCLITest(t *testing.T) (*sql.DB, *app.App) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return db, app.New(db)
}

// SetupCLITestWithEvents is SetupCLITest with a recording event publisher
func SetupCLITestWithEvents(t *testing.T) (*sql.DB, *app.App, *testutil.RecordingPublisher) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	publisher := &testutil.RecordingPublisher{}
	return db, app.New(db, app.WithEventPublisher(publisher), app.WithMaxRetries(1)), publisher
}

// CreateTestProject wraps testutil.CreateTestProject for CLI tests
func CreateTestProject(t *testing.T, db *sql.DB, name string) types.ProjectID {
	t.Helper()
	return testutil.CreateTestProject(t, db, name)
}

// CreateTestTask wraps testutil.CreateTestTask for CLI tests
func CreateTestTask(t *testing.T, db *sql.DB, projectID types.ProjectID, title string, start time.Time, duration int) types.TaskID {
	t.Helper()
	return testutil.CreateTestTask(t, db, projectID, title, start, duration)
}

// CreateTestDependency wraps testutil.CreateTestDependency for CLI tests
func CreateTestDependency(t *testing.T, db *sql.DB, taskID, dependsOnID types.TaskID, depType models.DependencyType, lag int) types.DependencyID {
	t.Helper()
	return testutil.CreateTestDependency(t, db, taskID, dependsOnID, depType, lag)
}

// Day is a date in January 2024 (the 1st is a Monday)
func Day(d int) time.Time {
	return testutil.Day(d)
}
