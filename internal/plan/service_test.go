package plan

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/thenoetrevino/plazo/internal/database"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/schedule"
	"github.com/thenoetrevino/plazo/internal/services/dependency"
	"github.com/thenoetrevino/plazo/internal/services/project"
	"github.com/thenoetrevino/plazo/internal/services/task"
	"github.com/thenoetrevino/plazo/internal/testutil"
)

var day = testutil.Day

type fixture struct {
	db       *sql.DB
	projects project.Service
	tasks    task.Service
	deps     dependency.Service
	svc      Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	engine := schedule.NewEngine(repo)

	f := &fixture{
		db:       db,
		projects: project.NewService(repo, nil),
		tasks:    task.NewService(repo, engine, nil),
		deps:     dependency.NewService(repo, engine, nil, nil),
	}
	f.svc = NewService(f.projects, f.tasks, f.deps, nil)
	return f
}

// failingTasks rejects one task title to force a mid-import failure
type failingTasks struct {
	task.Service
	title string
}

func (f *failingTasks) CreateTask(ctx context.Context, req task.CreateTaskRequest) (*models.Task, error) {
	if req.Title == f.title {
		return nil, models.ErrStoreWriteConflict
	}
	return f.Service.CreateTask(ctx, req)
}

func TestImportCreatesAndSchedules(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	result, err := f.svc.Import(ctx, launchPlan())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Project.Name != "Launch" || result.Project.Description != "Q1 launch" {
		t.Errorf("Unexpected project: %+v", result.Project)
	}
	if len(result.Tasks) != 3 || result.Dependencies != 3 {
		t.Fatalf("Expected 3 tasks and 3 edges, got %d and %d", len(result.Tasks), result.Dependencies)
	}

	// design Mon 1 - Wed 3, build Thu 4 - Tue 9 already satisfies FS
	testutil.AssertTaskDates(t, f.db, result.Tasks["design"], day(1), day(3))
	testutil.AssertTaskDates(t, f.db, result.Tasks["build"], day(4), day(9))

	// docs is locked, so neither edge moves it
	docs := testutil.GetTestTask(t, f.db, result.Tasks["docs"])
	if !docs.IsLocked {
		t.Error("Expected docs to be locked")
	}
	testutil.AssertTaskDates(t, f.db, result.Tasks["docs"], day(4), day(5))

	if result.Rescheduled != 0 {
		t.Errorf("Expected no rescheduled tasks, got %d", result.Rescheduled)
	}
}

func TestImportPushesTasksBehindPredecessors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := &Plan{
		Project: "Release",
		Tasks: []TaskSpec{
			{Key: "a", Title: "A", Start: "2024-01-01", Duration: 3},
			{Key: "b", Title: "B", Start: "2024-01-01", Duration: 2, DependsOn: []EdgeSpec{{Task: "a"}}},
			{Key: "c", Title: "C", Start: "2024-01-01", DependsOn: []EdgeSpec{{Task: "b", Lag: 1}}},
		},
	}

	result, err := f.svc.Import(ctx, p)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	testutil.AssertTaskDates(t, f.db, result.Tasks["b"], day(4), day(5))
	testutil.AssertTaskDates(t, f.db, result.Tasks["c"], day(9), day(9))
	if result.Rescheduled != 2 {
		t.Errorf("Expected 2 rescheduled tasks, got %d", result.Rescheduled)
	}
}

func TestImportRejectsInvalidPlanBeforeWriting(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := launchPlan()
	p.Tasks[0].DependsOn = []EdgeSpec{{Task: "docs"}}

	_, err := f.svc.Import(ctx, p)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}

	projects, err := f.projects.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 0 {
		t.Errorf("Expected no project to be created, found %d", len(projects))
	}
}

func TestImportRollsBackOnFailure(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	svc := NewService(f.projects, &failingTasks{Service: f.tasks, title: "Docs"}, f.deps, nil)
	_, err := svc.Import(ctx, launchPlan())
	if !errors.Is(err, models.ErrStoreWriteConflict) {
		t.Fatalf("Expected the task failure to surface, got %v", err)
	}

	projects, err := f.projects.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 0 {
		t.Errorf("Expected the partial project to be removed, found %d", len(projects))
	}
}

func TestExportRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	projectID := testutil.CreateTestProject(t, f.db, "Launch")
	a := testutil.CreateTestTask(t, f.db, projectID, "Write Spec", day(1), 2)
	b := testutil.CreateTestTask(t, f.db, projectID, "Write spec!", day(3), 2)
	c := testutil.CreateTestTask(t, f.db, projectID, "Ship", day(8), 1)
	testutil.CreateTestDependency(t, f.db, b, a, models.FinishToStart, 0)
	testutil.CreateTestDependency(t, f.db, c, b, models.StartToStart, 3)
	testutil.LockTestTask(t, f.db, c)

	exported, err := f.svc.Export(ctx, projectID)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if len(exported.Tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(exported.Tasks))
	}
	keys := []string{exported.Tasks[0].Key, exported.Tasks[1].Key, exported.Tasks[2].Key}
	if keys[0] != "write-spec" || keys[1] == "write-spec" || keys[2] != "ship" {
		t.Errorf("Unexpected keys %v", keys)
	}
	edge := exported.Tasks[2].DependsOn
	if len(edge) != 1 || edge[0].Task != keys[1] || edge[0].Type != "ss" || edge[0].Lag != 3 {
		t.Errorf("Unexpected edges on ship: %+v", edge)
	}
	if !exported.Tasks[2].Locked {
		t.Error("Expected ship to stay locked")
	}

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(exported, format)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			parsed, err := Parse("export", data, format, day(1))
			if err != nil {
				t.Fatalf("Parse failed: %v\n%s", err, data)
			}

			result, err := f.svc.Import(ctx, parsed)
			if err != nil {
				t.Fatalf("Import failed: %v", err)
			}
			if result.Rescheduled != 0 {
				t.Errorf("Re-import moved %d tasks", result.Rescheduled)
			}
			testutil.AssertTaskDates(t, f.db, result.Tasks[keys[0]], day(1), day(2))
			testutil.AssertTaskDates(t, f.db, result.Tasks[keys[1]], day(3), day(4))
			testutil.AssertTaskDates(t, f.db, result.Tasks[keys[2]], day(8), day(8))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Write Spec":     "write-spec",
		"  API -- v2 ":   "api-v2",
		"Café launch":    "caf-launch",
		"!!!":            "task",
		"phase_1.deploy": "phase-1-deploy",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
