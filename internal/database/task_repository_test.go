package database

import (
	"context"
	"errors"
	"testing"

	"github.com/thenoetrevino/plazo/internal/models"
)

func TestCreateAndGetTask(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	project := createTestProject(t, repo, "P")
	created := createTestTask(t, repo, project.ID, "Design", day(4), 3)

	got, err := repo.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("Failed to get task: %v", err)
	}
	if got.Title != "Design" || got.ProjectID != project.ID || got.Duration != 3 {
		t.Errorf("Unexpected task: %+v", got)
	}
	if !got.StartDate.Equal(day(4)) || !got.EndDate.Equal(day(8)) {
		t.Errorf("Dates did not round-trip: %s..%s", got.StartDate, got.EndDate)
	}
	if got.StartDate.Location() != day(1).Location() {
		t.Errorf("Expected UTC dates, got %s", got.StartDate.Location())
	}
	if got.IsLocked {
		t.Error("New task should not be locked")
	}
}

func TestCreateTaskRequiresProject(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.CreateTask(context.Background(), &models.Task{
		ProjectID: 42,
		Title:     "Orphan",
		StartDate: day(1),
		EndDate:   day(1),
		Duration:  1,
	})
	if err == nil {
		t.Fatal("Expected foreign key violation for unknown project")
	}
}

func TestGetTasksByProjectOrdersByStart(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	p1 := createTestProject(t, repo, "One")
	p2 := createTestProject(t, repo, "Two")
	createTestTask(t, repo, p1.ID, "Late", day(10), 1)
	createTestTask(t, repo, p1.ID, "Early", day(2), 1)
	createTestTask(t, repo, p2.ID, "Other", day(1), 1)

	tasks, err := repo.GetTasksByProject(context.Background(), p1.ID)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Early" || tasks[1].Title != "Late" {
		t.Errorf("Expected start-date order, got %s, %s", tasks[0].Title, tasks[1].Title)
	}
}

func TestUpdateSchedule(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	project := createTestProject(t, repo, "P")
	task := createTestTask(t, repo, project.ID, "T", day(1), 2)

	if err := repo.UpdateSchedule(ctx, task.ID, day(8), day(9)); err != nil {
		t.Fatalf("Failed to update schedule: %v", err)
	}

	got, _ := repo.GetTask(ctx, task.ID)
	if !got.StartDate.Equal(day(8)) || !got.EndDate.Equal(day(9)) {
		t.Errorf("Schedule not written: %s..%s", got.StartDate, got.EndDate)
	}
	if got.Duration != 2 {
		t.Errorf("UpdateSchedule must keep duration, got %d", got.Duration)
	}
}

func TestUpdateScheduleMissingTask(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	err := repo.UpdateSchedule(context.Background(), 404, day(1), day(1))
	if !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestUpdateTaskDatesAndTitle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	project := createTestProject(t, repo, "P")
	task := createTestTask(t, repo, project.ID, "T", day(1), 1)

	if err := repo.UpdateTaskDates(ctx, task.ID, day(2), day(5), 4); err != nil {
		t.Fatalf("Failed to update dates: %v", err)
	}
	if err := repo.UpdateTaskTitle(ctx, task.ID, "Renamed"); err != nil {
		t.Fatalf("Failed to update title: %v", err)
	}

	got, _ := repo.GetTask(ctx, task.ID)
	if got.Title != "Renamed" || got.Duration != 4 || !got.EndDate.Equal(day(5)) {
		t.Errorf("Unexpected task after update: %+v", got)
	}

	if err := repo.UpdateTaskTitle(ctx, 404, "x"); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestSetTaskLocked(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	project := createTestProject(t, repo, "P")
	task := createTestTask(t, repo, project.ID, "T", day(1), 1)

	if err := repo.SetTaskLocked(ctx, task.ID, true); err != nil {
		t.Fatalf("Failed to lock: %v", err)
	}
	got, _ := repo.GetTask(ctx, task.ID)
	if !got.IsLocked {
		t.Error("Task should be locked")
	}

	if err := repo.SetTaskLocked(ctx, task.ID, false); err != nil {
		t.Fatalf("Failed to unlock: %v", err)
	}
	got, _ = repo.GetTask(ctx, task.ID)
	if got.IsLocked {
		t.Error("Task should be unlocked")
	}
}

func TestDeleteTaskCascadesEdges(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	project := createTestProject(t, repo, "P")
	a := createTestTask(t, repo, project.ID, "A", day(1), 1)
	b := createTestTask(t, repo, project.ID, "B", day(2), 1)
	c := createTestTask(t, repo, project.ID, "C", day(3), 1)
	createTestDependency(t, repo, b.ID, a.ID, models.FinishToStart, 0)
	createTestDependency(t, repo, c.ID, b.ID, models.FinishToStart, 0)

	if err := repo.DeleteTask(ctx, b.ID); err != nil {
		t.Fatalf("Failed to delete task: %v", err)
	}

	deps, err := repo.GetDependenciesByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("Failed to list dependencies: %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("Expected edges of deleted task to cascade, got %d", len(deps))
	}

	if err := repo.DeleteTask(ctx, b.ID); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound on second delete, got %v", err)
	}
}

func TestGetTaskDetail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	project := createTestProject(t, repo, "Release")
	a := createTestTask(t, repo, project.ID, "A", day(1), 1)
	b := createTestTask(t, repo, project.ID, "B", day(2), 1)
	c := createTestTask(t, repo, project.ID, "C", day(3), 1)
	createTestDependency(t, repo, b.ID, a.ID, models.StartToStart, 2)
	createTestDependency(t, repo, c.ID, b.ID, models.FinishToStart, 0)

	detail, err := repo.GetTaskDetail(ctx, b.ID)
	if err != nil {
		t.Fatalf("Failed to get detail: %v", err)
	}
	if detail.ProjectName != "Release" {
		t.Errorf("Expected project name Release, got %q", detail.ProjectName)
	}
	if len(detail.Predecessors) != 1 || detail.Predecessors[0].Task.ID != a.ID {
		t.Fatalf("Expected A as predecessor, got %+v", detail.Predecessors)
	}
	if detail.Predecessors[0].Type != models.StartToStart || detail.Predecessors[0].LagDays != 2 {
		t.Errorf("Unexpected predecessor edge: %+v", detail.Predecessors[0])
	}
	if len(detail.Dependents) != 1 || detail.Dependents[0].Task.ID != c.ID {
		t.Errorf("Expected C as dependent, got %+v", detail.Dependents)
	}

	if _, err := repo.GetTaskDetail(ctx, 404); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}
