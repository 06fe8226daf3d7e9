package project

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thenoetrevino/plazo/internal/database"
	"github.com/thenoetrevino/plazo/internal/events"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/testutil"
)

func setup(t *testing.T) (Service, *testutil.RecordingPublisher, *database.Repository) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	publisher := &testutil.RecordingPublisher{}
	return NewService(repo, events.NewNotifier(publisher, 1)), publisher, repo
}

func TestCreateProject(t *testing.T) {
	svc, publisher, _ := setup(t)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "  Website  ", Description: " relaunch "})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if project.Name != "Website" || project.Description != "relaunch" {
		t.Errorf("Expected trimmed fields, got %+v", project)
	}

	last, ok := publisher.Last()
	if !ok || last.Type != events.EventProjectChanged || last.ProjectID != project.ID {
		t.Errorf("Expected a project_changed notification, got %+v", last)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	svc, _, _ := setup(t)

	tests := []struct {
		name    string
		req     CreateProjectRequest
		wantErr error
	}{
		{"empty name", CreateProjectRequest{Name: ""}, ErrEmptyName},
		{"whitespace name", CreateProjectRequest{Name: "   "}, ErrEmptyName},
		{"name too long", CreateProjectRequest{Name: strings.Repeat("p", maxNameLength+1)}, ErrNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateProject(context.Background(), tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestListAndGetProject(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	first, _ := svc.CreateProject(ctx, CreateProjectRequest{Name: "One"})
	if _, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Two"}); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	projects, err := svc.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("Expected 2 projects, got %d", len(projects))
	}

	got, err := svc.GetProject(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.Name != "One" {
		t.Errorf("Expected One, got %q", got.Name)
	}

	if _, err := svc.GetProject(ctx, 999); !errors.Is(err, models.ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got %v", err)
	}
	if _, err := svc.GetProject(ctx, 0); !errors.Is(err, ErrInvalidProjectID) {
		t.Errorf("Expected ErrInvalidProjectID, got %v", err)
	}
}

func TestUpdateProject(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	project, _ := svc.CreateProject(ctx, CreateProjectRequest{Name: "Old", Description: "keep"})

	name := "New"
	if err := svc.UpdateProject(ctx, UpdateProjectRequest{ID: project.ID, Name: &name}); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}

	got, _ := svc.GetProject(ctx, project.ID)
	if got.Name != "New" || got.Description != "keep" {
		t.Errorf("Expected only the name to change, got %+v", got)
	}

	empty := ""
	if err := svc.UpdateProject(ctx, UpdateProjectRequest{ID: project.ID, Name: &empty}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Expected ErrEmptyName, got %v", err)
	}
	if err := svc.UpdateProject(ctx, UpdateProjectRequest{ID: 999, Name: &name}); !errors.Is(err, models.ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got %v", err)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	svc, _, repo := setup(t)
	ctx := context.Background()

	project, _ := svc.CreateProject(ctx, CreateProjectRequest{Name: "Doomed"})
	task, err := repo.CreateTask(ctx, &models.Task{
		ProjectID: project.ID,
		Title:     "t",
		StartDate: testutil.Day(1),
		EndDate:   testutil.Day(1),
		Duration:  1,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	count, err := svc.GetTaskCount(ctx, project.ID)
	if err != nil || count != 1 {
		t.Fatalf("Expected 1 task, got %d (%v)", count, err)
	}

	if err := svc.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if _, err := repo.GetTask(ctx, task.ID); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected tasks to be removed with the project, got %v", err)
	}
	if err := svc.DeleteProject(ctx, project.ID); !errors.Is(err, models.ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound on second delete, got %v", err)
	}
	if _, err := svc.GetTaskCount(ctx, project.ID); !errors.Is(err, models.ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound for task count, got %v", err)
	}
}
