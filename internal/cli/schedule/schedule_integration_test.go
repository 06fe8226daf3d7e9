package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clipkg "github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/testutil"
	"github.com/thenoetrevino/plazo/internal/testutil/cli"
	"github.com/thenoetrevino/plazo/internal/types"
)

func TestReport(t *testing.T) {
	db, app := cli.SetupCLITest(t)
	projectID := cli.CreateTestProject(t, db, "Launch")
	design := cli.CreateTestTask(t, db, projectID, "Design | UX", cli.Day(1), 3)
	build := cli.CreateTestTask(t, db, projectID, "Build", cli.Day(4), 4)
	cli.CreateTestDependency(t, db, build, design, models.FinishToStart, 0)

	t.Run("raw markdown", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, app, ReportCmd(), []string{"--project", projectID.String(), "--raw"})
		require.NoError(t, err)
		assert.Contains(t, output, "# Launch")
		assert.Contains(t, output, `| 1 | Design \| UX | 2024-01-01 | 2024-01-03 | 3 |  |`)
		assert.Contains(t, output, "| 2 | Build | 2024-01-04 | 2024-01-09 | 4 | #1 FS |")
		assert.Contains(t, output, "2024-01-01 → 2024-01-09 (7 working days)")
	})

	t.Run("JSON mode", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, app, ReportCmd(), []string{"--project", projectID.String(), "--json"})
		require.NoError(t, err)

		var result struct {
			Tasks        []clipkg.TaskView       `json:"tasks"`
			Dependencies []clipkg.DependencyView `json:"dependencies"`
			Start        string                  `json:"start"`
			End          string                  `json:"end"`
			WorkingDays  int                     `json:"working_days"`
		}
		testutil.ParseJSON(t, output, &result)
		assert.Len(t, result.Tasks, 2)
		assert.Len(t, result.Dependencies, 1)
		assert.Equal(t, "2024-01-09", result.End)
		assert.Equal(t, 7, result.WorkingDays)
	})

	t.Run("styled output", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, app, ReportCmd(), []string{"--project", projectID.String()})
		require.NoError(t, err)
		assert.Contains(t, output, "Launch")
		assert.Contains(t, output, "Build")
	})

	t.Run("empty project", func(t *testing.T) {
		empty := cli.CreateTestProject(t, db, "Empty")
		output, err := cli.ExecuteCLICommand(t, app, ReportCmd(), []string{"--project", empty.String(), "--raw"})
		require.NoError(t, err)
		assert.Contains(t, output, "No tasks yet")
	})

	_, err := cli.ExecuteCLICommand(t, app, ReportCmd(), []string{"--project", "999"})
	assert.Equal(t, clipkg.ExitNotFound, clipkg.ExitCode(err))
}

func TestPreview(t *testing.T) {
	db, app := cli.SetupCLITest(t)
	projectID := cli.CreateTestProject(t, db, "Launch")
	design := cli.CreateTestTask(t, db, projectID, "Design", cli.Day(1), 3)
	build := cli.CreateTestTask(t, db, projectID, "Build", cli.Day(1), 2)
	cli.CreateTestDependency(t, db, build, design, models.FinishToStart, 0)

	output, err := cli.ExecuteCLICommand(t, app, PreviewCmd(), []string{build.String(), "--json"})
	require.NoError(t, err)

	var result struct {
		Change clipkg.ChangeView `json:"change"`
		Moved  bool              `json:"moved"`
	}
	testutil.ParseJSON(t, output, &result)
	assert.True(t, result.Moved)
	assert.Equal(t, "2024-01-04", result.Change.NewStart)
	assert.Equal(t, "2024-01-05", result.Change.NewEnd)

	var start string
	require.NoError(t, db.QueryRowContext(context.Background(),
		"SELECT start_date FROM tasks WHERE id = ?", int(build)).Scan(&start))
	assert.Equal(t, "2024-01-01", start, "preview writes nothing")

	output, err = cli.ExecuteCLICommand(t, app, PreviewCmd(), []string{design.String()})
	require.NoError(t, err)
	assert.Contains(t, output, "already satisfies")
}

func TestPropagate(t *testing.T) {
	db, app := cli.SetupCLITest(t)
	projectID := cli.CreateTestProject(t, db, "Launch")
	a := cli.CreateTestTask(t, db, projectID, "A", cli.Day(1), 3)
	b := cli.CreateTestTask(t, db, projectID, "B", cli.Day(1), 2)
	c := cli.CreateTestTask(t, db, projectID, "C", cli.Day(1), 1)
	cli.CreateTestTask(t, db, projectID, "Standalone", cli.Day(2), 1)
	locked := cli.CreateTestTask(t, db, projectID, "Locked", cli.Day(1), 1)
	cli.CreateTestDependency(t, db, b, a, models.FinishToStart, 0)
	cli.CreateTestDependency(t, db, c, b, models.StartToStart, 1)
	cli.CreateTestDependency(t, db, locked, a, models.FinishToStart, 0)
	_, err := db.ExecContext(context.Background(), "UPDATE tasks SET is_locked = 1 WHERE id = ?", int(locked))
	require.NoError(t, err)

	output, err := cli.ExecuteCLICommand(t, app, PropagateCmd(), []string{"--project", projectID.String(), "--json"})
	require.NoError(t, err)

	var result struct {
		Success     bool                   `json:"success"`
		Propagation clipkg.PropagationView `json:"propagation"`
	}
	testutil.ParseJSON(t, output, &result)
	assert.True(t, result.Success)
	require.Len(t, result.Propagation.Updated, 2)
	assert.Equal(t, b, result.Propagation.Updated[0].TaskID)
	assert.Equal(t, "2024-01-04", result.Propagation.Updated[0].NewStart)
	assert.Equal(t, c, result.Propagation.Updated[1].TaskID)
	assert.Equal(t, "2024-01-05", result.Propagation.Updated[1].NewStart)
	assert.Equal(t, []types.TaskID{locked}, result.Propagation.Skipped)

	output, err = cli.ExecuteCLICommand(t, app, PropagateCmd(), []string{"--project", projectID.String()})
	require.NoError(t, err)
	assert.NotContains(t, output, "Rescheduled", "a second run changes nothing")
}

func TestPropagateFromLockedRoot(t *testing.T) {
	db, app := cli.SetupCLITest(t)
	projectID := cli.CreateTestProject(t, db, "Launch")
	a := cli.CreateTestTask(t, db, projectID, "A", cli.Day(1), 3)
	b := cli.CreateTestTask(t, db, projectID, "B", cli.Day(1), 1)
	cli.CreateTestDependency(t, db, b, a, models.FinishToStart, 0)
	_, err := db.ExecContext(context.Background(), "UPDATE tasks SET is_locked = 1 WHERE id = ?", int(a))
	require.NoError(t, err)

	output, err := cli.ExecuteCLICommand(t, app, PropagateCmd(), []string{"--project", projectID.String(), "--json"})
	require.NoError(t, err)

	var result struct {
		Propagation clipkg.PropagationView `json:"propagation"`
	}
	testutil.ParseJSON(t, output, &result)
	require.Len(t, result.Propagation.Updated, 1)
	assert.Equal(t, b, result.Propagation.Updated[0].TaskID)
	assert.Equal(t, "2024-01-04", result.Propagation.Updated[0].NewStart)
}

func TestRoots(t *testing.T) {
	tasks := []*models.Task{{ID: 1}, {ID: 2}, {ID: 3}}
	deps := []*models.Dependency{{TaskID: 2, DependsOnID: 1}}
	assert.Equal(t, []types.TaskID{1, 3}, roots(tasks, deps))
}
