package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clipkg "github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/testutil"
	"github.com/thenoetrevino/plazo/internal/testutil/cli"
	"github.com/thenoetrevino/plazo/internal/types"
)

func TestCheck(t *testing.T) {
	db, app := cli.SetupCLITest(t)
	projectID := cli.CreateTestProject(t, db, "Launch")
	a := cli.CreateTestTask(t, db, projectID, "A", cli.Day(1), 1)
	b := cli.CreateTestTask(t, db, projectID, "B", cli.Day(2), 1)
	c := cli.CreateTestTask(t, db, projectID, "C", cli.Day(3), 1)
	cli.CreateTestDependency(t, db, b, a, models.FinishToStart, 0)
	cli.CreateTestDependency(t, db, c, b, models.FinishToStart, 0)

	type checkResult struct {
		WouldCycle bool           `json:"would_cycle"`
		Path       []types.TaskID `json:"path"`
	}

	t.Run("edge that closes a cycle", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, app, CheckCmd(), []string{
			"--task", a.String(), "--depends-on", c.String(), "--json",
		})
		require.NoError(t, err)

		var result checkResult
		testutil.ParseJSON(t, output, &result)
		assert.True(t, result.WouldCycle)
		assert.Equal(t, []types.TaskID{c, b, a}, result.Path)
	})

	t.Run("acceptable edge", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, app, CheckCmd(), []string{
			"--task", c.String(), "--depends-on", a.String(), "--json",
		})
		require.NoError(t, err)

		var result checkResult
		testutil.ParseJSON(t, output, &result)
		assert.False(t, result.WouldCycle)
		assert.Empty(t, result.Path)
	})

	t.Run("human readable", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, app, CheckCmd(), []string{
			"--task", a.String(), "--depends-on", c.String(),
		})
		require.NoError(t, err)
		assert.Contains(t, output, "would create a cycle")
		assert.Contains(t, output, "3 → 2 → 1")
	})

	t.Run("self loop", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, app, CheckCmd(), []string{
			"--task", a.String(), "--depends-on", a.String(), "--quiet",
		})
		require.NoError(t, err)
		assert.Equal(t, "true\n", output)
	})

	_, err := cli.ExecuteCLICommand(t, app, CheckCmd(), []string{"--task", a.String(), "--depends-on", "999"})
	assert.Equal(t, clipkg.ExitNotFound, clipkg.ExitCode(err))
}
