package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/config"
	"github.com/thenoetrevino/plazo/internal/testutil"
)

// isolate points every path the root command touches into a temp dir
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(config.EnvConfigFile, filepath.Join(dir, "config.yaml"))
	t.Setenv(config.EnvNoEvents, "true")
	t.Setenv(config.EnvDBPath, "")
	t.Setenv(cli.EnvProject, "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root, cleanup := NewRootCmd()
	defer cleanup()
	return testutil.ExecuteCommand(t, root, args...)
}

func TestRootRegistersCommands(t *testing.T) {
	root, cleanup := NewRootCmd()
	defer cleanup()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"project", "task", "dep", "schedule", "graph", "plan", "use", "config", "daemon", "watch"} {
		assert.Contains(t, names, want)
	}
}

func TestRootEndToEnd(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "plazo.db")

	out, err := run(t, "--db", db, "project", "create", "--name", "Launch", "--quiet")
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(out))

	_, err = run(t, "--db", db, "task", "create", "--project", "1", "--title", "Design", "--start", "2024-01-01", "--duration", "3", "--quiet")
	require.NoError(t, err)
	_, err = run(t, "--db", db, "task", "create", "--project", "1", "--title", "Build", "--start", "2024-01-02", "--duration", "2", "--quiet")
	require.NoError(t, err)

	_, err = run(t, "--db", db, "dep", "add", "--task", "2", "--depends-on", "1", "--json")
	require.NoError(t, err)

	out, err = run(t, "--db", db, "task", "show", "2", "--json")
	require.NoError(t, err)
	var shown struct {
		Task cli.TaskView `json:"task"`
	}
	testutil.ParseJSON(t, out, &shown)
	assert.Equal(t, "2024-01-04", shown.Task.Start)
	assert.Equal(t, "2024-01-05", shown.Task.End)

	assert.FileExists(t, db)
	assert.FileExists(t, filepath.Join(dir, ".plazo", "logs", "plazo.log"))
}

func TestRootDBFlagOverridesEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv(config.EnvDBPath, filepath.Join(dir, "from-env.db"))
	flagDB := filepath.Join(dir, "from-flag.db")

	_, err := run(t, "--db", flagDB, "project", "create", "--name", "X", "--quiet")
	require.NoError(t, err)

	assert.FileExists(t, flagDB)
	assert.NoFileExists(t, filepath.Join(dir, "from-env.db"))
}

func TestRootFlagErrorIsUsage(t *testing.T) {
	isolate(t)

	_, err := run(t, "project", "list", "--no-such-flag")
	require.Error(t, err)

	var usageErr *usageError
	require.True(t, errors.As(err, &usageErr))
	assert.Contains(t, usageErr.usage, "Usage:")
}

func TestRootBadConfig(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvLogLevel, "loud")

	_, err := run(t, "project", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
	assert.Equal(t, cli.ExitError, cli.ExitCode(err))
}
