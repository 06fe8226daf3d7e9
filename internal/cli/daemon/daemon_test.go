package daemon

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clipkg "github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/events"
	"github.com/thenoetrevino/plazo/internal/testutil"
	"github.com/thenoetrevino/plazo/internal/types"
)

func TestDaemonRelaysEvents(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "hub.sock")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	cmd := DaemonCmd()
	cmd.SetArgs([]string{"--socket", socket})
	cmd.SetContext(ctx)
	go func() { done <- cmd.Execute() }()

	require.True(t, testutil.WaitForCondition(t, func() bool {
		_, err := os.Stat(socket)
		return err == nil
	}, 2*time.Second, "daemon socket"))

	listener := testutil.SetupTestClient(t, socket)
	require.NoError(t, listener.Subscribe(1))
	ch, err := listener.Listen(ctx)
	require.NoError(t, err)

	publisher := testutil.SetupTestClient(t, socket)
	// let the subscription land before publishing
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, publisher.SendEvent(events.NewEvent(events.EventScheduleChanged, 1, 4, 5)))

	event := testutil.WaitForEvent(t, ch, 2*time.Second)
	assert.Equal(t, events.EventScheduleChanged, event.Type)
	assert.Equal(t, []types.TaskID{4, 5}, event.TaskIDs)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop after cancellation")
	}
}

func TestWatchWithoutDaemon(t *testing.T) {
	cmd := WatchCmd()
	cmd.SetContext(context.Background())
	_, err := testutil.ExecuteCommand(t, cmd, "--socket", filepath.Join(t.TempDir(), "missing.sock"), "--json")
	require.Error(t, err)
	assert.Equal(t, clipkg.ExitError, clipkg.ExitCode(err))
}

func TestPrintEvents(t *testing.T) {
	ch := make(chan events.Event, 2)
	ch <- events.Event{Type: events.EventScheduleChanged, ProjectID: 2, TaskIDs: []types.TaskID{7, 9}, Timestamp: time.Now()}
	ch <- events.Event{Type: events.EventProjectChanged, Timestamp: time.Now()}
	close(ch)

	var human bytes.Buffer
	require.NoError(t, printEvents(context.Background(), &human, ch, false))
	lines := strings.Split(strings.TrimSpace(human.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "schedule_changed project 2 tasks 7, 9")
	assert.Contains(t, lines[1], "project_changed all projects")

	jsonCh := make(chan events.Event, 1)
	jsonCh <- events.NewEvent(events.EventTaskChanged, 3, 1)
	close(jsonCh)

	var out bytes.Buffer
	require.NoError(t, printEvents(context.Background(), &out, jsonCh, true))
	var decoded events.Event
	testutil.ParseJSON(t, out.String(), &decoded)
	assert.Equal(t, types.ProjectID(3), decoded.ProjectID)
}

func TestPrintEventsStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	assert.NoError(t, printEvents(ctx, &out, make(chan events.Event), false))
	assert.Empty(t, out.String())
}
