package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/thenoetrevino/plazo/internal/daemon"
	"github.com/thenoetrevino/plazo/internal/events"
	"github.com/thenoetrevino/plazo/internal/types"
)

// GetTestSocketPath returns a socket path inside a per-test temp directory
func GetTestSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "plazo-test.sock")
}

// SetupTestDaemon starts a notification hub on a temporary socket and waits
// until it accepts connections. Shutdown is registered with t.Cleanup.
func SetupTestDaemon(t *testing.T) (*daemon.Server, string) {
	t.Helper()

	socketPath := GetTestSocketPath(t)

	server, err := daemon.NewServer(socketPath)
	if err != nil {
		t.Fatalf("Failed to create test daemon: %v", err)
	}
	t.Cleanup(func() {
		if err := server.Shutdown(); err != nil {
			t.Logf("Warning: daemon shutdown error during cleanup: %v", err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		if err := server.Start(ctx); err != nil {
			t.Logf("Server error: %v", err)
		}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(socketPath); err == nil {
			return server, socketPath
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatal("Timeout waiting for daemon socket to be created")
	return nil, ""
}

// SetupTestClient connects an event client to socketPath.
// Cleanup is automatic via t.Cleanup().
func SetupTestClient(t *testing.T, socketPath string) *events.Client {
	t.Helper()

	client := events.NewClient(socketPath, events.WithDebounce(5*time.Millisecond))
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("Warning: client close error during cleanup: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Failed to connect test client: %v", err)
	}

	return client
}

// WaitForEvent waits for an event on a channel with timeout
func WaitForEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) events.Event {
	t.Helper()

	select {
	case event, ok := <-ch:
		if !ok {
			t.Fatal("Event channel closed unexpectedly")
		}
		return event
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for event after %v", timeout)
		return events.Event{}
	}
}

// WaitForCondition polls condition until it holds or timeout passes
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, description string) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Logf("Timeout waiting for condition: %s", description)
	return false
}

// RecordingPublisher is an in-process EventPublisher that keeps every event
// it is asked to send
type RecordingPublisher struct {
	mu   sync.Mutex
	sent []events.Event
	Err  error // returned from SendEvent when set
}

// SendEvent records the event, or returns Err when set
func (p *RecordingPublisher) SendEvent(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.sent = append(p.sent, event)
	return nil
}

// Events returns a copy of what has been sent so far
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.sent...)
}

// Last returns the most recent event, or false when none was sent
func (p *RecordingPublisher) Last() (events.Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sent) == 0 {
		return events.Event{}, false
	}
	return p.sent[len(p.sent)-1], true
}

func (p *RecordingPublisher) Connect(ctx context.Context) error { return nil }
func (p *RecordingPublisher) Listen(ctx context.Context) (<-chan events.Event, error) {
	return nil, nil
}
func (p *RecordingPublisher) Subscribe(projectID types.ProjectID) error { return nil }
func (p *RecordingPublisher) Close() error                              { return nil }

var _ events.EventPublisher = (*RecordingPublisher)(nil)
