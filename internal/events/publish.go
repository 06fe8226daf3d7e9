package events

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/thenoetrevino/plazo/internal/types"
)

// retryBaseDelay is the first backoff step; it doubles on every attempt
var retryBaseDelay = 50 * time.Millisecond

// PublishWithRetry attempts to publish an event up to maxRetries times with
// exponential backoff and returns the error from the final attempt.
//
// Notifications are best effort: callers log the error and carry on, a
// schedule write never fails because nobody is listening. A nil publisher is
// a no-op.
func PublishWithRetry(ctx context.Context, client EventPublisher, event Event, maxRetries int) error {
	if isNil(client) {
		return nil
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := client.SendEvent(event)
		if err == nil {
			if attempt > 0 {
				slog.Debug("event published after retry",
					"attempt", attempt+1,
					"event_type", event.Type,
					"project_id", int(event.ProjectID))
			}
			return nil
		}

		lastErr = err

		if attempt < maxRetries-1 {
			delay := retryBaseDelay * (1 << attempt)
			slog.Debug("event publish failed, retrying",
				"attempt", attempt+1,
				"max_retries", maxRetries,
				"retry_delay", delay,
				"error", err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	slog.Warn("event publish failed after all retries",
		"attempts", maxRetries,
		"event_type", event.Type,
		"project_id", int(event.ProjectID),
		"error", lastErr)

	return lastErr
}

// isNil catches both a nil interface and a typed nil pointer inside one
func isNil(p EventPublisher) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Notifier is the publishing side services hold. A nil Notifier, or one
// without a publisher, drops every notification.
type Notifier struct {
	Publisher  EventPublisher
	MaxRetries int
}

// NewNotifier wraps a publisher with a retry budget
func NewNotifier(publisher EventPublisher, maxRetries int) *Notifier {
	return &Notifier{Publisher: publisher, MaxRetries: maxRetries}
}

// Notify publishes a change notification. Failures are logged by
// PublishWithRetry and otherwise ignored.
func (n *Notifier) Notify(ctx context.Context, eventType EventType, projectID types.ProjectID, taskIDs ...types.TaskID) {
	if n == nil || isNil(n.Publisher) {
		return
	}
	_ = PublishWithRetry(ctx, n.Publisher, NewEvent(eventType, projectID, taskIDs...), n.MaxRetries)
}
