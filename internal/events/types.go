package events

import (
	"slices"
	"time"

	"github.com/thenoetrevino/plazo/internal/types"
)

// ProtocolVersion is stamped on every wire message
const ProtocolVersion = 1

// EventType indicates what kind of change occurred
type EventType string

const (
	// EventScheduleChanged: task dates moved, by an edit or by propagation
	EventScheduleChanged EventType = "schedule_changed"
	// EventDependencyChanged: an edge was added or removed
	EventDependencyChanged EventType = "dependency_changed"
	// EventTaskChanged: a task was created, renamed, locked or deleted
	EventTaskChanged EventType = "task_changed"
	// EventProjectChanged: a project was created, updated or deleted
	EventProjectChanged EventType = "project_changed"

	EventPing EventType = "ping"
	EventPong EventType = "pong"
)

// Event is a change notification for one project
type Event struct {
	Type       EventType       `json:"type"`
	ProjectID  types.ProjectID `json:"project_id"`            // 0 = all projects
	TaskIDs    []types.TaskID  `json:"task_ids,omitempty"`    // Tasks whose stored state changed
	Timestamp  time.Time       `json:"timestamp"`             // When the event occurred
	SequenceID int64           `json:"sequence_id,omitempty"` // Assigned by the daemon for ordering
}

// NewEvent builds an event stamped with the current time
func NewEvent(eventType EventType, projectID types.ProjectID, taskIDs ...types.TaskID) Event {
	return Event{
		Type:      eventType,
		ProjectID: projectID,
		TaskIDs:   taskIDs,
		Timestamp: time.Now(),
	}
}

// merge folds other into e, keeping task ids unique and sorted. A batch that
// spans several projects becomes an all-projects event.
func (e *Event) merge(other Event) {
	if e.ProjectID != other.ProjectID {
		e.ProjectID = 0
	}
	if e.Type != other.Type {
		e.Type = EventScheduleChanged
	}
	for _, id := range other.TaskIDs {
		if !slices.Contains(e.TaskIDs, id) {
			e.TaskIDs = append(e.TaskIDs, id)
		}
	}
	slices.Sort(e.TaskIDs)
	if other.Timestamp.After(e.Timestamp) {
		e.Timestamp = other.Timestamp
	}
}

// SubscribeMessage is sent by clients to subscribe to specific project updates
type SubscribeMessage struct {
	ProjectID types.ProjectID `json:"project_id"` // 0 = all projects, >0 = specific project
}

// Message wraps events and control messages for the wire protocol
type Message struct {
	Version   int               `json:"version"`
	Type      string            `json:"type"` // "event", "subscribe", "ping", "pong"
	Event     *Event            `json:"event,omitempty"`
	Subscribe *SubscribeMessage `json:"subscribe,omitempty"`
}

// Matches reports whether a subscriber to projectID should receive e
func (e Event) Matches(projectID types.ProjectID) bool {
	return e.ProjectID == 0 || projectID == 0 || e.ProjectID == projectID
}
