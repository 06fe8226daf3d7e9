package daemon

import (
	"sync/atomic"
	"time"
)

// Metrics counts hub traffic. All fields are updated atomically.
type Metrics struct {
	eventsReceived atomic.Int64
	eventsSent     atomic.Int64
	eventsDropped  atomic.Int64
	subscribers    atomic.Int32
	startTime      time.Time
}

func newMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// Snapshot is a point-in-time copy of the metrics
type Snapshot struct {
	EventsReceived int64         `json:"events_received"`
	EventsSent     int64         `json:"events_sent"`
	EventsDropped  int64         `json:"events_dropped"`
	Subscribers    int32         `json:"subscribers"`
	Uptime         time.Duration `json:"uptime"`
}

// Snapshot returns the current counters
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		EventsReceived: m.eventsReceived.Load(),
		EventsSent:     m.eventsSent.Load(),
		EventsDropped:  m.eventsDropped.Load(),
		Subscribers:    m.subscribers.Load(),
		Uptime:         time.Since(m.startTime),
	}
}
