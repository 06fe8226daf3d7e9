// Package daemon runs the notification hub: a Unix-socket server that
// relays schedule change events from the processes that make them to every
// process watching the affected project.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thenoetrevino/plazo/internal/events"
	"github.com/thenoetrevino/plazo/internal/types"
)

// subscriber is one connected client
type subscriber struct {
	conn      net.Conn
	send      chan events.Message
	closeOnce sync.Once

	mu        sync.Mutex // Protects projectID and lastPong
	projectID types.ProjectID
	lastPong  time.Time
}

func (c *subscriber) wants(e events.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return e.Matches(c.projectID)
}

// Server is the notification hub
type Server struct {
	socketPath string
	listener   net.Listener
	logger     *slog.Logger

	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}

	broadcast      chan events.Event
	sendBufferSize int
	pingInterval   time.Duration
	staleAfter     time.Duration

	metrics  *Metrics
	sequence atomic.Int64

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHeartbeat sets how often subscribers are pinged and how long a silent
// one is kept
func WithHeartbeat(ping, stale time.Duration) Option {
	return func(s *Server) {
		if ping > 0 {
			s.pingInterval = ping
		}
		if stale > 0 {
			s.staleAfter = stale
		}
	}
}

// NewServer creates the socket listener, replacing a stale socket file
func NewServer(socketPath string, opts ...Option) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	if err := os.Remove(socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		socketPath:     socketPath,
		listener:       listener,
		logger:         slog.Default(),
		subscribers:    make(map[*subscriber]struct{}),
		broadcast:      make(chan events.Event, 100),
		sendBufferSize: 16,
		pingInterval:   30 * time.Second,
		staleAfter:     90 * time.Second,
		metrics:        newMetrics(),
		ctx:            ctx,
		cancel:         cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Metrics exposes the hub counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start serves until ctx is cancelled or Shutdown is called
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("daemon listening", "socket_path", s.socketPath)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	acceptErr := make(chan error, 1)
	go func() { acceptErr <- s.acceptLoop(runCtx) }()
	go s.broadcastLoop(runCtx)
	go s.heartbeat(runCtx)

	var err error
	select {
	case <-runCtx.Done():
	case err = <-acceptErr:
		if err != nil {
			s.logger.Error("accept loop failed", "error", err)
		}
	}

	if shutdownErr := s.Shutdown(); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &subscriber{
			conn:     conn,
			send:     make(chan events.Message, s.sendBufferSize),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.subscribers[c] = struct{}{}
		count := len(s.subscribers)
		s.mu.Unlock()
		s.metrics.subscribers.Store(int32(count))

		s.logger.Debug("subscriber connected", "subscribers", count)

		go s.readFrom(c)
		go s.writeTo(c)
	}
}

// broadcastLoop stamps each event with a sequence number and fans it out
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-s.broadcast:
			event.SequenceID = s.sequence.Add(1)
			msg := events.Message{Version: events.ProtocolVersion, Type: "event", Event: &event}

			s.mu.RLock()
			for c := range s.subscribers {
				if c.wants(event) && !s.deliver(c, msg) {
					s.metrics.eventsDropped.Add(1)
					s.logger.Warn("subscriber queue full, event dropped", "sequence", event.SequenceID)
				}
			}
			s.mu.RUnlock()
		}
	}
}

// readFrom handles messages from one subscriber until it disconnects
func (s *Server) readFrom(c *subscriber) {
	defer s.remove(c)

	decoder := json.NewDecoder(c.conn)
	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			s.logger.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			s.metrics.eventsReceived.Add(1)
			if err := s.Broadcast(*msg.Event); err != nil {
				s.logger.Warn("event dropped", "error", err)
			}

		case "subscribe":
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.projectID = msg.Subscribe.ProjectID
				c.mu.Unlock()
				s.logger.Debug("subscriber filter changed", "project_id", int(msg.Subscribe.ProjectID))
			}

		case "pong":
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

func (s *Server) writeTo(c *subscriber) {
	encoder := json.NewEncoder(c.conn)
	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// heartbeat pings subscribers and drops the ones that stopped answering
func (s *Server) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	ping := events.Message{Version: events.ProtocolVersion, Type: "ping"}

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			var stale []*subscriber

			s.mu.RLock()
			for c := range s.subscribers {
				c.mu.Lock()
				silent := now.Sub(c.lastPong)
				c.mu.Unlock()

				if silent > s.staleAfter {
					stale = append(stale, c)
					continue
				}
				s.deliver(c, ping)
			}
			s.mu.RUnlock()

			// Removal takes the write lock, so it happens outside the read lock
			for _, c := range stale {
				s.logger.Info("removing stale subscriber")
				s.remove(c)
			}
		}
	}
}

// Broadcast queues an event for every matching subscriber without blocking
func (s *Server) Broadcast(event events.Event) error {
	select {
	case s.broadcast <- event:
		return nil
	default:
		return fmt.Errorf("broadcast channel full")
	}
}

// Shutdown closes the listener and every subscriber and removes the socket
// file. It is safe to call more than once.
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cancel()

		if closeErr := s.listener.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
			err = closeErr
		}

		s.mu.Lock()
		subs := make([]*subscriber, 0, len(s.subscribers))
		for c := range s.subscribers {
			subs = append(subs, c)
		}
		s.mu.Unlock()
		for _, c := range subs {
			s.remove(c)
		}

		if removeErr := os.Remove(s.socketPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			s.logger.Warn("failed to remove socket file", "error", removeErr)
		}

		snap := s.metrics.Snapshot()
		s.logger.Info("daemon stopped",
			"events_received", snap.EventsReceived,
			"events_sent", snap.EventsSent,
			"events_dropped", snap.EventsDropped,
			"uptime", snap.Uptime.Round(time.Second))
	})
	return err
}

// remove unregisters a subscriber and closes its connection
func (s *Server) remove(c *subscriber) {
	s.mu.Lock()
	_, ok := s.subscribers[c]
	delete(s.subscribers, c)
	count := len(s.subscribers)
	s.mu.Unlock()

	if !ok {
		return
	}

	_ = c.conn.Close()
	c.closeOnce.Do(func() { close(c.send) })
	s.metrics.subscribers.Store(int32(count))
	s.logger.Debug("subscriber disconnected", "subscribers", count)
}

// deliver queues a message for a subscriber without blocking
func (s *Server) deliver(c *subscriber, msg events.Message) bool {
	select {
	case c.send <- msg:
		if msg.Type == "event" {
			s.metrics.eventsSent.Add(1)
		}
		return true
	default:
		return false
	}
}
