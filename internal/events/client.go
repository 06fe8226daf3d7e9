package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/thenoetrevino/plazo/internal/types"
)

// Client is a connection to the plazo notification daemon. It publishes
// change events, batching bursts within a debounce window, and receives the
// events other processes publish.
type Client struct {
	socketPath string
	logger     *slog.Logger

	mu      sync.Mutex
	conn    net.Conn
	encoder *json.Encoder
	decoder *json.Decoder
	closed  bool

	// Batching
	queue       chan Event
	debounce    time.Duration
	batcherDone chan struct{}

	// Reconnection
	maxRetries int
	baseDelay  time.Duration

	subscription types.ProjectID
	lastSequence int64

	ctx    context.Context
	cancel context.CancelFunc
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithDebounce sets the batching window
func WithDebounce(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithReconnect sets the reconnection attempts and the first backoff delay
func WithReconnect(maxRetries int, baseDelay time.Duration) ClientOption {
	return func(c *Client) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		if baseDelay > 0 {
			c.baseDelay = baseDelay
		}
	}
}

// WithClientLogger sets the client logger
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the daemon listening on socketPath. It does
// not connect; events sent before Connect are dropped at flush time.
func NewClient(socketPath string, opts ...ClientOption) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		socketPath:  socketPath,
		logger:      slog.Default(),
		queue:       make(chan Event, 100),
		debounce:    100 * time.Millisecond,
		batcherDone: make(chan struct{}),
		maxRetries:  5,
		baseDelay:   time.Second,
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.runBatcher()
	return c
}

// Connect dials the daemon socket and sends the current subscription
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to dial daemon socket: %w", ClassifyDaemonError(err))
	}

	c.conn = conn
	c.encoder = json.NewEncoder(conn)
	c.decoder = json.NewDecoder(conn)

	msg := Message{
		Version:   ProtocolVersion,
		Type:      "subscribe",
		Subscribe: &SubscribeMessage{ProjectID: c.subscription},
	}
	if err := c.encoder.Encode(msg); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			c.logger.Debug("error closing connection", "error", closeErr)
		}
		c.conn = nil
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	return nil
}

// SendEvent queues an event without blocking
func (c *Client) SendEvent(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// runBatcher merges queued events and sends at most one per debounce tick.
// A batch touching several projects is sent as an all-projects event.
func (c *Client) runBatcher() {
	defer close(c.batcherDone)

	ticker := time.NewTicker(c.debounce)
	defer ticker.Stop()

	var pending *Event

	flush := func() {
		if pending == nil {
			return
		}
		msg := Message{Version: ProtocolVersion, Type: "event", Event: pending}
		if err := c.write(msg); err != nil && !isConnectionError(err) {
			c.logger.Debug("failed to send batched event", "error", err)
		}
		pending = nil
	}

	add := func(e Event) {
		if pending == nil {
			cp := e
			cp.TaskIDs = append([]types.TaskID(nil), e.TaskIDs...)
			pending = &cp
			return
		}
		pending.merge(e)
	}

	for {
		select {
		case <-c.ctx.Done():
			flush()
			return

		case event, ok := <-c.queue:
			if !ok {
				flush()
				return
			}
			add(event)

		case <-ticker.C:
			flush()
		}
	}
}

// write encodes one message on the socket
func (c *Client) write(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	// A short write deadline detects dead connections
	if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	return c.encoder.Encode(msg)
}

// Listen returns a channel of events from the daemon. The channel is closed
// when ctx is done or reconnection gives up.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	c.mu.Lock()
	connected := c.conn != nil
	c.mu.Unlock()
	if !connected {
		return nil, ErrNotConnected
	}

	out := make(chan Event, 10)
	go c.listenLoop(ctx, out)
	return out, nil
}

func (c *Client) listenLoop(ctx context.Context, out chan Event) {
	defer close(out)

	for {
		err := c.readEvents(ctx, out)
		if err == nil || ctx.Err() != nil || c.isClosed() {
			return
		}

		c.logger.Info("connection to daemon lost, reconnecting", "error", err)
		if !c.reconnect(ctx) {
			c.logger.Warn("failed to reconnect to daemon", "attempts", c.maxRetries)
			return
		}
	}
}

// readEvents decodes messages until the connection fails or ctx is done
func (c *Client) readEvents(ctx context.Context, out chan Event) error {
	for {
		c.mu.Lock()
		if c.conn == nil {
			c.mu.Unlock()
			return ErrNotConnected
		}
		// Pings arrive every 30s; a minute of silence means a hung daemon
		if err := c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
		decoder := c.decoder
		c.mu.Unlock()

		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			return fmt.Errorf("failed to decode message: %w", err)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil || msg.Event.SequenceID <= c.lastSequence {
				continue
			}
			c.lastSequence = msg.Event.SequenceID
			select {
			case out <- *msg.Event:
			case <-ctx.Done():
				return nil
			}

		case "ping":
			pong := Message{Version: ProtocolVersion, Type: "pong"}
			if err := c.write(pong); err != nil && !isConnectionError(err) {
				c.logger.Debug("failed to send pong", "error", err)
			}
		}
	}
}

// reconnect retries Connect with exponential backoff
func (c *Client) reconnect(ctx context.Context) bool {
	delay := c.baseDelay

	for i := 0; i < c.maxRetries; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
			c.conn = nil
		}
		c.mu.Unlock()

		if err := c.Connect(ctx); err == nil {
			c.logger.Info("reconnected to daemon", "attempt", i+1)
			return true
		} else if errors.Is(err, ErrClientClosed) {
			return false
		}
		delay *= 2
	}
	return false
}

// Subscribe changes the subscription to a specific project.
// ProjectID 0 means subscribe to all projects.
func (c *Client) Subscribe(projectID types.ProjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subscription = projectID
	if c.conn == nil {
		return ErrNotConnected
	}

	return c.encoder.Encode(Message{
		Version:   ProtocolVersion,
		Type:      "subscribe",
		Subscribe: &SubscribeMessage{ProjectID: projectID},
	})
}

// Close flushes pending events, closes the connection and stops all
// goroutines. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.queue)
	c.mu.Unlock()

	// The batcher drains the queue and flushes before exiting
	<-c.batcherDone
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// isConnectionError checks if an error is an expected disconnect
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, ErrNotConnected) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset")
}
