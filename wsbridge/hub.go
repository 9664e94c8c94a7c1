// Package wsbridge mirrors engine writes to WebSocket clients and feeds
// client commands back into the engine.
//
// A Hub wraps the scene an Engine writes to. Every successful SetAttribute is
// recorded, and Flush broadcasts the writes collected since the previous
// Flush as one frame. Hosts call Flush once after each Tick. Clients send
// dynamo.Command values as JSON; they are queued with Engine.Inject and run at
// the start of the next tick.
package wsbridge

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/phanxgames/dynamo"
	"golang.org/x/sync/errgroup"
)

// Message types sent to clients.
const (
	TypeHello = "hello"
	TypeFrame = "frame"
)

var errHubClosed = errors.New("wsbridge: hub closed")

// Injector receives commands from clients. *dynamo.Engine implements it.
type Injector interface {
	Inject(cmd dynamo.Command)
}

// Write is one attribute write performed by the engine.
type Write struct {
	ID    string       `json:"id"`
	Field string       `json:"field"`
	Value dynamo.Value `json:"value"`
}

// EventMsg is the wire form of a dynamo.Event.
type EventMsg struct {
	Type      string `json:"type"`
	State     string `json:"state,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Animation string `json:"animation,omitempty"`
	Cycles    int    `json:"cycles,omitempty"`
}

// Message is the envelope for everything sent to a client.
type Message struct {
	Type    string     `json:"type"`
	Session string     `json:"session,omitempty"`
	Seq     uint64     `json:"seq,omitempty"`
	Writes  []Write    `json:"writes,omitempty"`
	Events  []EventMsg `json:"events,omitempty"`
}

// Options tunes a Hub.
type Options struct {
	// SendBuffer is the per-client queue length. Frames for a client whose
	// queue is full are dropped. Zero means 64.
	SendBuffer int
	// WriteTimeout bounds a single message write. Zero means 5s.
	WriteTimeout time.Duration
	// InsecureSkipVerify disables the Origin check on accept.
	InsecureSkipVerify bool
	Logger             *slog.Logger
}

type client struct {
	id   string
	send chan Message
}

// Hub is a dynamo.Graph that records writes for broadcast. It is also an
// EventSink and an http.Handler accepting WebSocket clients.
type Hub struct {
	dynamo.Graph

	opts     Options
	logger   *slog.Logger
	injector Injector

	mu      sync.Mutex
	writes  []Write
	events  []EventMsg
	seq     uint64
	clients map[string]*client

	done      chan struct{}
	closeOnce sync.Once
}

var (
	_ dynamo.Graph     = (*Hub)(nil)
	_ dynamo.EventSink = (*Hub)(nil)
	_ http.Handler     = (*Hub)(nil)
)

// NewHub wraps g.
func NewHub(g dynamo.Graph, opts Options) *Hub {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 64
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Graph:   g,
		opts:    opts,
		logger:  logger,
		clients: make(map[string]*client),
		done:    make(chan struct{}),
	}
}

// SetLogger replaces the hub's logger. Call it before serving clients.
func (h *Hub) SetLogger(l *slog.Logger) {
	h.logger = l
}

// SetInjector sets where client commands go. Commands received while no
// injector is set are dropped.
func (h *Hub) SetInjector(inj Injector) {
	h.mu.Lock()
	h.injector = inj
	h.mu.Unlock()
}

// SetAttribute writes through to the wrapped graph and records the write
// when it succeeds.
func (h *Hub) SetAttribute(id, field string, v dynamo.Value) error {
	if err := h.Graph.SetAttribute(id, field, v); err != nil {
		return err
	}
	h.mu.Lock()
	h.writes = append(h.writes, Write{ID: id, Field: field, Value: v.Clone()})
	h.mu.Unlock()
	return nil
}

// EmitEvent implements dynamo.EventSink. Events go out with the next frame.
func (h *Hub) EmitEvent(ev dynamo.Event) {
	h.mu.Lock()
	h.events = append(h.events, EventMsg{
		Type:      ev.Type.String(),
		State:     ev.State,
		From:      ev.From,
		To:        ev.To,
		Animation: ev.Animation,
		Cycles:    ev.Cycles,
	})
	h.mu.Unlock()
}

// Flush sends the writes and events recorded since the last Flush to every
// client as one frame and returns the frame's sequence number. Nothing is
// sent, and 0 is returned, when nothing was recorded.
func (h *Hub) Flush() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.writes) == 0 && len(h.events) == 0 {
		return 0
	}
	h.seq++
	msg := Message{Type: TypeFrame, Seq: h.seq, Writes: h.writes, Events: h.events}
	h.writes = nil
	h.events = nil
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("client queue full, frame dropped", "session", c.id, "seq", msg.Seq)
		}
	}
	return msg.Seq
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Connections accepted afterwards are closed
// immediately.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ServeHTTP accepts a WebSocket connection and serves it until the client
// disconnects, the request context ends, or the hub is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: h.opts.InsecureSkipVerify,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to accept", "err", err)
		return
	}

	c := &client{id: uuid.NewString(), send: make(chan Message, h.opts.SendBuffer)}
	c.send <- Message{Type: TypeHello, Session: c.id}
	h.add(c)
	defer h.remove(c)
	h.logger.DebugContext(ctx, "client connected", "session", c.id)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return h.readLoop(ctx, conn, c) })
	eg.Go(func() error { return h.writeLoop(ctx, conn, c) })
	err = eg.Wait()

	switch {
	case errors.Is(err, errHubClosed),
		websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway:
		h.logger.DebugContext(ctx, "client disconnected", "session", c.id)
	default:
		h.logger.WarnContext(ctx, "client connection ended", "session", c.id, "err", err)
		conn.Close(websocket.StatusInternalError, "")
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
}

func (h *Hub) readLoop(ctx context.Context, conn *websocket.Conn, c *client) error {
	for {
		var cmd dynamo.Command
		if err := wsjson.Read(ctx, conn, &cmd); err != nil {
			return err
		}
		if cmd.Op == "" {
			h.logger.WarnContext(ctx, "command without op ignored", "session", c.id)
			continue
		}
		h.mu.Lock()
		inj := h.injector
		h.mu.Unlock()
		if inj == nil {
			h.logger.WarnContext(ctx, "no injector, command dropped", "session", c.id, "cmd", cmd.String())
			continue
		}
		h.logger.DebugContext(ctx, "command received", "session", c.id, "cmd", cmd.String())
		inj.Inject(cmd)
	}
}

func (h *Hub) writeLoop(ctx context.Context, conn *websocket.Conn, c *client) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.done:
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return errHubClosed
		case msg := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, h.opts.WriteTimeout)
			err := wsjson.Write(wctx, conn, msg)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}
