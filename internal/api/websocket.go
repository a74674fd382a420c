package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeTimeout   = 10 * time.Second
	sendBufferSize = 16
)

// EventBroadcaster fans command-execution events out to websocket
// subscribers. Slow subscribers are dropped rather than blocking the
// execution path.
type EventBroadcaster struct {
	logger   *logrus.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]chan ExecutionEvent
}

// NewEventBroadcaster creates an empty broadcaster.
func NewEventBroadcaster(logger *logrus.Logger) *EventBroadcaster {
	return &EventBroadcaster{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API binds to loopback; the hub UI is the only client.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[string]chan ExecutionEvent),
	}
}

// Broadcast queues an event for every connected subscriber.
func (b *EventBroadcaster) Broadcast(event ExecutionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, send := range b.conns {
		select {
		case send <- event:
		default:
			b.logger.WithField("connection_id", id).
				Warn("Dropping slow websocket subscriber")
			close(send)
			delete(b.conns, id)
		}
	}
}

// Subscribers returns the current connection count.
func (b *EventBroadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.conns)
}

// HandleWS handles GET /api/v1/events by upgrading to a websocket and
// streaming execution events until the client disconnects.
func (b *EventBroadcaster) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	id := uuid.NewString()
	send := make(chan ExecutionEvent, sendBufferSize)

	b.mu.Lock()
	b.conns[id] = send
	b.mu.Unlock()

	b.logger.WithField("connection_id", id).Debug("Websocket subscriber connected")

	go b.writeLoop(id, conn, send)
	b.readLoop(id, conn)
}

// writeLoop forwards queued events to one connection.
func (b *EventBroadcaster) writeLoop(id string, conn *websocket.Conn, send chan ExecutionEvent) {
	defer conn.Close()

	for event := range send {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(event); err != nil {
			b.logger.WithError(err).WithField("connection_id", id).
				Debug("Websocket write failed")
			b.remove(id)
			return
		}
	}
}

// readLoop consumes (and discards) client frames so pings and close
// messages are processed; it returns when the client disconnects.
func (b *EventBroadcaster) readLoop(id string, conn *websocket.Conn) {
	defer b.remove(id)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *EventBroadcaster) remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if send, ok := b.conns[id]; ok {
		close(send)
		delete(b.conns, id)
	}
}

// Close disconnects all subscribers.
func (b *EventBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, send := range b.conns {
		close(send)
		delete(b.conns, id)
	}
}
