package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"ir-hub-bridge/internal/logging"
)

func dialBroadcaster(t *testing.T, events *EventBroadcaster) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(events.HandleWS))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	return conn
}

func waitForSubscribers(t *testing.T, events *EventBroadcaster, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if events.Subscribers() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d subscribers, got %d", want, events.Subscribers())
}

func TestBroadcastReachesSubscriber(t *testing.T) {
	events := NewEventBroadcaster(logging.NewTestLogger())
	defer events.Close()

	conn := dialBroadcaster(t, events)
	defer conn.Close()

	waitForSubscribers(t, events, 1)

	events.Broadcast(ExecutionEvent{
		Type:       EventTypeExecution,
		DeviceID:   "kitchen_tv",
		Key:        "POWER",
		Success:    true,
		ExecutedAt: time.Now().UTC(),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got ExecutionEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("failed to read event: %v", err)
	}

	if got.DeviceID != "kitchen_tv" || got.Key != "POWER" || !got.Success {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestSubscriberRemovedOnDisconnect(t *testing.T) {
	events := NewEventBroadcaster(logging.NewTestLogger())
	defer events.Close()

	conn := dialBroadcaster(t, events)

	waitForSubscribers(t, events, 1)

	conn.Close()
	waitForSubscribers(t, events, 0)
}

func TestBroadcastWithNoSubscribers(t *testing.T) {
	events := NewEventBroadcaster(logging.NewTestLogger())
	defer events.Close()

	// Must not block or panic
	events.Broadcast(ExecutionEvent{Type: EventTypeExecution, DeviceID: "kitchen_tv", Key: "POWER"})

	if events.Subscribers() != 0 {
		t.Errorf("expected 0 subscribers, got %d", events.Subscribers())
	}
}
