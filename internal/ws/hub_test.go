package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d clients, got %d", want, h.ClientCount())
}

func TestHub_BroadcastReachesSubscriber(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	waitForClients(t, h, 1)

	at := time.Now()
	h.BroadcastLocation("drv-1", -17.336, -63.256, at)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var update LocationUpdate
	if err := json.Unmarshal(payload, &update); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if update.DriverID != "drv-1" {
		t.Errorf("expected driver drv-1, got %s", update.DriverID)
	}
	if update.Lat != -17.336 || update.Lng != -63.256 {
		t.Errorf("unexpected coordinates: %f, %f", update.Lat, update.Lng)
	}
}

func TestHub_DisconnectRemovesSubscriber(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	waitForClients(t, h, 1)

	_ = conn.Close()

	waitForClients(t, h, 0)
}

func TestHub_SlowClientIsDroppedNotBlockedOn(t *testing.T) {
	h := NewHub()

	// A subscriber with a full send buffer stands in for a peer that has
	// stopped draining its connection.
	slow := &client{send: make(chan []byte, 1)}
	h.clients[slow] = struct{}{}

	done := make(chan struct{})
	go func() {
		h.BroadcastLocation("drv-1", -17.336, -63.256, time.Now())
		h.BroadcastLocation("drv-1", -17.337, -63.257, time.Now())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}

	if got := h.ClientCount(); got != 0 {
		t.Fatalf("expected the slow client to be dropped, got %d clients", got)
	}

	// The first frame is still buffered; after it the channel must be closed.
	<-slow.send
	select {
	case _, ok := <-slow.send:
		if ok {
			t.Error("expected the send channel to be closed")
		}
	default:
		t.Error("expected the send channel to be closed")
	}
}

func TestHub_FastClientSurvivesSlowPeer(t *testing.T) {
	h := NewHub()

	fast := &client{send: make(chan []byte, sendBuffer)}
	slow := &client{send: make(chan []byte, 1)}
	h.clients[fast] = struct{}{}
	h.clients[slow] = struct{}{}

	h.BroadcastLocation("drv-1", -17.336, -63.256, time.Now())
	h.BroadcastLocation("drv-2", -17.337, -63.257, time.Now())

	if got := h.ClientCount(); got != 1 {
		t.Fatalf("expected only the fast client to remain, got %d", got)
	}
	if _, ok := h.clients[fast]; !ok {
		t.Error("expected the fast client to still be subscribed")
	}
	if len(fast.send) != 2 {
		t.Errorf("expected the fast client to hold both frames, got %d", len(fast.send))
	}
}
