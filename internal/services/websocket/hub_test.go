package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/punyarb62/dsde-cctv/internal/config"
	"github.com/punyarb62/dsde-cctv/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	t.Cleanup(l.Close)
	return l
}

func TestHub_BroadcastReachesViewer(t *testing.T) {
	hub := NewHubService(testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial hub: %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, 1)

	hub.BroadcastEvent(StatusEvent{
		Camera:    "907",
		Status:    "ok",
		Timestamp: time.Now(),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read broadcast: %v", err)
	}

	var ev StatusEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("failed to decode status event: %v", err)
	}
	if ev.Camera != "907" || ev.Status != "ok" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestHub_BroadcastWithoutViewersDoesNotBlock(t *testing.T) {
	hub := NewHubService(testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.BroadcastEvent(StatusEvent{Camera: "1", Status: "ok", Timestamp: time.Now()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("BroadcastEvent blocked with no viewers connected")
	}
}

func TestHub_UnregisterDropsViewer(t *testing.T) {
	hub := NewHubService(testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
		hub.Register(conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial hub: %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, 1)

	hub.Unregister(<-serverConns)
	waitForClients(t, hub, 0)
}

func waitForClients(t *testing.T, hub *HubService, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d client(s), have %d", want, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
