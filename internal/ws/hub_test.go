package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/streamsider/streamsider/internal/kick"
	wsHub "github.com/streamsider/streamsider/internal/ws"
)

// --- helpers ----------------------------------------------------------------

// startHub starts a test HTTP server with the hub as its handler.
// Returns the ws:// URL and the hub.
func startHub(t *testing.T, onConnect func() (wsHub.Message, bool)) (string, *wsHub.Hub) {
	t.Helper()

	hub := wsHub.New(onConnect)
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub
}

// dial connects a WebSocket client to wsURL and returns the connection.
func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readMessage reads one text message from conn with a short deadline.
func readMessage(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	return msg
}

func waitForClients(t *testing.T, hub *wsHub.Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Count: got %d, want %d", hub.Count(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesLastSnapshot(t *testing.T) {
	snapshot := []kick.Streamer{{Username: "alice", IsLive: true, Viewers: 7}}
	wsURL, _ := startHub(t, func() (wsHub.Message, bool) {
		return wsHub.Message{Event: "streamers", Data: snapshot}, true
	})

	conn := dial(t, wsURL)
	msg := readMessage(t, conn)

	var m struct {
		Event string          `json:"event"`
		Data  []kick.Streamer `json:"data"`
	}
	if err := json.Unmarshal(msg, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Event != "streamers" {
		t.Errorf("event: got %q, want streamers", m.Event)
	}
	if len(m.Data) != 1 || m.Data[0].Username != "alice" {
		t.Errorf("data: got %+v", m.Data)
	}
}

func TestHub_Connect_NoGreetingWhenAbsent(t *testing.T) {
	wsURL, hub := startHub(t, func() (wsHub.Message, bool) {
		return wsHub.Message{}, false
	})

	conn := dial(t, wsURL)
	waitForClients(t, hub, 1)

	hub.Broadcast("streamers", []kick.Streamer{{Username: "bob"}})

	// The first message must be the broadcast, not an empty greeting.
	msg := readMessage(t, conn)
	var m struct {
		Event string `json:"event"`
	}
	json.Unmarshal(msg, &m) //nolint:errcheck
	if m.Event != "streamers" {
		t.Errorf("event: got %q, want streamers", m.Event)
	}
}

func TestHub_Broadcast_ReachesAllClients(t *testing.T) {
	wsURL, hub := startHub(t, nil)

	c1 := dial(t, wsURL)
	c2 := dial(t, wsURL)
	waitForClients(t, hub, 2)

	hub.Broadcast("theme", map[string]string{"theme": "twitch"})

	for _, conn := range []*websocket.Conn{c1, c2} {
		msg := readMessage(t, conn)
		var m struct {
			Event string            `json:"event"`
			Data  map[string]string `json:"data"`
		}
		if err := json.Unmarshal(msg, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if m.Event != "theme" || m.Data["theme"] != "twitch" {
			t.Errorf("got event=%q data=%v", m.Event, m.Data)
		}
	}
}

func TestHub_Count_TracksDisconnects(t *testing.T) {
	wsURL, hub := startHub(t, nil)

	conn := dial(t, wsURL)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_Broadcast_NoClientsIsNoOp(t *testing.T) {
	_, hub := startHub(t, nil)
	// Must not panic or block.
	hub.Broadcast("streamers", []kick.Streamer{})
}
