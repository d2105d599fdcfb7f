package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) liveMsg {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg liveMsg
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return msg
}

func TestHubGreetsAndBroadcasts(t *testing.T) {
	hub := NewHub(nil)
	ts := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer ts.Close()

	conn := dialHub(t, ts)

	if msg := readMsg(t, conn); msg.Type != "hello" {
		t.Fatalf("greeting type = %q, want hello", msg.Type)
	}

	// Connection registration is async relative to the dial returning.
	waitForClients(t, hub, 1)

	hub.Broadcast(liveMsg{Type: "refresh", RunID: "r1", NewSamples: 7})

	msg := readMsg(t, conn)
	if msg.Type != "refresh" || msg.RunID != "r1" || msg.NewSamples != 7 {
		t.Errorf("msg = %+v", msg)
	}
}

func TestHubMultipleClients(t *testing.T) {
	hub := NewHub(nil)
	ts := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer ts.Close()

	c1 := dialHub(t, ts)
	c2 := dialHub(t, ts)
	readMsg(t, c1) // hello
	readMsg(t, c2) // hello

	waitForClients(t, hub, 2)

	hub.Broadcast(liveMsg{Type: "refresh", RunID: "r2"})

	for i, conn := range []*websocket.Conn{c1, c2} {
		if msg := readMsg(t, conn); msg.RunID != "r2" {
			t.Errorf("client %d got %+v", i, msg)
		}
	}
}

func TestHubClose(t *testing.T) {
	hub := NewHub(nil)
	ts := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer ts.Close()

	conn := dialHub(t, ts)
	readMsg(t, conn) // hello
	waitForClients(t, hub, 1)

	hub.Close()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("ClientCount after Close = %d, want 0", got)
	}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ClientCount = %d, want %d", hub.ClientCount(), want)
}
