package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/pagenav/internal/outline"
	"github.com/ziadkadry99/pagenav/internal/visibility"
)

func setupServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	reg := outline.NewRegistry([]outline.Meta{{ID: "intro"}, {ID: "usage"}, {ID: "faq"}})
	lookup := func(slug string) (Source, bool) {
		if slug != "guide" {
			return nil, false
		}
		return reg, true
	}

	hub := NewHub(testOptions, nil, nil)
	r := chi.NewRouter()
	RegisterRoutes(r, hub, lookup)
	server := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return server, hub
}

func dial(t *testing.T, server *httptest.Server, slug string) (*websocket.Conn, Outbound) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + slug
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	hello := readOutbound(t, conn)
	if hello.Type != TypeHello {
		t.Fatalf("first message = %+v, want hello", hello)
	}
	return conn, hello
}

func readOutbound(t *testing.T, conn *websocket.Conn) Outbound {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Outbound
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func writeInbound(t *testing.T, conn *websocket.Conn, in Inbound) {
	t.Helper()
	if err := conn.WriteJSON(in); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWebSocketHello(t *testing.T) {
	server, hub := setupServer(t)
	_, hello := dial(t, server, "guide")

	if hello.SessionID == "" {
		t.Error("hello has no session id")
	}
	if hello.Document != "guide" {
		t.Errorf("Document = %q, want guide", hello.Document)
	}
	if len(hello.Thresholds) == 0 || hello.Thresholds[0] != visibility.DefaultMin {
		t.Errorf("Thresholds = %v", hello.Thresholds)
	}
	if _, ok := hub.Get(hello.SessionID); !ok {
		t.Error("session not registered with hub")
	}
}

func TestWebSocketUnknownDocument(t *testing.T) {
	server, _ := setupServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/missing"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail for unknown document")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v, want 404", resp)
	}
}

func TestWebSocketBatchAndClick(t *testing.T) {
	server, _ := setupServer(t)
	conn, _ := dial(t, server, "guide")

	writeInbound(t, conn, Inbound{Type: TypeBatch, Entries: []visibility.Entry{
		{ID: "intro", IsIntersecting: true, Ratio: 0.55},
	}})
	frame := readOutbound(t, conn)
	if frame.Type != TypeFrame || len(frame.Ops) != 3 {
		t.Fatalf("frame = %+v, want 3 ops", frame)
	}
	if frame.Ops[2].Op != OpScroll || frame.Ops[2].ID != "intro" {
		t.Errorf("last op = %+v, want scroll to intro", frame.Ops[2])
	}

	writeInbound(t, conn, Inbound{Type: TypeClick, Href: "#faq"})
	frame = readOutbound(t, conn)
	if len(frame.Ops) != 1 || frame.Ops[0].Op != OpScroll || frame.Ops[0].ID != "faq" {
		t.Errorf("click frame = %+v", frame)
	}
}

func TestWebSocketInvalidMessage(t *testing.T) {
	server, _ := setupServer(t)
	conn, _ := dial(t, server, "guide")

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readOutbound(t, conn); msg.Type != TypeError {
		t.Errorf("got %+v, want error", msg)
	}

	writeInbound(t, conn, Inbound{Type: "zoom"})
	msg := readOutbound(t, conn)
	if msg.Type != TypeError || !strings.Contains(msg.Message, "zoom") {
		t.Errorf("got %+v, want unknown type error", msg)
	}

	// The session keeps working after bad input.
	writeInbound(t, conn, Inbound{Type: TypeBatch, Entries: []visibility.Entry{
		{ID: "usage", IsIntersecting: true, Ratio: 1},
	}})
	if msg := readOutbound(t, conn); msg.Type != TypeFrame {
		t.Errorf("got %+v, want frame", msg)
	}
}

func TestBroadcastReload(t *testing.T) {
	server, hub := setupServer(t)
	conn, _ := dial(t, server, "guide")

	if n := hub.Broadcast(context.Background(), "other", ReloadMessage{}); n != 0 {
		t.Errorf("Broadcast(other) = %d, want 0", n)
	}
	if n := hub.Broadcast(context.Background(), "guide", ReloadMessage{}); n != 1 {
		t.Fatalf("Broadcast(guide) = %d, want 1", n)
	}
	if msg := readOutbound(t, conn); msg.Type != TypeReload {
		t.Errorf("got %+v, want reload", msg)
	}
}

func TestSessionAPI(t *testing.T) {
	server, _ := setupServer(t)
	conn, hello := dial(t, server, "guide")

	writeInbound(t, conn, Inbound{Type: TypeBatch, Entries: []visibility.Entry{
		{ID: "usage", IsIntersecting: true, Ratio: 0.8},
	}})
	readOutbound(t, conn)

	resp, err := http.Get(server.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions: %v", err)
	}
	var list []Snapshot
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) != 1 || list[0].ID != hello.SessionID || list[0].Active != "usage" {
		t.Errorf("sessions = %+v", list)
	}

	resp, err = http.Get(server.URL + "/api/sessions/" + hello.SessionID)
	if err != nil {
		t.Fatalf("GET session: %v", err)
	}
	var snap map[string]any
	json.NewDecoder(resp.Body).Decode(&snap)
	resp.Body.Close()
	if snap["mode"] != "idle" || snap["document"] != "guide" {
		t.Errorf("snapshot = %v", snap)
	}

	resp, err = http.Get(server.URL + "/api/sessions/nope")
	if err != nil {
		t.Fatalf("GET missing session: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestNavigateAPI(t *testing.T) {
	server, _ := setupServer(t)
	conn, hello := dial(t, server, "guide")

	post := func(id, body string) int {
		t.Helper()
		resp, err := http.Post(server.URL+"/api/sessions/"+id+"/navigate", "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatalf("POST navigate: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if code := post(hello.SessionID, `{"section":"faq"}`); code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", code)
	}
	frame := readOutbound(t, conn)
	if len(frame.Ops) != 1 || frame.Ops[0].ID != "faq" {
		t.Errorf("frame = %+v, want scroll to faq", frame)
	}

	tests := []struct {
		name, id, body string
		want           int
	}{
		{"missing section", hello.SessionID, `{}`, http.StatusBadRequest},
		{"unknown section", hello.SessionID, `{"section":"ghost"}`, http.StatusUnprocessableEntity},
		{"unknown session", "nope", `{"section":"faq"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := post(tt.id, tt.body); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestDisconnectRemovesSession(t *testing.T) {
	server, hub := setupServer(t)
	conn, _ := dial(t, server, "guide")

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session not removed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestOversizedMessageClosesSession(t *testing.T) {
	server, hub := setupServer(t)
	conn, _ := dial(t, server, "guide")

	huge := `{"type":"click","href":"#` + strings.Repeat("x", maxMessageSize) + `"}`
	// The server may drop the connection before the whole frame is written.
	_ = conn.WriteMessage(websocket.TextMessage, []byte(huge))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected the server to close the connection")
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session not removed after oversized message")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
