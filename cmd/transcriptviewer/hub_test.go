package main

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestDecodeEvent(t *testing.T) {
	ev, err := decodeEvent([]byte(`{"eventType":"stt.transcript.final","sessionId":"s-1","text":"hello","confidence":0.9,"sequence":2}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.SessionID != "s-1" || ev.Text != "hello" || ev.Sequence != 2 {
		t.Errorf("unexpected event: %+v", ev)
	}

	if _, err := decodeEvent([]byte(`{"text":"orphan"}`)); err == nil {
		t.Error("expected an error for an event without sessionId")
	}
	if _, err := decodeEvent([]byte(`not json`)); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a longer transcript", 8); got != "a longer..." {
		t.Errorf("truncate long = %q", got)
	}
}

func TestHub_BroadcastsToBrowsers(t *testing.T) {
	h := newHub()
	done := make(chan struct{})
	defer close(done)
	go h.run(done)

	srv := httptest.NewServer(newRouter(h))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for h.clientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client was not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	h.broadcast <- viewerEvent{EventType: "stt.transcript.final", SessionID: "s-1", Text: "hi"}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got viewerEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.SessionID != "s-1" || got.Text != "hi" {
		t.Errorf("unexpected event: %+v", got)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for h.clientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not unregistered after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRouter_ServesIndex(t *testing.T) {
	srv := httptest.NewServer(newRouter(newHub()))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
