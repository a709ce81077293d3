package observer

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type frame struct {
	Frame uint64 `json:"frame"`
}

func dial(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f frame
	if err := json.Unmarshal(payload, &f); err != nil {
		t.Fatalf("decode %s: %v", payload, err)
	}
	return f
}

func waitObservers(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for h.Observers() != n {
		if time.Now().After(deadline) {
			t.Fatalf("observers = %d, want %d", h.Observers(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubSendsLatestOnConnect(t *testing.T) {
	h := NewHub()
	if err := h.Publish(frame{Frame: 7}); err != nil {
		t.Fatal(err)
	}
	conn := dial(t, h)
	if f := readFrame(t, conn); f.Frame != 7 {
		t.Fatalf("first frame %d", f.Frame)
	}
}

func TestHubStreamsPublishedFrames(t *testing.T) {
	h := NewHub()
	conn := dial(t, h)
	waitObservers(t, h, 1)

	for i := uint64(1); i <= 3; i++ {
		if err := h.Publish(frame{Frame: i}); err != nil {
			t.Fatal(err)
		}
		if f := readFrame(t, conn); f.Frame != i {
			t.Fatalf("frame %d, want %d", f.Frame, i)
		}
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitObservers(t, h, 0)
}

func TestHubRejectsUnencodable(t *testing.T) {
	if err := NewHub().Publish(make(chan int)); err == nil {
		t.Fatalf("expected an encode error")
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	tests := map[string]bool{
		"127.0.0.1:5000": true,
		"[::1]:80":       true,
		"10.0.0.2:80":    false,
		"garbage":        false,
	}
	for addr, want := range tests {
		if got := isLoopbackRemote(addr); got != want {
			t.Fatalf("isLoopbackRemote(%q) = %v", addr, got)
		}
	}
}
