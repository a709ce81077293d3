// Package observer streams simulation frames to websocket clients.
package observer

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/milk9111/pursuit/logger"
)

const (
	writeWait   = 5 * time.Second
	readWait    = 60 * time.Second
	sendBacklog = 8
)

// Hub fans published frames out to every connected observer. Slow clients
// drop frames instead of stalling the frame loop.
type Hub struct {
	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu     sync.Mutex
	subs   map[string]chan []byte
	latest []byte
	// LoopbackOnly rejects clients that are not on this machine.
	LoopbackOnly bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:    4 * 1024,
			WriteBufferSize:   64 * 1024,
			CheckOrigin:       func(r *http.Request) bool { return true },
			EnableCompression: true,
		},
		subs:         make(map[string]chan []byte),
		LoopbackOnly: true,
	}
}

// Publish encodes v once and queues it for every observer.
func (h *Hub) Publish(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("observer: encode frame: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = b
	for id, ch := range h.subs {
		select {
		case ch <- b:
		default:
			logger.L().Debug("observer lagging, frame dropped", "session", id)
		}
	}
	return nil
}

// Observers is the number of connected clients.
func (h *Hub) Observers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) join() (string, chan []byte) {
	id := fmt.Sprintf("O%d", h.nextID.Add(1))
	ch := make(chan []byte, sendBacklog)
	h.mu.Lock()
	if h.latest != nil {
		ch <- h.latest
	}
	h.subs[id] = ch
	h.mu.Unlock()
	return id, ch
}

func (h *Hub) leave(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// ServeHTTP upgrades the request and streams frames until either side closes.
func (h *Hub) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if h.LoopbackOnly && !isLoopbackRemote(r.RemoteAddr) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}
	conn, err := h.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id, out := h.join()
	defer h.leave(id)
	logger.L().Info("observer connected", "session", id, "remote", r.RemoteAddr)

	done := make(chan struct{})
	writeErr := make(chan error, 1)
	go func() {
		for {
			select {
			case <-done:
				writeErr <- nil
				return
			case b := <-out:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					writeErr <- err
					return
				}
			}
		}
	}()

	// Observers are read-only; reading only detects the close.
	for {
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

	select {
	case err := <-writeErr:
		if err != nil {
			logger.L().Debug("observer write failed", "session", id, "err", err)
		}
	case <-time.After(500 * time.Millisecond):
	}
	logger.L().Info("observer disconnected", "session", id)
}

func isLoopbackRemote(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
