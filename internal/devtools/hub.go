package devtools

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/renderstate/pkg/store"
)

// MessageType identifies a change stream message.
type MessageType string

const (
	// MessageSnapshot carries every record of the store.
	MessageSnapshot MessageType = "snapshot"
)

// Message is sent to inspector clients via WebSocket.
type Message struct {
	Type    MessageType             `json:"type"`
	Records map[string]store.Record `json:"records"`
}

// client is one websocket connection. gorilla/websocket allows a single
// concurrent writer per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub streams store snapshots to websocket clients. Notifications that
// arrive while a broadcast is pending are coalesced into one message.
type Hub struct {
	store    *store.Store
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]bool

	dirty     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates a hub over s and starts its broadcast loop.
// allowedOrigins empty means same-origin only; "*" allows any origin.
func NewHub(s *store.Store, allowedOrigins []string, logger *slog.Logger) *Hub {
	h := &Hub{
		store:   s,
		logger:  logger,
		clients: make(map[*client]bool),
		dirty:   make(chan struct{}, 1),
		done:    make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
	go h.run()
	return h
}

// originChecker returns nil for same-origin checking, which is the
// upgrader's default.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// Notify schedules a broadcast of the current snapshot. It never blocks,
// so it is safe to use directly as a store listener.
func (h *Hub) Notify() {
	select {
	case h.dirty <- struct{}{}:
	default:
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return
		case <-h.dirty:
			h.broadcast()
		}
	}
}

// HandleWebSocket upgrades the connection, sends the current snapshot and
// keeps the client registered until it disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("devtools upgrade failed", slog.String("error", err.Error()))
		return
	}
	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	if data, err := h.message(); err == nil {
		if err := c.write(data); err != nil {
			h.drop(c)
			return
		}
	}

	// Inspector clients never send anything meaningful; read until close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
}

func (h *Hub) message() ([]byte, error) {
	return json.Marshal(Message{Type: MessageSnapshot, Records: h.store.Snapshot()})
}

// broadcast sends the current snapshot to all clients.
func (h *Hub) broadcast() {
	data, err := h.message()
	if err != nil {
		h.logger.Warn("devtools snapshot encode failed", slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops the broadcast loop and closes all client connections.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
	}
}
