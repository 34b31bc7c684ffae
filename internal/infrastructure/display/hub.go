package display

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"fx-rates-service/internal/domain/entities"
	"fx-rates-service/internal/infrastructure/logging"
	"fx-rates-service/internal/infrastructure/metrics"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 8
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub empuja cada snapshot a los clientes WebSocket conectados en /ws/rates.
// Un cliente lento pierde mensajes en vez de frenar el refresh.
type Hub struct {
	formatter *Formatter
	board     *Board
	upgrader  websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a hub. When board is set, new clients get the latest snapshot on connect.
func NewHub(formatter *Formatter, board *Board) *Hub {
	return &Hub{
		formatter: formatter,
		board:     board,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the connection and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade ya respondió al cliente
		logging.WarnWithError(ctx, "WebSocket upgrade failed", err, nil)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	logging.Debug(ctx, "WebSocket client connected", logging.Fields{
		"remote_addr": r.RemoteAddr,
	})

	go h.writePump(c)
	go h.readPump(c)
}

// OnSnapshot implements interfaces.Subscriber.
func (h *Hub) OnSnapshot(ctx context.Context, s entities.Snapshot) {
	payload, err := json.Marshal(h.formatter.Render(s))
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to encode snapshot", err, nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			metrics.RecordWebSocketDrop()
		}
	}
}

// Clients returns how many clients are connected
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
	metrics.UpdateWebSocketClients(0)
}

// register encola el último snapshot y agrega el cliente bajo el mismo lock que
// OnSnapshot: el board se actualiza antes que el hub, así que un broadcast
// concurrente o ya está en Latest o llega después del registro.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if h.board != nil {
		if latest, ok := h.board.Latest(); ok {
			if payload, err := json.Marshal(latest); err == nil {
				c.send <- payload
			}
		}
	}
	h.clients[c] = struct{}{}
	metrics.UpdateWebSocketClients(len(h.clients))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
		metrics.UpdateWebSocketClients(len(h.clients))
	}
}

// readPump solo consume control frames; termina cuando el cliente se va
func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}
