package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dalymople/avrsetup/internal/logging"
	"github.com/dalymople/avrsetup/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. The stream is one-way;
	// subscribers send nothing but control frames.
	maxMessageSize = 512

	// Buffered events per subscriber before it is considered stuck
	sendQueueSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The server pairs receivers on a trusted LAN and binds loopback by
	// default; no origin policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks event stream subscribers and fans events out to them.
type Hub struct {
	register   chan *wsClient
	unregister chan *wsClient
	events     chan []byte
	clients    map[*wsClient]bool
	done       chan struct{}
}

// NewHub creates a hub. Run must be started before subscribers connect.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		events:     make(chan []byte, sendQueueSize),
		clients:    make(map[*wsClient]bool),
		done:       make(chan struct{}),
	}
}

// Run owns the subscriber set until the context ends. All membership
// changes and fan-out happen on this goroutine; nothing else touches
// h.clients.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*wsClient]bool)
			return

		case client := <-h.register:
			h.clients[client] = true
			logging.LogConnection(client.remoteAddr, "event_stream_subscribed")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				logging.LogConnection(client.remoteAddr, "event_stream_closed")
			}

		case data := <-h.events:
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Subscriber stopped draining; drop it rather than
					// stall the stream for everyone else
					delete(h.clients, client)
					close(client.send)
					logging.LogConnection(client.remoteAddr, "event_stream_stalled")
				}
			}
		}
	}
}

// Broadcast sends an event to every subscriber. Safe to call from any
// goroutine; events are dropped once the hub has stopped.
func (h *Hub) Broadcast(event protocol.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logging.Error("Failed to encode event", zap.Error(err))
		return
	}

	select {
	case h.events <- data:
	case <-h.done:
		logging.Debug("Event dropped, hub stopped", zap.String("type", event.Type))
	}
}

// wsClient is one event stream subscriber.
type wsClient struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
}

// handleWebSocket upgrades the connection and starts the pump pair.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	client := &wsClient{
		hub:        s.hub,
		conn:       conn,
		send:       make(chan []byte, sendQueueSize),
		remoteAddr: r.RemoteAddr,
	}

	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		_ = conn.Close()
		return
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		client.writePump()
	}()
	go func() {
		defer s.wg.Done()
		client.readPump()
	}()
}

// readPump discards inbound traffic and keeps the pong deadline fresh.
// It exists so the connection notices a vanished peer.
func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug("Event stream read error",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		// The stream is one-way; log and ignore whatever arrived
		logging.LogWebSocketMessage(c.remoteAddr, "received", data)
	}
}

// writePump delivers events and pings until the send channel closes.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
