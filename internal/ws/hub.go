package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"go-bakery-pos/internal/model"

	"github.com/gofiber/contrib/websocket"
)

// Event types pushed to connected clients.
const (
	TypeStockUpdate       = "stock_update"
	TypeStockAlert        = "stock_alert"
	TypeTransactionUpdate = "transaction_update"
	TypeCatalogUpdate     = "catalog_update"
)

// Event is the JSON envelope of every websocket message.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data,omitempty"`
	User    model.Actor `json:"user"`
	Message string      `json:"message"`
}

const broadcastBuffer = 256

// Hub fans events out to every connected websocket client. Run owns the
// client set; Serve is the per-connection handler.
type Hub struct {
	clients    map[*websocket.Conn]struct{}
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	queue      chan []byte
	mu         sync.Mutex
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:    make(map[*websocket.Conn]struct{}),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		queue:      make(chan []byte, broadcastBuffer),
		log:        log,
	}
}

// Publish encodes ev and queues it for broadcast. It never blocks the caller;
// when the queue is full the event is dropped and logged.
func (h *Hub) Publish(ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("ws: encode event", "type", ev.Type, "action", ev.Action, "err", err)
		return
	}
	select {
	case h.queue <- msg:
	default:
		h.log.Warn("ws: broadcast queue full, dropping event", "type", ev.Type, "action", ev.Action)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve registers conn and blocks until the client goes away. Clients only
// listen; anything they send is discarded.
func (h *Hub) Serve(conn *websocket.Conn) {
	h.register <- conn
	defer func() { h.unregister <- conn }()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close()
	}
}

// Run delivers queued events until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				h.drop(conn)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = struct{}{}
			h.mu.Unlock()
			h.log.Info("ws client connected", "remote", conn.RemoteAddr().String())

		case conn := <-h.unregister:
			h.mu.Lock()
			h.drop(conn)
			h.mu.Unlock()

		case msg := <-h.queue:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					h.log.Debug("ws write failed, dropping client", "remote", conn.RemoteAddr().String(), "err", err)
					h.drop(conn)
				}
			}
			h.mu.Unlock()
		}
	}
}
