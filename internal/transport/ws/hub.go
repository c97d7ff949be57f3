// Package ws is the WebSocket transport: it upgrades connections,
// decodes action envelopes, and delivers coordinator events. All game
// semantics live behind the Dispatcher interface.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"bullscows/internal/model"
)

// Dispatcher handles decoded actions and connection teardown
type Dispatcher interface {
	Dispatch(ctx context.Context, conn model.ConnectionID, action model.ActionType, data json.RawMessage) []model.Outbound
	HandleDisconnect(ctx context.Context, conn model.ConnectionID) []model.Outbound
}

// envelope is the inbound wire format
type envelope struct {
	Action model.ActionType `json:"action"`
	Data   json.RawMessage  `json:"data"`
}

// outEnvelope is the outbound wire format
type outEnvelope struct {
	Event model.EventType `json:"event"`
	Data  any             `json:"data"`
}

// Hub tracks live connections and routes messages between the
// transport and the coordinator
type Hub struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	upgrader   websocket.Upgrader

	mu      sync.RWMutex
	clients map[model.ConnectionID]*client
}

// NewHub creates a new Hub
func NewHub(dispatcher Dispatcher, logger *slog.Logger) *Hub {
	return &Hub{
		dispatcher: dispatcher,
		logger:     logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The game server has no cross-origin credentials to protect
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[model.ConnectionID]*client),
	}
}

// ServeWS upgrades an HTTP request and runs the connection until the
// client goes away
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := newClient(model.ConnectionID(uuid.NewString()), conn, h.logger)

	h.mu.Lock()
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected",
		slog.String("conn", string(c.id)),
		slog.Int("total_clients", total),
	)

	go c.writePump()
	h.readPump(r.Context(), c)
}

// readPump decodes envelopes and dispatches them until the connection
// drops, then resolves the disconnect
func (h *Hub) readPump(ctx context.Context, c *client) {
	defer h.drop(c)

	c.prepareRead()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed",
					slog.String("conn", string(c.id)),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			h.logger.Warn("malformed envelope dropped",
				slog.String("conn", string(c.id)),
				slog.String("error", err.Error()),
			)
			continue
		}

		h.Deliver(h.dispatcher.Dispatch(ctx, c.id, env.Action, env.Data))
	}
}

// drop unregisters a client and notifies the coordinator
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	total := len(h.clients)
	h.mu.Unlock()

	c.close()

	h.logger.Info("client disconnected",
		slog.String("conn", string(c.id)),
		slog.Int("total_clients", total),
	)

	// The request context is gone by now
	h.Deliver(h.dispatcher.HandleDisconnect(context.Background(), c.id))
}

// Deliver fans outbound events to their target connections.
// Fire-and-forget: messages for slow or vanished clients are dropped.
func (h *Hub) Deliver(out []model.Outbound) {
	for _, msg := range out {
		data, err := json.Marshal(outEnvelope{Event: msg.Event, Data: msg.Data})
		if err != nil {
			h.logger.Error("event marshal failed",
				slog.String("event", string(msg.Event)),
				slog.String("error", err.Error()),
			)
			continue
		}

		h.mu.RLock()
		for _, id := range msg.To {
			c, ok := h.clients[id]
			if !ok {
				continue
			}
			select {
			case c.send <- data:
			default:
				h.logger.Warn("message dropped - client buffer full",
					slog.String("conn", string(id)),
					slog.String("event", string(msg.Event)),
				)
			}
		}
		h.mu.RUnlock()
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
