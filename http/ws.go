package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"housepredictor/app"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// ClientMessage is a form action sent by the browser.
type ClientMessage struct {
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ServerMessage is pushed to the browser. Form is set for "form"
// messages, Ready and Status for "models" messages.
type ServerMessage struct {
	Type   string         `json:"type"`
	Form   *app.FormState `json:"form,omitempty"`
	Ready  bool           `json:"ready,omitempty"`
	Status string         `json:"status,omitempty"`
}

// Client is one websocket connection. Its form is only touched by its
// read pump.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	clientID string
	form     *app.Form
}

// reply is a message addressed to a single client.
type reply struct {
	client  *Client
	message []byte
}

// WebSocketHub tracks connected clients and fans out model status
// changes to all of them. Only the hub loop sends on or closes a
// client's send channel.
type WebSocketHub struct {
	svc        *app.Service
	clients    map[*Client]bool
	broadcast  chan []byte
	replies    chan reply
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	logger     *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewWebSocketHub(svc *app.Service, logger *zap.Logger) *WebSocketHub {
	ctx, cancel := context.WithCancel(context.Background())
	return &WebSocketHub{
		svc:        svc,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		replies:    make(chan reply, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: writeWait,
			ReadBufferSize:   1024,
			WriteBufferSize:  4096,
		},
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (h *WebSocketHub) Start() {
	defer h.logger.Debug("websocket hub stopped")

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client connected", zap.String("client_id", client.clientID), zap.Int("total", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client disconnected", zap.String("client_id", client.clientID), zap.Int("total", total))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()

		case r := <-h.replies:
			h.mu.Lock()
			if _, ok := h.clients[r.client]; ok {
				select {
				case r.client.send <- r.message:
				default:
					h.logger.Warn("client send buffer full, dropping client", zap.String("client_id", r.client.clientID))
					close(r.client.send)
					delete(h.clients, r.client)
				}
			}
			h.mu.Unlock()

		case <-h.ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *WebSocketHub) Stop() {
	h.cancel()
}

// ClientCount returns the number of registered clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NotifyModels tells every client whether the current bundle is usable.
func (h *WebSocketHub) NotifyModels() {
	bundle := h.svc.Bundle()
	message, err := json.Marshal(ServerMessage{
		Type:   "models",
		Ready:  bundle.Usable(),
		Status: h.svc.Formatter().StartStatus(bundle),
	})
	if err != nil {
		h.logger.Error("marshal models message", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("websocket broadcast queue is full, dropping message")
	}
}

func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:     conn,
		send:     make(chan []byte, 16),
		clientID: uuid.NewString(),
		form:     h.svc.NewForm(),
	}
	select {
	case h.register <- client:
	case <-h.ctx.Done():
		conn.Close()
		return
	}

	go client.writePump(h.logger)
	go client.readPump(h)
}

func (c *Client) writePump(logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Debug("websocket write error", zap.String("client_id", c.clientID), zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump(h *WebSocketHub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 << 10)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket error", zap.String("client_id", c.clientID), zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Warn("failed to parse client message", zap.String("client_id", c.clientID), zap.Error(err))
			continue
		}
		c.handleClientMessage(msg, h)
	}
}

// handleClientMessage applies a form action and queues the new form
// state for this client only.
func (c *Client) handleClientMessage(msg ClientMessage, h *WebSocketHub) {
	switch msg.Type {
	case "predict":
		c.form.Update(msg.Fields)
		// Failures are carried in the form state.
		_ = c.form.Predict()
	case "reset":
		c.form.Reset()
	default:
		h.logger.Debug("unknown client message", zap.String("client_id", c.clientID), zap.String("type", msg.Type))
		return
	}

	state := c.form.State()
	message, err := json.Marshal(ServerMessage{Type: "form", Form: &state})
	if err != nil {
		h.logger.Error("marshal form message", zap.Error(err))
		return
	}
	select {
	case h.replies <- reply{client: c, message: message}:
	case <-h.ctx.Done():
	}
}
