package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub manages WebSocket connections and broadcasts exam lifecycle events to
// subscribed watchers. Watchers are keyed by client id (usually the
// participant id); exams map an exam id to its subscribers.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	exams       map[string][]string
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		exams:       make(map[string][]string),
		logger:      logger,
	}
}

// RegisterConnection adds a connection for a client, replacing any previous one.
func (h *Hub) RegisterConnection(clientID string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, exists := h.connections[clientID]; exists {
		old.Close()
	}

	h.connections[clientID] = conn
	h.logger.Info().Str("client_id", clientID).Msg("connection registered")
}

// UnregisterConnection removes a connection and all its exam subscriptions.
func (h *Hub) UnregisterConnection(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[clientID]; exists {
		conn.Close()
		delete(h.connections, clientID)
		h.logger.Info().Str("client_id", clientID).Msg("connection unregistered")
	}

	for examID, clients := range h.exams {
		for i, id := range clients {
			if id == clientID {
				h.exams[examID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
	}
}

// Subscribe associates a client with an exam for targeted broadcasts.
func (h *Hub) Subscribe(examID, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.exams[examID]
	for _, id := range clients {
		if id == clientID {
			return
		}
	}
	h.exams[examID] = append(clients, clientID)
}

// Unsubscribe removes a client from an exam.
func (h *Hub) Unsubscribe(examID, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.exams[examID]
	for i, id := range clients {
		if id == clientID {
			h.exams[examID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
}

// BroadcastToExam sends a message to every subscriber of an exam.
func (h *Hub) BroadcastToExam(examID string, msg Message) error {
	h.mu.RLock()
	clients := append([]string(nil), h.exams[examID]...)
	h.mu.RUnlock()

	var firstErr error
	for _, clientID := range clients {
		if err := h.SendToClient(clientID, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendToClient delivers a message to a specific client.
func (h *Hub) SendToClient(clientID string, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[clientID]
	h.mu.RUnlock()

	if !exists {
		return ErrConnectionNotFound
	}
	return conn.Send(msg)
}

// Connection represents a WebSocket connection with a buffered send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 256),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump sends messages from the send queue.
func (c *Connection) WritePump() {
	defer c.conn.Close()

	for msg := range c.sendCh {
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump receives messages and calls the handler.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionNotFound = &Error{Code: "connection_not_found", Message: "Client connection not found"}
	ErrConnectionClosed   = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull      = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
