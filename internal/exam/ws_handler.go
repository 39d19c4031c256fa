package exam

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	httperrors "github.com/examhall/examhall/pkg/http/errors"
	"github.com/examhall/examhall/pkg/http/ws"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSHandler upgrades watcher connections and routes their subscribe/ping
// messages. Exam events themselves are published by the HTTP handlers after
// each successful state change.
type WSHandler struct {
	hub    *ws.Hub
	logger zerolog.Logger
}

func NewWSHandler(hub *ws.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger.With().Str("component", "exam_ws").Logger(),
	}
}

// HandleWebSocket handles GET /ws/exams?client_id=...
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		http.Error(w, "client_id query parameter is required", http.StatusBadRequest)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := ws.NewConnection(wsConn, h.logger)
	h.hub.RegisterConnection(clientID, conn)

	go conn.WritePump()
	conn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(clientID, conn, msg)
	})

	h.hub.UnregisterConnection(clientID)
}

func (h *WSHandler) handleMessage(clientID string, conn *ws.Connection, msg ws.Message) error {
	switch msg.Type {
	case ws.TypePing:
		return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})

	case ws.TypeSubscribe:
		var payload ws.SubscribePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.ExamID == "" {
			return h.sendError(conn, msg.RequestID, httperrors.ErrCodeInvalidPayload, "subscribe requires exam_id")
		}
		h.hub.Subscribe(payload.ExamID, clientID)
		data, _ := json.Marshal(ws.SubscribedPayload{ExamID: payload.ExamID})
		return conn.Send(ws.Message{Type: ws.TypeSubscribed, Payload: data, RequestID: msg.RequestID})

	default:
		return h.sendError(conn, msg.RequestID, httperrors.ErrCodeUnknownMessageType, "unsupported message type "+msg.Type)
	}
}

func (h *WSHandler) sendError(conn *ws.Connection, requestID, code, message string) error {
	data, _ := json.Marshal(ws.ErrorPayload{Code: code, Message: message})
	return conn.Send(ws.Message{Type: ws.TypeError, Payload: data, RequestID: requestID})
}
