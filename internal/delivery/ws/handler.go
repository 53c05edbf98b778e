package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"askadoc-server/pkg/jwt"
	"askadoc-server/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

// TokenVerifier validates the access token passed in the query string.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*jwt.Claims, error)
}

// ParticipantChecker decides who may join a chat room.
type ParticipantChecker interface {
	IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
}

type Handler struct {
	hub      *Hub
	verifier TokenVerifier
	chats    ParticipantChecker
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from allowedOrigin, or from any origin when it
// is empty or "*".
func NewHandler(hub *Hub, verifier TokenVerifier, chats ParticipantChecker, log *logrus.Logger, allowedOrigin string) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		chats:    chats,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return strings.EqualFold(r.Header.Get("Origin"), allowedOrigin)
			},
		},
	}
}

// ServeHTTP authenticates ?token=, upgrades the connection and starts its pumps.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	claims, err := h.verifier.Verify(r.Context(), token)
	if err != nil {
		response.Unauthorized(w, "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("Failed to upgrade websocket: %+v", err)
		return
	}

	// lookups made for this connection are cancelled once it closes
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := NewClient(claims.UserID)
	h.hub.Register(client)
	h.log.WithFields(logrus.Fields{"client_id": client.ID, "user_id": client.UserID}).Debug("websocket connected")

	go h.writePump(conn, client)
	h.readPump(ctx, conn, client)
}

func (h *Handler) readPump(ctx context.Context, conn *websocket.Conn, client *Client) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debugf("Websocket closed unexpectedly: %v", err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			h.reply(client, "Invalid message")
			continue
		}
		h.handleEvent(ctx, client, event)
	}
}

func (h *Handler) handleEvent(ctx context.Context, client *Client, event Event) {
	switch event.Event {
	case EventJoin:
		h.join(ctx, client, event)
	case EventSendMessage:
		h.relay(client, event)
	default:
		h.reply(client, "Unknown event")
	}
}

func (h *Handler) join(ctx context.Context, client *Client, event Event) {
	chatID, err := uuid.Parse(event.ChatID)
	if err != nil {
		h.reply(client, "Invalid chat ID")
		return
	}

	ok, err := h.chats.IsParticipant(ctx, chatID, client.UserID)
	if err != nil {
		h.log.Warnf("Failed to check chat participant: %+v", err)
		h.reply(client, "Failed to join chat")
		return
	}
	if !ok {
		h.reply(client, "Access denied to this chat")
		return
	}

	h.hub.Join(client, chatID)
}

// relay forwards a message to the other members of a room the sender joined.
// The sender field is always the authenticated user.
func (h *Handler) relay(client *Client, event Event) {
	var msg ChatMessage
	if err := json.Unmarshal(event.Data, &msg); err != nil {
		h.reply(client, "Invalid message")
		return
	}

	chatID, err := uuid.Parse(msg.ChatID)
	if err != nil {
		h.reply(client, "Invalid chat ID")
		return
	}
	if !h.hub.Joined(client, chatID) {
		h.reply(client, "Join the chat before sending")
		return
	}

	msg.Sender = client.UserID.String()
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warnf("Failed to marshal chat message: %+v", err)
		return
	}

	h.hub.Broadcast(chatID, client, Event{Event: EventReceiveMessage, Data: data})
}

func (h *Handler) reply(client *Client, message string) {
	data, _ := json.Marshal(map[string]string{"message": message})
	frame, err := json.Marshal(Event{Event: EventError, Data: data})
	if err != nil {
		return
	}
	select {
	case client.Send <- frame:
	default:
	}
}

func (h *Handler) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
