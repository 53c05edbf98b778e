// Package ws relays chat messages between participants of a chat over
// WebSockets. Messages are persisted through the REST API; the hub only
// forwards them to the other connections joined to the same chat room.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event names exchanged with clients
const (
	EventJoin           = "join"
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"
	EventError          = "error"
)

const sendBufferSize = 64

// Event is the envelope of every frame in both directions.
type Event struct {
	Event  string          `json:"event"`
	ChatID string          `json:"chatId,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// ChatMessage is the payload relayed between room members.
type ChatMessage struct {
	ChatID    string `json:"chatId"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Client is one authenticated socket connection.
type Client struct {
	ID     string
	UserID uuid.UUID
	Send   chan []byte
	rooms  map[uuid.UUID]struct{}
}

func NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
		rooms:  make(map[uuid.UUID]struct{}),
	}
}

// Hub tracks connected clients and the chat rooms they joined.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Client]struct{}
	all   map[*Client]struct{}
	log   *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[*Client]struct{}),
		all:   make(map[*Client]struct{}),
		log:   log,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.all[client] = struct{}{}
}

// Unregister drops the client from every room and closes its Send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}

	for chatID := range client.rooms {
		if members, ok := h.rooms[chatID]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, chatID)
			}
		}
	}

	delete(h.all, client)
	close(client.Send)
}

// Join subscribes a registered client to a chat room.
func (h *Hub) Join(client *Client, chatID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}
	if h.rooms[chatID] == nil {
		h.rooms[chatID] = make(map[*Client]struct{})
	}
	h.rooms[chatID][client] = struct{}{}
	client.rooms[chatID] = struct{}{}
}

// Joined reports whether the client is a member of the room.
func (h *Hub) Joined(client *Client, chatID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[chatID][client]
	return ok
}

// Broadcast delivers the event to every member of the room except from.
// Members whose buffer is full miss the frame. It returns the number of
// clients the frame was queued for.
func (h *Hub) Broadcast(chatID uuid.UUID, from *Client, event Event) int {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Warnf("Failed to marshal ws event: %+v", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for client := range h.rooms[chatID] {
		if client == from {
			continue
		}
		select {
		case client.Send <- data:
			delivered++
		default:
			h.log.Debugf("Dropping ws frame for client %s: buffer full", client.ID)
		}
	}
	return delivered
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

func (h *Hub) RoomCount(chatID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}
