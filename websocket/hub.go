package websocket

import (
	"encoding/json"
	"sync"
)

type Hub struct {
	clients    map[string]*Client
	userConns  map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// Message is the server-to-client event envelope. Events: new_message,
// friend_request, friend_request_accepted, pong.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type ClientMessage struct {
	Action string `json:"action"`
}

var HubInstance *Hub

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		userConns:  make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			if h.userConns[client.UserID] == nil {
				h.userConns[client.UserID] = make(map[*Client]bool)
			}
			h.userConns[client.UserID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				if h.userConns[client.UserID] != nil {
					delete(h.userConns[client.UserID], client)
					if len(h.userConns[client.UserID]) == 0 {
						delete(h.userConns, client.UserID)
					}
				}
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) SendToUser(userID string, msg *Message) {
	h.mu.RLock()
	clients := h.userConns[userID]
	h.mu.RUnlock()

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	for client := range clients {
		select {
		case client.Send <- data:
		default:
			h.unregister <- client
		}
	}
}

// IsOnline reports whether the user has at least one open connection.
// This is the sole source of the is_online presence flag.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID]) > 0
}

func InitHub() {
	HubInstance = NewHub()
	go HubInstance.Run()
}
