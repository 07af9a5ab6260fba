package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type Hub struct {
	userConns  map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *log.Logger
}

// Message is pushed to clients. Event names a collection that changed;
// clients refetch it.
type Message struct {
	Event string    `json:"event"`
	At    time.Time `json:"at"`
}

type ClientMessage struct {
	Action string `json:"action"`
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		userConns:  make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client, 16),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations until ctx is done, then closes every client.
// Run must be called at most once.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.userConns[client.UserID] == nil {
				h.userConns[client.UserID] = make(map[*Client]bool)
			}
			h.userConns[client.UserID][client] = true
			h.mu.Unlock()
			h.logger.Debug("websocket connected", "user_id", client.UserID, "client_id", client.ID)

		case client := <-h.unregister:
			h.remove(client)

		case <-ctx.Done():
			h.mu.Lock()
			for userID, clients := range h.userConns {
				for client := range clients {
					close(client.Send)
				}
				delete(h.userConns, userID)
			}
			h.mu.Unlock()
			close(h.done)
			return nil
		}
	}
}

// attach hands client to Run. It reports false once the hub has stopped.
func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// detach queues client for removal; after shutdown Run has already closed it.
func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.userConns[client.UserID]
	if clients == nil || !clients[client] {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.userConns, client.UserID)
	}
	close(client.Send)
}

// Notify sends event to every session of the given users. Duplicate ids
// receive one message.
func (h *Hub) Notify(event string, userIDs ...string) {
	data, err := json.Marshal(&Message{Event: event, At: time.Now()})
	if err != nil {
		return
	}

	var slow []*Client
	seen := make(map[string]bool, len(userIDs))

	h.mu.RLock()
	for _, userID := range userIDs {
		if userID == "" || seen[userID] {
			continue
		}
		seen[userID] = true
		for client := range h.userConns[userID] {
			select {
			case client.Send <- data:
			default:
				slow = append(slow, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.remove(client)
	}
}

// sendTo queues data for one client if it is still registered. Send is
// only closed under the write lock, so holding the read lock makes the
// send safe.
func (h *Hub) sendTo(client *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.userConns[client.UserID][client] {
		return
	}
	select {
	case client.Send <- data:
	default:
	}
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID]) > 0
}
