package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"companygrow/internal/pkg/logger"

	"github.com/google/uuid"
)

// Event is the frame pushed to a user's sockets.
type Event struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

type delivery struct {
	userID  uuid.UUID
	message []byte
}

// Hub fans events out to every socket a user has open. Delivery is best effort:
// a client whose buffer is full is dropped.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	deliver    chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	log        *logger.Logger
	now        func() time.Time
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		deliver:    make(chan delivery, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		log:        log.With("component", "ws"),
		now:        time.Now,
	}
}

// Run processes registrations and deliveries until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			total := len(set)
			h.mutex.Unlock()
			h.log.Debug("ws connected", "user_id", client.userID, "user_clients", total)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)
			h.log.Debug("ws disconnected", "user_id", client.userID)

		case d := <-h.deliver:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients[d.userID]))
			for c := range h.clients[d.userID] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- d.message:
				default:
					h.log.Warn("ws client too slow, dropping", "user_id", d.userID)
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for id, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, id)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Notify queues event for userID. It never blocks; when the queue is full the
// event is dropped.
func (h *Hub) Notify(userID uuid.UUID, event string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(Event{
		Type:      event,
		Payload:   payload,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.log.Warn("ws event encode failed", "event", event, "error", err)
		return
	}
	select {
	case h.deliver <- delivery{userID: userID, message: b}:
	default:
		h.log.Warn("ws event dropped", "event", event, "reason", "buffer_full")
	}
}

func (h *Hub) ClientCount(userID uuid.UUID) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}
