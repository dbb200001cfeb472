package realtime

import (
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"
)

// BoardTopic is the channel every kanban session subscribes to.
const BoardTopic = "kanban"

// Client represents a single websocket client connection.
// The actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains active connections per topic and fans events out to them.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[Client]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[Client]struct{})}
}

// Register adds a client under a topic.
func (h *Hub) Register(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[Client]struct{})
	}
	h.topics[topic][client] = struct{}{}
}

// Unregister removes a client; empty topics are cleaned up.
func (h *Hub) Unregister(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.topics[topic]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Subscribers reports how many clients listen on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Broadcast sends a raw message to all clients of a topic. It returns the
// number of clients that accepted it; failed clients are cleaned up by their
// own handler. Sends happen outside the lock.
func (h *Hub) Broadcast(topic string, message []byte) int {
	h.mu.RLock()
	clients := make([]Client, 0, len(h.topics[topic]))
	for c := range h.topics[topic] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range clients {
		if c.Send(message) {
			sent++
		}
	}
	return sent
}

// Publish marshals evt as JSON and broadcasts it.
func (h *Hub) Publish(topic string, evt any) {
	if h == nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		log.WithError(err).WithField("topic", topic).Error("failed to marshal realtime event")
		return
	}
	h.Broadcast(topic, data)
}
