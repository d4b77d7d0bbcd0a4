// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/metrics"
	"github.com/tomtom215/nutricoach/internal/models"
)

// ShutdownReason identifies why the hub stopped.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline means the parent deadline passed.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types exchanged with clients. Events are sent with their event
// type as the message type.
const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// Message is one frame on the wire.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// envelope is a message addressed to the clients of one user.
type envelope struct {
	userID  string
	message Message
}

// Hub tracks connected clients per user and fans events out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
	logger     zerolog.Logger

	// stopped is closed on shutdown so client pumps never block on
	// Unregister once the hub is gone.
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewHub creates a hub. Call RunWithContext to start it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With().Str("component", "websocket-hub").Logger(),
		stopped:    make(chan struct{}),
	}
}

// RunWithContext processes registrations and broadcasts until ctx is done,
// then closes every client and returns ctx.Err().
//
// Lifecycle events are drained before broadcasts so a client registered
// ahead of an event always receives it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.add(client)
			continue
		case client := <-h.Unregister:
			h.remove(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.EventStreamClients.Inc()
	h.logger.Debug().Str("user_id", client.userID).Int("total_clients", total).Msg("Event stream client connected")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	if ok {
		metrics.EventStreamClients.Dec()
		h.logger.Debug().Str("user_id", client.userID).Int("total_clients", total).Msg("Event stream client disconnected")
	}
}

// deliver sends env to the clients of its user in client ID order. Clients
// whose buffer is full are dropped.
func (h *Hub) deliver(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.sortedClients(func(c *Client) bool { return c.userID == env.userID })
	for _, client := range clients {
		select {
		case client.send <- env.message:
		default:
			close(client.send)
			delete(h.clients, client)
			metrics.EventStreamClients.Dec()
			metrics.EventStreamDropped.Inc()
		}
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := h.sortedClients(nil)
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()
	h.stopOnce.Do(func() { close(h.stopped) })
	metrics.EventStreamClients.Sub(float64(len(clients)))

	h.logger.Info().
		Str("reason", string(shutdownReason(ctx))).
		Int("clients_closed", len(clients)).
		Msg("Event stream hub stopped")
}

// sortedClients returns the clients accepted by keep, ordered by ID. The
// caller holds mu.
func (h *Hub) sortedClients(keep func(*Client) bool) []*Client {
	out := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if keep == nil || keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Attach registers client. It returns false when the hub has stopped.
func (h *Hub) Attach(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.stopped:
		return false
	}
}

// unregister removes client unless the hub has already stopped.
func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.stopped:
	}
}

func shutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// BroadcastEvent queues an event for the connected clients of its user. It
// never blocks; when the hub is saturated the event is dropped.
func (h *Hub) BroadcastEvent(event models.Event) {
	select {
	case h.broadcast <- envelope{userID: event.UserID, message: Message{Type: string(event.Type), Data: event}}:
	default:
		metrics.EventStreamDropped.Inc()
		h.logger.Warn().Str("event_type", string(event.Type)).Msg("Broadcast channel full, dropping event")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// UserClientCount returns the number of connected clients of one user.
func (h *Hub) UserClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients {
		if c.userID == userID {
			n++
		}
	}
	return n
}
