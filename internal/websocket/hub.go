// internal/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"fieldops-service/internal/pkg/jwt"
	"fieldops-service/internal/pkg/session"
)

// Event is the wire format pushed to connected dispatch clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	SentAt  time.Time   `json:"sent_at"`
}

const (
	EventConnected     = "connected"
	EventOrderAssigned = "order_assigned"
	EventOrderStatus   = "order_status"
)

func NewEvent(eventType string, payload interface{}) *Event {
	return &Event{Type: eventType, Payload: payload, SentAt: time.Now()}
}

type notification struct {
	identityIDs []int64 // nil means everyone
	event       *Event
}

// Hub tracks connected dispatch clients by identity and fans events out to
// them. Technicians receive assignment and status events for their orders.
type Hub struct {
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	Register   chan *Client
	unregister chan *Client
	notify     chan *notification
	done       chan struct{}

	jwtVerifier    *jwt.Verifier
	sessionManager *session.Manager
}

func NewHub(jwtVerifier *jwt.Verifier, sessionManager *session.Manager) *Hub {
	return &Hub{
		clients:        make(map[int64]map[*Client]bool),
		Register:       make(chan *Client),
		unregister:     make(chan *Client),
		notify:         make(chan *notification, 256),
		done:           make(chan struct{}),
		jwtVerifier:    jwtVerifier,
		sessionManager: sessionManager,
	}
}

// AuthenticateClient validates the JWT and confirms the session still exists
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	claims, err := h.jwtVerifier.Verify(token)
	if err != nil {
		return nil, err
	}

	sessionData, err := h.sessionManager.GetSession(ctx, claims.IdentityID, claims.ID)
	if err != nil {
		return nil, err
	}

	return &ClientAuth{
		IdentityID: claims.IdentityID,
		SessionID:  claims.ID,
		Role:       claims.Role,
		Email:      sessionData.Email,
		Device:     claims.Device,
	}, nil
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			close(h.done)
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case n := <-h.notify:
			h.dispatch(n)
		}
	}
}

// NotifyUsers queues an event for specific identities
func (h *Hub) NotifyUsers(identityIDs []int64, event *Event) {
	select {
	case h.notify <- &notification{identityIDs: identityIDs, event: event}:
	default:
		log.Printf("websocket notify queue full, dropping %s event", event.Type)
	}
}

// Broadcast queues an event for every connected client
func (h *Hub) Broadcast(event *Event) {
	select {
	case h.notify <- &notification{event: event}:
	default:
		log.Printf("websocket notify queue full, dropping %s event", event.Type)
	}
}

// drop hands a client to the run loop for unregistration. Once the hub has
// shut down nothing drains the unregister channel, so the send falls through
// instead of hanging the read pump.
func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.Close()
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.identityID] == nil {
		h.clients[client.identityID] = make(map[*Client]bool)
	}
	h.clients[client.identityID][client] = true

	log.Printf("client connected: identity=%d total=%d", client.identityID, h.totalClients())

	client.SendEvent(NewEvent(EventConnected, map[string]interface{}{
		"identity_id": client.identityID,
		"role":        client.role,
		"device":      client.device,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.identityID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.identityID)
			}

			log.Printf("client disconnected: identity=%d total=%d", client.identityID, h.totalClients())
		}
	}
}

func (h *Hub) dispatch(n *notification) {
	data, err := json.Marshal(n.event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", n.event.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if n.identityIDs == nil {
		for _, clients := range h.clients {
			for client := range clients {
				client.push(data)
			}
		}
		return
	}

	for _, identityID := range n.identityIDs {
		if clients, ok := h.clients[identityID]; ok {
			for client := range clients {
				client.push(data)
			}
		}
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
}
