// internal/websocket/client.go
package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// ClientAuth holds authentication information
type ClientAuth struct {
	IdentityID int64
	SessionID  string
	Role       string
	Email      string
	Device     string
}

type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	identityID int64
	sessionID  string
	role       string
	email      string
	device     string

	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewClient(hub *Hub, conn *websocket.Conn, auth *ClientAuth) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		identityID: auth.IdentityID,
		sessionID:  auth.SessionID,
		role:       auth.Role,
		email:      auth.Email,
		device:     auth.Device,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (c *Client) IdentityID() int64 {
	return c.identityID
}

// SendEvent queues an event for this client; slow consumers drop events
// rather than block the hub.
func (c *Client) SendEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", event.Type, err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("client %d send buffer full, dropping %s event", c.identityID, event.Type)
	}
}

func (c *Client) push(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Printf("client %d send buffer full, dropping event", c.identityID)
	}
}

// ReadPump drains incoming frames. Clients only talk to us through the REST
// API; reads exist to service pong frames and detect disconnects.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			if _, _, err := c.conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("websocket error: %v", err)
				}
				return
			}
		}
	}
}

// WritePump flushes queued events and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return

		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
	})
}
