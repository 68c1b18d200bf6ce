package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client is one websocket connection. UserID is the authenticated uid;
// ActingID is the identity the connection speaks as, which may be an
// organization the user represents.
type Client struct {
	UserID   string
	ActingID string
	Conn     *websocket.Conn
	Send     chan []byte

	manager   *Manager
	OnMessage func([]byte)
	OnClose   func()
}

// Manager tracks connected clients and fans outbound payloads to them.
type Manager struct {
	mu         sync.RWMutex
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-m.register:
			m.mu.Lock()
			if m.clients[client.UserID] == nil {
				m.clients[client.UserID] = make(map[*Client]bool)
			}
			m.clients[client.UserID][client] = true
			m.mu.Unlock()
			logger.Debug("Client connected: %s (acting as %s)", client.UserID, client.ActingID)
		case client := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[client.UserID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.Send)
					if len(conns) == 0 {
						delete(m.clients, client.UserID)
					}
				}
			}
			m.mu.Unlock()
			logger.Debug("Client disconnected: %s", client.UserID)
		}
	}
}

func (m *Manager) Register(client *Client) {
	client.manager = m
	m.register <- client
}

func (m *Manager) Unregister(client *Client) {
	m.unregister <- client
}

// SendToUser delivers payload to every connection the user has open.
func (m *Manager) SendToUser(userID string, payload []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for client := range m.clients[userID] {
		select {
		case client.Send <- payload:
		default:
			logger.Warn("Dropping payload for slow client %s", userID)
		}
	}
}

// ReadPump reads frames until the connection dies, forwarding each one
// to OnMessage. It must run in its own goroutine, one per connection.
func (c *Client) ReadPump() {
	defer func() {
		if c.OnClose != nil {
			c.OnClose()
		}
		c.manager.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("Websocket read error for %s: %v", c.UserID, err)
			}
			return
		}
		if c.OnMessage != nil {
			c.OnMessage(message)
		}
	}
}

// WritePump drains Send and keeps the connection alive with pings. One
// goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
