package gateway

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"teamchat/internal/domain"
	"teamchat/internal/logging"
)

// Event is one entry on the WebSocket feed. The feed tells a UI client
// that state changed so it can re-render; it does not stream completion
// tokens.
type Event struct {
	Type      string          `json:"type"` // "message.added" | "composing"
	ChannelID string          `json:"channelId,omitempty"`
	Message   *domain.Message `json:"message,omitempty"`
	AgentID   string          `json:"agentId"`
}

const (
	clientSendBuffer = 64
	writeTimeout     = 10 * time.Second
)

// Hub fans workspace events out to connected WebSocket clients. It is
// the workspace's event sink: appends and composing transitions become
// frames on every live connection. A client that cannot keep up with
// the feed is dropped rather than blocking the responder loop.
type Hub struct {
	log *logging.Logger

	mu      sync.Mutex
	clients map[string]*wsClient
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan Event
	once sync.Once
}

// NewHub creates an empty hub.
func NewHub(log *logging.Logger) *Hub {
	return &Hub{
		log:     log.Sub("ws"),
		clients: make(map[string]*wsClient),
	}
}

// MessageAdded implements workspace.EventSink.
func (h *Hub) MessageAdded(channelID string, msg domain.Message) {
	h.broadcast(Event{Type: "message.added", ChannelID: channelID, Message: &msg, AgentID: msg.AgentID})
}

// ComposingChanged implements workspace.EventSink.
func (h *Hub) ComposingChanged(agentID string) {
	h.broadcast(Event{Type: "composing", AgentID: agentID})
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		select {
		case c.send <- evt:
		default:
			h.log.Warn().Str("client", id).Msg("send buffer full, dropping client")
			delete(h.clients, id)
			c.close()
		}
	}
}

// run serves one WebSocket connection until it closes. The read loop
// exists only to notice disconnects; inbound frames are discarded.
func (h *Hub) run(conn *websocket.Conn) {
	c := &wsClient{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan Event, clientSendBuffer),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	h.log.Debug().Str("client", c.id).Str("remote", conn.RemoteAddr().String()).Msg("client connected")

	go c.writePump()

	conn.SetReadLimit(4096)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	c.close()
	h.log.Debug().Str("client", c.id).Msg("client disconnected")
}

// CloseAll disconnects every client. Called on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[string]*wsClient)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (c *wsClient) writePump() {
	for evt := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(evt); err != nil {
			return
		}
	}
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.send)
		// writePump may be mid-write on this connection; WriteControl is
		// the one send gorilla/websocket allows concurrently with it. The
		// deadline keeps a stalled peer from blocking the caller.
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeTimeout))
		c.conn.Close()
	})
}
