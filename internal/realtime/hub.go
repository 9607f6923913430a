package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"project-sync-api/internal/database"
	"project-sync-api/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Upgrader is shared by every WebSocket endpoint
var Upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Client is one WebSocket connection subscribed to a project channel
type Client struct {
	SocketID  string
	ProjectID uuid.UUID
	UserID    uuid.UUID

	conn *websocket.Conn
	send chan []byte
	hub  *Hub

	sendMu sync.Mutex
	closed bool

	lastCursorRelay time.Time
}

// NewClient wraps an upgraded connection for a project channel
func NewClient(hub *Hub, conn *websocket.Conn, projectID, userID uuid.UUID) *Client {
	return &Client{
		SocketID:  uuid.New().String(),
		ProjectID: projectID,
		UserID:    userID,
		conn:      conn,
		send:      make(chan []byte, 256),
		hub:       hub,
	}
}

// Hub tracks which connections are subscribed to which project channel and
// fans frames out to them. Presence bookkeeping is keyed per user, not per
// connection: a user with two tabs open joins once and leaves once.
type Hub struct {
	clients   map[uuid.UUID]map[*Client]bool
	userConns map[uuid.UUID]map[uuid.UUID]int
	clientsMu sync.RWMutex

	register   chan *Client
	unregister chan *Client

	cursorThrottle   time.Duration
	cursorStaleAfter time.Duration

	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHub creates a hub. Call Run in a goroutine before registering clients.
func NewHub(m *metrics.Metrics, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		userConns:  make(map[uuid.UUID]map[uuid.UUID]int),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		metrics:    m,
		logger:     logger,
	}
}

// SetCursorPolicy applies the configured cursor relay limits. At most one
// frame per throttle interval is relayed per connection, and frames whose
// sample timestamp is older than staleAfter are dropped. A zero value
// disables the corresponding limit. Call before Run.
func (h *Hub) SetCursorPolicy(throttle, staleAfter time.Duration) {
	h.cursorThrottle = throttle
	h.cursorStaleAfter = staleAfter
}

// Run processes registrations and departures
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		}
	}
}

// Register subscribes a client to its project channel
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from its project channel
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) handleRegister(client *Client) {
	h.clientsMu.Lock()
	if h.clients[client.ProjectID] == nil {
		h.clients[client.ProjectID] = make(map[*Client]bool)
	}
	h.clients[client.ProjectID][client] = true
	if h.userConns[client.ProjectID] == nil {
		h.userConns[client.ProjectID] = make(map[uuid.UUID]int)
	}
	h.userConns[client.ProjectID][client.UserID]++
	firstConn := h.userConns[client.ProjectID][client.UserID] == 1

	// everyone already here, excluding the joining user
	others := make([]PresenceMember, 0)
	for userID := range h.userConns[client.ProjectID] {
		if userID != client.UserID {
			others = append(others, PresenceMember{UserID: userID})
		}
	}
	h.clientsMu.Unlock()

	if payload, err := Encode(EventPresenceSnapshot, "", PresenceSnapshot{Members: others}); err == nil {
		client.Send(payload)
	}

	// announce the user once, however many tabs they open
	if firstConn {
		if payload, err := Encode(EventMemberAdded, client.SocketID, PresenceMember{UserID: client.UserID}); err == nil {
			h.BroadcastToProject(client.ProjectID, payload, client.SocketID)
		}
		if h.metrics != nil {
			h.metrics.PresenceJoinsTotal.Inc()
		}
	}

	h.logger.Info("client subscribed",
		zap.String("project_id", client.ProjectID.String()),
		zap.String("user_id", client.UserID.String()),
		zap.String("socket_id", client.SocketID))
}

func (h *Hub) handleUnregister(client *Client) {
	h.clientsMu.Lock()
	lastConn := false
	if clients, ok := h.clients[client.ProjectID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.closeSend()
			if len(clients) == 0 {
				delete(h.clients, client.ProjectID)
			}
		}
	}
	if conns, ok := h.userConns[client.ProjectID]; ok {
		conns[client.UserID]--
		if conns[client.UserID] <= 0 {
			delete(conns, client.UserID)
			lastConn = true
			if len(conns) == 0 {
				delete(h.userConns, client.ProjectID)
			}
		}
	}
	h.clientsMu.Unlock()

	if lastConn {
		if payload, err := Encode(EventMemberRemoved, client.SocketID, PresenceMember{UserID: client.UserID}); err == nil {
			h.BroadcastToProject(client.ProjectID, payload, client.SocketID)
		}
	}

	h.logger.Info("client unsubscribed",
		zap.String("project_id", client.ProjectID.String()),
		zap.String("user_id", client.UserID.String()),
		zap.Bool("last_connection", lastConn))
}

// BroadcastToProject sends a frame to every subscriber of a project channel
// except the connection identified by excludeSocketID. Frames to projects
// with no subscribers are dropped.
func (h *Hub) BroadcastToProject(projectID uuid.UUID, payload []byte, excludeSocketID string) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients[projectID]))
	for client := range h.clients[projectID] {
		if client.SocketID != excludeSocketID {
			clients = append(clients, client)
		}
	}
	h.clientsMu.RUnlock()

	for _, client := range clients {
		client.Send(payload)
	}
}

// RelayCursor forwards a cursor frame to the sender's collaborators. The
// user identity is stamped server-side so a client cannot impersonate
// another member's pointer. Frames beyond the throttle rate and frames
// carrying a stale sample are dropped.
func (h *Hub) RelayCursor(client *Client, pos CursorPosition) {
	now := time.Now()
	if h.cursorThrottle > 0 && now.Sub(client.lastCursorRelay) < h.cursorThrottle {
		return
	}
	if h.cursorStaleAfter > 0 && pos.Timestamp != 0 && NowMillis()-pos.Timestamp > h.cursorStaleAfter.Milliseconds() {
		return
	}
	client.lastCursorRelay = now

	pos.UserID = client.UserID
	if pos.Timestamp == 0 {
		pos.Timestamp = NowMillis()
	}
	payload, err := Encode(EventCursorUpdate, client.SocketID, pos)
	if err != nil {
		return
	}
	if h.metrics != nil {
		h.metrics.CursorFramesTotal.Inc()
	}
	h.BroadcastToProject(client.ProjectID, payload, client.SocketID)
}

// MemberCount reports how many distinct users are on a project channel
func (h *Hub) MemberCount(projectID uuid.UUID) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.userConns[projectID])
}

// Send queues a frame for delivery, dropping it if the client is backed up
// or already unregistered
func (c *Client) Send(payload []byte) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// closeSend shuts the send queue exactly once; later Sends become no-ops
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump consumes frames from the connection until it closes. Incoming
// cursor frames are relayed to collaborators; anything else is ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("websocket error", zap.Error(err))
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.hub.logger.Warn("failed to parse frame", zap.Error(err))
			continue
		}

		switch env.Event {
		case EventCursorUpdate:
			var pos CursorPosition
			if err := json.Unmarshal(env.Data, &pos); err != nil {
				c.hub.logger.Warn("failed to parse cursor frame", zap.Error(err))
				continue
			}
			c.hub.RelayCursor(c, pos)
		default:
			c.hub.logger.Warn("unknown frame event", zap.String("event", env.Event))
		}
	}
}

// WritePump drains the send queue onto the connection and keeps it alive
// with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
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

// SubscribeProject pumps cross-instance events from Redis to this client,
// skipping frames this connection originated. Returns immediately when Redis
// is not configured; local fanout covers that case.
func (c *Client) SubscribeProject() {
	defer func() {
		if r := recover(); r != nil {
			c.hub.logger.Error("recovered from panic in project subscription",
				zap.Any("panic", r),
				zap.String("project_id", c.ProjectID.String()))
		}
	}()

	pubsub := database.SubscribeProjectEvents(context.Background(), c.ProjectID.String())
	if pubsub == nil {
		return
	}
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var env Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			continue
		}
		if env.SocketID == c.SocketID {
			continue
		}
		c.Send([]byte(msg.Payload))
	}
}
