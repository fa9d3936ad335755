package render

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/pkg/logger"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong before the connection is
	// treated as dead.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// the UI is served from a different origin in development
	CheckOrigin: func(r *http.Request) bool { return true },
}

type profileSource interface {
	Profiles() models.ProfileCollection
	Selected() (string, bool)
}

type participantSource interface {
	List(ctx context.Context) []string
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event string   `json:"event"`
	Data  Snapshot `json:"data"`
}

// Hub tracks connected websocket clients and pushes a fresh snapshot to all
// of them whenever profiles, participants or the selection change.
type Hub struct {
	profiles     profileSource
	participants participantSource
	now          func() time.Time

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func NewHub(profiles profileSource, participants participantSource) *Hub {
	return &Hub{
		profiles:     profiles,
		participants: participants,
		now:          time.Now,
		clients:      make(map[*client]struct{}),
	}
}

// Run blocks until ctx is cancelled, then closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// ProfilesChanged is registered as a profile store change listener.
func (h *Hub) ProfilesChanged(ctx context.Context, _ models.ProfileCollection) {
	h.Broadcast(ctx)
}

// ParticipantsChanged is registered as a participant list change listener.
func (h *Hub) ParticipantsChanged(ctx context.Context, _ []string) {
	h.Broadcast(ctx)
}

// ServeHTTP upgrades the request and sends the current snapshot right away.
// Blocks until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	log, ctx := logger.With(r.Context(), "client", c.id)
	h.register(c)
	defer h.unregister(c)
	log.Info("render client connected", "clients", h.Count())

	if data, err := h.buildMessage(ctx); err == nil {
		h.mu.RLock()
		if _, ok := h.clients[c]; ok {
			select {
			case c.send <- data:
			default:
			}
		}
		h.mu.RUnlock()
	}

	go c.writePump()
	c.readPump()
	log.Info("render client disconnected")
}

// Broadcast sends the current snapshot to every client. Clients whose
// buffer is full are disconnected. Safe to call concurrently with clients
// connecting and leaving.
func (h *Hub) Broadcast(ctx context.Context) {
	data, err := h.buildMessage(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to encode render snapshot", "error", err)
		return
	}

	// sends happen under the read lock so unregister cannot close a
	// channel mid-send
	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.FromContext(ctx).Warn("dropping slow render client", "client", c.id)
		h.unregister(c)
	}
}

// Snapshot builds the current render snapshot.
func (h *Hub) Snapshot(ctx context.Context) Snapshot {
	selected, _ := h.profiles.Selected()
	return BuildSnapshot(h.profiles.Profiles(), h.participants.List(ctx), selected, h.now())
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) buildMessage(ctx context.Context) ([]byte, error) {
	return json.Marshal(Message{Event: "snapshot", Data: h.Snapshot(ctx)})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// writePump forwards queued messages to the connection and sends pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only handles control frames; clients never send data.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
