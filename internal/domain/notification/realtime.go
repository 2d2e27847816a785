package notification

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// userEventsChannel fans notification pushes out to every API instance
const userEventsChannel = "notifications:user_events"

type userEventMessage struct {
	UserID           int64           `json:"user_id"`
	Payload          json.RawMessage `json:"payload"`
	SenderInstanceID string          `json:"sender_instance_id"`
}

// Connection represents one websocket connection
type Connection struct {
	UserID int64
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub tracks websocket connections per user. With Redis configured, pushes
// reach users connected to other instances through Pub/Sub; without it the
// hub is local-only.
type Hub struct {
	connections map[int64]map[*Connection]bool
	mu          sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	redis  *redis.Client
	pubsub *redis.PubSub

	ctx    context.Context
	cancel context.CancelFunc

	instanceID string
}

// NewHub creates the notification hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[int64]map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		redis:       redisClient,
		ctx:         ctx,
		cancel:      cancel,
		instanceID:  uuid.NewString(),
	}
	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, userEventsChannel)
	}
	return h
}

// Run starts the hub loop (call in a goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()
			log.Debug().Int64("user_id", conn.UserID).Msg("User connected to notification stream")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.connections[conn.UserID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
				}
			}
			h.mu.Unlock()
			log.Debug().Int64("user_id", conn.UserID).Msg("User disconnected from notification stream")
		}
	}
}

func (h *Hub) runSubscriber() {
	ch := h.pubsub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event userEventMessage
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			if event.SenderInstanceID == h.instanceID {
				continue
			}
			h.sendLocal(event.UserID, []byte(event.Payload))
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// SendToUserJSON pushes a payload to every active connection for the user,
// on this instance and, via Redis, on the others.
func (h *Hub) SendToUserJSON(userID int64, payload any) error {
	if h == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.sendLocal(userID, data)

	if h.redis != nil {
		event := userEventMessage{
			UserID:           userID,
			Payload:          data,
			SenderInstanceID: h.instanceID,
		}
		body, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := h.redis.Publish(h.ctx, userEventsChannel, body).Err(); err != nil {
			log.Warn().Err(err).Str("user_id", strconv.FormatInt(userID, 10)).Msg("Redis publish failed for notification push")
		}
	}
	return nil
}

func (h *Hub) sendLocal(userID int64, data []byte) {
	h.mu.RLock()
	conns, ok := h.connections[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	for conn := range conns {
		select {
		case conn.Send <- data:
		default:
			// Buffer full, drop
			log.Warn().Int64("user_id", userID).Msg("Notification send buffer full")
		}
	}
}

// ConnectionCount returns the number of local connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.connections {
		total += len(conns)
	}
	return total
}

// Shutdown stops the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
