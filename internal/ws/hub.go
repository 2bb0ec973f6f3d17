package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tegami/tegami-backend/internal/domain"
	pkglogger "github.com/tegami/tegami-backend/pkg/logger"
)

const redisPubSubChannel = "tegami:notifications"

// Hub fans notifications out to the websocket clients of each user.
// With Redis, events published on one instance reach clients on every instance.
type Hub struct {
	// connected clients grouped by user id
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *domain.Notification

	mu          sync.RWMutex
	instanceID  string
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

type redisMessage struct {
	Origin       string               `json:"origin"`
	Notification *domain.Notification `json:"notification"`
}

// NewHub creates a new Hub. redisClient may be nil for a single instance.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *domain.Notification, 256),
		instanceID:  uuid.NewString(),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main loop; it returns after Stop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case n := <-h.broadcast:
			h.deliver(n)

		case <-h.ctx.Done():
			h.mu.Lock()
			for _, clients := range h.clients {
				for client := range clients {
					h.remove(client)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// remove drops a client; caller holds mu
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) deliver(n *domain.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("type", n.Type).Msg("notification marshal failed")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[n.UserID] {
		select {
		case client.send <- data:
		default:
			// slow consumer
			h.remove(client)
		}
	}
}

// Notify delivers n to the user's local clients and publishes it to other instances
func (h *Hub) Notify(n domain.Notification) {
	select {
	case h.broadcast <- &n:
	case <-h.ctx.Done():
		return
	default:
		pkglogger.GetLogger().Warn().Str("type", n.Type).Str("user_id", n.UserID).Msg("notification dropped, hub busy")
	}

	if h.redisClient != nil {
		data, err := json.Marshal(&redisMessage{Origin: h.instanceID, Notification: &n})
		if err == nil {
			if err := h.redisClient.Publish(h.ctx, redisPubSubChannel, data).Err(); err != nil {
				pkglogger.GetLogger().Warn().Err(err).Msg("notification publish failed")
			}
		}
	}
}

// Connected returns how many clients the user has on this instance
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// subscribeRedis relays notifications published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm redisMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err != nil || rm.Notification == nil {
				continue
			}
			if rm.Origin == h.instanceID {
				continue
			}
			select {
			case h.broadcast <- rm.Notification:
			case <-h.ctx.Done():
				return
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop shuts the hub down and closes every client
func (h *Hub) Stop() {
	h.cancel()
}
