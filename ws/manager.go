package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"studlance_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

const redisEventChannel = "ws:events"

// SnapshotFunc resolves the current state of a channel for a full_snapshot
// subscribe. Wired at startup to the chat and notification services.
type SnapshotFunc func(ctx context.Context, userID, channel string) (interface{}, error)

// Manager tracks connected clients per user and fans events out to them.
// When Redis is configured, events are also published cross-instance so a
// user connected to another node still receives them.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool // userID -> connections

	register   chan *Client
	unregister chan *Client

	snapshot SnapshotFunc
	rdb      *redis.Client
}

func NewManager(rdb *redis.Client) *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rdb:        rdb,
	}
}

// SetSnapshotFunc must be called before Run.
func (m *Manager) SetSnapshotFunc(fn SnapshotFunc) {
	m.snapshot = fn
}

// Run owns the client registry. It exits when ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	log := logger.GetLogger()

	if m.rdb != nil {
		go m.consumeRedis(ctx)
	}

	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if m.clients[client.userID] == nil {
				m.clients[client.userID] = make(map[*Client]bool)
			}
			m.clients[client.userID][client] = true
			m.mu.Unlock()
			log.Debug("ws client connected", slog.String("user_id", client.userID))

		case client := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[client.userID]; ok {
				if conns[client] {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(m.clients, client.userID)
					}
				}
			}
			m.mu.Unlock()
			log.Debug("ws client disconnected", slog.String("user_id", client.userID))

		case <-ctx.Done():
			m.mu.Lock()
			for _, conns := range m.clients {
				for client := range conns {
					close(client.send)
				}
			}
			m.clients = make(map[string]map[*Client]bool)
			m.mu.Unlock()
			return
		}
	}
}

// SendToUser delivers an event to every connection of the user. With Redis
// configured the event goes through pub/sub so every instance (this one
// included) delivers it to its local sockets; without Redis it is delivered
// directly. Delivery is best-effort; a slow client gets dropped rather than
// blocking the caller.
func (m *Manager) SendToUser(userID string, event Event) {
	if m.rdb == nil {
		m.sendLocal(userID, event)
		return
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return
	}
	payload, err := json.Marshal(envelope{UserID: userID, Event: raw})
	if err != nil {
		return
	}
	if err := m.rdb.Publish(context.Background(), redisEventChannel, payload).Err(); err != nil {
		logger.GetLogger().Warn("ws redis publish failed", slog.String("error", err.Error()))
		m.sendLocal(userID, event)
	}
}

func (m *Manager) sendLocal(userID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	// The lock stays held across the sends: unregister closes client.send
	// under the write lock, so releasing here would race a close against
	// the send below. The sends never block.
	m.mu.RLock()
	defer m.mu.RUnlock()

	for client := range m.clients[userID] {
		if !client.subscribedTo(event.Channel) {
			continue
		}
		select {
		case client.send <- data:
		default:
			// send buffer full, drop the connection
			go func(c *Client) { m.unregister <- c }(client)
		}
	}
}

// ConnectedUsers reports how many distinct users have at least one socket.
func (m *Manager) ConnectedUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) consumeRedis(ctx context.Context) {
	log := logger.GetLogger()
	sub := m.rdb.Subscribe(ctx, redisEventChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Warn("ws redis payload unreadable", slog.String("error", err.Error()))
				continue
			}
			var event Event
			if err := json.Unmarshal(env.Event, &event); err != nil {
				continue
			}
			m.sendLocal(env.UserID, event)
		case <-ctx.Done():
			return
		}
	}
}
