package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"studlance_backend/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one websocket connection belonging to an authenticated user.
type Client struct {
	manager *Manager
	conn    *websocket.Conn
	userID  string
	send    chan []byte

	mu       sync.RWMutex
	channels map[string]bool
}

func NewClient(manager *Manager, conn *websocket.Conn, userID string) *Client {
	return &Client{
		manager:  manager,
		conn:     conn,
		userID:   userID,
		send:     make(chan []byte, sendBufferSize),
		channels: make(map[string]bool),
	}
}

// Start registers the client and runs both pumps. Blocks until the read
// pump exits.
func (c *Client) Start() {
	c.manager.register <- c
	go c.writePump()
	c.readPump()
}

// subscribedTo reports whether the client should receive events on channel.
// Events without a channel go to every connection of the user.
func (c *Client) subscribedTo(channel string) bool {
	if channel == "" {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channels[channel]
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.GetLogger().Debug("ws read error",
					slog.String("user_id", c.userID),
					slog.String("error", err.Error()))
			}
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			c.sendEvent(Event{Type: EventError, Payload: "malformed command"})
			continue
		}
		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd clientCommand) {
	switch cmd.Action {
	case "subscribe":
		if cmd.Channel == "" {
			c.sendEvent(Event{Type: EventError, Payload: "channel is required"})
			return
		}

		mode := cmd.Mode
		if mode == "" {
			mode = ModeFullSnapshot
		}
		if mode != ModeFullSnapshot && mode != ModeIncremental {
			c.sendEvent(Event{Type: EventError, Channel: cmd.Channel, Payload: "unknown mode"})
			return
		}

		c.mu.Lock()
		c.channels[cmd.Channel] = true
		c.mu.Unlock()

		c.sendEvent(Event{Type: EventSubscribed, Channel: cmd.Channel})

		// Same contract for every channel: snapshot first when asked, then
		// incremental events.
		if mode == ModeFullSnapshot && c.manager.snapshot != nil {
			state, err := c.manager.snapshot(context.Background(), c.userID, cmd.Channel)
			if err != nil {
				c.sendEvent(Event{Type: EventError, Channel: cmd.Channel, Payload: "snapshot unavailable"})
				return
			}
			c.sendEvent(Event{Type: EventSnapshot, Channel: cmd.Channel, Payload: state})
		}

	case "unsubscribe":
		c.mu.Lock()
		delete(c.channels, cmd.Channel)
		c.mu.Unlock()

	default:
		c.sendEvent(Event{Type: EventError, Payload: "unknown action"})
	}
}

func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) writePump() {
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
