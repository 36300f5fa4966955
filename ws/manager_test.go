package ws

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Fan-out and disconnects race by design: handler goroutines send while
// the registry closes channels. Neither side may panic.
func TestFanoutDuringDisconnects(t *testing.T) {
	m := NewManager(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	const users = 50
	const connsPerUser = 4

	clients := make([]*Client, 0, users*connsPerUser)
	for i := 0; i < users; i++ {
		userID := fmt.Sprintf("user-%d", i)
		for j := 0; j < connsPerUser; j++ {
			client := NewClient(m, nil, userID)
			m.register <- client
			clients = append(clients, client)
		}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			for i := 0; i < users; i++ {
				m.SendToUser(fmt.Sprintf("user-%d", i), Event{Type: EventNotification, Payload: "ping"})
			}
		}
	}()

	for _, client := range clients {
		m.unregister <- client
	}
	close(done)
	wg.Wait()

	assert.Eventually(t, func() bool {
		return m.ConnectedUsers() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSendToUserWithoutConnections(t *testing.T) {
	m := NewManager(nil)
	// no Run, no clients: must be a no-op, not a block or panic
	m.SendToUser("nobody", Event{Type: EventNotification, Payload: "ping"})
	assert.Equal(t, 0, m.ConnectedUsers())
}

func TestSubscriptionFiltersChannels(t *testing.T) {
	m := NewManager(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	client := NewClient(m, nil, "user-1")
	m.register <- client

	client.mu.Lock()
	client.channels[ConversationChannel("conv-1")] = true
	client.mu.Unlock()

	// unsubscribed channel is dropped, subscribed and channel-less get through
	m.SendToUser("user-1", Event{Type: EventNewMessage, Channel: ConversationChannel("conv-2"), Payload: "other"})
	m.SendToUser("user-1", Event{Type: EventNewMessage, Channel: ConversationChannel("conv-1"), Payload: "mine"})
	m.SendToUser("user-1", Event{Type: EventNotification, Payload: "broadcast"})

	assert.Eventually(t, func() bool {
		return len(client.send) == 2
	}, time.Second, 10*time.Millisecond)
}
