package ws

import "encoding/json"

// Event types pushed to connected clients.
const (
	EventNewMessage          = "new_message"
	EventMessagesRead        = "messages_read"
	EventConversationUpdated = "conversation_updated"
	EventNotification        = "notification"
	EventSnapshot            = "snapshot"
	EventSubscribed          = "subscribed"
	EventError               = "error"
)

// Subscription modes. A full_snapshot subscribe gets the current state of
// the channel before incremental events; incremental gets events only.
const (
	ModeFullSnapshot = "full_snapshot"
	ModeIncremental  = "incremental"
)

// Event is the envelope for every frame sent to a client.
type Event struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// clientCommand is what clients send us: subscribe/unsubscribe requests.
type clientCommand struct {
	Action  string `json:"action"` // "subscribe", "unsubscribe"
	Channel string `json:"channel"`
	Mode    string `json:"mode,omitempty"` // full_snapshot (default), incremental
}

// envelope is the cross-instance wire format on the Redis channel.
type envelope struct {
	UserID string          `json:"user_id"`
	Event  json.RawMessage `json:"event"`
}
