package ws

import "strings"

// Channel names. Conversation channels carry chat events for one thread;
// the notifications channel carries the user's notification stream.
const (
	ChannelNotifications      = "notifications"
	conversationChannelPrefix = "conversation:"
)

func ConversationChannel(conversationID string) string {
	return conversationChannelPrefix + conversationID
}

// ParseConversationChannel returns the conversation id, or "" if the
// channel is not a conversation channel.
func ParseConversationChannel(channel string) string {
	if !strings.HasPrefix(channel, conversationChannelPrefix) {
		return ""
	}
	return strings.TrimPrefix(channel, conversationChannelPrefix)
}
