package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationChannelRoundtrip(t *testing.T) {
	channel := ConversationChannel("abc-123")
	assert.Equal(t, "conversation:abc-123", channel)
	assert.Equal(t, "abc-123", ParseConversationChannel(channel))
}

func TestParseConversationChannelRejectsOthers(t *testing.T) {
	assert.Equal(t, "", ParseConversationChannel(ChannelNotifications))
	assert.Equal(t, "", ParseConversationChannel("random"))
}
