package chat

import "time"

// ConversationParticipant holds the per-member denormalized display info and
// the unread counter. The counter is only ever changed with atomic UPDATEs
// (increment on send, zero on mark-read), never read-modify-write.
type ConversationParticipant struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ConversationID string `gorm:"not null;uniqueIndex:idx_conversation_member" json:"conversation_id"`
	UserID         string `gorm:"not null;uniqueIndex:idx_conversation_member;index" json:"user_id"`

	DisplayName string `json:"display_name"`
	Role        string `json:"role"` // client, freelancer
	AvatarURL   string `json:"avatar_url"`

	UnreadCount int        `gorm:"default:0" json:"unread_count"`
	LastReadAt  *time.Time `json:"last_read_at,omitempty"`
	JoinedAt    time.Time  `json:"joined_at"`
}

func (ConversationParticipant) TableName() string {
	return "chat.conversation_participants"
}
