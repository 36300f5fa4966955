package chat

import (
	"time"

	"gorm.io/datatypes"
)

// Conversation is a persistent two-party thread. The participant pair is
// stored in lexicographic order behind a unique index, so there can be at
// most one conversation per unordered pair of users.
type Conversation struct {
	ID string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`

	ParticipantLowID  string `gorm:"not null;uniqueIndex:idx_conversation_pair" json:"participant_low_id"`
	ParticipantHighID string `gorm:"not null;uniqueIndex:idx_conversation_pair" json:"participant_high_id"`

	// Project context. CurrentProject* is the project the conversation was
	// most recently opened for; AssociatedProjects accumulates every project
	// id the pair has talked about.
	CurrentProjectID    *string        `gorm:"index" json:"current_project_id,omitempty"`
	CurrentProjectTitle *string        `json:"current_project_title,omitempty"`
	AssociatedProjects  datatypes.JSON `gorm:"type:jsonb" json:"associated_projects,omitempty"` // ["uuid", ...]

	// Denormalized preview of the newest message.
	LastMessageText     string     `json:"last_message_text"`
	LastMessageSenderID string     `json:"last_message_sender_id"`
	LastMessageAt       *time.Time `json:"last_message_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
}

func (Conversation) TableName() string {
	return "chat.conversations"
}

// PairKey returns the normalized (low, high) ordering for two user ids.
func PairKey(userA, userB string) (low, high string) {
	if userA < userB {
		return userA, userB
	}
	return userB, userA
}
