package chat

import "time"

const (
	MessageTypeText   = "text"
	MessageTypeSystem = "system"
	MessageTypeFile   = "file"
	MessageTypeVoice  = "voice"
)

// Message is immutable once created, except for the read flag.
type Message struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ConversationID string `gorm:"index;not null" json:"conversation_id"`
	SenderID       string `gorm:"index;not null" json:"sender_id"`
	// ReceiverID is derived from the conversation's participant pair at send
	// time; the participant rows stay authoritative.
	ReceiverID string `gorm:"index;not null" json:"receiver_id"`
	Type       string `gorm:"default:'text'" json:"type"`
	Content    string `gorm:"type:text" json:"content"`

	AttachmentURL  *string `json:"attachment_url,omitempty"`
	AttachmentName *string `json:"attachment_name,omitempty"`
	AttachmentType *string `json:"attachment_type,omitempty"`
	AttachmentSize *int64  `json:"attachment_size,omitempty"`

	// Optional reference to the proposal a message was sent about.
	ProposalID *string `gorm:"index" json:"proposal_id,omitempty"`

	IsRead    bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Message) TableName() string {
	return "chat.messages"
}
