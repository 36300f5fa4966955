package dto

import (
	"time"

	chatmodels "studlance_backend/internal/models/chat"
)

type GetOrCreateConversationRequest struct {
	OtherUserID string `json:"other_user_id" validate:"required,uuid"`
	ProjectID   string `json:"project_id,omitempty" validate:"omitempty,uuid"`
}

type SendMessageRequest struct {
	Content        string  `json:"content" validate:"required_without=AttachmentURL,max=10000"`
	Type           string  `json:"type,omitempty" validate:"omitempty,oneof=text system file voice"`
	AttachmentURL  *string `json:"attachment_url,omitempty"`
	AttachmentName *string `json:"attachment_name,omitempty"`
	AttachmentType *string `json:"attachment_type,omitempty"`
	AttachmentSize *int64  `json:"attachment_size,omitempty"`
	ProposalID     *string `json:"proposal_id,omitempty" validate:"omitempty,uuid"`
}

// ConversationView is a conversation as seen by one participant: the other
// party's display info plus this participant's own unread counter.
type ConversationView struct {
	ID                  string     `json:"id"`
	OtherUserID         string     `json:"other_user_id"`
	OtherUserName       string     `json:"other_user_name"`
	OtherUserRole       string     `json:"other_user_role"`
	OtherUserAvatarURL  string     `json:"other_user_avatar_url"`
	CurrentProjectID    *string    `json:"current_project_id,omitempty"`
	CurrentProjectTitle *string    `json:"current_project_title,omitempty"`
	AssociatedProjects  []string   `json:"associated_projects"`
	LastMessageText     string     `json:"last_message_text"`
	LastMessageSenderID string     `json:"last_message_sender_id"`
	LastMessageAt       *time.Time `json:"last_message_at,omitempty"`
	UnreadCount         int        `json:"unread_count"`
	CreatedAt           time.Time  `json:"created_at"`
}

type MessageListQuery struct {
	PageQuery
}

type MessageListResponse struct {
	Messages   []chatmodels.Message `json:"messages"`
	Pagination Pagination           `json:"pagination"`
}

type MarkReadResponse struct {
	MarkedCount int64 `json:"marked_count"`
}
