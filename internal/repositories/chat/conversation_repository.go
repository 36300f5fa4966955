package chat

import (
	"errors"
	"time"

	chatmodels "studlance_backend/internal/models/chat"

	"gorm.io/gorm"
)

type ConversationRepository struct{}

func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{}
}

// GetByPair finds the conversation for an unordered pair of users.
func (r *ConversationRepository) GetByPair(db *gorm.DB, userA, userB string) (*chatmodels.Conversation, error) {
	low, high := chatmodels.PairKey(userA, userB)

	var conv chatmodels.Conversation
	err := db.
		Preload("Participants").
		First(&conv, "participant_low_id = ? AND participant_high_id = ?", low, high).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// CreatePair inserts a conversation plus both participant rows in one
// transaction. The unique pair index makes concurrent creates race-safe: the
// loser gets a duplicate-key error and re-reads.
func (r *ConversationRepository) CreatePair(db *gorm.DB, conv *chatmodels.Conversation, participants []chatmodels.ConversationParticipant) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for i := range participants {
			participants[i].ConversationID = conv.ID
			participants[i].JoinedAt = time.Now()
		}
		return tx.Create(&participants).Error
	})
}

// IsDuplicatePair reports whether err is the unique-index violation from a
// concurrent conversation create.
func IsDuplicatePair(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (r *ConversationRepository) GetByID(db *gorm.DB, id string) (*chatmodels.Conversation, error) {
	var conv chatmodels.Conversation
	err := db.
		Preload("Participants").
		First(&conv, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListByUser returns the user's conversations ordered by most recent
// activity.
func (r *ConversationRepository) ListByUser(db *gorm.DB, userID string) ([]chatmodels.Conversation, error) {
	var conversations []chatmodels.Conversation
	err := db.
		Preload("Participants").
		Where("participant_low_id = ? OR participant_high_id = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST, created_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *ConversationRepository) GetParticipant(db *gorm.DB, conversationID, userID string) (*chatmodels.ConversationParticipant, error) {
	var p chatmodels.ConversationParticipant
	err := db.First(&p, "conversation_id = ? AND user_id = ?", conversationID, userID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// IncrementUnread bumps the receiver's counter with a single UPDATE so
// concurrent sends never lose increments.
func (r *ConversationRepository) IncrementUnread(db *gorm.DB, conversationID, userID string) error {
	return db.Model(&chatmodels.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		UpdateColumn("unread_count", gorm.Expr("unread_count + 1")).Error
}

// ResetUnread zeroes the reader's counter and stamps last_read_at.
func (r *ConversationRepository) ResetUnread(db *gorm.DB, conversationID, userID string) error {
	now := time.Now()
	return db.Model(&chatmodels.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Updates(map[string]interface{}{
			"unread_count": 0,
			"last_read_at": now,
		}).Error
}

// TotalUnread sums the user's unread counters across all conversations.
func (r *ConversationRepository) TotalUnread(db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.Model(&chatmodels.ConversationParticipant{}).
		Select("COALESCE(SUM(unread_count), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total, err
}

// UpdateLastMessage refreshes the denormalized preview columns.
func (r *ConversationRepository) UpdateLastMessage(db *gorm.DB, conversationID, text, senderID string, at time.Time) error {
	return db.Model(&chatmodels.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"last_message_text":      text,
			"last_message_sender_id": senderID,
			"last_message_at":        at,
		}).Error
}

// UpdateProjectContext sets the current project and merged associated list.
func (r *ConversationRepository) UpdateProjectContext(db *gorm.DB, conversationID string, projectID, projectTitle *string, associated []byte) error {
	updates := map[string]interface{}{
		"current_project_id":    projectID,
		"current_project_title": projectTitle,
	}
	if associated != nil {
		updates["associated_projects"] = associated
	}
	return db.Model(&chatmodels.Conversation{}).
		Where("id = ?", conversationID).
		Updates(updates).Error
}

// UpdateParticipantDisplay refreshes a member's denormalized display fields.
func (r *ConversationRepository) UpdateParticipantDisplay(db *gorm.DB, conversationID, userID, displayName, avatarURL string) error {
	return db.Model(&chatmodels.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Updates(map[string]interface{}{
			"display_name": displayName,
			"avatar_url":   avatarURL,
		}).Error
}
