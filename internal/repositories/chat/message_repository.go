package chat

import (
	"time"

	chatmodels "studlance_backend/internal/models/chat"

	"gorm.io/gorm"
)

type MessageRepository struct{}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) Create(db *gorm.DB, msg *chatmodels.Message) error {
	return db.Create(msg).Error
}

func (r *MessageRepository) GetByID(db *gorm.DB, id string) (*chatmodels.Message, error) {
	var msg chatmodels.Message
	if err := db.First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByConversation pages through a conversation's history, oldest first so
// clients can append.
func (r *MessageRepository) ListByConversation(db *gorm.DB, conversationID string, limit, offset int) ([]chatmodels.Message, int64, error) {
	query := db.Model(&chatmodels.Message{}).Where("conversation_id = ?", conversationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []chatmodels.Message
	err := query.
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// ListLatest returns the newest limit messages of a conversation in
// ascending order, for snapshot subscribes.
func (r *MessageRepository) ListLatest(db *gorm.DB, conversationID string, limit int) ([]chatmodels.Message, error) {
	var messages []chatmodels.Message
	err := db.
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ListSince returns messages newer than a point in time, for incremental
// subscriptions.
func (r *MessageRepository) ListSince(db *gorm.DB, conversationID string, since time.Time) ([]chatmodels.Message, error) {
	var messages []chatmodels.Message
	err := db.
		Where("conversation_id = ? AND created_at > ?", conversationID, since).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// MarkRead flags every message addressed to the reader as read. Called in
// the same transaction that resets the unread counter so the flag and the
// counter cannot drift.
func (r *MessageRepository) MarkRead(db *gorm.DB, conversationID, readerID string) (int64, error) {
	now := time.Now()
	res := db.Model(&chatmodels.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = false", conversationID, readerID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return res.RowsAffected, res.Error
}

func (r *MessageRepository) CountUnread(db *gorm.DB, conversationID, readerID string) (int64, error) {
	var count int64
	err := db.Model(&chatmodels.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = false", conversationID, readerID).
		Count(&count).Error
	return count, err
}
