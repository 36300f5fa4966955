package repositories

import (
	"time"

	"studlance_backend/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(db *gorm.DB, n *models.Notification) error {
	return db.Create(n).Error
}

func (r *NotificationRepository) GetByID(db *gorm.DB, id string) (*models.Notification, error) {
	var n models.Notification
	if err := db.First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByRecipient returns a recipient's notifications newest-first. The
// recipient is keyed by id plus type so a user acting as both client and
// freelancer gets separate streams.
func (r *NotificationRepository) ListByRecipient(db *gorm.DB, recipientID string, recipientType models.RecipientType, limit, offset int) ([]models.Notification, int64, error) {
	query := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND recipient_type = ?", recipientID, recipientType)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *NotificationRepository) CountUnread(db *gorm.DB, recipientID string, recipientType models.RecipientType) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND recipient_type = ? AND is_read = false", recipientID, recipientType).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkAsRead(db *gorm.DB, id, recipientID string) error {
	now := time.Now()
	return db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

func (r *NotificationRepository) MarkAllAsRead(db *gorm.DB, recipientID string, recipientType models.RecipientType) (int64, error) {
	now := time.Now()
	res := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND recipient_type = ? AND is_read = false", recipientID, recipientType).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return res.RowsAffected, res.Error
}

// Clear removes all of a recipient's notifications.
func (r *NotificationRepository) Clear(db *gorm.DB, recipientID string, recipientType models.RecipientType) (int64, error) {
	res := db.
		Where("recipient_id = ? AND recipient_type = ?", recipientID, recipientType).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) MarkDelivered(db *gorm.DB, id string) error {
	return db.Model(&models.Notification{}).Where("id = ?", id).Update("delivered", true).Error
}

// DeleteOlderThan prunes read notifications past the retention window.
func (r *NotificationRepository) DeleteOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.
		Where("is_read = true AND created_at < ?", cutoff).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
