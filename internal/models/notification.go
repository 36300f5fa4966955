package models

import (
	"time"

	"gorm.io/datatypes"
)

// RecipientType disambiguates notifications for users who act in both roles.
type RecipientType string

const (
	RecipientTypeClient     RecipientType = "client"
	RecipientTypeFreelancer RecipientType = "freelancer"
)

type Notification struct {
	BaseModel
	RecipientID   string         `gorm:"not null;index:idx_notifications_recipient" json:"recipient_id"`
	RecipientType RecipientType  `gorm:"type:varchar(20);not null;index:idx_notifications_recipient" json:"recipient_type"`
	Type          string         `gorm:"not null" json:"type"` // "proposal", "message", "document_upload", ...
	Title         string         `gorm:"not null" json:"title"`
	Message       string         `json:"message"`
	Data          datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"` // {"project_id": "...", "rating": 5, ...}
	IsRead        bool           `gorm:"default:false" json:"is_read"`
	ReadAt        *time.Time     `json:"read_at,omitempty"`
	// Delivered means "the write succeeded", nothing more; it is flipped
	// right after a successful insert.
	Delivered bool `gorm:"default:false" json:"delivered"`
}
