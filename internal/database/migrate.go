package database

import (
	"fmt"

	"studlance_backend/internal/models"
	"studlance_backend/internal/models/chat"

	"gorm.io/gorm"
)

// Migrate creates the schema for every model. It is the only provisioning
// path; there are no ad hoc setup endpoints.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}
	if err := db.Exec(`CREATE SCHEMA IF NOT EXISTS chat`).Error; err != nil {
		return fmt.Errorf("failed to create chat schema: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.ClientProfile{},
		&models.FreelancerProfile{},
		&models.Project{},
		&models.Proposal{},
		&models.Review{},
		&models.Notification{},
		&models.Document{},
		&chat.Conversation{},
		&chat.ConversationParticipant{},
		&chat.Message{},
	)
}
