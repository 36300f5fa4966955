package repositories

import (
	"studlance_backend/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository struct{}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{}
}

func (r *ProfileRepository) CreateClientProfile(db *gorm.DB, profile *models.ClientProfile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepository) GetClientProfile(db *gorm.DB, userID string) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	if err := db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) UpdateClientProfile(db *gorm.DB, profile *models.ClientProfile) error {
	return db.Save(profile).Error
}

func (r *ProfileRepository) CreateFreelancerProfile(db *gorm.DB, profile *models.FreelancerProfile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepository) GetFreelancerProfile(db *gorm.DB, userID string) (*models.FreelancerProfile, error) {
	var profile models.FreelancerProfile
	if err := db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) UpdateFreelancerProfile(db *gorm.DB, profile *models.FreelancerProfile) error {
	return db.Save(profile).Error
}

// ListFreelancerProfiles returns profiles for the freelancer directory,
// newest first.
func (r *ProfileRepository) ListFreelancerProfiles(db *gorm.DB, limit, offset int) ([]models.FreelancerProfile, int64, error) {
	var profiles []models.FreelancerProfile
	var total int64

	if err := db.Model(&models.FreelancerProfile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}
