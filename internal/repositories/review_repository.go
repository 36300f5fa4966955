package repositories

import (
	"studlance_backend/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) Create(db *gorm.DB, review *models.Review) error {
	return db.Create(review).Error
}

func (r *ReviewRepository) GetByProject(db *gorm.DB, projectID string) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, "project_id = ?", projectID).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) ExistsForProject(db *gorm.DB, projectID string) (bool, error) {
	var count int64
	err := db.Model(&models.Review{}).Where("project_id = ?", projectID).Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepository) ListByFreelancer(db *gorm.DB, freelancerID string, limit, offset int) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{}).Where("freelancer_id = ?", freelancerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// AverageRating returns the freelancer's mean rating and review count.
func (r *ReviewRepository) AverageRating(db *gorm.DB, freelancerID string) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("freelancer_id = ?", freelancerID).
		Scan(&result).Error
	return result.Avg, result.Count, err
}
