package repositories

import (
	"time"

	"studlance_backend/internal/models"

	"gorm.io/gorm"
)

type ProjectRepository struct{}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{}
}

// ProjectFilter narrows project listings. Zero values mean "no filter".
type ProjectFilter struct {
	Status       models.ProjectStatus
	Category     string
	ClientID     string
	FreelancerID string
	Search       string
	MinBudget    float64
	MaxBudget    float64
}

func (r *ProjectRepository) Create(db *gorm.DB, project *models.Project) error {
	return db.Create(project).Error
}

func (r *ProjectRepository) GetByID(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) GetByIDWithProposals(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	err := db.
		Preload("Proposals", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC")
		}).
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) List(db *gorm.DB, filter ProjectFilter, limit, offset int) ([]models.Project, int64, error) {
	query := db.Model(&models.Project{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.FreelancerID != "" {
		query = query.Where("freelancer_id = ?", filter.FreelancerID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if filter.MinBudget > 0 {
		query = query.Where("budget >= ?", filter.MinBudget)
	}
	if filter.MaxBudget > 0 {
		query = query.Where("budget <= ?", filter.MaxBudget)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *ProjectRepository) Update(db *gorm.DB, project *models.Project) error {
	return db.Save(project).Error
}

func (r *ProjectRepository) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Project{}, "id = ?", id).Error
}

// Hire assigns the freelancer and moves the project to in_progress in one
// update.
func (r *ProjectRepository) Hire(db *gorm.DB, projectID, freelancerID string) error {
	now := time.Now()
	return db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"freelancer_id": freelancerID,
			"status":        models.ProjectStatusInProgress,
			"hired_at":      now,
		}).Error
}

func (r *ProjectRepository) SetStatus(db *gorm.DB, projectID string, status models.ProjectStatus, timestampColumn string) error {
	updates := map[string]interface{}{"status": status}
	if timestampColumn != "" {
		updates[timestampColumn] = time.Now()
	}
	return db.Model(&models.Project{}).Where("id = ?", projectID).Updates(updates).Error
}
