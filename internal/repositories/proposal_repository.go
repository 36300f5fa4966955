package repositories

import (
	"studlance_backend/internal/models"

	"gorm.io/gorm"
)

type ProposalRepository struct{}

func NewProposalRepository() *ProposalRepository {
	return &ProposalRepository{}
}

func (r *ProposalRepository) Create(db *gorm.DB, proposal *models.Proposal) error {
	return db.Create(proposal).Error
}

func (r *ProposalRepository) GetByID(db *gorm.DB, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := db.First(&proposal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepository) ListByProject(db *gorm.DB, projectID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := db.
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}

func (r *ProposalRepository) ListByFreelancer(db *gorm.DB, freelancerID string, limit, offset int) ([]models.Proposal, int64, error) {
	query := db.Model(&models.Proposal{}).Where("freelancer_id = ?", freelancerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var proposals []models.Proposal
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&proposals).Error
	if err != nil {
		return nil, 0, err
	}

	return proposals, total, nil
}

func (r *ProposalRepository) ExistsForProjectAndFreelancer(db *gorm.DB, projectID, freelancerID string) (bool, error) {
	var count int64
	err := db.Model(&models.Proposal{}).
		Where("project_id = ? AND freelancer_id = ?", projectID, freelancerID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProposalRepository) UpdateStatus(db *gorm.DB, id string, status models.ProposalStatus) error {
	return db.Model(&models.Proposal{}).Where("id = ?", id).Update("status", status).Error
}

// RejectSiblings rejects every other pending proposal on the project when
// one is accepted.
func (r *ProposalRepository) RejectSiblings(db *gorm.DB, projectID, acceptedID string) error {
	return db.Model(&models.Proposal{}).
		Where("project_id = ? AND id <> ? AND status = ?", projectID, acceptedID, models.ProposalStatusPending).
		Update("status", models.ProposalStatusRejected).Error
}

func (r *ProposalRepository) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Proposal{}, "id = ?", id).Error
}
