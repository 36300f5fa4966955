package repositories

import (
	"studlance_backend/internal/models"

	"gorm.io/gorm"
)

type DocumentRepository struct{}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{}
}

func (r *DocumentRepository) Create(db *gorm.DB, doc *models.Document) error {
	return db.Create(doc).Error
}

func (r *DocumentRepository) GetByID(db *gorm.DB, id string) (*models.Document, error) {
	var doc models.Document
	if err := db.First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) ListByProject(db *gorm.DB, projectID string, kind models.DocumentKind) ([]models.Document, error) {
	query := db.Where("project_id = ?", projectID)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var docs []models.Document
	err := query.Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Document{}, "id = ?", id).Error
}
