package models

// Review is the client's rating left when completing a project.
type Review struct {
	BaseModel
	ProjectID    string `gorm:"uniqueIndex;not null" json:"project_id"`
	ClientID     string `gorm:"not null;index" json:"client_id"`
	FreelancerID string `gorm:"not null;index" json:"freelancer_id"`
	Rating       int    `gorm:"not null" json:"rating"` // 1..5
	Comment      string `gorm:"type:text" json:"comment"`
}
