package models

import "time"

type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusDelivered  ProjectStatus = "delivered"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

type Project struct {
	BaseModel
	ClientID    string        `gorm:"not null;index" json:"client_id"`
	Title       string        `gorm:"not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Category    string        `json:"category"`
	Budget      float64       `json:"budget"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
	Status      ProjectStatus `gorm:"type:varchar(20);default:'open';index" json:"status"`

	// Set when a proposal is accepted.
	FreelancerID *string    `gorm:"index" json:"freelancer_id,omitempty"`
	HiredAt      *time.Time `json:"hired_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	// Relations
	Proposals []Proposal `gorm:"foreignKey:ProjectID" json:"proposals,omitempty"`
	Documents []Document `gorm:"foreignKey:ProjectID" json:"documents,omitempty"`
}
