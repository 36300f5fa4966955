package models

import "gorm.io/datatypes"

// ClientProfile is the role-specific registration record for clients.
// Its existence is what marks client registration as completed.
type ClientProfile struct {
	BaseModel
	UserID      string `gorm:"uniqueIndex;not null" json:"user_id"`
	CompanyName string `json:"company_name"`
	ContactName string `gorm:"not null" json:"contact_name"`
	City        string `json:"city"`
	Website     string `json:"website"`
	About       string `gorm:"type:text" json:"about"`
	AvatarURL   string `json:"avatar_url"`
}

// FreelancerProfile is the role-specific registration record for student
// freelancers.
type FreelancerProfile struct {
	BaseModel
	UserID      string         `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName string         `gorm:"not null" json:"display_name"`
	University  string         `json:"university"`
	Major       string         `json:"major"`
	Skills      datatypes.JSON `gorm:"type:jsonb" json:"skills"` // ["golang", "design", ...]
	HourlyRate  float64        `json:"hourly_rate"`
	City        string         `json:"city"`
	Bio         string         `gorm:"type:text" json:"bio"`
	AvatarURL   string         `json:"avatar_url"`
}
