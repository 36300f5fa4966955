package dto

import "studlance_backend/internal/models"

type ClientProfileRequest struct {
	CompanyName string `json:"company_name" validate:"max=200"`
	ContactName string `json:"contact_name" validate:"required,min=2,max=100"`
	City        string `json:"city" validate:"max=100"`
	Website     string `json:"website" validate:"max=200"`
	About       string `json:"about" validate:"max=2000"`
	AvatarURL   string `json:"avatar_url" validate:"max=500"`
}

type FreelancerProfileRequest struct {
	DisplayName string   `json:"display_name" validate:"required,min=2,max=100"`
	University  string   `json:"university" validate:"max=200"`
	Major       string   `json:"major" validate:"max=200"`
	Skills      []string `json:"skills" validate:"max=30,dive,max=50"`
	HourlyRate  float64  `json:"hourly_rate" validate:"min=0"`
	City        string   `json:"city" validate:"max=100"`
	Bio         string   `json:"bio" validate:"max=2000"`
	AvatarURL   string   `json:"avatar_url" validate:"max=500"`
}

// MeResponse is the authenticated user plus the derived completion flags
// the frontends gate onboarding on.
type MeResponse struct {
	User                  *models.User `json:"user"`
	RegistrationCompleted bool         `json:"registration_completed"`
	ProfileCompleted      bool         `json:"profile_completed"`
}

type FreelancerListResponse struct {
	Freelancers []models.FreelancerProfile `json:"freelancers"`
	Pagination  Pagination                 `json:"pagination"`
}
