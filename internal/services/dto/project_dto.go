package dto

import (
	"time"

	"studlance_backend/internal/models"
)

type CreateProjectRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"required,min=10,max=10000"`
	Category    string     `json:"category" validate:"max=100"`
	Budget      float64    `json:"budget" validate:"required,gt=0"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type UpdateProjectRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,min=10,max=10000"`
	Category    *string    `json:"category,omitempty" validate:"omitempty,max=100"`
	Budget      *float64   `json:"budget,omitempty" validate:"omitempty,gt=0"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type ProjectListQuery struct {
	PageQuery
	Status    string  `form:"status" validate:"omitempty,oneof=open in_progress delivered completed cancelled"`
	Category  string  `form:"category"`
	Search    string  `form:"search"`
	MinBudget float64 `form:"min_budget"`
	MaxBudget float64 `form:"max_budget"`
}

type ProjectListResponse struct {
	Projects   []models.Project `json:"projects"`
	Pagination Pagination       `json:"pagination"`
}

// CompleteProjectRequest closes out a delivered project and leaves the
// review in the same call.
type CompleteProjectRequest struct {
	Rating  int    `json:"rating" validate:"required,rating"`
	Comment string `json:"comment" validate:"max=2000"`
}

type TimelineUpdateRequest struct {
	Message   string `json:"message" validate:"required,min=1,max=2000"`
	Milestone string `json:"milestone" validate:"omitempty,max=200"`
}
