package dto

import "studlance_backend/internal/models"

type ReviewListResponse struct {
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
	Pagination    Pagination      `json:"pagination"`
}
