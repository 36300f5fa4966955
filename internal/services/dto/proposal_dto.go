package dto

import "studlance_backend/internal/models"

type SubmitProposalRequest struct {
	ProjectID    string  `json:"project_id" validate:"required,uuid"`
	CoverLetter  string  `json:"cover_letter" validate:"required,min=10,max=5000"`
	BidAmount    float64 `json:"bid_amount" validate:"required,gt=0"`
	DeliveryDays int     `json:"delivery_days" validate:"required,gt=0"`
}

type ProposalListResponse struct {
	Proposals  []models.Proposal `json:"proposals"`
	Pagination Pagination        `json:"pagination"`
}
