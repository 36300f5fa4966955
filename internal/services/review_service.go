package services

import (
	"studlance_backend/internal/repositories"
	"studlance_backend/internal/services/dto"
	"studlance_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService struct {
	reviewRepo *repositories.ReviewRepository
}

func NewReviewService(reviewRepo *repositories.ReviewRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo}
}

// ListByFreelancer returns a freelancer's reviews with the running average.
func (s *ReviewService) ListByFreelancer(db *gorm.DB, freelancerID string, query *dto.PageQuery) (*dto.ReviewListResponse, error) {
	query.Normalize()

	reviews, total, err := s.reviewRepo.ListByFreelancer(db, freelancerID, query.Limit(), query.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	avg, _, err := s.reviewRepo.AverageRating(db, freelancerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ReviewListResponse{
		Reviews:       reviews,
		AverageRating: avg,
		Pagination: dto.Pagination{
			Page:    query.Page,
			PerPage: query.PerPage,
			Total:   total,
		},
	}, nil
}
