package services

import (
	"encoding/json"
	"errors"

	"studlance_backend/internal/models"
	"studlance_backend/internal/repositories"
	"studlance_backend/internal/services/dto"
	"studlance_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileService struct {
	profileRepo *repositories.ProfileRepository
	userRepo    *repositories.UserRepository
}

func NewProfileService(profileRepo *repositories.ProfileRepository, userRepo *repositories.UserRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

// CreateClientProfile finishes client registration. Only one profile per
// user; creating twice is a conflict.
func (s *ProfileService) CreateClientProfile(db *gorm.DB, userID string, req *dto.ClientProfileRequest) (*models.ClientProfile, error) {
	user, err := s.userRepo.GetByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if user.Role != models.UserRoleClient {
		return nil, apperrors.ErrInvalidUserRole
	}

	profile := &models.ClientProfile{
		UserID:      userID,
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		City:        req.City,
		Website:     req.Website,
		About:       req.About,
		AvatarURL:   req.AvatarURL,
	}
	if err := s.profileRepo.CreateClientProfile(db, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrConflict(err, "profile", "Client profile already exists")
		}
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *ProfileService) UpdateClientProfile(db *gorm.DB, userID string, req *dto.ClientProfileRequest) (*models.ClientProfile, error) {
	profile, err := s.profileRepo.GetClientProfile(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	profile.CompanyName = req.CompanyName
	profile.ContactName = req.ContactName
	profile.City = req.City
	profile.Website = req.Website
	profile.About = req.About
	profile.AvatarURL = req.AvatarURL

	if err := s.profileRepo.UpdateClientProfile(db, profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *ProfileService) GetClientProfile(db *gorm.DB, userID string) (*models.ClientProfile, error) {
	profile, err := s.profileRepo.GetClientProfile(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

// CreateFreelancerProfile finishes freelancer registration.
func (s *ProfileService) CreateFreelancerProfile(db *gorm.DB, userID string, req *dto.FreelancerProfileRequest) (*models.FreelancerProfile, error) {
	user, err := s.userRepo.GetByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if user.Role != models.UserRoleFreelancer {
		return nil, apperrors.ErrInvalidUserRole
	}

	skills, err := marshalSkills(req.Skills)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	profile := &models.FreelancerProfile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		University:  req.University,
		Major:       req.Major,
		Skills:      skills,
		HourlyRate:  req.HourlyRate,
		City:        req.City,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	}
	if err := s.profileRepo.CreateFreelancerProfile(db, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrConflict(err, "profile", "Freelancer profile already exists")
		}
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *ProfileService) UpdateFreelancerProfile(db *gorm.DB, userID string, req *dto.FreelancerProfileRequest) (*models.FreelancerProfile, error) {
	profile, err := s.profileRepo.GetFreelancerProfile(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	skills, err := marshalSkills(req.Skills)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	profile.DisplayName = req.DisplayName
	profile.University = req.University
	profile.Major = req.Major
	profile.Skills = skills
	profile.HourlyRate = req.HourlyRate
	profile.City = req.City
	profile.Bio = req.Bio
	profile.AvatarURL = req.AvatarURL

	if err := s.profileRepo.UpdateFreelancerProfile(db, profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *ProfileService) GetFreelancerProfile(db *gorm.DB, userID string) (*models.FreelancerProfile, error) {
	profile, err := s.profileRepo.GetFreelancerProfile(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *ProfileService) ListFreelancers(db *gorm.DB, query *dto.PageQuery) (*dto.FreelancerListResponse, error) {
	query.Normalize()

	profiles, total, err := s.profileRepo.ListFreelancerProfiles(db, query.Limit(), query.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.FreelancerListResponse{
		Freelancers: profiles,
		Pagination: dto.Pagination{
			Page:    query.Page,
			PerPage: query.PerPage,
			Total:   total,
		},
	}, nil
}

func marshalSkills(skills []string) (datatypes.JSON, error) {
	if skills == nil {
		skills = []string{}
	}
	raw, err := json.Marshal(skills)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
