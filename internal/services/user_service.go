package services

import (
	"encoding/json"
	"errors"

	"studlance_backend/internal/models"
	"studlance_backend/internal/repositories"
	"studlance_backend/internal/services/dto"
	"studlance_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo *repositories.UserRepository
}

func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetMe returns the user with the derived onboarding flags. The flags are
// computed from relational state on every call, never stored.
func (s *UserService) GetMe(db *gorm.DB, userID string) (*dto.MeResponse, error) {
	user, err := s.userRepo.GetByIDWithProfiles(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	registrationCompleted, profileCompleted := completionFlags(user)

	return &dto.MeResponse{
		User:                  user,
		RegistrationCompleted: registrationCompleted,
		ProfileCompleted:      profileCompleted,
	}, nil
}

func (s *UserService) GetByID(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithProfiles(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// completionFlags derives onboarding state. Registration is completed once
// the role profile row exists; the profile counts as completed when its
// descriptive fields are filled in.
func completionFlags(user *models.User) (registrationCompleted, profileCompleted bool) {
	switch user.Role {
	case models.UserRoleClient:
		if user.ClientProfile == nil {
			return false, false
		}
		p := user.ClientProfile
		return true, p.ContactName != "" && p.About != ""

	case models.UserRoleFreelancer:
		if user.FreelancerProfile == nil {
			return false, false
		}
		p := user.FreelancerProfile
		return true, p.DisplayName != "" && p.Bio != "" && len(skillList(p.Skills)) > 0

	default:
		// admins have no onboarding
		return true, true
	}
}

func skillList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var skills []string
	if err := json.Unmarshal(raw, &skills); err != nil {
		return nil
	}
	return skills
}

// DisplayNameFor resolves the name and avatar to show for a user in chat
// lists, preferring the role profile over the account name.
func DisplayNameFor(user *models.User) (name, avatar string) {
	switch {
	case user.Role == models.UserRoleFreelancer && user.FreelancerProfile != nil:
		return user.FreelancerProfile.DisplayName, user.FreelancerProfile.AvatarURL
	case user.Role == models.UserRoleClient && user.ClientProfile != nil:
		name = user.ClientProfile.ContactName
		if user.ClientProfile.CompanyName != "" {
			name = user.ClientProfile.CompanyName
		}
		return name, user.ClientProfile.AvatarURL
	default:
		return user.Name, ""
	}
}
