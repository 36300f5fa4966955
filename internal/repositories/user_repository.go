package repositories

import (
	"time"

	"studlance_backend/internal/models"

	"gorm.io/gorm"
)

// UserRepository is stateless; the gorm handle comes from the caller so
// services can pass transactions through.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func (r *UserRepository) GetByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByIDWithProfiles(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.
		Preload("ClientProfile").
		Preload("FreelancerProfile").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *UserRepository) UpdateStatus(db *gorm.DB, id string, status models.UserStatus) error {
	return db.Model(&models.User{}).Where("id = ?", id).Update("status", status).Error
}

func (r *UserRepository) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) CountByRole(db *gorm.DB, role models.UserRole) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// ---- refresh tokens ----

func (r *UserRepository) CreateRefreshToken(db *gorm.DB, token *models.RefreshToken) error {
	return db.Create(token).Error
}

func (r *UserRepository) GetRefreshToken(db *gorm.DB, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := db.First(&rt, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *UserRepository) DeleteRefreshToken(db *gorm.DB, token string) error {
	return db.Delete(&models.RefreshToken{}, "token = ?", token).Error
}

func (r *UserRepository) DeleteExpiredRefreshTokens(db *gorm.DB) (int64, error) {
	res := db.Delete(&models.RefreshToken{}, "expires_at < ?", time.Now())
	return res.RowsAffected, res.Error
}
