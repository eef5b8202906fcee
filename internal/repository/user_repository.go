package repository

import (
	"context"

	"github.com/tumbluv/tumbluv-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FirstOrCreateByEmail returns the existing user or creates one from attrs
func (r *GormUserRepository) FirstOrCreateByEmail(ctx context.Context, email string, attrs models.User) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where(models.User{Email: email}).
		Attrs(attrs).
		FirstOrCreate(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
