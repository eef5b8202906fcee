package repository

import (
	"context"

	"github.com/tumbluv/tumbluv-api/internal/models"
	"gorm.io/gorm"
)

// GormVerificationRepository is a GORM implementation of VerificationRepository
type GormVerificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new VerificationRepository
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &GormVerificationRepository{db: db}
}

// Replace deletes earlier codes for the email and stores the new one atomically
func (r *GormVerificationRepository) Replace(ctx context.Context, verification *models.Verification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", verification.Email).Delete(&models.Verification{}).Error; err != nil {
			return err
		}
		return tx.Create(verification).Error
	})
}

func (r *GormVerificationRepository) FindLatest(ctx context.Context, email string) (*models.Verification, error) {
	var verification models.Verification
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("id DESC").
		First(&verification).Error; err != nil {
		return nil, err
	}
	return &verification, nil
}

func (r *GormVerificationRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Verification{}, id).Error
}
